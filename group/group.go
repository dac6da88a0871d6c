// Package group implements the additive group `Z / 2^(N·8) Z` that DPF/DCF
// shares live in, with the default element width `N = 4` (mod 2^32).
//
// This is deliberately built on the standard library only: the group is a
// plain power-of-two modulus, and Go's `uint32` arithmetic already wraps
// with exactly the right semantics (two's-complement mod 2^32). Reaching
// for a big-integer or finite-field library here would add a modulus
// reduction step that the hardware already performs for free, and would
// risk drifting from the power-of-two group the ABI's key layout commits
// to (see DESIGN.md).
package group

import "crypto/rand"

// Element is a group element of Z / 2^32 Z.
type Element = uint32

// Add returns a+b mod 2^32.
func Add(a, b Element) Element { return a + b }

// Sub returns a-b mod 2^32.
func Sub(a, b Element) Element { return a - b }

// Neg returns -a mod 2^32.
func Neg(a Element) Element { return -a }

// Random draws a cryptographically strong random group element. This is the
// CSPRNG referenced by §4.2, distinct from the tree PRG, invoked only from
// keygen.
func Random() Element {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("group: RNG failure: " + err.Error())
	}
	return FromLittleEndian(buf[:])
}

// FromLittleEndian decodes a 4-byte little-endian buffer into an Element.
func FromLittleEndian(b []byte) Element {
	_ = b[3]
	return Element(b[0]) | Element(b[1])<<8 | Element(b[2])<<16 | Element(b[3])<<24
}

// ToLittleEndian encodes an Element as 4 little-endian bytes.
func ToLittleEndian(e Element) [4]byte {
	return [4]byte{byte(e), byte(e >> 8), byte(e >> 16), byte(e >> 24)}
}

// Bit returns the ℓ-th bit of x, counting from the most significant bit
// (ℓ=0 is the MSB), matching the MSB-first tree traversal order of §4.3/§4.4.
func Bit(x Element, level int) byte {
	shift := 31 - level
	return byte((x >> uint(shift)) & 1)
}
