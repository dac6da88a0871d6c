// Package prg provides the fixed-key AES-based pseudorandom generator that
// drives every DPF/DCF tree traversal.
//
// Unlike a general-purpose PRG, the generator here is deliberately keyed by
// three constant, publicly known AES round keys (two for seed expansion, one
// for Convert) rather than by the seed itself: both parties must produce bit-identical expansions for the same
// seed, so the keys live process-wide and are never derived from caller
// input.
package prg

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
)

// SeedLen is the byte length of a seed carried down the evaluation tree.
const SeedLen = 16

// Seed is the 128-bit state carried along one party's path through the tree.
type Seed [SeedLen]byte

// fixed, public AES-128 round keys. They are derived once at init time from
// domain-separated labels rather than hardcoded as opaque hex, but the
// result is a process-wide constant identical across every build and every
// party — exactly as §4.1 requires.
var (
	blockL cipher.Block
	blockR cipher.Block
	blockV cipher.Block
)

func fixedBlock(label string) cipher.Block {
	key := expandLabel(label)
	block, err := aes.NewCipher(key)
	if err != nil {
		panic("prg: fixed AES key setup failed: " + err.Error())
	}
	return block
}

// expandLabel stretches a short ASCII label into a 16-byte AES-128 key using
// a fixed, public all-zero-key AES encryption of the padded label. This is
// not a KDF in any security sense — it only needs to be a deterministic,
// public, reproducible way to obtain three distinct fixed keys.
func expandLabel(label string) []byte {
	var block16 [16]byte
	copy(block16[:], label)

	zeroKeyBlock, err := aes.NewCipher(make([]byte, 16))
	if err != nil {
		panic("prg: label expansion failed: " + err.Error())
	}
	out := make([]byte, 16)
	zeroKeyBlock.Encrypt(out, block16[:])
	return out
}

func init() {
	blockL = fixedBlock("fss-engine:prg:L")
	blockR = fixedBlock("fss-engine:prg:R")
	blockV = fixedBlock("fss-engine:prg:V")
}

// Expand is the length-doubling PRG `G(s) = (sL, tL, sR, tR)` from §4.1: two
// AES encryptions of s under two fixed keys, each yielding a child seed and,
// in its low bit, the corresponding control bit. The control bit is zeroed
// out of the seed proper before the seed is reused.
func Expand(s Seed) (sL Seed, tL byte, sR Seed, tR byte) {
	var outL, outR [16]byte
	blockL.Encrypt(outL[:], s[:])
	blockR.Encrypt(outR[:], s[:])

	tL = outL[15] & 1
	tR = outR[15] & 1
	outL[15] &^= 1
	outR[15] &^= 1

	sL = Seed(outL)
	sR = Seed(outR)
	return sL, tL, sR, tR
}

// Convert derives a pseudorandom group element from a node seed, using a
// third fixed AES key domain-separated from the seed-expansion keys. It is
// used by the DCF engine's per-level value corrections (§4.4); the DPF
// engine instead uses the low bytes of the seed directly, per §4.3 step 3.
func Convert(s Seed) uint32 {
	var out [16]byte
	blockV.Encrypt(out[:], s[:])
	return uint32(out[0])<<24 | uint32(out[1])<<16 | uint32(out[2])<<8 | uint32(out[3])
}

// RandomSeed draws a cryptographically strong random 128-bit seed. This is
// the CSPRNG referenced by §4.2 and §5, distinct from the PRG above; it is
// invoked only inside keygen.
func RandomSeed() Seed {
	var s Seed
	if _, err := rand.Read(s[:]); err != nil {
		panic("prg: RNG failure: " + err.Error())
	}
	return s
}

// XOR returns the bytewise XOR of two seeds.
func XOR(a, b Seed) Seed {
	var out Seed
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}
