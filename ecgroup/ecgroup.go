// Package ecgroup is a supplementary, wide-output-group DPF variant for
// callers that need a non-zero payload wider than the core engine's 32-bit
// group — the same relationship the sycret reference shims have between
// their 32-bit "Eq"/"Le" factories and a caller-selectable element width.
//
// It adapts the secp256k1-field DPF construction of Boyle, Gilboa, Ishai,
// "Function Secret Sharing: Improvements and Extensions" (CCS '16/2018,
// https://eprint.iacr.org/2018/707.pdf) onto this module's fixed-key AES
// PRG (package prg), in place of a seed-keyed AES-CTR PRG, and onto the
// module-wide 32-level, 32-bit input domain so keys from this package and
// the core dpf/dcf packages address the same x values.
package ecgroup

import (
	secp256k1fp "github.com/consensys/gnark-crypto/ecc/secp256k1/fp"

	"fss-engine/group"
	"fss-engine/prg"
)

// Depth matches the module-wide input domain: 32 levels for a uint32 x.
const Depth = 32

// CorrectionWord is the per-level public correction baked into both keys.
type CorrectionWord struct {
	SeedCW prg.Seed
	TCWL   byte
	TCWR   byte
}

// Key is one party's wide-output DPF key. OutputCW is a secp256k1 field
// element encoded as its canonical 32-byte representation.
type Key struct {
	Party    byte
	SeedInit prg.Seed
	CW       [Depth]CorrectionWord
	OutputCW [32]byte
}

// convert maps a node seed to a secp256k1 field element via a further PRG
// pass whose output is reduced into the field.
func convert(s prg.Seed) *secp256k1fp.Element {
	wide := prg.Convert(s) // 32 pseudorandom bits derived from s
	var buf [32]byte
	buf[28] = byte(wide >> 24)
	buf[29] = byte(wide >> 16)
	buf[30] = byte(wide >> 8)
	buf[31] = byte(wide)
	e := new(secp256k1fp.Element)
	e.SetBytes(buf[:])
	return e
}

// Keygen generates a wide-group point-function key pair for secret point
// alpha (interpreted the same way as the core dpf package's alpha: the
// 32-bit value whose bits select tree branches) and non-zero payload beta,
// a secp256k1 field element the caller supplies directly rather than the
// core engine's implicit beta=1.
func Keygen(alpha group.Element, beta *secp256k1fp.Element) (keyA, keyB Key) {
	sA0 := prg.RandomSeed()
	sB0 := prg.RandomSeed()
	sA, sB := sA0, sB0
	var tA, tB byte = 0, 1

	var cw [Depth]CorrectionWord

	for level := 0; level < Depth; level++ {
		sAL, tAL, sAR, tAR := prg.Expand(sA)
		sBL, tBL, sBR, tBR := prg.Expand(sB)

		bit := group.Bit(alpha, level)

		tCWL := tAL ^ tBL
		tCWR := tAR ^ tBR
		if bit == 0 {
			tCWL ^= 1
		} else {
			tCWR ^= 1
		}

		var loseAS, loseBS prg.Seed
		if bit == 0 {
			loseAS, loseBS = sAR, sBR
		} else {
			loseAS, loseBS = sAL, sBL
		}
		sCW := prg.XOR(loseAS, loseBS)
		cw[level] = CorrectionWord{SeedCW: sCW, TCWL: tCWL, TCWR: tCWR}

		var keepAS, keepBS prg.Seed
		var keepAT, keepBT, tCWKeep byte
		if bit == 0 {
			keepAS, keepBS = sAL, sBL
			keepAT, keepBT = tAL, tBL
			tCWKeep = tCWL
		} else {
			keepAS, keepBS = sAR, sBR
			keepAT, keepBT = tAR, tBR
			tCWKeep = tCWR
		}

		if tA == 1 {
			sA = prg.XOR(keepAS, sCW)
			tA = keepAT ^ tCWKeep
		} else {
			sA, tA = keepAS, keepAT
		}
		if tB == 1 {
			sB = prg.XOR(keepBS, sCW)
			tB = keepBT ^ tCWKeep
		} else {
			sB, tB = keepBS, keepBT
		}
	}

	finalA := convert(sA)
	finalB := convert(sB)

	// outputCW = beta - finalA + finalB, negated if the final Bob control
	// bit is set.
	res := new(secp256k1fp.Element).Neg(finalA)
	res.Add(res, beta)
	res.Add(res, finalB)
	if tB == 1 {
		res.Neg(res)
	}
	outBytes := res.Bytes()

	keyA = Key{Party: 0, SeedInit: sA0, CW: cw, OutputCW: outBytes}
	keyB = Key{Party: 1, SeedInit: sB0, CW: cw, OutputCW: outBytes}
	return keyA, keyB
}

// Eval evaluates a wide-group key at point x, returning the party's share
// as a secp256k1 field element; summing both parties' shares yields beta at
// x=alpha and zero elsewhere.
func Eval(party byte, x group.Element, key Key) *secp256k1fp.Element {
	s := key.SeedInit
	t := party

	for level := 0; level < Depth; level++ {
		bit := group.Bit(x, level)
		sL, tL, sR, tR := prg.Expand(s)

		var nextS prg.Seed
		var nextT byte
		if bit == 0 {
			nextS, nextT = sL, tL
		} else {
			nextS, nextT = sR, tR
		}
		if t == 1 {
			nextS = prg.XOR(nextS, key.CW[level].SeedCW)
			if bit == 0 {
				nextT ^= key.CW[level].TCWL
			} else {
				nextT ^= key.CW[level].TCWR
			}
		}
		s, t = nextS, nextT
	}

	res := convert(s)
	if t == 1 {
		cw := new(secp256k1fp.Element).SetBytes(key.OutputCW[:])
		res.Add(res, cw)
	}
	if party == 1 {
		res.Neg(res)
	}
	return res
}

// Combine adds two parties' shares, returning the reconstructed output.
func Combine(a, b *secp256k1fp.Element) *secp256k1fp.Element {
	return new(secp256k1fp.Element).Add(a, b)
}
