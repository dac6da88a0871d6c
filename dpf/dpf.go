// Package dpf implements a Distributed Point Function: the two-party
// function secret sharing scheme for the indicator `f_α(x) = 1{x == α}`.
//
// It follows the tree-based construction of Boyle, Gilboa and Ishai,
// "Function Secret Sharing: Improvements and Extensions" (CCS '16, revised
// 2018, https://eprint.iacr.org/2018/707.pdf), fixed here to a tree depth of
// 32 (one level per bit of a `uint32` domain element) and the fixed-key AES
// PRG in package prg rather than a general-purpose one.
package dpf

import (
	"bytes"
	"encoding/gob"

	"fss-engine/group"
	"fss-engine/prg"
)

// Depth is the number of tree levels, one per bit of the Z/2^32 Z domain.
const Depth = 32

// CorrectionWord is the per-level public correction baked into both keys.
type CorrectionWord struct {
	SeedCW prg.Seed
	TCWL   byte
	TCWR   byte
}

// Key is one party's DPF key. Party is 0 (the "A" convention of §3) or 1
// ("B"); it doubles as the initial control bit t_0.
type Key struct {
	Party    byte
	AlphaSh  group.Element
	SeedInit prg.Seed
	CW       [Depth]CorrectionWord
	OutputCW group.Element
}

// Serialize gob-encodes the key, for callers that want a structured Go value
// rather than the flat ABI byte layout (see package fsskey for the latter).
func (k *Key) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(k); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize populates k from bytes produced by Serialize.
func (k *Key) Deserialize(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(k)
}

// Keygen runs the Gen algorithm of §4.3 for secret point alpha, returning
// the two parties' keys.
func Keygen(alpha group.Element) (keyA, keyB Key) {
	r := group.Random()
	alphaA := r
	alphaB := group.Sub(alpha, r)

	sA0 := prg.RandomSeed()
	sB0 := prg.RandomSeed()

	sA, sB := sA0, sB0
	var tA, tB byte = 0, 1

	var cw [Depth]CorrectionWord

	for level := 0; level < Depth; level++ {
		sAL, tAL, sAR, tAR := prg.Expand(sA)
		sBL, tBL, sBR, tBR := prg.Expand(sB)

		bit := group.Bit(alpha, level)

		// tCW on the side that diverges from alpha ("lose") re-synchronises
		// the two parties' control bits; on the side that stays on-path
		// ("keep") it is chosen so the parties' bits keep differing.
		tCWL := tAL ^ tBL
		tCWR := tAR ^ tBR
		if bit == 0 {
			tCWL ^= 1 // L is the keep side when alpha's bit is 0
		} else {
			tCWR ^= 1 // R is the keep side when alpha's bit is 1
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
		var keepAT, keepBT byte
		var tCWKeep byte
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
			sA = keepAS
			tA = keepAT
		}
		if tB == 1 {
			sB = prg.XOR(keepBS, sCW)
			tB = keepBT ^ tCWKeep
		} else {
			sB = keepBS
			tB = keepBT
		}
	}

	finalA := leafValue(sA)
	finalB := leafValue(sB)
	// beta is fixed to 1: the DPF always shares the indicator, never an
	// arbitrary non-zero payload. outputCW is chosen so that, once both
	// parties reach x=alpha (finalA and finalB are correlated exactly so
	// that this correction closes the gap to 1), share_a+share_b == 1.
	outputCW := group.Add(group.Sub(1, finalA), finalB)
	if tB == 1 {
		outputCW = group.Neg(outputCW)
	}

	keyA = Key{Party: 0, AlphaSh: alphaA, SeedInit: sA0, CW: cw, OutputCW: outputCW}
	keyB = Key{Party: 1, AlphaSh: alphaB, SeedInit: sB0, CW: cw, OutputCW: outputCW}
	return keyA, keyB
}

// Eval runs the Eval algorithm of §4.3 for party (0 or 1) at point x.
func Eval(party byte, x group.Element, key Key) group.Element {
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

	share := leafValue(s)
	if t == 1 {
		share = group.Add(share, key.OutputCW)
	}
	if party == 1 {
		share = group.Neg(share)
	}
	return share
}

// leafValue extracts the group element carried by a leaf seed: the low
// N=4 bytes, per §4.3 step 3. No further PRG pass is applied here, unlike
// the DCF's per-level value corrections in package dcf.
func leafValue(s prg.Seed) group.Element {
	return group.FromLittleEndian(s[:4])
}
