// Package dcf implements a Distributed Comparison Function: the two-party
// function secret sharing scheme for the indicator `f_α(x) = 1{x <= α}`.
//
// The per-level construction (seed correction word, control-bit correction
// words, and a running value accumulator corrected at every level) follows
// the DCF scheme of Boyle, Gilboa and Ishai, "Function Secret Sharing for
// Mixed-Mode and Fixed-Point Secure Computation" (EUROCRYPT '21), in the
// concrete shape exercised by the reference implementation in
// github.com/ras0q/fss2020 — transliterated here onto this module's
// fixed-key AES PRG (package prg) and Z/2^32 Z group (package group).
//
// That reference scheme computes strict "<", not the inclusive "<=" this
// package exposes: f(x) = β iff x < α. Inclusive comparison is obtained via
// the standard identity `x <= α  <=>  x < α+1`, except at the domain
// maximum where α+1 would wrap to 0 and silently flip the meaning of the
// whole function. That one value is therefore handled as a trivial
// always-true constant function instead of going through the tree at all.
package dcf

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
	SeedCW  prg.Seed
	ValueCW group.Element
	TCWL    byte
	TCWR    byte
}

// Key is one party's DCF key.
type Key struct {
	Party     byte
	AlphaSh   group.Element
	SeedInit  prg.Seed
	CW        [Depth]CorrectionWord
	OutputCW  group.Element
	AllOnes   bool // true iff alpha == 2^32-1: the tree is unused, f(x)=1 for every x
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

// Keygen runs the Gen algorithm of §4.4 for secret threshold alpha.
func Keygen(alpha group.Element) (keyA, keyB Key) {
	r := group.Random()
	alphaA := r
	alphaB := group.Sub(alpha, r)

	if alpha == 0xFFFFFFFF {
		keyA = Key{Party: 0, AlphaSh: alphaA, AllOnes: true}
		keyB = Key{Party: 1, AlphaSh: alphaB, AllOnes: true}
		return keyA, keyB
	}

	// internal threshold for the strict-"<" tree: x <= alpha  <=>  x < alpha+1
	threshold := alpha + 1

	sA0 := prg.RandomSeed()
	sB0 := prg.RandomSeed()
	sA, sB := sA0, sB0
	var tA, tB byte = 0, 1

	var cw [Depth]CorrectionWord
	var valueAcc group.Element = 0

	for level := 0; level < Depth; level++ {
		sAL, tAL, sAR, tAR := prg.Expand(sA)
		sBL, tBL, sBR, tBR := prg.Expand(sB)
		vAL, vAR := prg.Convert(sAL), prg.Convert(sAR)
		vBL, vBR := prg.Convert(sBL), prg.Convert(sBR)

		bit := group.Bit(threshold, level)

		tCWL := tAL ^ tBL
		tCWR := tAR ^ tBR
		if bit == 0 {
			tCWL ^= 1
		} else {
			tCWR ^= 1
		}

		var keepAS, loseAS, keepBS, loseBS prg.Seed
		var keepAT, keepBT byte
		var keepAV, loseAV, keepBV, loseBV group.Element
		var tCWKeep byte
		var loseIsLeft bool
		if bit == 0 {
			keepAS, loseAS = sAL, sAR
			keepBS, loseBS = sBL, sBR
			keepAT, keepBT = tAL, tBL
			keepAV, loseAV = vAL, vAR
			keepBV, loseBV = vBL, vBR
			tCWKeep = tCWL
			loseIsLeft = false
		} else {
			keepAS, loseAS = sAR, sAL
			keepBS, loseBS = sBR, sBL
			keepAT, keepBT = tAR, tBR
			keepAV, loseAV = vAR, vAL
			keepBV, loseBV = vBR, vBL
			tCWKeep = tCWR
			loseIsLeft = true
		}

		sCW := prg.XOR(loseAS, loseBS)

		// valueCW corrects the lose-side accumulator difference, adjusted
		// by the carried valueAcc so the running sum stays consistent;
		// when the lose side is the left (smaller) subtree, every x routed
		// there lies strictly below the threshold at this level, so it
		// additionally contributes the full indicator value (1).
		valueCW := group.Sub(group.Sub(loseBV, loseAV), valueAcc)
		if tB == 1 {
			valueCW = group.Neg(valueCW)
		}
		if loseIsLeft {
			contribution := group.Element(1)
			if tB == 1 {
				contribution = group.Neg(contribution)
			}
			valueCW = group.Add(valueCW, contribution)
		}

		cw[level] = CorrectionWord{SeedCW: sCW, ValueCW: valueCW, TCWL: tCWL, TCWR: tCWR}

		// carry the accumulator forward along the keep path
		keepDelta := group.Sub(keepAV, keepBV)
		carriedCW := valueCW
		if tB == 1 {
			carriedCW = group.Neg(carriedCW)
		}
		valueAcc = group.Add(group.Add(valueAcc, keepDelta), carriedCW)

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

	finalA := prg.Convert(sA)
	finalB := prg.Convert(sB)
	outputCW := group.Sub(group.Sub(finalB, finalA), valueAcc)
	if tB == 1 {
		outputCW = group.Neg(outputCW)
	}

	keyA = Key{Party: 0, AlphaSh: alphaA, SeedInit: sA0, CW: cw, OutputCW: outputCW}
	keyB = Key{Party: 1, AlphaSh: alphaB, SeedInit: sB0, CW: cw, OutputCW: outputCW}
	return keyA, keyB
}

// Eval runs the Eval algorithm of §4.4 for party (0 or 1) at point x.
func Eval(party byte, x group.Element, key Key) group.Element {
	if key.AllOnes {
		if party == 0 {
			return 1
		}
		return 0
	}

	s := key.SeedInit
	t := party
	var value group.Element = 0

	for level := 0; level < Depth; level++ {
		bit := group.Bit(x, level)
		sL, tL, sR, tR := prg.Expand(s)
		vL, vR := prg.Convert(sL), prg.Convert(sR)

		var rawS prg.Seed
		var rawT byte
		var v group.Element
		if bit == 0 {
			rawS, rawT, v = sL, tL, vL
		} else {
			rawS, rawT, v = sR, tR, vR
		}

		if t == 1 {
			v = group.Add(v, key.CW[level].ValueCW)
		}
		if party == 1 {
			v = group.Neg(v)
		}
		value = group.Add(value, v)

		nextS, nextT := rawS, rawT
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

	finalVal := prg.Convert(s)
	if t == 1 {
		finalVal = group.Add(finalVal, key.OutputCW)
	}
	if party == 1 {
		finalVal = group.Neg(finalVal)
	}
	value = group.Add(value, finalVal)
	return value
}
