// Package fss is the stable, FFI-style flat-buffer API of §4.6/§6:
// `Keygen`/`Eval` entry points dispatching on an op_id tag between the two
// primitives (DPF, equality; DCF, less-or-equal), backed by the §4.5 batch
// driver.
//
// §9's "Polymorphism over primitives" note describes dispatch via a shared
// base class with two concrete subclasses differing only in constants and a
// pair of function pointers. This package instead uses a tagged variant
// selected by op_id plus a small constants table — the redesign §9 calls
// for — built on the same op_id dispatch package fsskey uses for its key
// layouts.
package fss

import (
	"errors"

	"fss-engine/batch"
	"fss-engine/dcf"
	"fss-engine/dpf"
	"fss-engine/fsskey"
	"fss-engine/group"
)

// Primitive constants exposed to callers, per §4.7.
type Primitive struct {
	OpID   int
	KeyLen int
	N      int
	Depth  int
}

// Eq is the equality primitive (DPF, op_id=0).
var Eq = Primitive{OpID: fsskey.OpDPF, KeyLen: fsskey.DPFKeyLen, N: 4, Depth: 32}

// Le is the less-or-equal primitive (DCF, op_id=1).
var Le = Primitive{OpID: fsskey.OpDCF, KeyLen: fsskey.DCFKeyLen, N: 4, Depth: 32}

// Keygen writes n independent key pairs into keysA/keysB, each a flat
// n*key_len(op_id) byte buffer pre-sized (and, per caller contract,
// zero-initialised) by the caller. Each key pair secret-shares a freshly
// sampled random threshold; the threshold is recoverable from the key's
// alpha-share prefix, never returned directly (§3's lifecycle note — the
// core never hands back anything beyond the opaque key bytes).
//
// threads==0 runs on all available cores; otherwise exactly `threads`
// workers partition the n indices into disjoint contiguous ranges (§4.5).
func Keygen(keysA, keysB []byte, n, threads, opID int) error {
	keyLen, err := fsskey.KeyLen(opID)
	if err != nil {
		return err
	}
	if len(keysA) != n*keyLen || len(keysB) != n*keyLen {
		return errors.New("fss: key buffer size does not match n*key_len")
	}

	batch.Run(n, threads, func(r batch.Range) {
		for i := r.Start; i < r.End; i++ {
			alpha := group.Random()
			a := keysA[i*keyLen : (i+1)*keyLen]
			b := keysB[i*keyLen : (i+1)*keyLen]
			switch opID {
			case fsskey.OpDPF:
				keyA, keyB := dpf.Keygen(alpha)
				copy(a, fsskey.PackDPF(keyA))
				copy(b, fsskey.PackDPF(keyB))
			case fsskey.OpDCF:
				keyA, keyB := dcf.Keygen(alpha)
				copy(a, fsskey.PackDCF(keyA))
				copy(b, fsskey.PackDCF(keyB))
			}
		}
	})
	return nil
}

// Eval evaluates n keys at n inputs for the given party (0 or 1), writing
// each party's share into results. xs is n*4 little-endian group elements;
// keys is n*key_len(op_id) bytes; results is n signed 64-bit integers
// carrying the share in their low 32 bits (§6's "Result semantics").
func Eval(party int, xs []byte, keys []byte, results []int64, n, threads, opID int) error {
	keyLen, err := fsskey.KeyLen(opID)
	if err != nil {
		return err
	}
	if party != 0 && party != 1 {
		return errors.New("fss: party must be 0 or 1")
	}
	if len(xs) != n*4 || len(keys) != n*keyLen || len(results) != n {
		return errors.New("fss: buffer size does not match n")
	}

	batch.Run(n, threads, func(r batch.Range) {
		for i := r.Start; i < r.End; i++ {
			x := group.FromLittleEndian(xs[i*4 : i*4+4])
			keyBuf := keys[i*keyLen : (i+1)*keyLen]

			var share group.Element
			switch opID {
			case fsskey.OpDPF:
				key, _ := fsskey.ParseDPF(keyBuf)
				share = dpf.Eval(byte(party), x, key)
			case fsskey.OpDCF:
				key, _ := fsskey.ParseDCF(keyBuf)
				share = dcf.Eval(byte(party), x, key)
			}
			results[i] = int64(int32(share))
		}
	})
	return nil
}
