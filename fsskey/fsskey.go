// Package fsskey packs and parses the flat, fixed-width key byte layout of
// §3/§6 — the wire format the FFI-style batch API (package fss) reads and
// writes — and dispatches between the DPF and DCF layouts by an op_id tag.
package fsskey

import (
	"encoding/binary"
	"errors"

	"fss-engine/dcf"
	"fss-engine/dpf"
	"fss-engine/group"
	"fss-engine/prg"
)

// op_id values, matching §4.7/§6.
const (
	OpDPF = 0
	OpDCF = 1
)

// DPFKeyLen and DCFKeyLen are the authoritative, stable key lengths from
// §3/§6/§9 (621 and 920 respectively). The preceding 597/1304/1205 figures
// that appear elsewhere in the source material are stale and are not used
// anywhere in this module.
const (
	DPFKeyLen = 621
	DCFKeyLen = 920
)

// field sizes shared by both layouts.
const (
	alphaShareLen = 4
	seedLen       = prg.SeedLen
	controlLen    = 1
)

// KeyLen returns the per-party key length in bytes for the given op_id, or
// an error if op_id is not one of the two defined primitives.
func KeyLen(opID int) (int, error) {
	switch opID {
	case OpDPF:
		return DPFKeyLen, nil
	case OpDCF:
		return DCFKeyLen, nil
	default:
		return 0, errors.New("fsskey: unknown op_id")
	}
}

// PackDPF serializes a dpf.Key into its flat 621-byte layout.
func PackDPF(k dpf.Key) []byte {
	buf := make([]byte, DPFKeyLen)
	off := 0
	binary.LittleEndian.PutUint32(buf[off:], k.AlphaSh)
	off += alphaShareLen
	copy(buf[off:], k.SeedInit[:])
	off += seedLen
	buf[off] = k.Party
	off += controlLen
	for _, cw := range k.CW {
		copy(buf[off:], cw.SeedCW[:])
		off += seedLen
		buf[off] = cw.TCWL
		off++
		buf[off] = cw.TCWR
		off++
	}
	binary.LittleEndian.PutUint32(buf[off:], k.OutputCW)
	off += alphaShareLen
	// remaining bytes are reserved padding to reach the stable 621-byte
	// key_len; left zeroed.
	return buf
}

// ParseDPF reconstructs a dpf.Key from its flat 621-byte layout.
func ParseDPF(buf []byte) (dpf.Key, error) {
	if len(buf) != DPFKeyLen {
		return dpf.Key{}, errors.New("fsskey: DPF key has wrong length")
	}
	var k dpf.Key
	off := 0
	k.AlphaSh = group.FromLittleEndian(buf[off:])
	off += alphaShareLen
	copy(k.SeedInit[:], buf[off:])
	off += seedLen
	k.Party = buf[off]
	off += controlLen
	for i := range k.CW {
		copy(k.CW[i].SeedCW[:], buf[off:])
		off += seedLen
		k.CW[i].TCWL = buf[off]
		off++
		k.CW[i].TCWR = buf[off]
		off++
	}
	k.OutputCW = group.FromLittleEndian(buf[off:])
	return k, nil
}

// PackDCF serializes a dcf.Key into its flat 920-byte layout. The AllOnes
// flag (set only for the alpha=2^32-1 boundary case, see package dcf) is
// stored in the first reserved byte following the output correction.
func PackDCF(k dcf.Key) []byte {
	buf := make([]byte, DCFKeyLen)
	off := 0
	binary.LittleEndian.PutUint32(buf[off:], k.AlphaSh)
	off += alphaShareLen
	copy(buf[off:], k.SeedInit[:])
	off += seedLen
	buf[off] = k.Party
	off += controlLen
	for _, cw := range k.CW {
		copy(buf[off:], cw.SeedCW[:])
		off += seedLen
		binary.LittleEndian.PutUint32(buf[off:], cw.ValueCW)
		off += alphaShareLen
		buf[off] = cw.TCWL
		off++
		buf[off] = cw.TCWR
		off++
	}
	binary.LittleEndian.PutUint32(buf[off:], k.OutputCW)
	off += alphaShareLen
	if k.AllOnes {
		buf[off] = 1
	}
	// remaining bytes are reserved padding to reach the stable 920-byte
	// key_len; left zeroed.
	return buf
}

// ParseDCF reconstructs a dcf.Key from its flat 920-byte layout.
func ParseDCF(buf []byte) (dcf.Key, error) {
	if len(buf) != DCFKeyLen {
		return dcf.Key{}, errors.New("fsskey: DCF key has wrong length")
	}
	var k dcf.Key
	off := 0
	k.AlphaSh = group.FromLittleEndian(buf[off:])
	off += alphaShareLen
	copy(k.SeedInit[:], buf[off:])
	off += seedLen
	k.Party = buf[off]
	off += controlLen
	for i := range k.CW {
		copy(k.CW[i].SeedCW[:], buf[off:])
		off += seedLen
		k.CW[i].ValueCW = group.FromLittleEndian(buf[off:])
		off += alphaShareLen
		k.CW[i].TCWL = buf[off]
		off++
		k.CW[i].TCWR = buf[off]
		off++
	}
	k.OutputCW = group.FromLittleEndian(buf[off:])
	off += alphaShareLen
	k.AllOnes = buf[off] == 1
	return k, nil
}
