package fss_test

import (
	"testing"

	"fss-engine/dcf"
	"fss-engine/fss"
	"fss-engine/fsskey"
	"fss-engine/group"

	"github.com/stretchr/testify/assert"
)

func readAlpha(keyA, keyB []byte, opID int) group.Element {
	switch opID {
	case fsskey.OpDPF:
		a, _ := fsskey.ParseDPF(keyA)
		b, _ := fsskey.ParseDPF(keyB)
		return group.Add(a.AlphaSh, b.AlphaSh)
	default:
		a, _ := fsskey.ParseDCF(keyA)
		b, _ := fsskey.ParseDCF(keyB)
		return group.Add(a.AlphaSh, b.AlphaSh)
	}
}

// E1
func TestE1_DPFSingleIndex(t *testing.T) {
	keysA := make([]byte, fss.Eq.KeyLen)
	keysB := make([]byte, fss.Eq.KeyLen)
	assert.Nil(t, fss.Keygen(keysA, keysB, 1, 0, fss.Eq.OpID))

	alpha := readAlpha(keysA, keysB, fss.Eq.OpID)

	xsAlpha := group.ToLittleEndian(alpha)
	resA := make([]int64, 1)
	resB := make([]int64, 1)
	assert.Nil(t, fss.Eval(0, xsAlpha[:], keysA, resA, 1, 0, fss.Eq.OpID))
	assert.Nil(t, fss.Eval(1, xsAlpha[:], keysB, resB, 1, 0, fss.Eq.OpID))
	assert.Equal(t, group.Element(1), group.Element(resA[0])+group.Element(resB[0]))

	xsOff := group.ToLittleEndian(alpha + 31)
	assert.Nil(t, fss.Eval(0, xsOff[:], keysA, resA, 1, 0, fss.Eq.OpID))
	assert.Nil(t, fss.Eval(1, xsOff[:], keysB, resB, 1, 0, fss.Eq.OpID))
	assert.Equal(t, group.Element(0), group.Element(resA[0])+group.Element(resB[0]))
}

// E2
func TestE2_DPFBatch(t *testing.T) {
	const n = 5
	keyLen := fss.Eq.KeyLen
	keysA := make([]byte, n*keyLen)
	keysB := make([]byte, n*keyLen)
	assert.Nil(t, fss.Keygen(keysA, keysB, n, 0, fss.Eq.OpID))

	alphas := make([]group.Element, n)
	for i := 0; i < n; i++ {
		alphas[i] = readAlpha(keysA[i*keyLen:(i+1)*keyLen], keysB[i*keyLen:(i+1)*keyLen], fss.Eq.OpID)
	}

	offsets := []int64{0, 5, -1, 0, 1}
	xs := make([]byte, n*4)
	for i, off := range offsets {
		v := alphas[i] + group.Element(off)
		enc := group.ToLittleEndian(v)
		copy(xs[i*4:], enc[:])
	}

	resA := make([]int64, n)
	resB := make([]int64, n)
	assert.Nil(t, fss.Eval(0, xs, keysA, resA, n, 0, fss.Eq.OpID))
	assert.Nil(t, fss.Eval(1, xs, keysB, resB, n, 0, fss.Eq.OpID))

	want := []group.Element{1, 0, 0, 1, 0}
	for i := 0; i < n; i++ {
		assert.Equal(t, want[i], group.Element(resA[i])+group.Element(resB[i]), "index %d", i)
	}
}

// E3
func TestE3_DCFBatch(t *testing.T) {
	const n = 10
	keyLen := fss.Le.KeyLen
	keysA := make([]byte, n*keyLen)
	keysB := make([]byte, n*keyLen)
	assert.Nil(t, fss.Keygen(keysA, keysB, n, 0, fss.Le.OpID))

	alphas := make([]group.Element, n)
	for i := 0; i < n; i++ {
		alphas[i] = readAlpha(keysA[i*keyLen:(i+1)*keyLen], keysB[i*keyLen:(i+1)*keyLen], fss.Le.OpID)
	}

	perturb := map[int]int64{1: 5, 2: -1, 4: 1, 8: -635435, 9: 1}
	xs := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := alphas[i] + group.Element(perturb[i])
		enc := group.ToLittleEndian(v)
		copy(xs[i*4:], enc[:])
	}

	resA := make([]int64, n)
	resB := make([]int64, n)
	assert.Nil(t, fss.Eval(0, xs, keysA, resA, n, 0, fss.Le.OpID))
	assert.Nil(t, fss.Eval(1, xs, keysB, resB, n, 0, fss.Le.OpID))

	want := []group.Element{1, 0, 1, 1, 0, 1, 1, 1, 1, 0}
	for i := 0; i < n; i++ {
		assert.Equal(t, want[i], group.Element(resA[i])+group.Element(resB[i]), "index %d", i)
	}
}

// E6
func TestE6_DCFAtZeroAlpha(t *testing.T) {
	var alpha group.Element = 0
	keyA, keyB := kgDCFAt(t, alpha)
	assert.Equal(t, group.Element(0), evalWithKeys(t, keyA, keyB, 0xFFFFFFFF, fss.Le.OpID))
}

func TestE6_DCFAtMaxAlpha(t *testing.T) {
	var alpha group.Element = 0xFFFFFFFF
	keyA, keyB := kgDCFAt(t, alpha)
	assert.Equal(t, group.Element(1), evalWithKeys(t, keyA, keyB, 0, fss.Le.OpID))
}

// kgDCFAt builds a single DCF key pair for a specific alpha, bypassing
// fss.Keygen's internal random sampling (§6's keygen never takes alpha as a
// parameter) so the end-to-end boundary scenarios can target exact values.
func kgDCFAt(t *testing.T, alpha group.Element) ([]byte, []byte) {
	keyA, keyB := dcf.Keygen(alpha)
	return fsskey.PackDCF(keyA), fsskey.PackDCF(keyB)
}

func evalWithKeys(t *testing.T, keyA, keyB []byte, x group.Element, opID int) group.Element {
	xs := group.ToLittleEndian(x)
	resA := make([]int64, 1)
	resB := make([]int64, 1)
	assert.Nil(t, fss.Eval(0, xs[:], keyA, resA, 1, 0, opID))
	assert.Nil(t, fss.Eval(1, xs[:], keyB, resB, 1, 0, opID))
	return group.Element(resA[0]) + group.Element(resB[0])
}

// E5 — thread-invariance: threads=1 and threads=6 must agree, and the
// boundary n values (1, 2, 1024, 32465) from §8 must all work.
func TestE5_ThreadInvariance(t *testing.T) {
	for _, n := range []int{1, 2, 1024, 32465} {
		keyLen := fss.Eq.KeyLen
		keysA := make([]byte, n*keyLen)
		keysB := make([]byte, n*keyLen)
		assert.Nil(t, fss.Keygen(keysA, keysB, n, 0, fss.Eq.OpID))

		xs := make([]byte, n*4)
		for i := 0; i < n; i++ {
			enc := group.ToLittleEndian(group.Random())
			copy(xs[i*4:], enc[:])
		}

		res1 := make([]int64, n)
		res6 := make([]int64, n)
		assert.Nil(t, fss.Eval(0, xs, keysA, res1, n, 1, fss.Eq.OpID))
		assert.Nil(t, fss.Eval(0, xs, keysA, res6, n, 6, fss.Eq.OpID))
		assert.Equal(t, res1, res6)
	}
}

func TestBatchEquivalence(t *testing.T) {
	const n = 64
	keyLen := fss.Eq.KeyLen
	keysA := make([]byte, n*keyLen)
	keysB := make([]byte, n*keyLen)
	assert.Nil(t, fss.Keygen(keysA, keysB, n, 0, fss.Eq.OpID))

	xs := make([]byte, n*4)
	for i := 0; i < n; i++ {
		enc := group.ToLittleEndian(group.Random())
		copy(xs[i*4:], enc[:])
	}

	batchRes := make([]int64, n)
	assert.Nil(t, fss.Eval(0, xs, keysA, batchRes, n, 0, fss.Eq.OpID))

	for i := 0; i < n; i++ {
		single := make([]int64, 1)
		assert.Nil(t, fss.Eval(0, xs[i*4:i*4+4], keysA[i*keyLen:(i+1)*keyLen], single, 1, 0, fss.Eq.OpID))
		assert.Equal(t, single[0], batchRes[i])
	}
}

func TestUnknownOpIDRejected(t *testing.T) {
	assert.NotNil(t, fss.Keygen(nil, nil, 0, 0, 99))
}
