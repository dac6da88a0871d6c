package prg_test

import (
	"testing"

	"fss-engine/prg"

	"github.com/stretchr/testify/assert"
)

func TestExpandDeterministic(t *testing.T) {
	seed := prg.RandomSeed()

	sL1, tL1, sR1, tR1 := prg.Expand(seed)
	sL2, tL2, sR2, tR2 := prg.Expand(seed)

	assert.Equal(t, sL1, sL2)
	assert.Equal(t, tL1, tL2)
	assert.Equal(t, sR1, sR2)
	assert.Equal(t, tR1, tR2)
}

func TestExpandChildrenDiffer(t *testing.T) {
	seed := prg.RandomSeed()
	sL, _, sR, _ := prg.Expand(seed)
	assert.NotEqual(t, sL, sR)
}

func TestControlBitsAreSingleBit(t *testing.T) {
	seed := prg.RandomSeed()
	_, tL, _, tR := prg.Expand(seed)
	assert.LessOrEqual(t, tL, byte(1))
	assert.LessOrEqual(t, tR, byte(1))
}

func TestConvertDeterministic(t *testing.T) {
	seed := prg.RandomSeed()
	assert.Equal(t, prg.Convert(seed), prg.Convert(seed))
}

func TestXORSelfInverse(t *testing.T) {
	a := prg.RandomSeed()
	b := prg.RandomSeed()
	assert.Equal(t, a, prg.XOR(prg.XOR(a, b), b))
}

func TestRandomSeedVaries(t *testing.T) {
	a := prg.RandomSeed()
	b := prg.RandomSeed()
	assert.NotEqual(t, a, b)
}
