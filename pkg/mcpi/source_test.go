package mcpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSourceDeterministic(t *testing.T) {
	a := SplitSource(42)
	b := SplitSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestSplitSourceSeedSensitivity(t *testing.T) {
	a := SplitSource(1)
	b := SplitSource(2)
	assert.NotEqual(t, a.Uint64(), b.Uint64())
}

func TestSplitSourceInt63(t *testing.T) {
	src := SplitSource(7)
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, src.Int63(), int64(0))
	}
}

func TestStdSourceDeterministic(t *testing.T) {
	a := StdSource(42)
	b := StdSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}
