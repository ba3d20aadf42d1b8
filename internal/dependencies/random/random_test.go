package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCryptoRandom_Ranges(t *testing.T) {
	r := New()
	for i := 0; i < 200; i++ {
		n := r.Intn(7)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 7)

		f := r.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
	assert.Equal(t, 0, r.Intn(0))
}

func TestSeededRandom_Reproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Intn(7), b.Intn(7))
	}
	assert.Equal(t, a.String(8, "ABCDEF"), b.String(8, "ABCDEF"))
}

func TestString(t *testing.T) {
	r := NewSeeded(1)
	s := r.String(6, "XY")
	assert.Len(t, s, 6)
	for _, c := range s {
		assert.Contains(t, "XY", string(c))
	}
	assert.Empty(t, r.String(0, "XY"))
	assert.Empty(t, r.String(4, ""))
}
