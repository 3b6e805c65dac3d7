package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerlinNoiseDeterministic(t *testing.T) {
	a := NewPerlinNoise(42)
	b := NewPerlinNoise(42)

	for i := 0; i < 20; i++ {
		x := float64(i) * 0.37
		y := float64(i) * 0.11
		va := a.Noise2D(x, y)
		assert.Equal(t, va, b.Noise2D(x, y), "одинаковый сид должен давать одинаковый шум")
		assert.GreaterOrEqual(t, va, 0.0)
		assert.LessOrEqual(t, va, 1.0)
	}
	assert.Equal(t, int64(42), a.Seed())
}

func TestHash3(t *testing.T) {
	v := Hash3(1, 2, 3, 7)
	assert.Equal(t, v, Hash3(1, 2, 3, 7))
	assert.NotEqual(t, v, Hash3(1, 2, 4, 7))
	assert.NotEqual(t, v, Hash3(1, 2, 3, 8))

	for x := -5; x < 5; x++ {
		h := Hash3(x, -x, x*3, 1)
		assert.GreaterOrEqual(t, h, 0.0)
		assert.Less(t, h, 1.0)
	}
}
