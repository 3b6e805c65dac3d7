package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorDivAndMod(t *testing.T) {
	cases := []struct {
		value, size, div, mod int
	}{
		{0, 32, 0, 0},
		{31, 32, 0, 31},
		{32, 32, 1, 0},
		{-1, 32, -1, 31},
		{-32, 32, -1, 0},
		{-33, 32, -2, 31},
	}

	for _, c := range cases {
		assert.Equal(t, c.div, FloorDiv(c.value, c.size), "FloorDiv(%d,%d)", c.value, c.size)
		assert.Equal(t, c.mod, Mod(c.value, c.size), "Mod(%d,%d)", c.value, c.size)
	}
}

func TestVec3FloatFloor(t *testing.T) {
	v := Vec3Float{X: -0.5, Y: 1.999, Z: -3}
	assert.Equal(t, Vec3{X: -1, Y: 1, Z: -3}, v.Floor())
}

func TestChebyshevDistance(t *testing.T) {
	a := Vec3{X: 1, Y: 0, Z: 0}
	b := Vec3{X: -2, Y: 1, Z: 2}
	assert.Equal(t, 3, a.ChebyshevDistance(b))
	assert.Equal(t, 0, a.ChebyshevDistance(a))
}

func TestLessIsLexicographic(t *testing.T) {
	assert.True(t, Vec3{X: 0, Y: 5, Z: 5}.Less(Vec3{X: 1, Y: 0, Z: 0}))
	assert.True(t, Vec3{X: 1, Y: 0, Z: 5}.Less(Vec3{X: 1, Y: 1, Z: 0}))
	assert.False(t, Vec3{X: 1, Y: 1, Z: 1}.Less(Vec3{X: 1, Y: 1, Z: 1}))
}

func TestAxisAccessors(t *testing.T) {
	v := Vec3Float{X: 1, Y: 2, Z: 3}
	for _, axis := range Axes {
		v = v.With(axis, v.Get(axis)*10)
	}
	assert.Equal(t, Vec3Float{X: 10, Y: 20, Z: 30}, v)

	i := Vec3{}.With(AxisY, 7)
	assert.Equal(t, 7, i.Get(AxisY))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, Vec3Float{X: 1}.IsFinite())
	assert.False(t, Vec3Float{Y: math.NaN()}.IsFinite())
	assert.False(t, Vec3Float{Z: math.Inf(-1)}.IsFinite())
}

func TestNormalized(t *testing.T) {
	n := Vec3Float{X: 3, Y: 0, Z: 4}.Normalized()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)
	assert.Equal(t, Vec3Float{}, Vec3Float{}.Normalized())
}
