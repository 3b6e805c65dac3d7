package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

func singleVoxel(target vec.Vec3) BlockGetter {
	return func(v vec.Vec3) block.BlockID {
		if v == target {
			return block.StoneBlockID
		}
		return block.AirBlockID
	}
}

func TestRaycastHitsFaceExactly(t *testing.T) {
	rc := NewRaycaster(singleVoxel(vec.Vec3{X: 5, Y: 5, Z: 5}))

	hit, ok := rc.Cast(vec.Vec3Float{X: 0, Y: 5.5, Z: 5.5}, vec.Vec3Float{X: 1}, 10, testEpsilon)
	require.True(t, ok, "луч должен попасть в воксель")
	assert.Equal(t, vec.Vec3{X: 5, Y: 5, Z: 5}, hit.Voxel)
	assert.Equal(t, vec.Vec3{X: -1}, hit.Normal)
	assert.Equal(t, vec.Vec3{X: 4, Y: 5, Z: 5}, hit.Adjacent)
	assert.Equal(t, block.StoneBlockID, hit.Value)
	assert.Equal(t, 5.0, hit.Position.X)
	assert.InDelta(t, 5.5, hit.Position.Y, 1e-12)
	assert.InDelta(t, 5.0, hit.Distance, 1e-12)
	assert.Equal(t, vec.Vec3Float{X: 1}, hit.Direction)
}

func TestRaycastNegativeDirection(t *testing.T) {
	rc := NewRaycaster(singleVoxel(vec.Vec3{X: 5, Y: 5, Z: 5}))

	hit, ok := rc.Cast(vec.Vec3Float{X: 10.5, Y: 5.5, Z: 5.5}, vec.Vec3Float{X: -3}, 10, testEpsilon)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 5, Y: 5, Z: 5}, hit.Voxel)
	assert.Equal(t, vec.Vec3{X: 1}, hit.Normal)
	assert.Equal(t, vec.Vec3{X: 6, Y: 5, Z: 5}, hit.Adjacent)
	assert.InDelta(t, 6-testEpsilon, hit.Position.X, 1e-12, "позиция внутри вошедшего вокселя")
	assert.Less(t, hit.Position.X, 6.0)
	assert.Equal(t, vec.Vec3{X: 5, Y: 5, Z: 5}, hit.Position.Floor())
}

func TestRaycastVerticalDown(t *testing.T) {
	rc := NewRaycaster(floorWorld)

	hit, ok := rc.Cast(vec.Vec3Float{X: 0.5, Y: 3.2, Z: -0.5}, vec.Vec3Float{Y: -1}, 10, testEpsilon)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 0, Y: -1, Z: -1}, hit.Voxel)
	assert.Equal(t, vec.Vec3{Y: 1}, hit.Normal)
	assert.Equal(t, vec.Vec3{X: 0, Y: 0, Z: -1}, hit.Adjacent)
}

func TestRaycastMaxDistance(t *testing.T) {
	rc := NewRaycaster(singleVoxel(vec.Vec3{X: 5, Y: 5, Z: 5}))
	origin := vec.Vec3Float{X: 0, Y: 5.5, Z: 5.5}

	_, ok := rc.Cast(origin, vec.Vec3Float{X: 1}, 4.99, testEpsilon)
	assert.False(t, ok, "воксель дальше максимальной дистанции")

	_, ok = rc.Cast(origin, vec.Vec3Float{X: 1}, 5, testEpsilon)
	assert.True(t, ok, "граница на максимальной дистанции включается")

	_, ok = rc.Cast(origin, vec.Vec3Float{X: -1}, 100, testEpsilon)
	assert.False(t, ok, "пустой мир")
}

func TestRaycastOriginInsideSolid(t *testing.T) {
	rc := NewRaycaster(floorWorld)

	hit, ok := rc.Cast(vec.Vec3Float{X: 1.5, Y: -0.5, Z: 1.5}, vec.Vec3Float{Y: 1}, 10, testEpsilon)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 1, Y: -1, Z: 1}, hit.Voxel)
	assert.Equal(t, vec.Vec3{}, hit.Normal, "нормаль нулевая внутри твёрдого")
	assert.Equal(t, hit.Voxel, hit.Adjacent)
}

func TestRaycastDegenerateInput(t *testing.T) {
	rc := NewRaycaster(floorWorld)

	_, ok := rc.Cast(vec.Vec3Float{Y: 5}, vec.Vec3Float{}, 10, testEpsilon)
	assert.False(t, ok, "нулевое направление")

	_, ok = rc.Cast(vec.Vec3Float{Y: 5}, vec.Vec3Float{Y: -1}, -1, testEpsilon)
	assert.False(t, ok)
}

func TestRaycastTieBreaksOnX(t *testing.T) {
	get := func(v vec.Vec3) block.BlockID {
		if v == (vec.Vec3{X: 1}) || v == (vec.Vec3{Y: 1}) {
			return block.StoneBlockID
		}
		return block.AirBlockID
	}
	rc := NewRaycaster(get)

	hit, ok := rc.Cast(vec.Vec3Float{X: 0.5, Y: 0.5, Z: 0.5}, vec.Vec3Float{X: 1, Y: 1}, 10, testEpsilon)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 1}, hit.Voxel, "при равенстве сначала ось X")
	assert.Equal(t, vec.Vec3{X: -1}, hit.Normal)
}
