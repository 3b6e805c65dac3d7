package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

func TestGenerateLayout(t *testing.T) {
	low := vec.Vec3{X: 0, Y: 0, Z: 0}
	high := vec.Vec3{X: 2, Y: 2, Z: 2}

	var order []vec.Vec3
	voxels := Generate(low, high, func(x, y, z int) block.BlockID {
		order = append(order, vec.Vec3{X: x, Y: y, Z: z})
		return block.BlockID(x + 2*y + 4*z)
	})

	require.Len(t, voxels, 8)
	for i, id := range voxels {
		assert.Equal(t, block.BlockID(i), id, "индекс должен быть x + y*dx + z*dx*dy")
	}
	assert.Equal(t, vec.Vec3{X: 1}, order[1], "X должен меняться быстрее всего")
	assert.Nil(t, Generate(high, low, Sphere))
}

func TestNamedStrategies(t *testing.T) {
	for _, name := range StrategyNames() {
		s, err := NewStrategy(name, 7)
		require.NoError(t, err, "стратегия %s", name)
		require.NotNil(t, s)

		// детерминированность
		again, _ := NewStrategy(name, 7)
		for i := -3; i < 3; i++ {
			assert.Equal(t, s(i, i*2, -i), again(i, i*2, -i), "стратегия %s недетерминирована", name)
		}
	}

	_, err := NewStrategy("Nope", 0)
	assert.Error(t, err)

	s, err := NewStrategy("", 0)
	require.NoError(t, err)
	assert.Equal(t, block.StoneBlockID, s(0, 0, 0), "по умолчанию Sphere")
}

func TestClassicShapes(t *testing.T) {
	assert.Equal(t, block.StoneBlockID, Sphere(16, 0, 0))
	assert.Equal(t, block.AirBlockID, Sphere(16, 1, 0))

	assert.True(t, block.IsSolid(Hill(0, 16, 0)))
	assert.False(t, block.IsSolid(Hill(0, 17, 0)))

	assert.True(t, block.IsSolid(Valley(0, 1, 0)))
	assert.False(t, block.IsSolid(Valley(0, 2, 0)))

	assert.Equal(t, block.AirBlockID, Checker(0, 0, 0))
	assert.True(t, block.IsSolid(Checker(1, 0, 0)))
	assert.True(t, block.IsSolid(Checker(-1, 0, 0)))

	assert.Equal(t, block.GrassBlockID, Flat(5, 0, -5))
	assert.Equal(t, block.AirBlockID, Flat(5, 1, -5))
	assert.Equal(t, block.StoneBlockID, Flat(0, -10, 0))
}

func TestHillyTerrainLayers(t *testing.T) {
	s := HillyTerrain(1)
	assert.Equal(t, block.AirBlockID, s(0, 40, 0))
	assert.Equal(t, block.LavaBlockID, s(0, 0, 0))

	mid := s(0, 10, 0)
	assert.True(t, mid == block.DarkStoneBlockID || mid == block.LightStoneBlockID)
}

func TestNoiseDensity(t *testing.T) {
	sparse := Noise(3)
	dense := DenseNoise(3)

	var sparseSolid, denseSolid int
	for _, id := range Generate(vec.Vec3{}, vec.Vec3{X: 16, Y: 16, Z: 16}, sparse) {
		if block.IsSolid(id) {
			sparseSolid++
		}
	}
	for _, id := range Generate(vec.Vec3{}, vec.Vec3{X: 16, Y: 16, Z: 16}, dense) {
		if block.IsSolid(id) {
			denseSolid++
		}
	}
	assert.Greater(t, sparseSolid, 0)
	assert.Greater(t, denseSolid, sparseSolid*2)
}

func TestTerrainGenerator(t *testing.T) {
	tg := NewTerrainGenerator(11)

	surface := int(tg.SurfaceHeight(10, 10) * float64(tg.MaxHeight))
	assert.True(t, block.IsSolid(tg.Block(10, surface, 10)))
	assert.Equal(t, block.StoneBlockID, tg.Block(10, surface-10, 10))
	assert.Equal(t, block.AirBlockID, tg.Block(10, tg.MaxHeight+1, 10))
}
