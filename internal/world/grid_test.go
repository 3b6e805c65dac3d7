package world

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

func airGenerator(low, high vec.Vec3) []block.BlockID {
	return Generate(low, high, func(int, int, int) block.BlockID { return block.AirBlockID })
}

func newTestGrid(t *testing.T, size, pad int, gen GenerateFunc) *Grid {
	t.Helper()
	g, err := NewGrid(size, pad, gen)
	require.NoError(t, err, "Сетка должна создаваться без ошибок")
	return g
}

func loadChunk(t *testing.T, g *Grid, c vec.Vec3) *Chunk {
	t.Helper()
	chunk, err := g.GenerateChunk(c)
	require.NoError(t, err)
	g.Put(chunk)
	return chunk
}

func TestNewGridValidation(t *testing.T) {
	_, err := NewGrid(0, 4, nil)
	assert.True(t, errors.Is(err, ErrInvalidChunkSize))

	_, err = NewGrid(32, 3, nil)
	assert.True(t, errors.Is(err, ErrInvalidChunkSize), "нечётный отступ недопустим")

	g, err := NewGrid(32, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 32, g.ChunkSize())
	assert.Equal(t, 4, g.Pad())
}

func TestCoordinateRoundTrip(t *testing.T) {
	g := newTestGrid(t, 32, 4, nil)

	positions := []vec.Vec3Float{
		{X: 0, Y: 0, Z: 0},
		{X: 31.99, Y: 32, Z: -0.01},
		{X: -33.5, Y: 100.25, Z: 64},
		{X: 35, Y: 1024, Z: 35},
	}
	for _, p := range positions {
		v := g.VoxelPosition(p)
		origin := g.ChunkOrigin(g.ChunkCoordOf(p)).Floor()
		assert.Equal(t, v, origin.Add(g.LocalCoord(v)), "позиция %v", p)

		local := g.LocalCoord(v)
		for _, axis := range vec.Axes {
			assert.GreaterOrEqual(t, local.Get(axis), 0)
			assert.Less(t, local.Get(axis), 32)
		}
	}

	assert.Equal(t, vec.Vec3{X: -1, Y: 0, Z: -1}, g.ChunkCoordOf(vec.Vec3Float{X: -0.01, Y: 31.9, Z: -32}))
}

func TestNearbyChunksOrderAndCount(t *testing.T) {
	g := newTestGrid(t, 32, 4, nil)

	coords := g.NearbyChunks(vec.Vec3{X: 1}, 2)
	assert.Len(t, coords, 125)
	assert.Equal(t, vec.Vec3{X: -1, Y: -2, Z: -2}, coords[0])
	assert.Equal(t, vec.Vec3{X: 3, Y: 2, Z: 2}, coords[len(coords)-1])
	for i := 1; i < len(coords); i++ {
		assert.True(t, coords[i-1].Less(coords[i]), "порядок должен быть лексикографическим")
	}

	assert.Len(t, g.NearbyChunkCoords(vec.Vec3Float{X: 40}, 0), 1)
	assert.Nil(t, g.NearbyChunks(vec.Vec3{}, -1))
}

func TestBoundsIncludePadding(t *testing.T) {
	g := newTestGrid(t, 32, 4, nil)
	low, high := g.Bounds(vec.Vec3{X: 1, Y: 0, Z: -1})
	assert.Equal(t, vec.Vec3{X: 30, Y: -2, Z: -34}, low)
	assert.Equal(t, vec.Vec3{X: 66, Y: 34, Z: 2}, high)
}

func TestVoxelAtAbsentChunkIsAir(t *testing.T) {
	g := newTestGrid(t, 32, 4, nil)
	assert.Equal(t, block.AirBlockID, g.VoxelAt(vec.Vec3Float{}))

	_, ok := g.SetVoxel(vec.Vec3Float{}, block.StoneBlockID)
	assert.False(t, ok, "запись в незагруженный чанк должна вернуть ok=false")
	assert.Equal(t, 0, g.Len())
}

func TestGenerateChunkSphere(t *testing.T) {
	g := newTestGrid(t, 32, 4, nil)
	chunk := loadChunk(t, g, vec.Vec3{})

	assert.Equal(t, block.StoneBlockID, g.VoxelAt(vec.Vec3Float{X: 0.5, Y: 0.5, Z: 0.5}))
	assert.Equal(t, block.AirBlockID, g.VoxelAt(vec.Vec3Float{X: 17, Y: 0, Z: 0}))

	// отступ заполнен генератором: мир (-2,0,0) лежит в ячейке (0,2,2)
	assert.Equal(t, block.StoneBlockID, chunk.GetPadded(0, 2, 2))
	assert.True(t, g.Has(vec.Vec3{}))
	assert.Equal(t, []vec.Vec3{{}}, g.Coords())
}

func TestGenerateChunkWrongBuffer(t *testing.T) {
	g := newTestGrid(t, 8, 2, func(low, high vec.Vec3) []block.BlockID {
		return make([]block.BlockID, 7)
	})

	_, err := g.GenerateChunk(vec.Vec3{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGeneratorBuffer))
	assert.Equal(t, 0, g.Len(), "GenerateChunk не должен вставлять чанк")
}

func TestSetVoxelUpdatesNeighbourPadding(t *testing.T) {
	g := newTestGrid(t, 4, 2, airGenerator)
	owner := loadChunk(t, g, vec.Vec3{})
	neighbour := loadChunk(t, g, vec.Vec3{X: 1})

	prev, ok := g.SetVoxel(vec.Vec3Float{X: 3.5, Y: 0.2, Z: 0.9}, block.StoneBlockID)
	require.True(t, ok)
	assert.Equal(t, block.AirBlockID, prev)
	assert.Equal(t, block.StoneBlockID, owner.GetBlock(vec.Vec3{X: 3}))
	assert.Equal(t, block.StoneBlockID, neighbour.GetPadded(0, 1, 1), "копия в отступе соседа должна обновиться")

	assert.Equal(t, []vec.Vec3{{}, {X: 1}}, g.AffectedChunks(vec.Vec3{X: 3}))
	assert.Equal(t, []vec.Vec3{{}}, g.AffectedChunks(vec.Vec3{X: 2}))

	prev, ok = g.SetVoxel(vec.Vec3Float{X: 3, Y: 0, Z: 0}, block.AirBlockID)
	require.True(t, ok)
	assert.Equal(t, block.StoneBlockID, prev)
	assert.Equal(t, block.AirBlockID, neighbour.GetPadded(0, 1, 1))
}

func TestRemoveAndBlocks(t *testing.T) {
	g := newTestGrid(t, 4, 0, airGenerator)
	loadChunk(t, g, vec.Vec3{})
	g.SetVoxel(vec.Vec3Float{X: 1, Y: 2, Z: 3}, block.SandBlockID)

	voxels, dims := g.Blocks(vec.Vec3{X: 1, Y: 2, Z: 2}, vec.Vec3{X: 3, Y: 3, Z: 4})
	assert.Equal(t, [3]int{2, 1, 2}, dims)
	assert.Equal(t, []block.BlockID{0, 0, block.SandBlockID, 0}, voxels)

	voxels, dims = g.Blocks(vec.Vec3{X: 1}, vec.Vec3{X: 1, Y: 1, Z: 1})
	assert.Nil(t, voxels)
	assert.Equal(t, [3]int{}, dims)

	chunk, ok := g.Remove(vec.Vec3{})
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{}, chunk.Position)
	_, ok = g.Remove(vec.Vec3{})
	assert.False(t, ok)
	assert.Equal(t, block.AirBlockID, g.VoxelAt(vec.Vec3Float{X: 1, Y: 2, Z: 3}))
}
