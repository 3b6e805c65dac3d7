package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
)

func TestSurfaceMesher(t *testing.T) {
	chunk := world.NewChunk(vec.Vec3{}, 4, 2, nil)
	var m SurfaceMesher

	assert.Nil(t, m.CreateVoxelMesh(nil, chunk, nil, nil, chunk.Position, chunk.Pad), "пустой чанк")

	chunk.SetBlock(vec.Vec3{X: 0, Y: 1, Z: 1}, block.StoneBlockID)
	mesh := m.CreateVoxelMesh(nil, chunk, nil, nil, chunk.Position, chunk.Pad)
	require.NotNil(t, mesh)
	sm := mesh.(*SurfaceMesh)
	assert.Equal(t, 6, sm.Faces)

	// соседний блок скрывает общую грань с обеих сторон
	chunk.SetBlock(vec.Vec3{X: 1, Y: 1, Z: 1}, block.DirtBlockID)
	sm = m.CreateVoxelMesh(nil, chunk, nil, nil, chunk.Position, chunk.Pad).(*SurfaceMesh)
	assert.Equal(t, 10, sm.Faces)
	assert.Equal(t, 5, sm.ByBlock[block.DirtBlockID])

	// блок в отступе закрывает грань, но сам не рисуется
	chunk.SetPadded(0, 2, 2, block.StoneBlockID)
	sm = m.CreateVoxelMesh(nil, chunk, nil, nil, chunk.Position, chunk.Pad).(*SurfaceMesh)
	assert.Equal(t, 9, sm.Faces)

	assert.False(t, sm.Released())
	sm.Release()
	assert.True(t, sm.Released())
}

func TestPaletteAtlas(t *testing.T) {
	a := NewPaletteAtlas()
	ids := a.VoxelSideTextureIDs()
	require.Len(t, a.VoxelSideTextureSizes(), len(ids))
	assert.Equal(t, 0, len(ids)%6)
	assert.Equal(t, int(block.SnowBlockID), ids[int(block.SnowBlockID)*6+5])
}

func TestFreeCameraVector(t *testing.T) {
	c := &FreeCamera{}
	v := c.Vector()
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, 0, v.Y, 1e-12)
	assert.InDelta(t, -1, v.Z, 1e-12)

	c.Yaw = math.Pi / 2
	v = c.Vector()
	assert.InDelta(t, -1, v.X, 1e-12)
	assert.InDelta(t, 1, v.Length(), 1e-12)
}

func TestWalkController(t *testing.T) {
	w := &WalkController{Direction: vec.Vec3Float{X: 3, Y: 5, Z: 4}, Speed: 2}
	w.Tick(16) // без цели ничего не делает

	body := &physics.Body{}
	w.SetTarget(body)
	w.Tick(16)
	assert.InDelta(t, 1.2, body.Acceleration.X, 1e-12)
	assert.Equal(t, 0.0, body.Acceleration.Y)
	assert.InDelta(t, 1.6, body.Acceleration.Z, 1e-12)
}
