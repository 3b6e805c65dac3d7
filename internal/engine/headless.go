package engine

import (
	"math"

	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// Реализации рендер-интерфейсов для сервера без графики.

// faceNormals порядок граней: -x, +x, -y, +y, -z, +z
var faceNormals = [6]vec.Vec3{
	{X: -1}, {X: 1}, {Y: -1}, {Y: 1}, {Z: -1}, {Z: 1},
}

// SurfaceMesh сетка из видимых граней чанка (без геометрии, только учёт)
type SurfaceMesh struct {
	Position vec.Vec3
	Faces    int
	ByBlock  map[block.BlockID]int
	released bool
}

// Release помечает сетку освобождённой
func (m *SurfaceMesh) Release() {
	m.released = true
}

// Released освобождена ли сетка
func (m *SurfaceMesh) Released() bool {
	return m.released
}

// SurfaceMesher считает грани твёрдых вокселей, граничащие с воздухом.
// Соседи за краем чанка берутся из отступа буфера.
type SurfaceMesher struct{}

// CreateVoxelMesh строит сетку; nil если видимых граней нет
func (SurfaceMesher) CreateVoxelMesh(_ GraphicsContext, chunk *world.Chunk, _, _ []int, position vec.Vec3, _ int) Mesh {
	h := chunk.Half()
	mesh := &SurfaceMesh{Position: position, ByBlock: make(map[block.BlockID]int)}
	for z := h; z < h+chunk.Size; z++ {
		for y := h; y < h+chunk.Size; y++ {
			for x := h; x < h+chunk.Size; x++ {
				id := chunk.GetPadded(x, y, z)
				if !block.IsSolid(id) {
					continue
				}
				for _, n := range faceNormals {
					if block.IsSolid(chunk.GetPadded(x+n.X, y+n.Y, z+n.Z)) {
						continue
					}
					mesh.Faces++
					mesh.ByBlock[id]++
				}
			}
		}
	}
	if mesh.Faces == 0 {
		return nil
	}
	return mesh
}

// PaletteAtlas атлас, где каждой грани блока соответствует текстура по ID блока
type PaletteAtlas struct {
	ids   []int
	sizes []int
}

// NewPaletteAtlas строит атлас из реестра блоков: 6 граней на блок
func NewPaletteAtlas() *PaletteAtlas {
	ids := block.IDs()
	top := 0
	for _, id := range ids {
		if int(id) > top {
			top = int(id)
		}
	}
	a := &PaletteAtlas{
		ids:   make([]int, (top+1)*6),
		sizes: make([]int, (top+1)*6),
	}
	for _, id := range ids {
		for side := 0; side < 6; side++ {
			a.ids[int(id)*6+side] = int(id)
			a.sizes[int(id)*6+side] = 1
		}
	}
	return a
}

func (a *PaletteAtlas) VoxelSideTextureIDs() []int   { return a.ids }
func (a *PaletteAtlas) VoxelSideTextureSizes() []int { return a.sizes }

// FreeCamera камера с углами рыскания и тангажа (радианы)
type FreeCamera struct {
	Pos   vec.Vec3Float
	Yaw   float64
	Pitch float64
}

func (c *FreeCamera) Position() vec.Vec3Float { return c.Pos }

func (c *FreeCamera) SetPosition(pos vec.Vec3Float) { c.Pos = pos }

// Vector единичный вектор взгляда; Yaw=0, Pitch=0 смотрит вдоль -z
func (c *FreeCamera) Vector() vec.Vec3Float {
	cp := math.Cos(c.Pitch)
	return vec.Vec3Float{
		X: -math.Sin(c.Yaw) * cp,
		Y: math.Sin(c.Pitch),
		Z: -math.Cos(c.Yaw) * cp,
	}
}

// WalkController задаёт телу постоянное горизонтальное ускорение
type WalkController struct {
	Direction vec.Vec3Float
	Speed     float64
	target    *physics.Body
}

func (w *WalkController) SetTarget(body *physics.Body) { w.target = body }

func (w *WalkController) Tick(_ float64) {
	if w.target == nil {
		return
	}
	dir := vec.Vec3Float{X: w.Direction.X, Z: w.Direction.Z}.Normalized()
	w.target.Acceleration = dir.Mul(w.Speed)
}
