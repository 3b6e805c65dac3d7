package world

import (
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// Chunk представляет кубический участок мира с отступом (padding).
// Воксели хранятся плотным массивом (size+pad)^3, X меняется быстрее всего,
// затем Y, затем Z. Локальная ячейка (lx,ly,lz) лежит по индексу (lx+pad/2, ...).
type Chunk struct {
	Position vec.Vec3 // Координаты чанка (совпадают с ключом в сетке)
	Size     int
	Pad      int
	Dims     [3]int
	Voxels   []block.BlockID

	ChangeCounter int // Счетчик изменений
}

// NewChunk создаёт чанк поверх готового буфера вокселей.
// Буфер должен иметь длину (size+pad)^3.
func NewChunk(position vec.Vec3, size, pad int, voxels []block.BlockID) *Chunk {
	dim := size + pad
	if voxels == nil {
		voxels = make([]block.BlockID, dim*dim*dim)
	}
	return &Chunk{
		Position: position,
		Size:     size,
		Pad:      pad,
		Dims:     [3]int{dim, dim, dim},
		Voxels:   voxels,
	}
}

// Half возвращает половину отступа (смещение локальной ячейки)
func (c *Chunk) Half() int {
	return c.Pad / 2
}

func (c *Chunk) index(px, py, pz int) int {
	return px + py*c.Dims[0] + pz*c.Dims[0]*c.Dims[1]
}

func (c *Chunk) inPadded(px, py, pz int) bool {
	return px >= 0 && py >= 0 && pz >= 0 &&
		px < c.Dims[0] && py < c.Dims[1] && pz < c.Dims[2]
}

// GetBlock возвращает воксель по локальным координатам (0..size-1)
func (c *Chunk) GetBlock(local vec.Vec3) block.BlockID {
	h := c.Half()
	return c.GetPadded(local.X+h, local.Y+h, local.Z+h)
}

// SetBlock устанавливает воксель по локальным координатам
func (c *Chunk) SetBlock(local vec.Vec3, id block.BlockID) {
	h := c.Half()
	c.SetPadded(local.X+h, local.Y+h, local.Z+h, id)
}

// GetPadded читает ячейку в координатах буфера с отступом; вне буфера воздух
func (c *Chunk) GetPadded(px, py, pz int) block.BlockID {
	if !c.inPadded(px, py, pz) {
		return block.AirBlockID
	}
	return c.Voxels[c.index(px, py, pz)]
}

// SetPadded пишет ячейку в координатах буфера с отступом.
// Возвращает false, если ячейка вне буфера.
func (c *Chunk) SetPadded(px, py, pz int, id block.BlockID) bool {
	if !c.inPadded(px, py, pz) {
		return false
	}
	c.Voxels[c.index(px, py, pz)] = id
	c.ChangeCounter++
	return true
}

// Density возвращает долю каждого типа блока внутри чанка (без отступа)
func (c *Chunk) Density() map[block.BlockID]float64 {
	counts := make(map[block.BlockID]int)
	h := c.Half()
	for z := 0; z < c.Size; z++ {
		for y := 0; y < c.Size; y++ {
			for x := 0; x < c.Size; x++ {
				counts[c.GetPadded(x+h, y+h, z+h)]++
			}
		}
	}

	total := float64(c.Size * c.Size * c.Size)
	densities := make(map[block.BlockID]float64, len(counts))
	for id, n := range counts {
		densities[id] = float64(n) / total
	}
	return densities
}

// IsEmpty возвращает true, если в чанке (включая отступ) только воздух
func (c *Chunk) IsEmpty() bool {
	for _, id := range c.Voxels {
		if id != block.AirBlockID {
			return false
		}
	}
	return true
}
