package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

var (
	// ErrGeneratorBuffer генератор вернул буфер неверной длины
	ErrGeneratorBuffer = errors.New("world: generator returned buffer of wrong length")
	// ErrInvalidChunkSize недопустимый размер чанка или отступа
	ErrInvalidChunkSize = errors.New("world: invalid chunk size or padding")
)

// GenerateFunc заполняет бокс [low, high) и возвращает плотный массив
// (Z внешний цикл, X внутренний).
type GenerateFunc func(low, high vec.Vec3) []block.BlockID

// Grid хранит резидентные чанки и отображает мировые координаты в воксели.
// Не потокобезопасен: вызывается только из тика движка.
type Grid struct {
	chunkSize int
	pad       int
	generate  GenerateFunc
	chunks    map[vec.Vec3]*Chunk
}

// NewGrid создаёт пустую сетку вокселей
func NewGrid(chunkSize, pad int, gen GenerateFunc) (*Grid, error) {
	if chunkSize <= 0 || pad < 0 || pad%2 != 0 {
		return nil, fmt.Errorf("%w: size=%d pad=%d", ErrInvalidChunkSize, chunkSize, pad)
	}
	if gen == nil {
		gen = StrategyGenerator(Sphere)
	}
	return &Grid{
		chunkSize: chunkSize,
		pad:       pad,
		generate:  gen,
		chunks:    make(map[vec.Vec3]*Chunk),
	}, nil
}

// ChunkSize возвращает размер ребра чанка
func (g *Grid) ChunkSize() int { return g.chunkSize }

// Pad возвращает суммарный отступ по оси
func (g *Grid) Pad() int { return g.pad }

// VoxelPosition координата вокселя, содержащего мировую позицию
func (g *Grid) VoxelPosition(pos vec.Vec3Float) vec.Vec3 {
	return pos.Floor()
}

// ChunkOfVoxel координата чанка, которому принадлежит воксель
func (g *Grid) ChunkOfVoxel(v vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: vec.FloorDiv(v.X, g.chunkSize),
		Y: vec.FloorDiv(v.Y, g.chunkSize),
		Z: vec.FloorDiv(v.Z, g.chunkSize),
	}
}

// ChunkCoordOf координата чанка для мировой позиции
func (g *Grid) ChunkCoordOf(pos vec.Vec3Float) vec.Vec3 {
	return g.ChunkOfVoxel(pos.Floor())
}

// ChunkOrigin мировая позиция минимального угла чанка
func (g *Grid) ChunkOrigin(c vec.Vec3) vec.Vec3Float {
	return c.Scale(g.chunkSize).ToFloat()
}

// LocalCoord координата вокселя внутри своего чанка (0..size-1)
func (g *Grid) LocalCoord(v vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: vec.Mod(v.X, g.chunkSize),
		Y: vec.Mod(v.Y, g.chunkSize),
		Z: vec.Mod(v.Z, g.chunkSize),
	}
}

// Bounds возвращает бокс генерации чанка [low, high) с учётом отступа
func (g *Grid) Bounds(c vec.Vec3) (vec.Vec3, vec.Vec3) {
	h := g.pad / 2
	pad := vec.Vec3{X: h, Y: h, Z: h}
	low := c.Scale(g.chunkSize).Sub(pad)
	high := c.Add(vec.Vec3{X: 1, Y: 1, Z: 1}).Scale(g.chunkSize).Add(pad)
	return low, high
}

// NearbyChunks все координаты чанков на расстоянии Чебышёва <= radius,
// в лексикографическом порядке (x, y, z).
func (g *Grid) NearbyChunks(center vec.Vec3, radius int) []vec.Vec3 {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	coords := make([]vec.Vec3, 0, side*side*side)
	for x := -radius; x <= radius; x++ {
		for y := -radius; y <= radius; y++ {
			for z := -radius; z <= radius; z++ {
				coords = append(coords, center.Add(vec.Vec3{X: x, Y: y, Z: z}))
			}
		}
	}
	return coords
}

// NearbyChunkCoords то же, что NearbyChunks, для мировой позиции
func (g *Grid) NearbyChunkCoords(center vec.Vec3Float, radius int) []vec.Vec3 {
	return g.NearbyChunks(g.ChunkCoordOf(center), radius)
}

// VoxelAt значение вокселя по мировой позиции; 0 если чанк не загружен
func (g *Grid) VoxelAt(pos vec.Vec3Float) block.BlockID {
	return g.VoxelAtCoord(pos.Floor())
}

// VoxelAtCoord значение вокселя по его координате
func (g *Grid) VoxelAtCoord(v vec.Vec3) block.BlockID {
	chunk, ok := g.chunks[g.ChunkOfVoxel(v)]
	if !ok {
		return block.AirBlockID
	}
	return chunk.GetBlock(g.LocalCoord(v))
}

// SetVoxel записывает воксель в чанк-владелец и в копии отступа у загруженных
// соседей. Возвращает прежнее значение; ok=false если чанк не загружен.
func (g *Grid) SetVoxel(pos vec.Vec3Float, id block.BlockID) (block.BlockID, bool) {
	return g.SetVoxelCoord(pos.Floor(), id)
}

// SetVoxelCoord как SetVoxel, но по координате вокселя
func (g *Grid) SetVoxelCoord(v vec.Vec3, id block.BlockID) (block.BlockID, bool) {
	owner := g.ChunkOfVoxel(v)
	chunk, ok := g.chunks[owner]
	if !ok {
		return block.AirBlockID, false
	}

	local := g.LocalCoord(v)
	prev := chunk.GetBlock(local)
	chunk.SetBlock(local, id)

	for _, c := range g.AffectedChunks(v) {
		if c == owner {
			continue
		}
		neighbour := g.chunks[c]
		p := g.paddedCoord(neighbour, v)
		neighbour.SetPadded(p.X, p.Y, p.Z, id)
	}
	return prev, true
}

// paddedCoord координата вокселя в буфере указанного чанка
func (g *Grid) paddedCoord(chunk *Chunk, v vec.Vec3) vec.Vec3 {
	h := g.pad / 2
	return v.Sub(chunk.Position.Scale(g.chunkSize)).Add(vec.Vec3{X: h, Y: h, Z: h})
}

// AffectedChunks загруженные чанки, чей буфер (включая отступ) содержит воксель:
// владелец первым, затем соседи в лексикографическом порядке.
func (g *Grid) AffectedChunks(v vec.Vec3) []vec.Vec3 {
	owner := g.ChunkOfVoxel(v)
	var result []vec.Vec3
	if _, ok := g.chunks[owner]; ok {
		result = append(result, owner)
	}
	if g.pad == 0 {
		return result
	}

	for _, c := range g.NearbyChunks(owner, 1) {
		if c == owner {
			continue
		}
		chunk, ok := g.chunks[c]
		if !ok {
			continue
		}
		p := g.paddedCoord(chunk, v)
		if chunk.inPadded(p.X, p.Y, p.Z) {
			result = append(result, c)
		}
	}
	return result
}

// GenerateChunk генерирует чанк, но не вставляет его в сетку
func (g *Grid) GenerateChunk(c vec.Vec3) (*Chunk, error) {
	low, high := g.Bounds(c)
	voxels := g.generate(low, high)

	dim := g.chunkSize + g.pad
	if want := dim * dim * dim; len(voxels) != want {
		return nil, fmt.Errorf("%w: chunk %v: got %d, want %d", ErrGeneratorBuffer, c, len(voxels), want)
	}
	return NewChunk(c, g.chunkSize, g.pad, voxels), nil
}

// Put делает чанк резидентным (заменяя существующий)
func (g *Grid) Put(chunk *Chunk) {
	g.chunks[chunk.Position] = chunk
}

// Remove удаляет чанк из сетки
func (g *Grid) Remove(c vec.Vec3) (*Chunk, bool) {
	chunk, ok := g.chunks[c]
	if ok {
		delete(g.chunks, c)
	}
	return chunk, ok
}

// Chunk возвращает резидентный чанк
func (g *Grid) Chunk(c vec.Vec3) (*Chunk, bool) {
	chunk, ok := g.chunks[c]
	return chunk, ok
}

// Has проверяет, загружен ли чанк
func (g *Grid) Has(c vec.Vec3) bool {
	_, ok := g.chunks[c]
	return ok
}

// Len количество резидентных чанков
func (g *Grid) Len() int {
	return len(g.chunks)
}

// Coords координаты резидентных чанков в лексикографическом порядке
func (g *Grid) Coords() []vec.Vec3 {
	coords := make([]vec.Vec3, 0, len(g.chunks))
	for c := range g.chunks {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

// Blocks выгружает значения вокселей бокса [low, high) (Z внешний, X внутренний)
func (g *Grid) Blocks(low, high vec.Vec3) ([]block.BlockID, [3]int) {
	dims := [3]int{high.X - low.X, high.Y - low.Y, high.Z - low.Z}
	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 {
		return nil, [3]int{}
	}

	voxels := make([]block.BlockID, 0, dims[0]*dims[1]*dims[2])
	for z := low.Z; z < high.Z; z++ {
		for y := low.Y; y < high.Y; y++ {
			for x := low.X; x < high.X; x++ {
				voxels = append(voxels, g.VoxelAtCoord(vec.Vec3{X: x, Y: y, Z: z}))
			}
		}
	}
	return voxels, dims
}
