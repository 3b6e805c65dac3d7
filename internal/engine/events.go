package engine

import (
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// EventSource источник событий движка на шине
const EventSource = "engine"

// Типы событий
const (
	EventTick             = "tick"
	EventSetBlock         = "setBlock"
	EventChangeBlock      = "change-block"
	EventRemoveChunk      = "removeChunk"
	EventRenderChunk      = "renderChunk"
	EventDirtyChunkUpdate = "dirtyChunkUpdate"
	EventVoxelRegion      = "voxelRegion"
	EventChunkRegion      = "chunkRegion"
	EventAsyncGeneration  = "asyncGeneration"
)

// TickEvent полезная нагрузка события tick
type TickEvent struct {
	Delta float64
}

// BlockChangeEvent изменение одного вокселя
type BlockChangeEvent struct {
	Position vec.Vec3Float
	Voxel    vec.Vec3
	Old      block.BlockID
	New      block.BlockID
}

// EventVoxel воксель изменения, по нему фильтрует eventbus.Bounds
func (ev BlockChangeEvent) EventVoxel() vec.Vec3 { return ev.Voxel }

// ChunkEvent событие жизненного цикла чанка
type ChunkEvent struct {
	Position vec.Vec3
}

// RegionEvent пересечение границы региона наблюдателем
type RegionEvent struct {
	Region   vec.Vec3
	Position vec.Vec3Float
}

// AsyncGenerationEvent переключение режима генерации
type AsyncGenerationEvent struct {
	Enabled bool
}
