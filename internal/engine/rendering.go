package engine

import (
	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
)

// GraphicsContext непрозрачный дескриптор графического контекста
// (nil на безголовом сервере).
type GraphicsContext any

// Mesh сетка одного чанка. Release освобождает связанные ресурсы.
type Mesh interface {
	Release()
}

// Mesher строит сетку по дополненному массиву вокселей чанка.
// Возвращает nil, если в чанке нечего рисовать.
type Mesher interface {
	CreateVoxelMesh(gl GraphicsContext, chunk *world.Chunk, sideIDs, sideSizes []int, position vec.Vec3, pad int) Mesh
}

// Stitcher атлас текстур граней блоков
type Stitcher interface {
	VoxelSideTextureIDs() []int
	VoxelSideTextureSizes() []int
}

// Camera положение и направление взгляда наблюдателя
type Camera interface {
	Position() vec.Vec3Float
	Vector() vec.Vec3Float
	SetPosition(pos vec.Vec3Float)
}

// Controller управляет телом игрока (ввод, ИИ, скрипты)
type Controller interface {
	SetTarget(body *physics.Body)
	Tick(dt float64)
}
