package world

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

func TestChunkCreateAndGetBlock(t *testing.T) {
	coords := vec.Vec3{X: 5, Y: -1, Z: 2}
	chunk := NewChunk(coords, 8, 4, nil)

	if chunk.Position != coords {
		t.Errorf("Ожидались координаты %v, получено %v", coords, chunk.Position)
	}
	if len(chunk.Voxels) != 12*12*12 {
		t.Errorf("Ожидался буфер 12^3, получено %d", len(chunk.Voxels))
	}

	// Проверяем, что блоки инициализированы как пустые
	pos := vec.Vec3{X: 3, Y: 4, Z: 7}
	if id := chunk.GetBlock(pos); id != block.AirBlockID {
		t.Errorf("Ожидался пустой блок (AirBlockID), получен %d", id)
	}

	// Устанавливаем и проверяем блок
	chunk.SetBlock(pos, block.StoneBlockID)
	if id := chunk.GetBlock(pos); id != block.StoneBlockID {
		t.Errorf("Ожидался StoneBlockID, получен %d", id)
	}
	if chunk.ChangeCounter != 1 {
		t.Errorf("Ожидался счётчик изменений 1, получено %d", chunk.ChangeCounter)
	}
}

func TestChunkPaddedLayout(t *testing.T) {
	chunk := NewChunk(vec.Vec3{}, 4, 2, nil)

	// локальная (0,0,0) лежит по индексу (1,1,1) в буфере 6^3
	chunk.SetBlock(vec.Vec3{}, block.SandBlockID)
	want := 1 + 1*6 + 1*36
	if chunk.Voxels[want] != block.SandBlockID {
		t.Errorf("Ожидался песок по индексу %d", want)
	}

	// X меняется быстрее всего
	chunk.SetPadded(2, 0, 0, block.DirtBlockID)
	if chunk.Voxels[2] != block.DirtBlockID {
		t.Errorf("Ожидалась земля по индексу 2")
	}

	if chunk.SetPadded(6, 0, 0, block.DirtBlockID) {
		t.Errorf("Запись вне буфера должна вернуть false")
	}
	if id := chunk.GetPadded(-1, 0, 0); id != block.AirBlockID {
		t.Errorf("Чтение вне буфера должно вернуть воздух, получено %d", id)
	}
}

func TestChunkDensityAndEmpty(t *testing.T) {
	chunk := NewChunk(vec.Vec3{}, 2, 0, nil)
	if !chunk.IsEmpty() {
		t.Errorf("Новый чанк должен быть пустым")
	}

	chunk.SetBlock(vec.Vec3{X: 1, Y: 1, Z: 1}, block.StoneBlockID)
	chunk.SetBlock(vec.Vec3{X: 0, Y: 1, Z: 1}, block.StoneBlockID)
	if chunk.IsEmpty() {
		t.Errorf("Чанк с камнем не должен быть пустым")
	}

	density := chunk.Density()
	if density[block.StoneBlockID] != 0.25 {
		t.Errorf("Ожидалась плотность камня 0.25, получено %f", density[block.StoneBlockID])
	}
	if density[block.AirBlockID] != 0.75 {
		t.Errorf("Ожидалась плотность воздуха 0.75, получено %f", density[block.AirBlockID])
	}
}
