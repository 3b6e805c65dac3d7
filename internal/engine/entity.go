package engine

import (
	"github.com/google/uuid"

	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/vec"
)

// Размеры тела игрока
const (
	PlayerWidth  = 0.7
	PlayerHeight = 1.6
)

// EntityTick вызывается каждый тик для сущности
type EntityTick func(e *Entity, dt float64)

// Entity объект мира с необязательным физическим телом
type Entity struct {
	ID     uuid.UUID
	Data   any
	Body   *physics.Body // nil для сущностей без физики
	Offset vec.Vec3Float // Смещение точки привязки от минимального угла бокса
	Mesh   Mesh
	Tick   EntityTick
}

// Position позиция сущности: угол бокса плюс смещение
func (e *Entity) Position() vec.Vec3Float {
	if e.Body == nil {
		return e.Offset
	}
	return e.Body.Box.Base.Add(e.Offset)
}

// AddEntity создаёт сущность. Если box задан, тело регистрируется в физике.
func (e *Engine) AddEntity(data any, box *physics.AABB, offset vec.Vec3Float, tick EntityTick) *Entity {
	ent := &Entity{
		ID:     uuid.New(),
		Data:   data,
		Offset: offset,
		Tick:   tick,
	}
	if box != nil {
		ent.Body = e.physics.MakePhysical(box.Base, box.Vec, false)
		e.physics.AddBody(ent.Body)
	}
	e.entities = append(e.entities, ent)
	return ent
}

// RemoveEntity удаляет сущность и её тело
func (e *Engine) RemoveEntity(ent *Entity) bool {
	for i, other := range e.entities {
		if other != ent {
			continue
		}
		e.entities = append(e.entities[:i], e.entities[i+1:]...)
		if ent.Body != nil {
			e.physics.RemoveBody(ent.Body)
		}
		if ent.Mesh != nil {
			ent.Mesh.Release()
			ent.Mesh = nil
		}
		if ent == e.player {
			e.player = nil
		}
		return true
	}
	return false
}

// Entities количество сущностей
func (e *Engine) Entities() int {
	return len(e.entities)
}

// Player сущность игрока (наблюдателя)
func (e *Engine) Player() *Entity {
	return e.player
}

// PlayerPosition позиция наблюдателя: середина основания бокса игрока
func (e *Engine) PlayerPosition() vec.Vec3Float {
	if e.player == nil {
		return toVec(e.cfg.StartingPosition)
	}
	return e.player.Position()
}

// TeleportPlayer мгновенно переносит игрока; скорость сбрасывается
func (e *Engine) TeleportPlayer(pos vec.Vec3Float) {
	if e.player == nil || e.player.Body == nil {
		return
	}
	e.player.Body.Box.Base = pos.Sub(e.player.Offset)
	e.player.Body.Velocity = vec.Vec3Float{}
	e.player.Body.Resting = vec.Vec3{}
}

func (e *Engine) addPlayer() {
	offset := vec.Vec3Float{X: PlayerWidth / 2, Z: PlayerWidth / 2}
	start := toVec(e.cfg.StartingPosition)
	body := e.physics.MakePhysical(start.Sub(offset), vec.Vec3Float{X: PlayerWidth, Y: PlayerHeight, Z: PlayerWidth}, true)
	e.physics.AddBody(body)

	e.player = &Entity{
		ID:     uuid.New(),
		Data:   "player",
		Body:   body,
		Offset: offset,
		Tick:   e.followCamera,
	}
	e.entities = append(e.entities, e.player)
	if e.controller != nil {
		e.controller.SetTarget(body)
	}
}

// followCamera ставит камеру на уровень глаз игрока
func (e *Engine) followCamera(ent *Entity, _ float64) {
	if e.camera == nil || ent.Body == nil {
		return
	}
	eye := vec.Vec3Float{X: PlayerWidth / 2, Y: e.cfg.PlayerHeight, Z: PlayerWidth / 2}
	e.camera.SetPosition(ent.Body.Box.Base.Add(eye))
}
