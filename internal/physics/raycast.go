package physics

import (
	"math"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// Hit результат трассировки луча
type Hit struct {
	Position  vec.Vec3Float // Точка на грани вошедшего вокселя
	Voxel     vec.Vec3      // Координата попавшего вокселя
	Value     block.BlockID // Значение вокселя
	Normal    vec.Vec3      // Нормаль грани; нулевая, если луч начался внутри твёрдого
	Adjacent  vec.Vec3      // Воксель перед гранью (Voxel + Normal)
	Direction vec.Vec3Float // Нормализованное направление луча
	Distance  float64
}

// Raycaster трассирует лучи по сетке вокселей (DDA Amanatides-Woo)
type Raycaster struct {
	getBlock BlockGetter
}

// NewRaycaster создаёт трассировщик
func NewRaycaster(getBlock BlockGetter) *Raycaster {
	return &Raycaster{getBlock: getBlock}
}

// Cast ищет первый твёрдый воксель вдоль луча в пределах maxDistance.
// При равенстве времён пересечения ось выбирается в порядке X, Y, Z.
func (r *Raycaster) Cast(origin, direction vec.Vec3Float, maxDistance, epsilon float64) (Hit, bool) {
	// бесконечная дистанция недопустима: по пустому миру цикл не завершится
	if !origin.IsFinite() || !direction.IsFinite() || !(maxDistance >= 0) || math.IsInf(maxDistance, 1) {
		return Hit{}, false
	}
	dir := direction.Normalized()
	if dir.Length() == 0 {
		return Hit{}, false
	}

	cell := origin.Floor()
	if value := r.getBlock(cell); block.IsSolid(value) {
		return Hit{
			Position:  origin,
			Voxel:     cell,
			Value:     value,
			Adjacent:  cell,
			Direction: dir,
		}, true
	}

	var step vec.Vec3
	var tMax, tDelta vec.Vec3Float
	for _, axis := range vec.Axes {
		d := dir.Get(axis)
		o := origin.Get(axis)
		c := float64(cell.Get(axis))
		switch {
		case d > 0:
			step = step.With(axis, 1)
			tDelta = tDelta.With(axis, 1/d)
			tMax = tMax.With(axis, (c+1-o)/d)
		case d < 0:
			step = step.With(axis, -1)
			tDelta = tDelta.With(axis, -1/d)
			tMax = tMax.With(axis, (o-c)/-d)
		default:
			tDelta = tDelta.With(axis, math.Inf(1))
			tMax = tMax.With(axis, math.Inf(1))
		}
	}

	for {
		axis := vec.AxisX
		if tMax.Y < tMax.Get(axis) {
			axis = vec.AxisY
		}
		if tMax.Z < tMax.Get(axis) {
			axis = vec.AxisZ
		}

		t := tMax.Get(axis)
		if t > maxDistance {
			return Hit{}, false
		}

		s := step.Get(axis)
		cell = cell.With(axis, cell.Get(axis)+s)
		tMax = tMax.With(axis, t+tDelta.Get(axis))

		value := r.getBlock(cell)
		if !block.IsSolid(value) {
			continue
		}

		normal := vec.Vec3{}.With(axis, -s)
		pos := origin.Add(dir.Mul(t))
		if s > 0 {
			pos = pos.With(axis, float64(cell.Get(axis)))
		} else {
			pos = pos.With(axis, float64(cell.Get(axis)+1)-epsilon)
		}

		return Hit{
			Position:  pos,
			Voxel:     cell,
			Value:     value,
			Normal:    normal,
			Adjacent:  cell.Add(normal),
			Direction: dir,
			Distance:  t,
		}, true
	}
}
