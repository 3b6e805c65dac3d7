package physics

import (
	"math"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// BlockGetter возвращает значение вокселя; незагруженные области считаются воздухом
type BlockGetter func(v vec.Vec3) block.BlockID

// Mover часть тела, которую изменяет разрешение столкновений
type Mover struct {
	Acceleration vec.Vec3Float
	Friction     vec.Vec3Float
}

// Contact результат свипа
type Contact struct {
	Displacement vec.Vec3Float // Скорректированное смещение
	Resting      vec.Vec3      // Направление упора по оси (-1, 0, 1)
}

// Blocked проверяет, упёрлось ли тело по оси
func (c Contact) Blocked(axis vec.Axis) bool {
	return c.Resting.Get(axis) != 0
}

// Resolver разрешает столкновения движущегося бокса с сеткой вокселей
type Resolver struct {
	getBlock BlockGetter
	tileSize float64
	friction float64
	epsilon  float64
}

// NewResolver создаёт резолвер столкновений
func NewResolver(getBlock BlockGetter, tileSize, friction, epsilon float64) *Resolver {
	if tileSize <= 0 {
		tileSize = 1
	}
	return &Resolver{
		getBlock: getBlock,
		tileSize: tileSize,
		friction: friction,
		epsilon:  epsilon,
	}
}

// Sweep двигает бокс на displacement по осям X, Y, Z по очереди.
// На каждой оси перебираются тайлы от первого за ведущей гранью до тайла
// назначения в сечении бокса; первый твёрдый тайл обрезает смещение до грани.
// Бокс сдвигается на итоговое смещение.
func (r *Resolver) Sweep(box *AABB, displacement vec.Vec3Float, mover *Mover) Contact {
	contact := Contact{Displacement: displacement}

	for _, axis := range vec.Axes {
		d := contact.Displacement.Get(axis)
		if d == 0 {
			continue
		}

		if edge, hit := r.sweepAxis(box, axis, d); hit {
			dir := sign(d)
			contact.Displacement = contact.Displacement.With(axis, edge)
			contact.Resting = contact.Resting.With(axis, dir)
			if mover != nil {
				mover.Acceleration = mover.Acceleration.With(axis, 0)
				f := 1.0
				if axis == vec.AxisY {
					f = r.friction
				}
				mover.Friction = mover.Friction.With((axis+1)%3, f)
				mover.Friction = mover.Friction.With((axis+2)%3, f)
			}
		}

		box.TranslateAxis(axis, contact.Displacement.Get(axis))
	}
	return contact
}

// sweepAxis ищет первый твёрдый тайл на пути по оси.
// Возвращает расстояние от ведущей грани до грани тайла.
func (r *Resolver) sweepAxis(box *AABB, axis vec.Axis, d float64) (float64, bool) {
	ts, eps := r.tileSize, r.epsilon
	dir := sign(d)

	base := box.Base.Get(axis)
	max := box.Max().Get(axis)
	leading := base
	var start int
	if dir > 0 {
		leading = max
		start = int(math.Ceil((max - eps) / ts))
	} else {
		start = int(math.Floor((base+eps)/ts)) - 1
	}
	end := int(math.Floor((leading+d)/ts)) + dir

	a1 := (axis + 1) % 3
	a2 := (axis + 2) % 3
	lo1, hi1 := r.crossRange(box, a1)
	lo2, hi2 := r.crossRange(box, a2)

	// start всегда по ту же сторону от end, что и направление движения
	for i := start; i != end; i += dir {
		for j := lo1; j < hi1; j++ {
			for k := lo2; k < hi2; k++ {
				tile := vec.Vec3{}.With(axis, i).With(a1, j).With(a2, k)
				if !block.IsSolid(r.getBlock(tile)) {
					continue
				}

				var face float64
				if dir > 0 {
					face = float64(i) * ts
				} else {
					face = float64(i+1) * ts
				}
				edge := face - leading
				if math.Abs(d) < math.Abs(edge) {
					continue
				}
				return edge, true
			}
		}
	}
	return 0, false
}

// crossRange диапазон тайлов [lo, hi) сечения бокса по оси
func (r *Resolver) crossRange(box *AABB, axis vec.Axis) (int, int) {
	lo := int(math.Floor((box.Base.Get(axis) + r.epsilon) / r.tileSize))
	hi := int(math.Ceil((box.Max().Get(axis) - r.epsilon) / r.tileSize))
	return lo, hi
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
