package physics

import (
	"math"

	"github.com/annel0/voxel-engine/internal/vec"
)

// Config параметры интегратора
type Config struct {
	Gravity          vec.Vec3Float
	Friction         float64
	Epsilon          float64
	TerminalVelocity vec.Vec3Float
}

// DefaultEnvelope размер тела по умолчанию
var DefaultEnvelope = vec.Vec3Float{X: 2.0 / 3.0, Y: 1.5, Z: 2.0 / 3.0}

// DefaultConfig возвращает стандартные параметры физики
func DefaultConfig() Config {
	return Config{
		Gravity:          vec.Vec3Float{Y: -0.0000036},
		Friction:         0.3,
		Epsilon:          1e-8,
		TerminalVelocity: vec.Vec3Float{X: 0.9, Y: 0.1, Z: 0.9},
	}
}

// Body физическое тело
type Body struct {
	Mover
	Box            *AABB
	Velocity       vec.Vec3Float
	Resting        vec.Vec3
	Terminal       vec.Vec3Float
	BlocksCreation bool // Тело мешает ставить блоки в занятые им воксели
}

var unitFriction = vec.Vec3Float{X: 1, Y: 1, Z: 1}

// Engine минимальный интегратор: шаг Эйлера и столкновения с ландшафтом.
// Не потокобезопасен.
type Engine struct {
	cfg      Config
	resolver *Resolver
	bodies   []*Body
}

// NewEngine создаёт интегратор поверх функции чтения вокселей
func NewEngine(cfg Config, getBlock BlockGetter) *Engine {
	return &Engine{
		cfg:      cfg,
		resolver: NewResolver(getBlock, 1, cfg.Friction, cfg.Epsilon),
	}
}

// Config возвращает параметры интегратора
func (e *Engine) Config() Config {
	return e.cfg
}

// Resolver возвращает резолвер столкновений
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// MakePhysical создаёт тело с боксом envelope в позиции base (минимальный угол).
// Тело не регистрируется в движке.
func (e *Engine) MakePhysical(base, envelope vec.Vec3Float, blocksCreation bool) *Body {
	if envelope == (vec.Vec3Float{}) {
		envelope = DefaultEnvelope
	}
	return &Body{
		Mover:          Mover{Friction: unitFriction},
		Box:            NewAABB(base, envelope),
		Terminal:       e.cfg.TerminalVelocity,
		BlocksCreation: blocksCreation,
	}
}

// AddBody регистрирует тело
func (e *Engine) AddBody(b *Body) {
	e.bodies = append(e.bodies, b)
}

// RemoveBody удаляет тело; false если тело не найдено
func (e *Engine) RemoveBody(b *Body) bool {
	for i, other := range e.bodies {
		if other == b {
			e.bodies = append(e.bodies[:i], e.bodies[i+1:]...)
			return true
		}
	}
	return false
}

// Bodies количество зарегистрированных тел
func (e *Engine) Bodies() int {
	return len(e.bodies)
}

// Tick продвигает все тела на dt
func (e *Engine) Tick(dt float64) {
	for _, b := range e.bodies {
		e.step(b, dt)
	}
}

func (e *Engine) step(b *Body, dt float64) {
	accel := b.Acceleration
	if b.Resting.Y >= 0 {
		accel = accel.Add(e.cfg.Gravity)
	}

	v := b.Velocity.Add(accel.Mul(dt)).MulVec(b.Friction)
	b.Friction = unitFriction
	for _, axis := range vec.Axes {
		limit := b.Terminal.Get(axis)
		if limit > 0 && math.Abs(v.Get(axis)) > limit {
			v = v.With(axis, math.Copysign(limit, v.Get(axis)))
		}
	}

	contact := e.resolver.Sweep(b.Box, v.Mul(dt), &b.Mover)
	b.Resting = contact.Resting
	for _, axis := range vec.Axes {
		if contact.Blocked(axis) {
			v = v.With(axis, 0)
		}
	}
	b.Velocity = v
}

// BlocksCreationAt проверяет, занят ли воксель телом, мешающим ставить блоки
func (e *Engine) BlocksCreationAt(v vec.Vec3) bool {
	cell := VoxelBox(v)
	for _, b := range e.bodies {
		if b.BlocksCreation && b.Box.Intersects(cell) {
			return true
		}
	}
	return false
}
