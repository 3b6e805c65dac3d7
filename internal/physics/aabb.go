package physics

import (
	"github.com/annel0/voxel-engine/internal/vec"
)

// AABB осевой ограничивающий параллелепипед: минимальный угол Base и размер Vec
type AABB struct {
	Base vec.Vec3Float
	Vec  vec.Vec3Float
}

// NewAABB создаёт бокс с минимальным углом base и размерами size
func NewAABB(base, size vec.Vec3Float) *AABB {
	return &AABB{Base: base, Vec: size}
}

// Max возвращает максимальный угол
func (b *AABB) Max() vec.Vec3Float {
	return b.Base.Add(b.Vec)
}

// Center возвращает центр бокса
func (b *AABB) Center() vec.Vec3Float {
	return b.Base.Add(b.Vec.Mul(0.5))
}

// Translate сдвигает бокс
func (b *AABB) Translate(d vec.Vec3Float) {
	b.Base = b.Base.Add(d)
}

// TranslateAxis сдвигает бокс вдоль одной оси
func (b *AABB) TranslateAxis(axis vec.Axis, d float64) {
	b.Base = b.Base.With(axis, b.Base.Get(axis)+d)
}

// Intersects проверяет строгое пересечение (касание не считается)
func (b *AABB) Intersects(other *AABB) bool {
	bMax, oMax := b.Max(), other.Max()
	return b.Base.X < oMax.X && bMax.X > other.Base.X &&
		b.Base.Y < oMax.Y && bMax.Y > other.Base.Y &&
		b.Base.Z < oMax.Z && bMax.Z > other.Base.Z
}

// VoxelBox бокс единичного вокселя
func VoxelBox(v vec.Vec3) *AABB {
	return NewAABB(v.ToFloat(), vec.Vec3Float{X: 1, Y: 1, Z: 1})
}
