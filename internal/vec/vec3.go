package vec

import (
	"fmt"
	"math"
)

// Vec3 представляет трехмерный вектор с целочисленными координатами
// (координаты вокселя или чанка)
type Vec3 struct {
	X int
	Y int
	Z int
}

// Vec3Float представляет трехмерный вектор с плавающими координатами
// (мировая позиция, скорость, направление луча)
type Vec3Float struct {
	X float64
	Y float64
	Z float64
}

// Axis индекс оси (0 = X, 1 = Y, 2 = Z)
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes фиксированный порядок обхода осей
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// String возвращает строковое представление вектора
func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Scale умножает вектор на целое число
func (v Vec3) Scale(k int) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Get возвращает компоненту по оси
func (v Vec3) Get(axis Axis) int {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// With возвращает копию вектора с заменённой компонентой
func (v Vec3) With(axis Axis, value int) Vec3 {
	switch axis {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// ChebyshevDistance возвращает расстояние по максимальной оси
func (v Vec3) ChebyshevDistance(other Vec3) int {
	d := absInt(v.X - other.X)
	if dy := absInt(v.Y - other.Y); dy > d {
		d = dy
	}
	if dz := absInt(v.Z - other.Z); dz > d {
		d = dz
	}
	return d
}

// Less задаёт лексикографический порядок (x, y, z)
func (v Vec3) Less(other Vec3) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.Z < other.Z
}

// ToFloat преобразует в вектор с плавающей точкой
func (v Vec3) ToFloat() Vec3Float {
	return Vec3Float{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// DistanceTo возвращает квадрат расстояния до другого вектора
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return float64(dx*dx + dy*dy + dz*dz)
}

// String возвращает строковое представление вектора
func (v Vec3Float) String() string {
	return fmt.Sprintf("(%.3f,%.3f,%.3f)", v.X, v.Y, v.Z)
}

// Add складывает два вектора
func (v Vec3Float) Add(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub вычитает вектор
func (v Vec3Float) Sub(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Mul умножает вектор на скаляр
func (v Vec3Float) Mul(scalar float64) Vec3Float {
	return Vec3Float{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// MulVec умножает покомпонентно
func (v Vec3Float) MulVec(other Vec3Float) Vec3Float {
	return Vec3Float{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z}
}

// Length возвращает длину вектора
func (v Vec3Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized возвращает нормализованный вектор
func (v Vec3Float) Normalized() Vec3Float {
	length := v.Length()
	if length == 0 {
		return Vec3Float{}
	}
	return v.Mul(1 / length)
}

// Floor округляет каждую компоненту вниз
func (v Vec3Float) Floor() Vec3 {
	return Vec3{
		X: int(math.Floor(v.X)),
		Y: int(math.Floor(v.Y)),
		Z: int(math.Floor(v.Z)),
	}
}

// Get возвращает компоненту по оси
func (v Vec3Float) Get(axis Axis) float64 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// With возвращает копию вектора с заменённой компонентой
func (v Vec3Float) With(axis Axis, value float64) Vec3Float {
	switch axis {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// IsFinite проверяет, что все компоненты конечны (не NaN и не ±Inf)
func (v Vec3Float) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// FloorDiv делит с округлением к минус бесконечности
func FloorDiv(value, size int) int {
	if size <= 0 {
		return 0
	}
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}

// Mod возвращает неотрицательный остаток
func Mod(value, size int) int {
	m := value % size
	if m < 0 {
		m += size
	}
	return m
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
