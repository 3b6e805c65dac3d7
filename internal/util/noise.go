package util

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума по умолчанию
const (
	DefaultAlpha   = 2.0 // Сглаживание шума
	DefaultBeta    = 2.0 // Частота шума
	DefaultOctaves = 3   // Количество октав
)

// PerlinNoise детерминированный генератор шума Перлина.
// Каждый генератор мира владеет своим экземпляром, глобального состояния нет.
type PerlinNoise struct {
	seed  int64
	noise *perlin.Perlin
}

// NewPerlinNoise создаёт генератор шума с указанным сидом
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{
		seed:  seed,
		noise: perlin.NewPerlin(DefaultAlpha, DefaultBeta, DefaultOctaves, seed),
	}
}

// Seed возвращает сид генератора
func (p *PerlinNoise) Seed() int64 {
	return p.seed
}

// Noise2D возвращает значение шума для указанных координат (от 0 до 1)
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	// go-perlin отдаёт примерно [-1, 1]
	return clamp01((p.noise.Noise2D(x, y) + 1.0) / 2.0)
}

// Noise3D возвращает значение трёхмерного шума (от 0 до 1)
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	return clamp01((p.noise.Noise3D(x, y, z) + 1.0) / 2.0)
}

// Hash3 детерминированный хеш целочисленных координат и сида в [0, 1)
func Hash3(x, y, z int, seed int64) float64 {
	h := uint64(seed) ^ 0x9e3779b97f4a7c15
	h ^= uint64(int64(x)) * 0xbf58476d1ce4e5b9
	h = mix(h)
	h ^= uint64(int64(y)) * 0x94d049bb133111eb
	h = mix(h)
	h ^= uint64(int64(z)) * 0xff51afd7ed558ccd
	h = mix(h)
	return float64(h>>11) / float64(uint64(1)<<53)
}

// splitmix64 финализатор
func mix(h uint64) uint64 {
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
