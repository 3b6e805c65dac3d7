package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/annel0/voxel-engine/internal/util"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// Strategy возвращает значение вокселя для мировой координаты
type Strategy func(x, y, z int) block.BlockID

// Generate заполняет бокс [low, high) стратегией. Z внешний цикл, X внутренний,
// что совпадает с раскладкой буфера чанка.
func Generate(low, high vec.Vec3, s Strategy) []block.BlockID {
	dx, dy, dz := high.X-low.X, high.Y-low.Y, high.Z-low.Z
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return nil
	}

	voxels := make([]block.BlockID, 0, dx*dy*dz)
	for z := low.Z; z < high.Z; z++ {
		for y := low.Y; y < high.Y; y++ {
			for x := low.X; x < high.X; x++ {
				voxels = append(voxels, s(x, y, z))
			}
		}
	}
	return voxels
}

// StrategyGenerator превращает стратегию в генератор чанков
func StrategyGenerator(s Strategy) GenerateFunc {
	return func(low, high vec.Vec3) []block.BlockID {
		return Generate(low, high, s)
	}
}

// Sphere шар радиуса 16 в начале координат
func Sphere(i, j, k int) block.BlockID {
	if i*i+j*j+k*k <= 16*16 {
		return block.StoneBlockID
	}
	return block.AirBlockID
}

// Hill гауссов холм высотой 16
func Hill(i, j, k int) block.BlockID {
	if float64(j) <= 16*math.Exp(-float64(i*i+k*k)/64) {
		return block.GrassBlockID
	}
	return block.AirBlockID
}

// Valley параболическая долина
func Valley(i, j, k int) block.BlockID {
	if float64(j) <= float64(i*i+k*k)*31/(32*32*2)+1 {
		return block.GrassBlockID
	}
	return block.AirBlockID
}

// Checker шахматная решётка из двух материалов
func Checker(i, j, k int) block.BlockID {
	if (i+j+k)&1 == 0 {
		return block.AirBlockID
	}
	if (i^j^k)&2 != 0 {
		return block.StoneBlockID
	}
	return block.SnowBlockID
}

// Flat плоский мир: трава на y=0, земля ниже
func Flat(i, j, k int) block.BlockID {
	switch {
	case j > 0:
		return block.AirBlockID
	case j == 0:
		return block.GrassBlockID
	case j > -4:
		return block.DirtBlockID
	default:
		return block.StoneBlockID
	}
}

// HillyTerrain синусоидальные холмы; случайность заменена хешем от сида
func HillyTerrain(seed int64) Strategy {
	return func(i, j, k int) block.BlockID {
		fi, fj, fk := float64(i), float64(j), float64(k)
		h0 := 3*math.Sin(math.Pi*fi/12-math.Pi*fk*0.1) + 27
		if fj > h0+1 {
			return block.AirBlockID
		}
		if h0 <= fj {
			return block.GrassBlockID
		}
		h1 := 2*math.Sin(math.Pi*fi*0.25-math.Pi*fk*0.3) + 20
		if h1 <= fj {
			return block.DirtBlockID
		}
		if 2 < j {
			if util.Hash3(i, j, k, seed) < 0.1 {
				return block.DarkStoneBlockID
			}
			return block.LightStoneBlockID
		}
		return block.LavaBlockID
	}
}

// solidPalette материалы для шумовых стратегий
var solidPalette = []block.BlockID{
	block.StoneBlockID,
	block.GrassBlockID,
	block.DirtBlockID,
	block.SandBlockID,
	block.DarkStoneBlockID,
	block.LightStoneBlockID,
	block.LavaBlockID,
	block.SnowBlockID,
}

// Noise разреженный детерминированный шум: ~10% ячеек заполнены
func Noise(seed int64) Strategy {
	return noiseWithDensity(seed, 0.1)
}

// DenseNoise плотный детерминированный шум: ~50% ячеек заполнены
func DenseNoise(seed int64) Strategy {
	return noiseWithDensity(seed, 0.5)
}

func noiseWithDensity(seed int64, density float64) Strategy {
	return func(i, j, k int) block.BlockID {
		if util.Hash3(i, j, k, seed) >= density {
			return block.AirBlockID
		}
		pick := util.Hash3(i, j, k, seed+1)
		return solidPalette[int(pick*float64(len(solidPalette)))%len(solidPalette)]
	}
}

// BiomeType представляет тип биома
type BiomeType int

const (
	BiomePlains BiomeType = iota
	BiomeDesert
	BiomeForest
	BiomeMountains
	BiomeWater
	BiomeDeepWater
)

// Константы высот для генерации (доля от MaxHeight)
const (
	DeepWaterMax    = 0.20 // Ниже - глубинная вода
	ShallowWaterMax = 0.30 // Ниже - мелководье
	MountainStart   = 0.80 // Выше - горы
)

// TerrainGenerator генерирует ландшафт по карте высот Перлина
type TerrainGenerator struct {
	Seed       int64
	NoiseScale float64 // Масштаб основного шума (высота)
	BiomeScale float64 // Масштаб шума биомов
	MaxHeight  int     // Высота поверхности при шуме = 1

	height *util.PerlinNoise
	biome  *util.PerlinNoise
}

// NewTerrainGenerator создаёт генератор ландшафта
func NewTerrainGenerator(seed int64) *TerrainGenerator {
	return &TerrainGenerator{
		Seed:       seed,
		NoiseScale: 0.02, // Настройка сглаженности ландшафта
		BiomeScale: 0.01, // Настройка размера биомов
		MaxHeight:  48,
		height:     util.NewPerlinNoise(seed),
		biome:      util.NewPerlinNoise(seed + 42),
	}
}

// SurfaceHeight нормализованная высота столбца (0..1)
func (tg *TerrainGenerator) SurfaceHeight(x, z int) float64 {
	return tg.height.Noise2D(float64(x)*tg.NoiseScale, float64(z)*tg.NoiseScale)
}

// Biome определяет биом столбца
func (tg *TerrainGenerator) Biome(x, z int) BiomeType {
	height := tg.SurfaceHeight(x, z)
	if height < DeepWaterMax {
		return BiomeDeepWater
	}
	if height < ShallowWaterMax {
		return BiomeWater
	}
	if height > MountainStart {
		return BiomeMountains
	}

	biomeValue := tg.biome.Noise2D(float64(x)*tg.BiomeScale, float64(z)*tg.BiomeScale)
	switch {
	case biomeValue < 0.35:
		return BiomeDesert
	case biomeValue > 0.65:
		return BiomeForest
	default:
		return BiomePlains
	}
}

// Block стратегия генератора
func (tg *TerrainGenerator) Block(x, y, z int) block.BlockID {
	surface := int(tg.SurfaceHeight(x, z) * float64(tg.MaxHeight))
	waterLevel := int(ShallowWaterMax * float64(tg.MaxHeight))

	if y > surface {
		if y <= waterLevel {
			return block.WaterBlockID
		}
		return block.AirBlockID
	}
	if y < surface-3 {
		return block.StoneBlockID
	}

	switch tg.Biome(x, z) {
	case BiomeDesert, BiomeWater, BiomeDeepWater:
		return block.SandBlockID
	case BiomeMountains:
		if y == surface && surface > int(0.9*float64(tg.MaxHeight)) {
			return block.SnowBlockID
		}
		return block.StoneBlockID
	default:
		if y == surface {
			return block.GrassBlockID
		}
		return block.DirtBlockID
	}
}

// Именованные стратегии
const (
	StrategySphere       = "Sphere"
	StrategyHill         = "Hill"
	StrategyValley       = "Valley"
	StrategyHillyTerrain = "HillyTerrain"
	StrategyChecker      = "Checker"
	StrategyNoise        = "Noise"
	StrategyDenseNoise   = "DenseNoise"
	StrategyFlat         = "Flat"
	StrategyPerlin       = "Perlin"
)

var strategyFactories = map[string]func(seed int64) Strategy{
	StrategySphere:       func(int64) Strategy { return Sphere },
	StrategyHill:         func(int64) Strategy { return Hill },
	StrategyValley:       func(int64) Strategy { return Valley },
	StrategyChecker:      func(int64) Strategy { return Checker },
	StrategyFlat:         func(int64) Strategy { return Flat },
	StrategyHillyTerrain: HillyTerrain,
	StrategyNoise:        Noise,
	StrategyDenseNoise:   DenseNoise,
	StrategyPerlin:       func(seed int64) Strategy { return NewTerrainGenerator(seed).Block },
}

// NewStrategy возвращает стратегию по имени; пустое имя означает Sphere
func NewStrategy(name string, seed int64) (Strategy, error) {
	if name == "" {
		name = StrategySphere
	}
	factory, ok := strategyFactories[name]
	if !ok {
		return nil, fmt.Errorf("world: unknown generator strategy %q", name)
	}
	return factory(seed), nil
}

// StrategyNames имена всех встроенных стратегий
func StrategyNames() []string {
	names := make([]string, 0, len(strategyFactories))
	for name := range strategyFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
