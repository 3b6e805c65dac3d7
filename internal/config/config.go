package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EngineConfig параметры мира и стриминга чанков.
// Единица времени: миллисекунды тика.
type EngineConfig struct {
	ChunkSize            int        `yaml:"chunk_size"`
	ChunkPad             int        `yaml:"chunk_pad"`
	ChunkDistance        int        `yaml:"chunk_distance"`  // Радиус загрузки
	RemoveDistance       int        `yaml:"remove_distance"` // Радиус выгрузки, 0 = chunk_distance+1
	Generate             string     `yaml:"generate"`
	Seed                 int64      `yaml:"seed"`
	GenerateChunks       bool       `yaml:"generate_chunks"`
	AsyncChunkGeneration bool       `yaml:"async_chunk_generation"`
	AsyncDelay           float64    `yaml:"async_delay"`
	AsyncFraction        float64    `yaml:"async_fraction"`
	TickRate             int        `yaml:"tick_rate"`
	MaxTickDelta         float64    `yaml:"max_tick_delta"`
	StartingPosition     [3]float64 `yaml:"starting_position"`
	WorldOrigin          [3]float64 `yaml:"world_origin"`
	PlayerHeight         float64    `yaml:"player_height"`
	RaycastDistance      float64    `yaml:"raycast_distance"`
}

// PhysicsConfig параметры интегратора
type PhysicsConfig struct {
	Gravity          [3]float64 `yaml:"gravity"`
	Friction         float64    `yaml:"friction"`
	Epsilon          float64    `yaml:"epsilon"`
	TerminalVelocity [3]float64 `yaml:"terminal_velocity"`
}

type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"` // Пусто: только консоль
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "VOXEL_HTTP_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// DefaultEngine значения по умолчанию для движка
func DefaultEngine() EngineConfig {
	return EngineConfig{
		ChunkSize:            32,
		ChunkPad:             4,
		ChunkDistance:        2,
		RemoveDistance:       3,
		Generate:             "Sphere",
		GenerateChunks:       true,
		AsyncChunkGeneration: true,
		AsyncDelay:           2000,
		AsyncFraction:        0.1,
		TickRate:             16,
		MaxTickDelta:         200,
		StartingPosition:     [3]float64{35, 1024, 35},
		WorldOrigin:          [3]float64{0, 0, 0},
		PlayerHeight:         1.62,
		RaycastDistance:      10,
	}
}

// DefaultPhysics значения по умолчанию для физики
func DefaultPhysics() PhysicsConfig {
	return PhysicsConfig{
		Gravity:          [3]float64{0, -0.0000036, 0},
		Friction:         0.3,
		Epsilon:          1e-8,
		TerminalVelocity: [3]float64{0.9, 0.1, 0.9},
	}
}

// Default полная конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Engine:  DefaultEngine(),
		Physics: DefaultPhysics(),
		Logging: LoggingConfig{ConsoleLevel: "INFO", FileLevel: "DEBUG"},
		Telemetry: TelemetryConfig{
			ServiceName: "voxel-engine",
		},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV VOXEL_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан: использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	// remove_distance по умолчанию зависит от chunk_distance
	cfg.Engine.RemoveDistance = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}
	if cfg.Engine.RemoveDistance == 0 {
		cfg.Engine.RemoveDistance = cfg.Engine.ChunkDistance + 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ErrInvalidConfig общая ошибка валидации
var ErrInvalidConfig = errors.New("invalid config")

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	return c.Engine.Validate()
}

// Validate проверяет параметры движка
func (e *EngineConfig) Validate() error {
	switch {
	case e.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidConfig, e.ChunkSize)
	case e.ChunkPad < 0 || e.ChunkPad%2 != 0:
		return fmt.Errorf("%w: chunk_pad must be a non-negative even number, got %d", ErrInvalidConfig, e.ChunkPad)
	case e.ChunkDistance < 0:
		return fmt.Errorf("%w: chunk_distance must be non-negative, got %d", ErrInvalidConfig, e.ChunkDistance)
	case e.RemoveDistance <= e.ChunkDistance:
		return fmt.Errorf("%w: remove_distance (%d) must be greater than chunk_distance (%d)",
			ErrInvalidConfig, e.RemoveDistance, e.ChunkDistance)
	case e.AsyncFraction < 0 || e.AsyncFraction > 1:
		return fmt.Errorf("%w: async_fraction must be within [0, 1], got %v", ErrInvalidConfig, e.AsyncFraction)
	case e.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalidConfig, e.TickRate)
	case e.MaxTickDelta <= 0:
		return fmt.Errorf("%w: max_tick_delta must be positive, got %v", ErrInvalidConfig, e.MaxTickDelta)
	}
	return nil
}
