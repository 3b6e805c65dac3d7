package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/annel0/voxel-engine/internal/api"
	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/engine"
	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/observability"
	"github.com/annel0/voxel-engine/internal/vec"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (или VOXEL_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	consoleLevel, err := logging.ParseLevel(cfg.Logging.ConsoleLevel)
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации логирования: %v", err)
	}
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel)
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации логирования: %v", err)
	}
	if err := logging.InitLogger(cfg.Logging.Dir, consoleLevel, fileLevel); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseLogger()

	logger := logging.GetServerLogger()
	logger.Info("🎮 Запуск Voxel Engine (generate=%s, chunk=%d, radius=%d/%d)",
		cfg.Engine.Generate, cfg.Engine.ChunkSize, cfg.Engine.ChunkDistance, cfg.Engine.RemoveDistance)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		logger.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	bus := eventbus.NewSyncBus()
	if err := eventbus.RegisterMetrics(reg, bus); err != nil {
		logger.Error("❌ Ошибка регистрации метрик шины: %v", err)
		os.Exit(1)
	}
	if _, err := eventbus.StartLoggingListener(bus, logging.GetWorldLogger()); err != nil {
		logger.Error("❌ Ошибка подписки логгера событий: %v", err)
		os.Exit(1)
	}

	// === ДВИЖОК ===
	physCfg := engine.PhysicsFromConfig(cfg.Physics)
	var world *engine.Engine
	world, err = engine.New(cfg.Engine, engine.Options{
		Physics:    &physCfg,
		Mesher:     engine.SurfaceMesher{},
		Stitcher:   engine.NewPaletteAtlas(),
		Camera:     &engine.FreeCamera{},
		Registerer: reg,
		Bus:        bus,
		Logger:     logging.GetEngineLogger(),
		CreationGuard: func(v vec.Vec3) bool {
			return !world.Physics().BlocksCreationAt(v)
		},
	})
	if err != nil {
		logger.Error("❌ Ошибка создания движка: %v", err)
		os.Exit(1)
	}

	// На сервере атлас готов сразу
	if err := world.OnAtlasReady(); err != nil {
		logger.Error("❌ Ошибка генерации мира: %v", err)
		os.Exit(1)
	}

	runner := engine.NewRunner(world, cfg.Engine.TickRate)

	// === REST API ===
	restServer, err := api.NewRestServer(api.Config{
		Port:       fmt.Sprintf(":%d", cfg.Server.GetRESTPort()),
		Runner:     runner,
		Registerer: reg,
		Gatherer:   reg,
		Logger:     logging.GetAPILogger(),
	})
	if err != nil {
		logger.Error("❌ Ошибка создания REST API: %v", err)
		os.Exit(1)
	}
	go func() {
		if err := restServer.Start(); err != nil {
			logger.Error("❌ REST API остановлен с ошибкой: %v", err)
			stop()
		}
	}()

	logger.Info("✅ Мир запущен, тик %d мс", cfg.Engine.TickRate)
	logger.Info("   ❤️  Health check: http://localhost:%d/health", cfg.Server.GetRESTPort())
	logger.Info("   📊 Метрики: http://localhost:%d/metrics", cfg.Server.GetRESTPort())

	runErr := runner.Run(ctx)
	switch {
	case errors.Is(runErr, context.Canceled):
		logger.Info("📡 Получен сигнал завершения, остановка...")
	case runErr != nil:
		logger.Error("❌ Цикл движка остановлен: %v", runErr)
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := restServer.Stop(shutdownCtx); err != nil {
		logger.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Warn("Ошибка остановки телеметрии: %v", err)
	}

	logger.Info("👋 Сервер остановлен после %d тиков", runner.Ticks())
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logging.CloseLogger()
		os.Exit(1)
	}
}
