package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/observability"
	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// Имена трекеров регионов
const (
	RegionVoxel = "voxel"
	RegionChunk = "chunk"
)

// CreationGuard разрешает или запрещает ставить блок в воксель
type CreationGuard func(v vec.Vec3) bool

// Options внешние зависимости движка. Все поля необязательны.
type Options struct {
	Generate      world.GenerateFunc // nil: стратегия из cfg.Generate
	Physics       *physics.Config    // nil: physics.DefaultConfig()
	Mesher        Mesher
	Stitcher      Stitcher
	Graphics      GraphicsContext
	Camera        Camera
	Controller    Controller
	Registerer    prometheus.Registerer
	CreationGuard CreationGuard
	Bus           eventbus.EventBus
	Logger        *logging.Logger
}

// Engine контекст мира: сетка, стриминг, физика, сетки чанков и сущности.
// Не потокобезопасен: все вызовы из одной горутины (см. Runner).
type Engine struct {
	cfg  config.EngineConfig
	ctx  context.Context
	log  *logging.Logger
	bus  eventbus.EventBus
	tick uint64

	grid      *world.Grid
	streamer  *world.Streamer
	dirty     *world.DirtyBatcher
	regions   *world.RegionSet
	physics   *physics.Engine
	raycaster *physics.Raycaster
	scheduler *Scheduler
	metrics   *Metrics
	tracer    oteltrace.Tracer

	mesher     Mesher
	stitcher   Stitcher
	gl         GraphicsContext
	camera     Camera
	controller Controller
	guard      CreationGuard
	meshes     map[vec.Vec3]Mesh

	entities []*Entity
	player   *Entity

	ready bool // атлас готов: можно запрашивать и показывать чанки
}

// New собирает движок по конфигурации
func New(cfg config.EngineConfig, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gen := opts.Generate
	if gen == nil {
		strategy, err := world.NewStrategy(cfg.Generate, cfg.Seed)
		if err != nil {
			return nil, err
		}
		gen = world.StrategyGenerator(strategy)
	}

	physCfg := physics.DefaultConfig()
	if opts.Physics != nil {
		physCfg = *opts.Physics
	}

	e := &Engine{
		cfg:        cfg,
		ctx:        context.Background(),
		log:        opts.Logger,
		bus:        opts.Bus,
		dirty:      world.NewDirtyBatcher(),
		regions:    world.NewRegionSet(),
		scheduler:  NewScheduler(),
		tracer:     observability.Tracer(),
		mesher:     opts.Mesher,
		stitcher:   opts.Stitcher,
		gl:         opts.Graphics,
		camera:     opts.Camera,
		controller: opts.Controller,
		guard:      opts.CreationGuard,
		meshes:     make(map[vec.Vec3]Mesh),
	}
	if e.log == nil {
		e.log = logging.GetEngineLogger()
	}
	if e.bus == nil {
		e.bus = eventbus.NewSyncBus()
	}

	var err error
	if e.metrics, err = NewMetrics(opts.Registerer); err != nil {
		return nil, fmt.Errorf("регистрация метрик: %w", err)
	}
	if e.grid, err = world.NewGrid(cfg.ChunkSize, cfg.ChunkPad, gen); err != nil {
		return nil, err
	}
	e.streamer, err = world.NewStreamer(e.grid, world.StreamerOptions{
		LoadRadius:    cfg.ChunkDistance,
		EvictRadius:   cfg.RemoveDistance,
		AsyncFraction: cfg.AsyncFraction,
	}, world.StreamerHooks{
		OnGenerated: e.onChunkGenerated,
		OnEvicted:   e.onChunkEvicted,
	})
	if err != nil {
		return nil, err
	}

	e.physics = physics.NewEngine(physCfg, e.grid.VoxelAtCoord)
	e.raycaster = physics.NewRaycaster(e.grid.VoxelAtCoord)

	e.regions.Add(RegionVoxel, world.NewCubicRegionTracker(1), func(r vec.Vec3) {
		e.emit(EventVoxelRegion, RegionEvent{Region: r, Position: e.PlayerPosition()})
	})
	e.regions.Add(RegionChunk, world.NewCubicRegionTracker(float64(cfg.ChunkSize)), e.onChunkRegion)

	e.addPlayer()
	e.log.Info("🌍 Движок создан: chunk=%d pad=%d load=%d evict=%d generate=%s",
		cfg.ChunkSize, cfg.ChunkPad, cfg.ChunkDistance, cfg.RemoveDistance, cfg.Generate)
	return e, nil
}

// PhysicsFromConfig параметры интегратора из YAML-конфигурации
func PhysicsFromConfig(c config.PhysicsConfig) physics.Config {
	return physics.Config{
		Gravity:          toVec(c.Gravity),
		Friction:         c.Friction,
		Epsilon:          c.Epsilon,
		TerminalVelocity: toVec(c.TerminalVelocity),
	}
}

func toVec(a [3]float64) vec.Vec3Float {
	return vec.Vec3Float{X: a[0], Y: a[1], Z: a[2]}
}

// Config параметры движка
func (e *Engine) Config() config.EngineConfig { return e.cfg }

// Grid воксельная сетка
func (e *Engine) Grid() *world.Grid { return e.grid }

// Streamer очередь генерации
func (e *Engine) Streamer() *world.Streamer { return e.streamer }

// Physics интегратор
func (e *Engine) Physics() *physics.Engine { return e.physics }

// Scheduler таймеры игрового времени
func (e *Engine) Scheduler() *Scheduler { return e.scheduler }

// Bus шина событий движка
func (e *Engine) Bus() eventbus.EventBus { return e.bus }

// Regions трекеры регионов наблюдателя
func (e *Engine) Regions() *world.RegionSet { return e.regions }

// Ready был ли вызван OnAtlasReady
func (e *Engine) Ready() bool { return e.ready }

// TickCount количество выполненных тиков
func (e *Engine) TickCount() uint64 { return e.tick }

func (e *Engine) emit(eventType string, payload any) {
	ev := eventbus.NewEnvelope(EventSource, eventType, payload)
	ev.Tick = e.tick
	if err := e.bus.Publish(e.ctx, ev); err != nil {
		e.log.Warn("публикация события %s: %v", eventType, err)
	}
}

// Tick один шаг мира длительностью delta (мс, не больше MaxTickDelta).
// Ошибка генерации чанка прерывает тик и возвращается вызывающему.
func (e *Engine) Tick(delta float64) error {
	if delta > e.cfg.MaxTickDelta {
		delta = e.cfg.MaxTickDelta
	}
	if delta < 0 {
		delta = 0
	}

	_, span := e.tracer.Start(e.ctx, "engine.Tick", oteltrace.WithAttributes(
		attribute.Float64("delta", delta),
		attribute.Int64("tick", int64(e.tick)),
	))
	defer span.End()
	start := time.Now()

	if e.controller != nil {
		e.controller.Tick(delta)
	}
	e.physics.Tick(delta)
	for _, ent := range e.entities {
		if ent.Tick != nil {
			ent.Tick(ent, delta)
		}
	}

	if e.streamer.PendingLen() > 0 {
		if _, err := e.loadPendingChunks(0); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	if e.dirty.Len() > 0 {
		e.updateDirtyChunks()
	}

	e.scheduler.Tick(delta)
	e.emit(EventTick, TickEvent{Delta: delta})
	e.regions.Update(e.PlayerPosition())

	e.tick++
	e.metrics.resident.Set(float64(e.grid.Len()))
	e.metrics.pending.Set(float64(e.streamer.PendingLen()))
	e.metrics.tickDuration.Observe(time.Since(start).Seconds())
	return nil
}

func (e *Engine) loadPendingChunks(max int) (int, error) {
	n, err := e.streamer.FlushPending(max)
	if err != nil {
		e.log.Error("❌ Генерация чанков: %v", err)
		return n, err
	}
	if n > 0 {
		e.log.Debug("Сгенерировано чанков: %d, в очереди: %d", n, e.streamer.PendingLen())
	}
	return n, nil
}

func (e *Engine) updateDirtyChunks() {
	for _, c := range e.dirty.Flush() {
		chunk, ok := e.grid.Chunk(c)
		if !ok {
			continue
		}
		e.emit(EventDirtyChunkUpdate, ChunkEvent{Position: c})
		e.ShowChunk(chunk)
	}
}

func (e *Engine) onChunkGenerated(_ vec.Vec3, chunk *world.Chunk) {
	e.metrics.generated.Inc()
	e.ShowChunk(chunk)
}

func (e *Engine) onChunkEvicted(c vec.Vec3, _ *world.Chunk) {
	e.metrics.evicted.Inc()
	e.releaseMesh(c)
	e.emit(EventRemoveChunk, ChunkEvent{Position: c})
}

func (e *Engine) onChunkRegion(r vec.Vec3) {
	pos := e.PlayerPosition()
	e.emit(EventChunkRegion, RegionEvent{Region: r, Position: pos})

	evicted := e.streamer.EvictFarChunks(pos)
	added := 0
	if e.ready && e.cfg.GenerateChunks {
		added = e.streamer.RequestMissing(pos)
	}
	e.log.Debug("Переход в чанк %v: выгружено %d, запрошено %d", r, len(evicted), added)
}

// OnAtlasReady вызывается, когда атлас граней готов: первая загрузка мира
// вокруг WorldOrigin, построение всех сеток и отложенное включение асинхронной генерации.
func (e *Engine) OnAtlasReady() error {
	e.ready = true
	if e.cfg.GenerateChunks {
		e.streamer.RequestMissing(toVec(e.cfg.WorldOrigin))
		if _, err := e.loadPendingChunks(e.streamer.PendingLen()); err != nil {
			return err
		}
	}
	e.ShowAllChunks()

	async := e.cfg.AsyncChunkGeneration
	e.scheduler.Timeout(e.cfg.AsyncDelay, func() {
		e.streamer.SetAsync(async)
		e.emit(EventAsyncGeneration, AsyncGenerationEvent{Enabled: async})
		e.log.Info("⚙️ Асинхронная генерация чанков: %v", async)
	})
	e.log.Info("✅ Мир готов: %d чанков", e.grid.Len())
	return nil
}

// ShowChunk строит сетку чанка и заменяет прежнюю.
// Возвращает nil, если атлас ещё не готов, меш-строитель не задан или чанк пуст.
func (e *Engine) ShowChunk(chunk *world.Chunk) Mesh {
	if !e.ready || e.mesher == nil || chunk == nil {
		return nil
	}
	var ids, sizes []int
	if e.stitcher != nil {
		ids, sizes = e.stitcher.VoxelSideTextureIDs(), e.stitcher.VoxelSideTextureSizes()
	}
	mesh := e.mesher.CreateVoxelMesh(e.gl, chunk, ids, sizes, chunk.Position, chunk.Pad)
	e.metrics.remeshed.Inc()
	if mesh == nil {
		// чанк опустел: старая сетка больше не нужна
		e.releaseMesh(chunk.Position)
		return nil
	}
	if old, ok := e.meshes[chunk.Position]; ok {
		old.Release()
	}
	e.meshes[chunk.Position] = mesh
	e.emit(EventRenderChunk, ChunkEvent{Position: chunk.Position})
	return mesh
}

// ShowAllChunks перестраивает сетки всех резидентных чанков
func (e *Engine) ShowAllChunks() {
	for _, c := range e.grid.Coords() {
		chunk, _ := e.grid.Chunk(c)
		e.ShowChunk(chunk)
	}
}

func (e *Engine) releaseMesh(c vec.Vec3) {
	if mesh, ok := e.meshes[c]; ok {
		mesh.Release()
		delete(e.meshes, c)
	}
}

// MeshAt сетка чанка c
func (e *Engine) MeshAt(c vec.Vec3) (Mesh, bool) {
	m, ok := e.meshes[c]
	return m, ok
}

// Meshes количество сеток
func (e *Engine) Meshes() int {
	return len(e.meshes)
}

// PutChunk добавляет готовый чанк в мир и строит его сетку
func (e *Engine) PutChunk(chunk *world.Chunk) {
	e.grid.Put(chunk)
	e.ShowChunk(chunk)
}

// SetBlock записывает воксель. Если чанк не загружен, возвращает false
// и ничего не публикует.
func (e *Engine) SetBlock(pos vec.Vec3Float, value block.BlockID) bool {
	old, ok := e.grid.SetVoxel(pos, value)
	if !ok {
		return false
	}
	v := pos.Floor()
	for _, c := range e.grid.AffectedChunks(v) {
		e.dirty.MarkDirty(c)
	}
	e.metrics.blockChanges.Inc()

	change := BlockChangeEvent{Position: pos, Voxel: v, Old: old, New: value}
	e.emit(EventChangeBlock, change)
	e.emit(EventSetBlock, change)
	return true
}

// CreateBlock ставит блок, если это разрешает CreationGuard
func (e *Engine) CreateBlock(pos vec.Vec3Float, value block.BlockID) bool {
	if e.guard != nil && !e.guard(pos.Floor()) {
		return false
	}
	return e.SetBlock(pos, value)
}

// CreateAdjacent ставит блок в соседний к попаданию воксель
func (e *Engine) CreateAdjacent(hit physics.Hit, value block.BlockID) bool {
	return e.CreateBlock(hit.Adjacent.ToFloat(), value)
}

// GetBlock значение вокселя (0 для незагруженных чанков)
func (e *Engine) GetBlock(pos vec.Vec3Float) block.BlockID {
	return e.grid.VoxelAt(pos)
}

// BlockPosition координата вокселя, содержащего pos
func (e *Engine) BlockPosition(pos vec.Vec3Float) vec.Vec3 {
	return e.grid.VoxelPosition(pos)
}

// Blocks копия вокселей в [low, high)
func (e *Engine) Blocks(low, high vec.Vec3) ([]block.BlockID, [3]int) {
	return e.grid.Blocks(low, high)
}

// ChunkAt чанк, содержащий pos
func (e *Engine) ChunkAt(pos vec.Vec3Float) (*world.Chunk, bool) {
	return e.grid.Chunk(e.grid.ChunkCoordOf(pos))
}

// IsDirty ждёт ли чанк перестроения сетки
func (e *Engine) IsDirty(c vec.Vec3) bool {
	return e.dirty.IsDirty(c)
}

// Raycast луч по вокселям. maxDistance <= 0 означает RaycastDistance из конфигурации.
func (e *Engine) Raycast(origin, direction vec.Vec3Float, maxDistance float64) (physics.Hit, bool) {
	if maxDistance <= 0 {
		maxDistance = e.cfg.RaycastDistance
	}
	return e.raycaster.Cast(origin, direction, maxDistance, e.physics.Config().Epsilon)
}

// RaycastFromCamera луч из камеры по направлению взгляда
func (e *Engine) RaycastFromCamera() (physics.Hit, bool) {
	if e.camera == nil {
		return physics.Hit{}, false
	}
	return e.Raycast(e.camera.Position(), e.camera.Vector(), 0)
}

// Stats снимок состояния движка
type Stats struct {
	Tick           uint64        `json:"tick"`
	ResidentChunks int           `json:"resident_chunks"`
	PendingChunks  int           `json:"pending_chunks"`
	DirtyChunks    int           `json:"dirty_chunks"`
	Meshes         int           `json:"meshes"`
	Entities       int           `json:"entities"`
	Async          bool          `json:"async"`
	Player         vec.Vec3Float `json:"player"`
	Now            float64       `json:"now"`
}

// Stats возвращает снимок состояния
func (e *Engine) Stats() Stats {
	return Stats{
		Tick:           e.tick,
		ResidentChunks: e.grid.Len(),
		PendingChunks:  e.streamer.PendingLen(),
		DirtyChunks:    e.dirty.Len(),
		Meshes:         len(e.meshes),
		Entities:       len(e.entities),
		Async:          e.streamer.Async(),
		Player:         e.PlayerPosition(),
		Now:            e.scheduler.Now(),
	}
}
