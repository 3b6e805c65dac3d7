package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/voxel-engine/internal/engine"
	"github.com/annel0/voxel-engine/internal/eventbus"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/middleware"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// WorldRunner доступ к движку из чужих горутин (см. engine.Runner)
type WorldRunner interface {
	Do(ctx context.Context, fn func(e *engine.Engine) error) error
	Pause()
	Resume()
	Paused() bool
}

// RestServer отладочный REST API мира
type RestServer struct {
	router  *gin.Engine
	server  *http.Server
	runner  WorldRunner
	port    string
	metrics *ProcessMetrics
	log     *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port       string                // порт для запуска сервера, ":8088"
	Runner     WorldRunner           // цикл движка
	Registerer prometheus.Registerer // куда регистрировать HTTP-метрики
	Gatherer   prometheus.Gatherer   // откуда отдавать /metrics
	Logger     *logging.Logger
}

// NewRestServer создает новый REST API сервер
func NewRestServer(cfg Config) (*RestServer, error) {
	if cfg.Runner == nil {
		return nil, errors.New("api: runner is required")
	}
	if cfg.Port == "" {
		cfg.Port = ":8088"
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetAPILogger()
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("voxel_api"))
	router.Use(middleware.NewRequestLogger(cfg.Logger).Handler())

	promMw, err := middleware.NewPrometheusMiddleware("voxel_api", cfg.Registerer)
	if err != nil {
		return nil, fmt.Errorf("регистрация HTTP-метрик: %w", err)
	}
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, cfg.Gatherer)

	rs := &RestServer{
		router: router,
		server: &http.Server{
			Addr:              cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		runner:  cfg.Runner,
		port:    cfg.Port,
		metrics: NewProcessMetrics(),
		log:     cfg.Logger,
	}
	rs.setupRoutes()
	return rs, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.Use(corsMiddleware())

	api := rs.router.Group("/api")
	api.Use(maxBodyMiddleware(1 << 20))
	{
		api.GET("/stats", rs.handleStats)
		api.GET("/chunks", rs.handleChunks)
		api.GET("/blocks", rs.handleGetBlock)
		api.PUT("/blocks", rs.handlePutBlock)
		api.POST("/raycast", rs.handleRaycast)
		api.POST("/observer", rs.handleObserver)
		api.POST("/pause", rs.handlePause)
		api.POST("/resume", rs.handleResume)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// Handler HTTP-обработчик сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, GenericResponse{Success: false, Message: message})
}

// do выполняет fn в цикле движка; при ошибке пишет ответ и возвращает false
func (rs *RestServer) do(c *gin.Context, fn func(e *engine.Engine) error) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := rs.runner.Do(ctx, fn); err != nil {
		var apiErr *statusError
		if errors.As(err, &apiErr) {
			fail(c, apiErr.status, apiErr.message)
			return false
		}
		rs.log.Warn("Движок недоступен: %v", err)
		fail(c, http.StatusServiceUnavailable, "Движок недоступен")
		return false
	}
	return true
}

// statusError ошибка обработчика с HTTP-статусом
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string { return e.message }

func arr(v vec.Vec3) [3]int { return [3]int{v.X, v.Y, v.Z} }

func arrF(v vec.Vec3Float) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func fromArr(a [3]float64) vec.Vec3Float { return vec.Vec3Float{X: a[0], Y: a[1], Z: a[2]} }

func blockName(id block.BlockID) string { return block.Name(id) }

func okData(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: msg, Data: data})
}

// StatsResponse ответ /api/stats
type StatsResponse struct {
	Engine   engine.Stats    `json:"engine"`
	Player   [3]float64      `json:"player"`
	EventBus eventbus.Stats  `json:"event_bus"`
	Paused   bool            `json:"paused"`
	Process  ProcessSnapshot `json:"process"`
}

// handleStats возвращает статистику мира и процесса
func (rs *RestServer) handleStats(c *gin.Context) {
	var resp StatsResponse
	if !rs.do(c, func(e *engine.Engine) error {
		resp.Engine = e.Stats()
		resp.EventBus = e.Bus().Metrics()
		return nil
	}) {
		return
	}
	resp.Player = arrF(resp.Engine.Player)
	resp.Paused = rs.runner.Paused()
	resp.Process = rs.metrics.Snapshot()
	okData(c, "Статистика получена", resp)
}

// ChunkInfo состояние резидентного чанка
type ChunkInfo struct {
	Position [3]int `json:"position"`
	Mesh     bool   `json:"mesh"`
	Dirty    bool   `json:"dirty"`
	Changes  int    `json:"changes"`
}

// ChunksResponse ответ /api/chunks
type ChunksResponse struct {
	Resident []ChunkInfo `json:"resident"`
	Pending  [][3]int    `json:"pending"`
}

func (rs *RestServer) handleChunks(c *gin.Context) {
	resp := ChunksResponse{Resident: []ChunkInfo{}, Pending: [][3]int{}}
	if !rs.do(c, func(e *engine.Engine) error {
		for _, coord := range e.Grid().Coords() {
			chunk, _ := e.Grid().Chunk(coord)
			_, hasMesh := e.MeshAt(coord)
			resp.Resident = append(resp.Resident, ChunkInfo{
				Position: arr(coord),
				Mesh:     hasMesh,
				Dirty:    e.IsDirty(coord),
				Changes:  chunk.ChangeCounter,
			})
		}
		for _, coord := range e.Streamer().Pending() {
			resp.Pending = append(resp.Pending, arr(coord))
		}
		return nil
	}) {
		return
	}
	okData(c, "Чанки получены", resp)
}

// BlockResponse значение вокселя
type BlockResponse struct {
	Position [3]float64 `json:"position"`
	Voxel    [3]int     `json:"voxel"`
	Chunk    [3]int     `json:"chunk"`
	Loaded   bool       `json:"loaded"`
	ID       uint16     `json:"id"`
	Name     string     `json:"name"`
}

func parsePosition(c *gin.Context) (vec.Vec3Float, error) {
	var out [3]float64
	for i, key := range []string{"x", "y", "z"} {
		v, err := strconv.ParseFloat(c.Query(key), 64)
		if err != nil {
			return vec.Vec3Float{}, fmt.Errorf("параметр %s: %w", key, err)
		}
		out[i] = v
	}
	pos := fromArr(out)
	if !pos.IsFinite() {
		return vec.Vec3Float{}, errors.New("координаты должны быть конечными")
	}
	return pos, nil
}

func (rs *RestServer) handleGetBlock(c *gin.Context) {
	pos, err := parsePosition(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var resp BlockResponse
	if !rs.do(c, func(e *engine.Engine) error {
		id := e.GetBlock(pos)
		cc := e.Grid().ChunkCoordOf(pos)
		resp = BlockResponse{
			Position: arrF(pos),
			Voxel:    arr(e.BlockPosition(pos)),
			Chunk:    arr(cc),
			Loaded:   e.Grid().Has(cc),
			ID:       uint16(id),
			Name:     blockName(id),
		}
		return nil
	}) {
		return
	}
	okData(c, "Блок получен", resp)
}

// BlockRequest запрос на запись вокселя
type BlockRequest struct {
	Position [3]float64 `json:"position"`
	ID       uint16     `json:"id"`
	Create   bool       `json:"create"` // через CreateBlock с проверкой занятости
}

func (rs *RestServer) handlePutBlock(c *gin.Context) {
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	pos := fromArr(req.Position)
	id := block.BlockID(req.ID)
	if !pos.IsFinite() || !block.IsValidBlockID(id) {
		fail(c, http.StatusBadRequest, "Неверная позиция или ID блока")
		return
	}

	var resp BlockResponse
	if !rs.do(c, func(e *engine.Engine) error {
		cc := e.Grid().ChunkCoordOf(pos)
		if !e.Grid().Has(cc) {
			return &statusError{http.StatusNotFound, "Чанк не загружен"}
		}
		var ok bool
		if req.Create {
			ok = e.CreateBlock(pos, id)
		} else {
			ok = e.SetBlock(pos, id)
		}
		if !ok {
			return &statusError{http.StatusConflict, "Блок поставить нельзя"}
		}
		resp = BlockResponse{
			Position: arrF(pos),
			Voxel:    arr(e.BlockPosition(pos)),
			Chunk:    arr(cc),
			Loaded:   true,
			ID:       req.ID,
			Name:     blockName(id),
		}
		return nil
	}) {
		return
	}
	rs.log.Debug("Блок %v = %s", resp.Voxel, resp.Name)
	okData(c, "Блок установлен", resp)
}

// RaycastRequest параметры луча. Без origin луч идёт от глаз игрока.
type RaycastRequest struct {
	Origin      *[3]float64 `json:"origin"`
	Direction   [3]float64  `json:"direction"`
	MaxDistance float64     `json:"max_distance"`
}

// RaycastResponse результат трассировки
type RaycastResponse struct {
	Hit      bool       `json:"hit"`
	Position [3]float64 `json:"position,omitempty"`
	Voxel    [3]int     `json:"voxel,omitempty"`
	Normal   [3]int     `json:"normal,omitempty"`
	Adjacent [3]int     `json:"adjacent,omitempty"`
	ID       uint16     `json:"id,omitempty"`
	Name     string     `json:"name,omitempty"`
	Distance float64    `json:"distance,omitempty"`
}

func (rs *RestServer) handleRaycast(c *gin.Context) {
	var req RaycastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	dir := fromArr(req.Direction)
	if !dir.IsFinite() || dir.Length() == 0 || req.MaxDistance < 0 {
		fail(c, http.StatusBadRequest, "Направление должно быть ненулевым")
		return
	}

	var resp RaycastResponse
	if !rs.do(c, func(e *engine.Engine) error {
		origin := e.PlayerPosition().Add(vec.Vec3Float{Y: e.Config().PlayerHeight})
		if req.Origin != nil {
			origin = fromArr(*req.Origin)
		}
		hit, ok := e.Raycast(origin, dir, req.MaxDistance)
		if !ok {
			return nil
		}
		resp = RaycastResponse{
			Hit:      true,
			Position: arrF(hit.Position),
			Voxel:    arr(hit.Voxel),
			Normal:   arr(hit.Normal),
			Adjacent: arr(hit.Adjacent),
			ID:       uint16(hit.Value),
			Name:     blockName(hit.Value),
			Distance: hit.Distance,
		}
		return nil
	}) {
		return
	}
	okData(c, "Трассировка выполнена", resp)
}

// ObserverRequest новая позиция наблюдателя
type ObserverRequest struct {
	Position [3]float64 `json:"position"`
}

func (rs *RestServer) handleObserver(c *gin.Context) {
	var req ObserverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	pos := fromArr(req.Position)
	if !pos.IsFinite() {
		fail(c, http.StatusBadRequest, "Координаты должны быть конечными")
		return
	}

	var got vec.Vec3Float
	if !rs.do(c, func(e *engine.Engine) error {
		e.TeleportPlayer(pos)
		got = e.PlayerPosition()
		return nil
	}) {
		return
	}
	rs.log.Info("🚶 Наблюдатель перемещён в %v", got)
	okData(c, "Наблюдатель перемещён", gin.H{"position": arrF(got)})
}

func (rs *RestServer) handlePause(c *gin.Context) {
	rs.runner.Pause()
	okData(c, "Симуляция приостановлена", gin.H{"paused": true})
}

func (rs *RestServer) handleResume(c *gin.Context) {
	rs.runner.Resume()
	okData(c, "Симуляция возобновлена", gin.H{"paused": false})
}

func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// Start запускает REST сервер; блокируется до Stop
func (rs *RestServer) Start() error {
	rs.log.Info("🌐 REST API слушает %s", rs.port)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop останавливает сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}
