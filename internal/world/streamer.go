package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/annel0/voxel-engine/internal/vec"
)

// ErrRadiusOrder радиус выгрузки должен быть строго больше радиуса загрузки
var ErrRadiusOrder = errors.New("world: evict radius must be greater than load radius")

// DefaultAsyncFraction доля очереди, генерируемая за тик в асинхронном режиме
const DefaultAsyncFraction = 0.1

// StreamerOptions параметры потоковой загрузки
type StreamerOptions struct {
	LoadRadius    int     // Радиус (в чанках) вокруг наблюдателя для загрузки
	EvictRadius   int     // Радиус сохранения; всё дальше выгружается
	AsyncFraction float64 // Доля очереди за тик в асинхронном режиме
}

// StreamerHooks синхронные обработчики событий жизненного цикла чанка
type StreamerHooks struct {
	OnGenerated func(c vec.Vec3, chunk *Chunk)
	OnEvicted   func(c vec.Vec3, chunk *Chunk)
}

// Streamer управляет очередью генерации и выгрузкой чанков вокруг наблюдателя.
// Жизненный цикл: отсутствует -> ожидает -> резидентный -> отсутствует.
type Streamer struct {
	grid  *Grid
	opts  StreamerOptions
	hooks StreamerHooks

	pending    []vec.Vec3
	pendingSet map[vec.Vec3]struct{}
	async      bool
}

// NewStreamer создаёт стример поверх сетки
func NewStreamer(grid *Grid, opts StreamerOptions, hooks StreamerHooks) (*Streamer, error) {
	if opts.LoadRadius < 0 || opts.EvictRadius <= opts.LoadRadius {
		return nil, fmt.Errorf("%w: load=%d evict=%d", ErrRadiusOrder, opts.LoadRadius, opts.EvictRadius)
	}
	if opts.AsyncFraction <= 0 {
		opts.AsyncFraction = DefaultAsyncFraction
	}
	if opts.AsyncFraction > 1 {
		opts.AsyncFraction = 1
	}
	return &Streamer{
		grid:       grid,
		opts:       opts,
		hooks:      hooks,
		pendingSet: make(map[vec.Vec3]struct{}),
	}, nil
}

// Options возвращает нормализованные параметры
func (s *Streamer) Options() StreamerOptions {
	return s.opts
}

// SetAsync переключает режим генерации
func (s *Streamer) SetAsync(async bool) {
	s.async = async
}

// Async текущий режим генерации
func (s *Streamer) Async() bool {
	return s.async
}

// Pending копия очереди ожидания (FIFO)
func (s *Streamer) Pending() []vec.Vec3 {
	return append([]vec.Vec3(nil), s.pending...)
}

// PendingLen длина очереди ожидания
func (s *Streamer) PendingLen() int {
	return len(s.pending)
}

// IsPending проверяет, стоит ли чанк в очереди
func (s *Streamer) IsPending(c vec.Vec3) bool {
	_, ok := s.pendingSet[c]
	return ok
}

// OnChunkRegionCrossed ставит в очередь недостающие чанки вокруг чанка c.
// Возвращает количество добавленных.
func (s *Streamer) OnChunkRegionCrossed(c vec.Vec3) int {
	added := 0
	for _, coord := range s.grid.NearbyChunks(c, s.opts.LoadRadius) {
		if s.grid.Has(coord) || s.IsPending(coord) {
			continue
		}
		s.pending = append(s.pending, coord)
		s.pendingSet[coord] = struct{}{}
		added++
	}
	return added
}

// RequestMissing то же, что OnChunkRegionCrossed, для мировой позиции
func (s *Streamer) RequestMissing(center vec.Vec3Float) int {
	return s.OnChunkRegionCrossed(s.grid.ChunkCoordOf(center))
}

// EvictFarChunks выгружает резидентные чанки и отбрасывает ожидающие
// за пределами EvictRadius. Возвращает выгруженные координаты по порядку.
func (s *Streamer) EvictFarChunks(center vec.Vec3Float) []vec.Vec3 {
	cc := s.grid.ChunkCoordOf(center)

	if len(s.pending) > 0 {
		kept := s.pending[:0]
		for _, c := range s.pending {
			if c.ChebyshevDistance(cc) > s.opts.EvictRadius {
				delete(s.pendingSet, c)
				continue
			}
			kept = append(kept, c)
		}
		s.pending = kept
	}

	var evicted []vec.Vec3
	for _, c := range s.grid.Coords() {
		if c.ChebyshevDistance(cc) <= s.opts.EvictRadius {
			continue
		}
		chunk, _ := s.grid.Remove(c)
		evicted = append(evicted, c)
		if s.hooks.OnEvicted != nil {
			s.hooks.OnEvicted(c, chunk)
		}
	}
	return evicted
}

// batchSize сколько чанков обработать за вызов
func (s *Streamer) batchSize(max int) int {
	n := len(s.pending)
	if !s.async {
		return n
	}
	count := max
	if count <= 0 {
		count = int(math.Ceil(float64(n) * s.opts.AsyncFraction))
	}
	if count < 1 {
		count = 1
	}
	if count > n {
		count = n
	}
	return count
}

// FlushPending генерирует чанки из очереди. В синхронном режиме очередь
// опустошается целиком, в асинхронном обрабатывается max (или доля) за вызов.
// Возвращает количество сгенерированных чанков.
func (s *Streamer) FlushPending(max int) (int, error) {
	if len(s.pending) == 0 {
		return 0, nil
	}

	batch := s.batchSize(max)
	generated := 0
	for i := 0; i < batch && len(s.pending) > 0; i++ {
		c := s.pending[0]
		s.pending = s.pending[1:]
		delete(s.pendingSet, c)

		if s.grid.Has(c) {
			continue
		}

		chunk, err := s.grid.GenerateChunk(c)
		if err != nil {
			return generated, fmt.Errorf("failed to generate chunk %v: %w", c, err)
		}
		s.grid.Put(chunk)
		generated++

		if s.hooks.OnGenerated != nil {
			s.hooks.OnGenerated(c, chunk)
		}
	}
	return generated, nil
}
