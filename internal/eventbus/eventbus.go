package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/voxel-engine/internal/vec"
)

// Envelope описывает универсальный контейнер события.
type Envelope struct {
	ID        string            // Глобально уникальный идентификатор (UUID).
	Timestamp time.Time         // Время создания события (UTC).
	Source    string            // Имя компонента-источника.
	EventType string            // Тип события (tick, setBlock, removeChunk…).
	Tick      uint64            // Номер тика, в котором событие возникло.
	Payload   any               // Типизированная полезная нагрузка.
	Metadata  map[string]string // Произвольные метаданные.
}

// NewEnvelope создаёт конверт с новым ID и текущим временем
func NewEnvelope(source, eventType string, payload any) *Envelope {
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Payload:   payload,
	}
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types   []string // Если пусто: все типы.
	Sources []string // Если пусто: все источники.
	Bounds  *Bounds  // Если задан: только события с вокселем внутри бокса.
}

// Bounds бокс вокселей [Low, High)
type Bounds struct {
	Low  vec.Vec3
	High vec.Vec3
}

// Contains попадает ли воксель в бокс
func (b Bounds) Contains(v vec.Vec3) bool {
	return v.X >= b.Low.X && v.X < b.High.X &&
		v.Y >= b.Low.Y && v.Y < b.High.Y &&
		v.Z >= b.Low.Z && v.Z < b.High.Z
}

// Located полезная нагрузка, привязанная к вокселю
type Located interface {
	EventVoxel() vec.Vec3
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Envelope)

// Stats агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64 // Событие не подошло ни одному подписчику.
	InFlight  int    // Глубина вложенной доставки в данный момент.
}

// EventBus определяет абстракцию шины событий.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
}

//================ Synchronous implementation =================//

// syncBus доставляет события синхронно внутри Publish, в порядке подписки.
// Обработчик может публиковать новые события и отписываться.
type syncBus struct {
	mu          sync.RWMutex
	subscribers []*subscriber
	nextID      int
	stats       Stats
}

type subscriber struct {
	id      int
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewSyncBus создаёт синхронную шину.
func NewSyncBus() EventBus {
	return &syncBus{}
}

func (sb *syncBus) Publish(ctx context.Context, ev *Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	sb.mu.Lock()
	sb.stats.Published++
	sb.stats.InFlight++
	subs := make([]*subscriber, len(sb.subscribers))
	copy(subs, sb.subscribers)
	sb.mu.Unlock()

	delivered := uint64(0)
	for _, sub := range subs {
		if sub.ctx.Err() != nil || !matchFilter(ev, sub.filter) {
			continue
		}
		sub.handler(sub.ctx, ev)
		delivered++
	}

	sb.mu.Lock()
	sb.stats.InFlight--
	sb.stats.Consumed += delivered
	if delivered == 0 {
		sb.stats.Dropped++
	}
	sb.mu.Unlock()
	return nil
}

func (sb *syncBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	id := sb.nextID
	sb.nextID++
	cctx, cancel := context.WithCancel(ctx)
	sb.subscribers = append(sb.subscribers, &subscriber{id: id, filter: f, handler: h, ctx: cctx, cancel: cancel})
	return &syncSub{bus: sb, id: id}, nil
}

func (sb *syncBus) Metrics() Stats {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.stats
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	if !match(ev.EventType, f.Types) || !match(ev.Source, f.Sources) {
		return false
	}
	if f.Bounds == nil {
		return true
	}
	loc, ok := ev.Payload.(Located)
	return ok && f.Bounds.Contains(loc.EventVoxel())
}

type syncSub struct {
	bus *syncBus
	id  int
}

func (s *syncSub) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	for i, sub := range s.bus.subscribers {
		if sub.id == s.id {
			sub.cancel()
			s.bus.subscribers = append(s.bus.subscribers[:i:i], s.bus.subscribers[i+1:]...)
			return
		}
	}
}
