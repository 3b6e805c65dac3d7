package world

import (
	"math"

	"github.com/annel0/voxel-engine/internal/vec"
)

// RegionTracker отслеживает, в каком регионе фиксированного размера
// находится позиция, и сообщает о переходе между регионами.
type RegionTracker struct {
	size        vec.Vec3Float
	last        vec.Vec3
	initialized bool
}

// NewRegionTracker создаёт трекер с размером региона по осям.
// Неположительный размер оси заменяется на 1.
func NewRegionTracker(size vec.Vec3Float) *RegionTracker {
	for _, axis := range vec.Axes {
		if size.Get(axis) <= 0 {
			size = size.With(axis, 1)
		}
	}
	return &RegionTracker{size: size}
}

// NewCubicRegionTracker трекер с кубическими регионами
func NewCubicRegionTracker(size float64) *RegionTracker {
	return NewRegionTracker(vec.Vec3Float{X: size, Y: size, Z: size})
}

// Size размер региона
func (t *RegionTracker) Size() vec.Vec3Float {
	return t.size
}

// RegionOf координата региона для позиции (floor(pos/size))
func (t *RegionTracker) RegionOf(pos vec.Vec3Float) vec.Vec3 {
	return vec.Vec3{
		X: int(math.Floor(pos.X / t.size.X)),
		Y: int(math.Floor(pos.Y / t.size.Y)),
		Z: int(math.Floor(pos.Z / t.size.Z)),
	}
}

// Update пересчитывает регион. Первый вызов молча запоминает базу;
// далее возвращает true, если регион изменился.
func (t *RegionTracker) Update(pos vec.Vec3Float) (vec.Vec3, bool) {
	region := t.RegionOf(pos)
	changed := t.initialized && region != t.last
	t.last = region
	t.initialized = true
	return region, changed
}

// Last последний запомненный регион
func (t *RegionTracker) Last() (vec.Vec3, bool) {
	return t.last, t.initialized
}

// Reset сбрасывает базу; следующий Update снова будет молчаливым
func (t *RegionTracker) Reset() {
	t.last = vec.Vec3{}
	t.initialized = false
}

// RegionListener обработчик перехода в новый регион
type RegionListener func(region vec.Vec3)

type namedTracker struct {
	name      string
	tracker   *RegionTracker
	listeners []RegionListener
}

// RegionSet набор именованных трекеров, обновляемых одной позицией
// в порядке регистрации.
type RegionSet struct {
	trackers []*namedTracker
}

// NewRegionSet создаёт пустой набор
func NewRegionSet() *RegionSet {
	return &RegionSet{}
}

// Add регистрирует трекер; имя уже существующего трекера заменяет его
func (s *RegionSet) Add(name string, tracker *RegionTracker, listeners ...RegionListener) {
	for _, nt := range s.trackers {
		if nt.name == name {
			nt.tracker = tracker
			nt.listeners = append([]RegionListener(nil), listeners...)
			return
		}
	}
	s.trackers = append(s.trackers, &namedTracker{
		name:      name,
		tracker:   tracker,
		listeners: append([]RegionListener(nil), listeners...),
	})
}

// On добавляет обработчик к трекеру; false если трекера нет
func (s *RegionSet) On(name string, listener RegionListener) bool {
	for _, nt := range s.trackers {
		if nt.name == name {
			nt.listeners = append(nt.listeners, listener)
			return true
		}
	}
	return false
}

// Tracker возвращает трекер по имени
func (s *RegionSet) Tracker(name string) (*RegionTracker, bool) {
	for _, nt := range s.trackers {
		if nt.name == name {
			return nt.tracker, true
		}
	}
	return nil, false
}

// Update обновляет все трекеры и синхронно вызывает обработчики сработавших.
// Возвращает имена сработавших трекеров. Нечисловая позиция игнорируется.
func (s *RegionSet) Update(pos vec.Vec3Float) []string {
	if !pos.IsFinite() {
		return nil
	}

	var fired []string
	for _, nt := range s.trackers {
		region, changed := nt.tracker.Update(pos)
		if !changed {
			continue
		}
		fired = append(fired, nt.name)
		for _, l := range nt.listeners {
			l(region)
		}
	}
	return fired
}

// Reset сбрасывает все трекеры
func (s *RegionSet) Reset() {
	for _, nt := range s.trackers {
		nt.tracker.Reset()
	}
}
