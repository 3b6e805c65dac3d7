package engine

import "sort"

// TaskID идентификатор отложенной задачи
type TaskID uint64

type task struct {
	id     TaskID
	due    float64
	period float64 // 0 для одноразовых задач
	seq    uint64
	fn     func()
}

// Scheduler таймеры в игровом времени. Время продвигается только через Tick,
// поэтому порядок срабатывания детерминирован: по сроку, затем по порядку постановки.
type Scheduler struct {
	now    float64
	nextID TaskID
	seq    uint64
	tasks  map[TaskID]*task
}

// NewScheduler создаёт планировщик с нулевым временем
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[TaskID]*task)}
}

// Now текущее игровое время
func (s *Scheduler) Now() float64 {
	return s.now
}

// Len количество активных задач
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Timeout выполняет fn один раз через delay единиц времени
func (s *Scheduler) Timeout(delay float64, fn func()) TaskID {
	if delay < 0 {
		delay = 0
	}
	return s.add(s.now+delay, 0, fn)
}

// Interval выполняет fn каждые period единиц времени.
// Неположительный период не допускается: задача не ставится, возвращается 0.
func (s *Scheduler) Interval(period float64, fn func()) TaskID {
	if period <= 0 {
		return 0
	}
	return s.add(s.now+period, period, fn)
}

// Cancel снимает задачу; false если её уже нет
func (s *Scheduler) Cancel(id TaskID) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

func (s *Scheduler) add(due, period float64, fn func()) TaskID {
	s.nextID++
	s.seq++
	s.tasks[s.nextID] = &task{id: s.nextID, due: due, period: period, seq: s.seq, fn: fn}
	return s.nextID
}

// Tick продвигает время на dt и выполняет созревшие задачи.
// Задачи, поставленные во время выполнения и уже созревшие, выполняются в этом же тике.
func (s *Scheduler) Tick(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	for {
		t := s.nextDue()
		if t == nil {
			return
		}
		if t.period > 0 {
			t.due += t.period
			s.seq++
			t.seq = s.seq
		} else {
			delete(s.tasks, t.id)
		}
		t.fn()
	}
}

func (s *Scheduler) nextDue() *task {
	var due []*task
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}
