package engine

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"
)

// ErrRunnerStopped цикл движка уже завершён
var ErrRunnerStopped = errors.New("engine: runner stopped")

type command struct {
	fn   func(e *Engine) error
	done chan error
}

// Runner гоняет тики движка с фиксированным шагом в отдельной горутине.
// Прошедшее время копится и расходуется целыми кратными шага; пауза сбрасывает накопленное.
// Остальные горутины работают с движком только через Do.
type Runner struct {
	engine *Engine
	rate   float64 // мс
	now    func() time.Time

	cmds    chan command
	stopped chan struct{}
	paused  atomic.Bool
	ticks   atomic.Uint64

	accum float64
	last  time.Time
}

// NewRunner создаёт цикл с шагом rateMs миллисекунд
func NewRunner(e *Engine, rateMs int) *Runner {
	if rateMs <= 0 {
		rateMs = 16
	}
	return &Runner{
		engine:  e,
		rate:    float64(rateMs),
		now:     time.Now,
		cmds:    make(chan command),
		stopped: make(chan struct{}),
	}
}

// Run крутит цикл до отмены ctx или ошибки тика
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.stopped)

	ticker := time.NewTicker(time.Duration(r.rate * float64(time.Millisecond)))
	defer ticker.Stop()
	r.last = r.now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-r.cmds:
			cmd.done <- cmd.fn(r.engine)
		case <-ticker.C:
			if err := r.advance(r.now()); err != nil {
				return err
			}
		}
	}
}

// advance учитывает прошедшее время и выполняет один тик кратной длительности
func (r *Runner) advance(now time.Time) error {
	elapsed := float64(now.Sub(r.last)) / float64(time.Millisecond)
	r.last = now
	if r.paused.Load() {
		r.accum = 0
		return nil
	}
	if elapsed > 0 {
		r.accum += elapsed
	}
	if r.accum < r.rate {
		return nil
	}
	whole := math.Floor(r.accum/r.rate) * r.rate
	r.accum -= whole
	r.ticks.Add(1)
	return r.engine.Tick(whole)
}

// Do выполняет fn в горутине цикла между тиками и ждёт результата
func (r *Runner) Do(ctx context.Context, fn func(e *Engine) error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case r.cmds <- cmd:
	case <-r.stopped:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pause останавливает тики; команды Do продолжают выполняться
func (r *Runner) Pause() { r.paused.Store(true) }

// Resume возобновляет тики
func (r *Runner) Resume() { r.paused.Store(false) }

// Paused на паузе ли цикл
func (r *Runner) Paused() bool { return r.paused.Load() }

// Ticks количество тиков, выполненных циклом
func (r *Runner) Ticks() uint64 { return r.ticks.Load() }
