package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerTimeoutOrder(t *testing.T) {
	s := NewScheduler()
	var got []string
	s.Timeout(30, func() { got = append(got, "c") })
	s.Timeout(10, func() { got = append(got, "a") })
	s.Timeout(10, func() { got = append(got, "b") })

	s.Tick(5)
	if len(got) != 0 {
		t.Errorf("Рано сработали задачи: %v", got)
	}
	s.Tick(100)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 105.0, s.Now())
}

func TestSchedulerInterval(t *testing.T) {
	s := NewScheduler()
	count := 0
	id := s.Interval(10, func() { count++ })

	s.Tick(25)
	assert.Equal(t, 2, count, "интервал догоняет пропущенные срабатывания")
	s.Tick(5)
	assert.Equal(t, 3, count)

	assert.True(t, s.Cancel(id))
	assert.False(t, s.Cancel(id))
	s.Tick(100)
	assert.Equal(t, 3, count)

	assert.Equal(t, TaskID(0), s.Interval(0, func() {}))
}

func TestSchedulerNestedTimeout(t *testing.T) {
	s := NewScheduler()
	var got []string
	s.Timeout(0, func() {
		got = append(got, "outer")
		s.Timeout(0, func() { got = append(got, "inner") })
		s.Timeout(50, func() { got = append(got, "later") })
	})

	s.Tick(1)
	assert.Equal(t, []string{"outer", "inner"}, got)
	s.Tick(50)
	assert.Equal(t, []string{"outer", "inner", "later"}, got)
}

func TestSchedulerCancelBeforeDue(t *testing.T) {
	s := NewScheduler()
	fired := false
	id := s.Timeout(10, func() { fired = true })
	s.Cancel(id)
	s.Tick(20)
	if fired {
		t.Error("Отменённая задача не должна выполняться")
	}
}
