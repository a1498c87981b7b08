package clock

import (
	"sort"
	"sync"
	"time"
)

// Mock provides a controllable time source for testing
// Timers fire synchronously on the goroutine calling Advance or SetTime
type Mock struct {
	mu          sync.Mutex
	currentTime time.Time
	timers      []*mockTimer
	seq         uint64
}

type mockTimer struct {
	mock    *Mock
	when    time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

// NewMock creates a new mock clock with the given start time
func NewMock(startTime time.Time) *Mock {
	return &Mock{
		currentTime: startTime,
	}
}

// Now returns the current mocked time
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// AfterFunc schedules f to run once the mock time reaches now+d
func (m *Mock) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &mockTimer{
		mock: m,
		when: m.currentTime.Add(d),
		seq:  m.seq,
		fn:   f,
	}
	m.timers = append(m.timers, t)
	return t
}

// Stop implements Timer
func (t *mockTimer) Stop() bool {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance advances the current time by d, firing due timers in deadline order
// Timers armed by callbacks fire within the same call if they fall due
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.currentTime.Add(d)
	m.mu.Unlock()
	m.SetTime(target)
}

// SetTime moves the clock to target, firing due timers in deadline order
func (m *Mock) SetTime(target time.Time) {
	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.currentTime = target
			m.mu.Unlock()
			return
		}
		// Time observed by the callback is its own deadline
		if next.when.After(m.currentTime) {
			m.currentTime = next.when
		}
		next.fired = true
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// Pending returns the number of armed, unfired timers
func (m *Mock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// nextDue pops the earliest live timer due at or before target. Caller holds mu.
func (m *Mock) nextDue(target time.Time) *mockTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.timers = live

	if len(m.timers) == 0 {
		return nil
	}

	sort.Slice(m.timers, func(i, j int) bool {
		if m.timers[i].when.Equal(m.timers[j].when) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].when.Before(m.timers[j].when)
	})

	if m.timers[0].when.After(target) {
		return nil
	}
	return m.timers[0]
}
