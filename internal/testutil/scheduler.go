package testutil

import (
	"sync"
	"time"
)

// ManualScheduler implements player.Scheduler with timers fired by the
// test rather than the clock.
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	interval  time.Duration
	f         func()
	cancelled bool
}

func (s *ManualScheduler) Every(d time.Duration, f func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{interval: d, f: f}
	s.timers = append(s.timers, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

// Fire runs the callback of every armed timer once. It must not be
// called while holding a lock the callbacks need.
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	var fs []func()
	for _, t := range s.timers {
		if !t.cancelled {
			fs = append(fs, t.f)
		}
	}
	s.mu.Unlock()
	for _, f := range fs {
		f()
	}
}

// FireN calls Fire n times.
func (s *ManualScheduler) FireN(n int) {
	for i := 0; i < n; i++ {
		s.Fire()
	}
}

// FireStale runs the callbacks of cancelled timers, simulating a tick
// that raced with cancellation.
func (s *ManualScheduler) FireStale() {
	s.mu.Lock()
	var fs []func()
	for _, t := range s.timers {
		if t.cancelled {
			fs = append(fs, t.f)
		}
	}
	s.mu.Unlock()
	for _, f := range fs {
		f()
	}
}

// Armed returns the number of timers not yet cancelled.
func (s *ManualScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Interval returns the interval of the most recently armed live timer,
// or zero if none is armed.
func (s *ManualScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.timers) - 1; i >= 0; i-- {
		if !s.timers[i].cancelled {
			return s.timers[i].interval
		}
	}
	return 0
}
