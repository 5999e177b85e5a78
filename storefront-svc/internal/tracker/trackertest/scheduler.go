// Package trackertest provides a manually driven scheduler for tests.
package trackertest

import (
	"sync"
	"time"

	"foodfleet/storefront-svc/internal/tracker"
)

type FakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	s       *FakeScheduler
	at      time.Duration
	seq     int
	f       func()
	fired   bool
	stopped bool
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) tracker.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &fakeTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the fake clock forward and runs every callback that became
// due, earliest first, on the calling goroutine.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	s.mu.Unlock()

	for {
		next := s.nextDue()
		if next == nil {
			return
		}
		next.f()
	}
}

// Pending counts callbacks that are neither fired nor stopped.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (s *FakeScheduler) nextDue() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *fakeTimer
	for _, t := range s.timers {
		if t.fired || t.stopped || t.at > s.now {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	if best != nil {
		best.fired = true
	}
	return best
}

var _ tracker.Scheduler = (*FakeScheduler)(nil)
