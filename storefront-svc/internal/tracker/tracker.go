// Package tracker advances an order through its progress stages on a fixed
// schedule: stage k becomes current k intervals after Start.
package tracker

import (
	"sync"
	"time"

	"foodfleet/storefront-svc/internal/domain"
)

type Option func(*Tracker)

func WithScheduler(s Scheduler) Option {
	return func(t *Tracker) { t.sched = s }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// OnChange registers the listener called after every transition. The
// listener must not call Stop.
func OnChange(fn func(domain.Progress)) Option {
	return func(t *Tracker) { t.onChange = fn }
}

type Tracker struct {
	interval time.Duration
	sched    Scheduler
	now      func() time.Time
	onChange func(domain.Progress)

	// notifyMu serialises transitions with Stop so no listener runs once
	// Stop has returned.
	notifyMu sync.Mutex

	mu        sync.Mutex
	current   int
	completed []domain.Stage
	updatedAt time.Time
	timers    []Timer
	started   bool
	stopped   bool
}

func New(interval time.Duration, opts ...Option) *Tracker {
	t := &Tracker{
		interval: interval,
		sched:    RealScheduler(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.updatedAt = t.now()
	return t
}

// Start schedules every remaining transition. Calling it again, or after
// Stop, does nothing.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.stopped {
		return
	}
	t.started = true

	for k := 1; k < len(domain.StageSequence()); k++ {
		k := k
		t.timers = append(t.timers, t.sched.AfterFunc(time.Duration(k)*t.interval, func() {
			t.advanceTo(k)
		}))
	}
}

// Stop cancels pending transitions. Once it returns the listener is never
// invoked again.
func (t *Tracker) Stop() {
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	for _, timer := range t.timers {
		timer.Stop()
	}
	t.timers = nil
}

func (t *Tracker) Progress() domain.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Done reports whether the terminal stage has been reached.
func (t *Tracker) Done() bool {
	return t.Progress().Current.Terminal()
}

func (t *Tracker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// advanceTo moves forward to stage k, passing through any stage in between
// so none is skipped. Stale or repeated callbacks are ignored.
func (t *Tracker) advanceTo(k int) {
	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	if t.stopped || k <= t.current {
		t.mu.Unlock()
		return
	}
	var steps []domain.Progress
	for t.current < k {
		prev, _ := domain.StageAtOrdinal(t.current)
		t.completed = append(t.completed, prev)
		t.current++
		t.updatedAt = t.now()
		steps = append(steps, t.snapshot())
	}
	listener := t.onChange
	t.mu.Unlock()

	if listener == nil {
		return
	}
	for _, p := range steps {
		listener(p)
	}
}

func (t *Tracker) snapshot() domain.Progress {
	stage, _ := domain.StageAtOrdinal(t.current)
	return domain.Progress{
		Current:   stage,
		Completed: append([]domain.Stage{}, t.completed...),
		UpdatedAt: t.updatedAt,
	}
}
