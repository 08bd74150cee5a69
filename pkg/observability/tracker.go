package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/framesync/pkg/domain"
)

// Status is the snapshot served by the status endpoint.
type Status struct {
	StartedAt time.Time          `json:"started_at"`
	Ticks     uint64             `json:"ticks"`
	LastTick  *domain.TickReport `json:"last_tick,omitempty"`
	LastError string             `json:"last_action_error,omitempty"`
}

// Tracker keeps the latest tick report and fans it out to subscribers.
// It is shared between the control loop and the status server.
type Tracker struct {
	mu     sync.RWMutex
	status Status
	subs   map[chan domain.TickReport]struct{}
}

// NewTracker creates a Tracker stamped with the current time.
func NewTracker() *Tracker {
	return &Tracker{
		status: Status{StartedAt: time.Now()},
		subs:   make(map[chan domain.TickReport]struct{}),
	}
}

// Hooks returns lifecycle hooks that feed the tracker.
func (t *Tracker) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTick: func(_ context.Context, e *domain.TickEvent) {
			t.Record(e.Report)
		},
	}
}

// Record stores report as the latest tick and broadcasts it.
func (t *Tracker) Record(report domain.TickReport) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.Ticks++
	r := report
	t.status.LastTick = &r
	for _, a := range report.Actions {
		if a.Err != nil {
			t.status.LastError = a.Error
		}
	}

	for ch := range t.subs {
		select {
		case ch <- report:
		default:
			// slow subscriber, drop
		}
	}
}

// Status returns a copy of the current snapshot.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := t.status
	if s.LastTick != nil {
		r := *s.LastTick
		r.Actions = append([]domain.ActionRecord(nil), r.Actions...)
		s.LastTick = &r
	}
	return s
}

// Subscribe returns a channel of future tick reports and a function to stop receiving them.
func (t *Tracker) Subscribe() (<-chan domain.TickReport, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan domain.TickReport, 10)
	t.subs[ch] = struct{}{}
	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := t.subs[ch]; ok {
			delete(t.subs, ch)
			close(ch)
		}
	}
}
