package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventProbe  EventType = "probe"
	EventAction EventType = "action"
	EventTick   EventType = "tick"
)

// Probe names.
const (
	ProbeCompanion    = "companion_power"
	ProbeDisplayPower = "display_power"
	ProbeArtMode      = "art_mode"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ProbeEvent is emitted after every single probe attempt.
type ProbeEvent struct {
	EventBase
	Probe   string `json:"probe"`
	Attempt int    `json:"attempt"`
	Value   string `json:"value"`
	Err     error  `json:"-"`
}

// ActionEvent is emitted after an actuator call returns.
type ActionEvent struct {
	EventBase
	Action   Action        `json:"action"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// TickEvent is emitted when a tick completes.
type TickEvent struct {
	EventBase
	Report TickReport `json:"report"`
}

// LifecycleHooks defines callbacks for controller observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnProbe  func(context.Context, *ProbeEvent)
	OnAction func(context.Context, *ActionEvent)
	OnTick   func(context.Context, *TickEvent)
}

// EmitProbe calls OnProbe if set.
func (h LifecycleHooks) EmitProbe(ctx context.Context, e *ProbeEvent) {
	if h.OnProbe != nil {
		e.Type = EventProbe
		h.OnProbe(ctx, e)
	}
}

// EmitAction calls OnAction if set.
func (h LifecycleHooks) EmitAction(ctx context.Context, e *ActionEvent) {
	if h.OnAction != nil {
		e.Type = EventAction
		h.OnAction(ctx, e)
	}
}

// EmitTick calls OnTick if set.
func (h LifecycleHooks) EmitTick(ctx context.Context, e *TickEvent) {
	if h.OnTick != nil {
		e.Type = EventTick
		h.OnTick(ctx, e)
	}
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnProbe: func(ctx context.Context, e *ProbeEvent) {
			h.EmitProbe(ctx, e)
			other.EmitProbe(ctx, e)
		},
		OnAction: func(ctx context.Context, e *ActionEvent) {
			h.EmitAction(ctx, e)
			other.EmitAction(ctx, e)
		},
		OnTick: func(ctx context.Context, e *TickEvent) {
			h.EmitTick(ctx, e)
			other.EmitTick(ctx, e)
		},
	}
}
