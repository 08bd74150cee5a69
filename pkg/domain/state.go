package domain

import "time"

// ControllerState holds the flags the reconciliation loop carries across ticks.
// It is owned by a single loop and passed by value into each tick.
type ControllerState struct {
	// CompanionWasOn is set once the companion is seen active with the display awake,
	// and cleared when the falling edge is handled.
	CompanionWasOn bool `json:"companion_was_on"`

	// DisplayHasBeenSleeping suppresses repeated "sleeping" log lines.
	// It is never cleared, so the line is logged once per process run.
	DisplayHasBeenSleeping bool `json:"display_has_been_sleeping"`
}

// Branch identifies which decision a tick took.
type Branch string

const (
	BranchEngaged  Branch = "engaged"  // companion on, display awake
	BranchAmbient  Branch = "ambient"  // companion off, art mode already on
	BranchRestore  Branch = "restore"  // companion just turned off
	BranchNudge    Branch = "nudge"    // companion on, display in standby
	BranchSleeping Branch = "sleeping" // nothing to do
	BranchIdle     Branch = "idle"     // observations changed mid-tick, no action
)

// ActionRecord is a single actuator call made during a tick.
type ActionRecord struct {
	Action Action `json:"action"`
	Err    error  `json:"-"`
	Error  string `json:"error,omitempty"`
}

// NewActionRecord builds a record, copying the error text for serialization.
func NewActionRecord(action Action, err error) ActionRecord {
	rec := ActionRecord{Action: action, Err: err}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// TickReport describes the outcome of one pass of the reconciliation loop.
type TickReport struct {
	Branch    Branch          `json:"branch"`
	Actions   []ActionRecord  `json:"actions,omitempty"`
	State     ControllerState `json:"state"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
}

// Took reports whether the tick called the given action, and how many times.
func (r TickReport) Took(action Action) int {
	n := 0
	for _, a := range r.Actions {
		if a.Action == action {
			n++
		}
	}
	return n
}

// DeviceInfo is the subset of the display's device description the controller uses.
type DeviceInfo struct {
	Name           string `json:"name"`
	Model          string `json:"model"`
	PowerState     string `json:"power_state"`
	FrameTVSupport bool   `json:"frame_tv_support"`
}
