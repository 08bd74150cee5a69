package process

import "context"

// PowerStateCommand is the helper sub-command that reports the companion's power state.
const PowerStateCommand = "power_state"

// Querier implements ports.CompanionQuerier on top of an atvremote-style helper,
// invoked as `<command> -i <device id> power_state`.
type Querier struct {
	runner   *Runner
	deviceID string
}

// NewQuerier creates a Querier for the given device identifier.
func NewQuerier(runner *Runner, deviceID string) *Querier {
	return &Querier{runner: runner, deviceID: deviceID}
}

// PowerState runs the helper once and returns its raw answer.
func (q *Querier) PowerState(ctx context.Context) (string, error) {
	return q.runner.Run(ctx, "-i", q.deviceID, PowerStateCommand)
}
