package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCompanionPower(t *testing.T) {
	tests := []struct {
		raw  string
		want CompanionPower
	}{
		{"PowerState.On", CompanionOn},
		{"PowerState.On\n", CompanionOn},
		{"PowerState.Off", CompanionOff},
		{"PowerState.Unknown", CompanionOff},
		{"error", CompanionUnknown},
		{"", CompanionUnknown},
		{"Traceback (most recent call last):", CompanionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCompanionPower(tt.raw))
		})
	}
}

func TestParseDisplayPower(t *testing.T) {
	assert.Equal(t, DisplayPowerOn, ParseDisplayPower("on"))
	assert.Equal(t, DisplayPowerStandby, ParseDisplayPower("standby"))
	assert.Equal(t, DisplayPowerStandby, ParseDisplayPower("Standby"))
	assert.Equal(t, DisplayPowerStandby, ParseDisplayPower(" STANDBY\n"))
	assert.Equal(t, DisplayPowerOff, ParseDisplayPower("off"))
	assert.Equal(t, DisplayPowerError, ParseDisplayPower(""))
	assert.Equal(t, DisplayPowerError, ParseDisplayPower("booting"))
}

func TestParseArtMode(t *testing.T) {
	assert.Equal(t, ArtModeOn, ParseArtMode("on"))
	assert.Equal(t, ArtModeOff, ParseArtMode("off"))
	assert.Equal(t, ArtModeUnknown, ParseArtMode("error"))
	assert.Equal(t, ArtModeUnknown, ParseArtMode("ON"))
}

func TestTickReport_Took(t *testing.T) {
	r := TickReport{Actions: []ActionRecord{
		NewActionRecord(ActionTogglePower, nil),
		NewActionRecord(ActionEnableArtMode, errors.New("refused")),
		NewActionRecord(ActionTogglePower, nil),
	}}
	assert.Equal(t, 2, r.Took(ActionTogglePower))
	assert.Equal(t, 1, r.Took(ActionEnableArtMode))
	assert.Equal(t, "refused", r.Actions[1].Error)
	assert.Empty(t, r.Actions[0].Error)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnTick: func(context.Context, *TickEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{
		OnTick:  func(context.Context, *TickEvent) { calls = append(calls, "b") },
		OnProbe: func(_ context.Context, e *ProbeEvent) { calls = append(calls, "probe:"+string(e.Type)) },
	}

	merged := a.Merge(b)
	merged.EmitTick(context.Background(), &TickEvent{})
	merged.EmitProbe(context.Background(), &ProbeEvent{})
	merged.EmitAction(context.Background(), &ActionEvent{})

	assert.Equal(t, []string{"a", "b", "probe:probe"}, calls)
}
