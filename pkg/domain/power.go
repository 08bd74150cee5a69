package domain

import "strings"

// CompanionPower is the power state of the companion streaming device.
type CompanionPower string

const (
	CompanionOn      CompanionPower = "on"
	CompanionOff     CompanionPower = "off"
	CompanionUnknown CompanionPower = "unknown"
)

// Helper output markers for the companion power query.
const (
	CompanionStatePrefix = "PowerState"
	CompanionStateOn     = "PowerState.On"
)

// ParseCompanionPower maps raw helper output to a CompanionPower.
// Output that does not start with CompanionStatePrefix is Unknown.
func ParseCompanionPower(raw string) CompanionPower {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, CompanionStatePrefix) {
		return CompanionUnknown
	}
	if raw == CompanionStateOn {
		return CompanionOn
	}
	return CompanionOff
}

// DisplayPower is the power state reported by the display's device info.
type DisplayPower string

const (
	DisplayPowerOn      DisplayPower = "on"
	DisplayPowerStandby DisplayPower = "standby"
	DisplayPowerOff     DisplayPower = "off"
	DisplayPowerError   DisplayPower = "error"
)

// ParseDisplayPower maps the device-info PowerState field to a DisplayPower.
// Matching ignores case and surrounding whitespace. Unrecognized values are reported as DisplayPowerError.
func ParseDisplayPower(raw string) DisplayPower {
	switch DisplayPower(strings.ToLower(strings.TrimSpace(raw))) {
	case DisplayPowerOn:
		return DisplayPowerOn
	case DisplayPowerStandby:
		return DisplayPowerStandby
	case DisplayPowerOff:
		return DisplayPowerOff
	default:
		return DisplayPowerError
	}
}

// ArtMode is the display's art-mode status.
type ArtMode string

const (
	ArtModeOn      ArtMode = "on"
	ArtModeOff     ArtMode = "off"
	ArtModeUnknown ArtMode = "unknown"
)

// ParseArtMode maps the art-app status value to an ArtMode.
func ParseArtMode(raw string) ArtMode {
	switch ArtMode(strings.TrimSpace(raw)) {
	case ArtModeOn:
		return ArtModeOn
	case ArtModeOff:
		return ArtModeOff
	default:
		return ArtModeUnknown
	}
}
