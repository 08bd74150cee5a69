package domain

// Action is a corrective command the controller can issue to the display.
type Action string

const (
	ActionTogglePower   Action = "toggle_power"
	ActionEnableArtMode Action = "enable_art_mode"
)
