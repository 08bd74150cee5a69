package process

import (
	"time"
)

// DefaultCommand is the helper used to query an Apple TV.
const DefaultCommand = "atvremote"

// Config describes how the companion helper is executed.
type Config struct {
	Command     string            `yaml:"command" mapstructure:"command"`
	Args        []string          `yaml:"args" mapstructure:"args"`
	Environment map[string]string `yaml:"env" mapstructure:"env"`
	Dir         string            `yaml:"dir" mapstructure:"dir"`
	Timeout     time.Duration     `yaml:"timeout" mapstructure:"timeout"`
}

// DefaultConfig returns the configuration for a stock atvremote install.
func DefaultConfig() Config {
	return Config{
		Command: DefaultCommand,
		Timeout: 10 * time.Second,
	}
}

// NewRunnerFromConfig builds a Runner from a Config.
func NewRunnerFromConfig(cfg Config) *Runner {
	command := cfg.Command
	if command == "" {
		command = DefaultCommand
	}
	return NewRunner(command,
		WithArgs(cfg.Args...),
		WithEnv(cfg.Environment),
		WithBaseDir(cfg.Dir),
		WithTimeout(cfg.Timeout),
	)
}
