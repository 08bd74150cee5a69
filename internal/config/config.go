// Package config loads the controller's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/aretw0/framesync/pkg/adapters/process"
	"github.com/aretw0/framesync/pkg/adapters/samsung"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultTokenFile is where the display pairing token is read from.
const DefaultTokenFile = "./frame_token.txt"

// Config is the full controller configuration.
type Config struct {
	Display   DisplayConfig   `yaml:"display" mapstructure:"display"`
	Companion CompanionConfig `yaml:"companion" mapstructure:"companion"`
	Loop      LoopConfig      `yaml:"loop" mapstructure:"loop"`
	Status    StatusConfig    `yaml:"status" mapstructure:"status"`
	Lock      LockConfig      `yaml:"lock" mapstructure:"lock"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DisplayConfig is the display connection plus where its token lives.
type DisplayConfig struct {
	samsung.Config `yaml:",inline" mapstructure:",squash"`
	TokenFile      string `yaml:"token_file" mapstructure:"token_file"`
}

// CompanionConfig is the helper invocation plus the companion's identifier.
type CompanionConfig struct {
	process.Config `yaml:",inline" mapstructure:",squash"`
	ID             string `yaml:"id" mapstructure:"id"`
}

// LoopConfig paces the controller and its probes.
type LoopConfig struct {
	Idle        time.Duration `yaml:"idle" mapstructure:"idle"`
	Settle      time.Duration `yaml:"settle" mapstructure:"settle"`
	ArtSettle   time.Duration `yaml:"art_settle" mapstructure:"art_settle"`
	Backoff     time.Duration `yaml:"backoff" mapstructure:"backoff"`
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// StatusConfig enables the HTTP status server when Addr is set.
type StatusConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LockConfig enables the redis lease when RedisURL is set.
type LockConfig struct {
	RedisURL string        `yaml:"redis_url" mapstructure:"redis_url"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	Key      string        `yaml:"key" mapstructure:"key"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// MinLeaseTTL is the shortest lease accepted for the redis backend.
const MinLeaseTTL = time.Second

// RefreshInterval is how often a held lease is extended.
func (c LockConfig) RefreshInterval() time.Duration {
	return c.TTL / 3
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns a configuration with every default filled in. Display.Host and
// Companion.ID have no default.
func Default() Config {
	return Config{
		Display: DisplayConfig{
			Config:    samsung.DefaultConfig(),
			TokenFile: DefaultTokenFile,
		},
		Companion: CompanionConfig{Config: process.DefaultConfig()},
		Loop: LoopConfig{
			Idle:        time.Second,
			Settle:      500 * time.Millisecond,
			ArtSettle:   500 * time.Millisecond,
			Backoff:     time.Second,
			MaxAttempts: 1_000_000,
		},
		Lock: LockConfig{
			Prefix: "framesync:",
			Key:    "controller",
			TTL:    15 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode merges YAML data into cfg. Durations may be written as strings ("1s", "500ms").
// Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// ValidationError lists every problem found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Display.Host == "" {
		add("display.host is required")
	}
	if c.Companion.ID == "" {
		add("companion.id is required")
	}
	if c.Companion.Command == "" {
		add("companion.command is required")
	}
	if p := c.Display.AuthPort; p <= 0 || p > 65535 {
		add("display.auth_port %d out of range", p)
	}
	if p := c.Display.AnonPort; p <= 0 || p > 65535 {
		add("display.anon_port %d out of range", p)
	}
	if c.Display.Timeout <= 0 {
		add("display.timeout must be positive")
	}
	if c.Loop.Idle < 0 || c.Loop.Settle < 0 || c.Loop.ArtSettle < 0 || c.Loop.Backoff < 0 {
		add("loop durations must not be negative")
	}
	if c.Loop.MaxAttempts < 1 {
		add("loop.max_attempts must be at least 1")
	}
	if c.Lock.RedisURL != "" {
		if c.Lock.Key == "" {
			add("lock.key is required when lock.redis_url is set")
		}
		if c.Lock.TTL < MinLeaseTTL {
			add("lock.ttl must be at least %s", MinLeaseTTL)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		add("log.format %q must be text or json", c.Log.Format)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// LoadToken reads the pairing token. A missing file means no token yet.
func LoadToken(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
