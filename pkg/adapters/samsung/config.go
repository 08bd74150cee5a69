package samsung

import (
	"time"
)

// Default ports used by Tizen televisions.
const (
	DefaultAuthPort = 8002
	DefaultAnonPort = 8001
	DefaultName     = "framesync"
	DefaultTimeout  = 5 * time.Second
)

// Config describes how to reach a display.
type Config struct {
	Host     string        `yaml:"host" mapstructure:"host"`
	AuthPort int           `yaml:"auth_port" mapstructure:"auth_port"`
	AnonPort int           `yaml:"anon_port" mapstructure:"anon_port"`
	AuthTLS  bool          `yaml:"auth_tls" mapstructure:"auth_tls"`
	AnonTLS  bool          `yaml:"anon_tls" mapstructure:"anon_tls"`
	Name     string        `yaml:"name" mapstructure:"name"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Token is the pairing token sent on authenticated sessions.
	Token string `yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns the stock Tizen layout: TLS with token on 8002, plain on 8001.
func DefaultConfig() Config {
	return Config{
		AuthPort: DefaultAuthPort,
		AnonPort: DefaultAnonPort,
		AuthTLS:  true,
		AnonTLS:  false,
		Name:     DefaultName,
		Timeout:  DefaultTimeout,
	}
}
