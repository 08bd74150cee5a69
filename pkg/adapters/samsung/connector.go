package samsung

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/aretw0/framesync/pkg/ports"
	"github.com/gorilla/websocket"
)

// Connector implements ports.DisplayConnector for a single television.
type Connector struct {
	cfg    Config
	logger *slog.Logger
	http   *http.Client
	dialer *websocket.Dialer

	mu    sync.Mutex
	token string
}

// Option configures the connector.
type Option func(*Connector)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connector) {
		c.logger = logger
	}
}

// NewConnector creates a connector. Zero-valued config fields fall back to DefaultConfig.
func NewConnector(cfg Config, opts ...Option) *Connector {
	def := DefaultConfig()
	if cfg.AuthPort == 0 {
		cfg.AuthPort = def.AuthPort
	}
	if cfg.AnonPort == 0 {
		cfg.AnonPort = def.AnonPort
	}
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	// Televisions present self-signed certificates on the TLS port.
	tlsConfig := &tls.Config{InsecureSkipVerify: true} //nolint:gosec

	c := &Connector{
		cfg:   cfg,
		token: cfg.Token,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
		dialer: &websocket.Dialer{
			TLSClientConfig:  tlsConfig,
			HandshakeTimeout: cfg.Timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("component", "samsung", "host", cfg.Host)
	return c
}

// Connect opens a new session. Channels are dialed on first use.
func (c *Connector) Connect(ctx context.Context, mode ports.SessionMode) (ports.DisplaySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Session{connector: c, mode: mode}, nil
}

// Token returns the pairing token currently in use.
func (c *Connector) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// adoptToken keeps a token issued by the television for later sessions of this process.
// The token file itself is never written.
func (c *Connector) adoptToken(token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	changed := token != c.token
	c.token = token
	c.mu.Unlock()
	if changed {
		c.logger.Info("display issued a new pairing token")
	}
}

type endpoint struct {
	port   int
	secure bool
	auth   bool
}

func (c *Connector) endpoint(mode ports.SessionMode) endpoint {
	if mode == ports.SessionAnonymous {
		return endpoint{port: c.cfg.AnonPort, secure: c.cfg.AnonTLS}
	}
	return endpoint{port: c.cfg.AuthPort, secure: c.cfg.AuthTLS, auth: true}
}

func (c *Connector) restURL(ep endpoint) string {
	scheme := "http"
	if ep.secure {
		scheme = "https"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.cfg.Host, strconv.Itoa(ep.port)),
		Path:   "/api/v2/",
	}
	return u.String()
}

func (c *Connector) channelURL(ep endpoint, channel string) string {
	scheme := "ws"
	if ep.secure {
		scheme = "wss"
	}
	q := url.Values{}
	q.Set("name", base64.StdEncoding.EncodeToString([]byte(c.cfg.Name)))
	if ep.auth {
		if token := c.Token(); token != "" {
			q.Set("token", token)
		}
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     net.JoinHostPort(c.cfg.Host, strconv.Itoa(ep.port)),
		Path:     "/api/v2/channels/" + channel,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (c *Connector) String() string {
	return fmt.Sprintf("samsung(%s)", c.cfg.Host)
}
