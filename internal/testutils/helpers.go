// Package testutils provides scripted fakes of the controller's ports for package tests.
package testutils

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/ports"
)

// Reply is one scripted answer.
type Reply struct {
	Value string
	Err   error
}

// Value is a successful reply.
func Value(v string) Reply { return Reply{Value: v} }

// Fail is a failed reply.
func Fail(err error) Reply { return Reply{Err: err} }

// script hands out replies in order and repeats the last one once exhausted.
type script struct {
	replies []Reply
	calls   int
}

func (s *script) next() Reply {
	s.calls++
	if len(s.replies) == 0 {
		return Reply{}
	}
	r := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return r
}

// FakeClock records sleeps instead of waiting.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

var _ ports.Clock = (*FakeClock)(nil)

// NewFakeClock starts at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the clock by d and records it. It fails only if ctx is done.
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// Sleeps returns every recorded sleep.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// Reset forgets recorded sleeps.
func (c *FakeClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = nil
}

// FakeCompanion is a scripted ports.CompanionQuerier.
type FakeCompanion struct {
	mu     sync.Mutex
	script script
}

var _ ports.CompanionQuerier = (*FakeCompanion)(nil)

// NewFakeCompanion answers with replies in order.
func NewFakeCompanion(replies ...Reply) *FakeCompanion {
	return &FakeCompanion{script: script{replies: replies}}
}

func (f *FakeCompanion) PowerState(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.script.next()
	return r.Value, r.Err
}

// Set replaces the remaining replies.
func (f *FakeCompanion) Set(replies ...Reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script.replies = replies
}

// Calls returns how many times PowerState was called.
func (f *FakeCompanion) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.script.calls
}

// FakeDisplay is a scripted ports.DisplayConnector. Power replies feed DeviceInfo,
// Art replies feed ArtModeStatus.
type FakeDisplay struct {
	mu         sync.Mutex
	power      script
	art        script
	ConnectErr error
	ToggleErr  error
	SetArtErr  error
	// OnToggle runs after every successful power toggle.
	OnToggle func()

	commands []string
	sessions map[ports.SessionMode]int
	open     int
}

var _ ports.DisplayConnector = (*FakeDisplay)(nil)

// NewFakeDisplay creates a display reporting "on" and art mode "off" until scripted.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{
		power:    script{replies: []Reply{Value("on")}},
		art:      script{replies: []Reply{Value("off")}},
		sessions: make(map[ports.SessionMode]int),
	}
}

// SetPower replaces the DeviceInfo PowerState replies.
func (d *FakeDisplay) SetPower(replies ...Reply) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.power = script{replies: replies, calls: d.power.calls}
}

// SetArt replaces the ArtModeStatus replies.
func (d *FakeDisplay) SetArt(replies ...Reply) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.art = script{replies: replies, calls: d.art.calls}
}

// Commands returns the commands sent, in order ("toggle_power", "set_art_mode:on").
func (d *FakeDisplay) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

// Sessions returns how many sessions were opened in mode.
func (d *FakeDisplay) Sessions(mode ports.SessionMode) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessions[mode]
}

// OpenSessions returns how many sessions are not closed yet.
func (d *FakeDisplay) OpenSessions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// PowerCalls returns how many DeviceInfo calls were made.
func (d *FakeDisplay) PowerCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.power.calls
}

// ArtCalls returns how many ArtModeStatus calls were made.
func (d *FakeDisplay) ArtCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.art.calls
}

func (d *FakeDisplay) Connect(ctx context.Context, mode ports.SessionMode) (ports.DisplaySession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ConnectErr != nil {
		return nil, d.ConnectErr
	}
	d.sessions[mode]++
	d.open++
	return &fakeSession{display: d, mode: mode}, nil
}

type fakeSession struct {
	display *FakeDisplay
	mode    ports.SessionMode
	closed  bool
}

func (s *fakeSession) DeviceInfo(ctx context.Context) (domain.DeviceInfo, error) {
	d := s.display
	d.mu.Lock()
	defer d.mu.Unlock()
	r := d.power.next()
	if r.Err != nil {
		return domain.DeviceInfo{}, r.Err
	}
	return domain.DeviceInfo{Name: "fake", PowerState: r.Value}, nil
}

func (s *fakeSession) ArtModeStatus(ctx context.Context) (string, error) {
	d := s.display
	d.mu.Lock()
	defer d.mu.Unlock()
	r := d.art.next()
	return r.Value, r.Err
}

func (s *fakeSession) SetArtMode(ctx context.Context, value string) error {
	d := s.display
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.SetArtErr != nil {
		return d.SetArtErr
	}
	d.commands = append(d.commands, "set_art_mode:"+value)
	return nil
}

func (s *fakeSession) TogglePower(ctx context.Context) error {
	d := s.display
	d.mu.Lock()
	if d.ToggleErr != nil {
		d.mu.Unlock()
		return d.ToggleErr
	}
	d.commands = append(d.commands, "toggle_power")
	hook := d.OnToggle
	d.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (s *fakeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	d := s.display
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open--
	return nil
}

// LogBuffer is a concurrency-safe sink for a text slog.Logger.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Count returns how many log lines contain substr.
func (b *LogBuffer) Count(substr string) int {
	n := 0
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// NewLogger returns a debug-level text logger writing into a fresh LogBuffer.
func NewLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
