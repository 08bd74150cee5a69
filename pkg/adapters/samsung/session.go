package samsung

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/ports"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session is one control session with the television.
type Session struct {
	connector *Connector
	mode      ports.SessionMode

	remote *websocket.Conn
	art    *websocket.Conn
	closed bool
}

var _ ports.DisplaySession = (*Session)(nil)

// DeviceInfo fetches the REST device description.
func (s *Session) DeviceInfo(ctx context.Context) (domain.DeviceInfo, error) {
	if s.closed {
		return domain.DeviceInfo{}, domain.ErrSessionClosed
	}
	c := s.connector
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restURL(c.endpoint(s.mode)), nil)
	if err != nil {
		return domain.DeviceInfo{}, fmt.Errorf("build device info request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.DeviceInfo{}, fmt.Errorf("device info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.DeviceInfo{}, fmt.Errorf("device info: unexpected status %s", resp.Status)
	}

	var desc deviceDescription
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return domain.DeviceInfo{}, fmt.Errorf("decode device info: %w", err)
	}
	if desc.Device.PowerState == "" {
		return domain.DeviceInfo{}, fmt.Errorf("device info: %w: missing PowerState", domain.ErrUnrecognizedState)
	}
	return domain.DeviceInfo{
		Name:           desc.Device.Name,
		Model:          desc.Device.ModelName,
		PowerState:     desc.Device.PowerState,
		FrameTVSupport: strings.EqualFold(desc.Device.FrameTVSupport, "true"),
	}, nil
}

// TogglePower sends KEY_POWER on the remote-control channel.
func (s *Session) TogglePower(ctx context.Context) error {
	conn, err := s.remoteConn(ctx)
	if err != nil {
		return err
	}
	if err := s.write(ctx, conn, clickKey("KEY_POWER")); err != nil {
		return fmt.Errorf("send power key: %w", err)
	}
	return nil
}

// ArtModeStatus asks the art app for its current status.
func (s *Session) ArtModeStatus(ctx context.Context) (string, error) {
	conn, err := s.artConn(ctx)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	msg, err := emitArtRequest(artRequest{Request: requestGetArtMode, ID: id})
	if err != nil {
		return "", err
	}
	if err := s.write(ctx, conn, msg); err != nil {
		return "", fmt.Errorf("send art mode query: %w", err)
	}

	for {
		var in message
		if err := s.read(ctx, conn, &in); err != nil {
			return "", fmt.Errorf("read art mode status: %w", err)
		}
		if in.Event != eventD2D {
			continue
		}
		ev, err := decodeArtEvent(in.Data)
		if err != nil {
			return "", err
		}
		if ev.ID != "" && ev.ID != id {
			continue
		}
		switch ev.Event {
		case eventArtModeState:
			return ev.Value, nil
		case eventArtError:
			return "", fmt.Errorf("art app error %s", ev.ErrorCode)
		}
	}
}

// SetArtMode requests the given art mode status. The television does not acknowledge it.
func (s *Session) SetArtMode(ctx context.Context, value string) error {
	conn, err := s.artConn(ctx)
	if err != nil {
		return err
	}
	msg, err := emitArtRequest(artRequest{Request: requestSetArtMode, Value: value, ID: uuid.NewString()})
	if err != nil {
		return err
	}
	if err := s.write(ctx, conn, msg); err != nil {
		return fmt.Errorf("send art mode %s: %w", value, err)
	}
	return nil
}

// Close closes every channel the session dialed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for _, conn := range []*websocket.Conn{s.remote, s.art} {
		if conn == nil {
			continue
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.remote, s.art = nil, nil
	return errors.Join(errs...)
}

func (s *Session) remoteConn(ctx context.Context) (*websocket.Conn, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if s.remote == nil {
		conn, err := s.dial(ctx, channelRemote, eventConnect)
		if err != nil {
			return nil, err
		}
		s.remote = conn
	}
	return s.remote, nil
}

func (s *Session) artConn(ctx context.Context) (*websocket.Conn, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if s.art == nil {
		conn, err := s.dial(ctx, channelArt, eventConnect, eventReady)
		if err != nil {
			return nil, err
		}
		s.art = conn
	}
	return s.art, nil
}

// dial opens a channel and waits for the given handshake events in order.
func (s *Session) dial(ctx context.Context, channel string, handshake ...string) (*websocket.Conn, error) {
	c := s.connector
	target := c.channelURL(c.endpoint(s.mode), channel)

	conn, resp, err := c.dialer.DialContext(ctx, target, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", channel, err)
	}

	for _, want := range handshake {
		if err := s.await(ctx, conn, want); err != nil {
			conn.Close()
			return nil, fmt.Errorf("open %s: %w", channel, err)
		}
	}
	return conn, nil
}

func (s *Session) await(ctx context.Context, conn *websocket.Conn, event string) error {
	for {
		var in message
		if err := s.read(ctx, conn, &in); err != nil {
			return err
		}
		switch in.Event {
		case event:
			if in.Event == eventConnect && len(in.Data) > 0 {
				var data connectData
				if err := json.Unmarshal(in.Data, &data); err == nil && s.mode == ports.SessionAuthenticated {
					s.connector.adoptToken(data.Token)
				}
			}
			return nil
		case eventUnauthorized:
			return ErrUnauthorized
		case eventTimeout:
			return fmt.Errorf("display timed out waiting for pairing approval")
		}
	}
}

func (s *Session) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(s.connector.cfg.Timeout)
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		return cd
	}
	return d
}

func (s *Session) read(ctx context.Context, conn *websocket.Conn, v any) error {
	if err := conn.SetReadDeadline(s.deadline(ctx)); err != nil {
		return err
	}
	return conn.ReadJSON(v)
}

func (s *Session) write(ctx context.Context, conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(s.deadline(ctx)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
