package samsung

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// fakeTV emulates the parts of a Frame TV the connector talks to.
type fakeTV struct {
	mu          sync.Mutex
	powerState  string
	artMode     string
	artError    bool
	token       string
	issueToken  string
	toggles     int
	artRequests []string

	upgrader websocket.Upgrader
}

func newFakeTV() *fakeTV {
	return &fakeTV{powerState: "on", artMode: "off"}
}

func (tv *fakeTV) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/", func(w http.ResponseWriter, r *http.Request) {
		tv.mu.Lock()
		defer tv.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"device": map[string]any{
				"name":           "[TV] Samsung Frame",
				"modelName":      "QE55LS03",
				"PowerState":     tv.powerState,
				"FrameTVSupport": "true",
			},
		})
	})
	mux.HandleFunc("GET /api/v2/channels/samsung.remote.control", tv.remote)
	mux.HandleFunc("GET /api/v2/channels/com.samsung.art-app", tv.art)
	return mux
}

func (tv *fakeTV) authorize(conn *websocket.Conn, r *http.Request) bool {
	tv.mu.Lock()
	want := tv.token
	issue := tv.issueToken
	tv.mu.Unlock()
	if want != "" && r.URL.Query().Get("token") != want {
		conn.WriteJSON(map[string]any{"event": "ms.channel.unauthorized"})
		return false
	}
	data := map[string]any{"id": "client-1"}
	if issue != "" {
		data["token"] = issue
	}
	conn.WriteJSON(map[string]any{"event": "ms.channel.connect", "data": data})
	return true
}

func (tv *fakeTV) remote(w http.ResponseWriter, r *http.Request) {
	conn, err := tv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	if !tv.authorize(conn, r) {
		return
	}
	for {
		var msg struct {
			Method string `json:"method"`
			Params struct {
				DataOfCmd string `json:"DataOfCmd"`
			} `json:"params"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Method == "ms.remote.control" && msg.Params.DataOfCmd == "KEY_POWER" {
			tv.mu.Lock()
			tv.toggles++
			tv.mu.Unlock()
		}
	}
}

func (tv *fakeTV) art(w http.ResponseWriter, r *http.Request) {
	conn, err := tv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	if !tv.authorize(conn, r) {
		return
	}
	conn.WriteJSON(map[string]any{"event": "ms.channel.ready"})
	for {
		var msg struct {
			Params struct {
				Data string `json:"data"`
			} `json:"params"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		var req artRequest
		if err := json.Unmarshal([]byte(msg.Params.Data), &req); err != nil {
			continue
		}

		tv.mu.Lock()
		tv.artRequests = append(tv.artRequests, req.Request)
		var reply map[string]any
		switch {
		case req.Request == requestSetArtMode:
			tv.artMode = req.Value
		case tv.artError:
			reply = map[string]any{"event": "error", "error_code": "-1", "id": req.ID}
		case req.Request == requestGetArtMode:
			reply = map[string]any{"event": "artmode_status", "value": tv.artMode, "id": req.ID}
		}
		tv.mu.Unlock()

		if reply != nil {
			// Unrelated chatter the client must skip.
			conn.WriteJSON(map[string]any{"event": "ms.channel.clientConnect"})
			payload, _ := json.Marshal(reply)
			conn.WriteJSON(map[string]any{"event": "d2d_service_message", "data": string(payload)})
		}
	}
}

func (tv *fakeTV) Toggles() int {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	return tv.toggles
}

func (tv *fakeTV) ArtMode() string {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	return tv.artMode
}

// serve starts a TLS server for the authenticated port and a plain one for the anonymous port.
func (tv *fakeTV) serve(t *testing.T) Config {
	t.Helper()
	secure := httptest.NewTLSServer(tv.handler())
	plain := httptest.NewServer(tv.handler())
	t.Cleanup(secure.Close)
	t.Cleanup(plain.Close)

	host, authPort := splitHostPort(t, secure.Listener.Addr().String())
	_, anonPort := splitHostPort(t, plain.Listener.Addr().String())

	cfg := DefaultConfig()
	cfg.Host = host
	cfg.AuthPort = authPort
	cfg.AnonPort = anonPort
	return cfg
}

func splitHostPort(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}
