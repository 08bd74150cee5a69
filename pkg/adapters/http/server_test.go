package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (http.Handler, *observability.Tracker) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	tracker := observability.NewTracker()
	hooks := metrics.Hooks().Merge(tracker.Hooks())
	hooks.EmitTick(context.Background(), &domain.TickEvent{Report: domain.TickReport{
		Branch: domain.BranchEngaged,
		State:  domain.ControllerState{CompanionWasOn: true},
	}})
	return NewHandler(tracker, reg, WithInfo(map[string]string{"app": "framesync", "version": "1.2.3"})), tracker
}

func TestGetHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestGetStatus(t *testing.T) {
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status observability.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.NotNil(t, status.LastTick)
	assert.Equal(t, domain.BranchEngaged, status.LastTick.Branch)
	assert.True(t, status.LastTick.State.CompanionWasOn)
	assert.Equal(t, uint64(1), status.Ticks)
}

func TestGetMetrics(t *testing.T) {
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `framesync_ticks_total{branch="engaged"} 1`)
	assert.Contains(t, w.Body.String(), "framesync_companion_was_on 1")
}

func TestGetInfo(t *testing.T) {
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))

	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "framesync", info["app"])
	assert.Equal(t, "1.2.3", info["version"])
}

func TestSubscribeEvents(t *testing.T) {
	h, tracker := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?branch=restore", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				lines <- string(buf[:n])
			}
			if err != nil {
				close(lines)
				return
			}
		}
	}()

	var got strings.Builder
	waitFor := func(substr string) {
		deadline := time.After(2 * time.Second)
		for !strings.Contains(got.String(), substr) {
			select {
			case chunk, ok := <-lines:
				require.True(t, ok, "stream closed before %q", substr)
				got.WriteString(chunk)
			case <-deadline:
				t.Fatalf("timed out waiting for %q in %q", substr, got.String())
			}
		}
	}

	waitFor("event: ping")
	tracker.Record(domain.TickReport{Branch: domain.BranchAmbient})
	tracker.Record(domain.TickReport{Branch: domain.BranchRestore})
	waitFor(`"branch":"restore"`)
	assert.NotContains(t, got.String(), `"branch":"ambient"`)
}
