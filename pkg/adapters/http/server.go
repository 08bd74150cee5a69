// Package http serves the controller's status surface: health, last tick, tick stream and
// prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/framesync/pkg/domain"
	"github.com/aretw0/framesync/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource is what the status endpoints read from.
type StatusSource interface {
	Status() observability.Status
	Subscribe() (<-chan domain.TickReport, func())
}

// Server holds the handlers' dependencies.
type Server struct {
	Source   StatusSource
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	Info     map[string]string
}

// Option configures the status server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithInfo sets the build details reported by /info.
func WithInfo(info map[string]string) Option {
	return func(s *Server) {
		s.Info = info
	}
}

// NewHandler creates the status router.
func NewHandler(source StatusSource, gatherer prometheus.Gatherer, opts ...Option) http.Handler {
	s := &Server{Source: source, Gatherer: gatherer, Info: map[string]string{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.Logger = s.Logger.With("component", "http")

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/status", s.GetStatus)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	logger.Info("status server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown status server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, "ok")
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Source.Status()); err != nil {
		s.Logger.Error("status response encode failed", "error", err)
	}
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Info)
}

// SubscribeEvents handles the GET /events request (SSE), streaming every tick report.
// ?branch=restore,nudge limits the stream to the listed branches.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("streaming not supported")
		return
	}

	var filter map[domain.Branch]bool
	if raw := r.URL.Query().Get("branch"); raw != "" {
		filter = make(map[domain.Branch]bool)
		for _, b := range strings.Split(raw, ",") {
			filter[domain.Branch(strings.TrimSpace(b))] = true
		}
	}

	reports, cancel := s.Source.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.Logger.Debug("sse client connected")

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("sse client disconnected")
			return
		case report, ok := <-reports:
			if !ok {
				return
			}
			if filter != nil && !filter[report.Branch] {
				continue
			}
			payload, err := json.Marshal(report)
			if err != nil {
				s.Logger.Error("tick report encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: tick\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
