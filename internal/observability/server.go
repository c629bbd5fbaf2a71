// Package observability serves engine metrics and a world dump over HTTP.
package observability

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/tui-engine/internal/engine"
)

// Source is the part of the engine the debug routes read. Both methods
// must be safe to call from the HTTP goroutines.
type Source interface {
	Stats() engine.Stats
	Snapshot() []engine.ObjectInfo
}

// Holder is a Source whose engine can be swapped, e.g. when a scene
// restarts. The zero value reports an empty world.
type Holder struct {
	eng atomic.Pointer[engine.Engine]
}

// Set points the holder at e.
func (h *Holder) Set(e *engine.Engine) { h.eng.Store(e) }

// Stats implements Source.
func (h *Holder) Stats() engine.Stats {
	if e := h.eng.Load(); e != nil {
		return e.Stats()
	}
	return engine.Stats{}
}

// Snapshot implements Source.
func (h *Holder) Snapshot() []engine.ObjectInfo {
	if e := h.eng.Load(); e != nil {
		return e.Snapshot()
	}
	return nil
}

// World is the /debug/world payload.
type World struct {
	Stats   engine.Stats        `json:"stats"`
	Objects []engine.ObjectInfo `json:"objects"`
}

// NewRouter builds the routes. It starts nothing, so tests can mount it
// on httptest.NewServer.
func NewRouter(src Source) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/debug", func(r chi.Router) {
		r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, src.Stats())
		})
		r.Get("/world", func(w http.ResponseWriter, _ *http.Request) {
			objects := src.Snapshot()
			if objects == nil {
				objects = []engine.ObjectInfo{}
			}
			writeJSON(w, World{Stats: src.Stats(), Objects: objects})
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Server runs the router on a listener.
type Server struct {
	http   *http.Server
	ln     net.Listener
	logger *log.Logger
}

// NewServer builds a server for addr. Nothing listens until Start.
func NewServer(addr string, src Source, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(src),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start binds the listener and serves in the background. A bind failure
// is returned here rather than logged later.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("observability listening", "addr", ln.Addr().String())

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("observability server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.http.Addr
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
