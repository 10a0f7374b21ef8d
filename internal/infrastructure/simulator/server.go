// Package simulator provides a stand-in for the external repair
// controller: a local SSE server speaking the same event protocol, so the
// shell can be driven without real bench hardware.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/benchview/benchview/internal/bridge"
)

const (
	// heartbeatInterval matches the comment cadence the real controller
	// uses to keep intermediaries from idling the stream out.
	heartbeatInterval = 30 * time.Second

	// subscriberBuffer is the per-subscriber event backlog. A full buffer
	// drops events rather than stalling the broadcaster.
	subscriberBuffer = 16
)

// Server is the mock bridge. It serves the event channel over SSE, accepts
// commands over HTTP for broadcast, and lists the supported actions.
type Server struct {
	router        chi.Router
	logger        zerolog.Logger
	heartbeatFreq time.Duration

	mu          sync.RWMutex
	subscribers map[string]chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

// NewServer creates a simulator ready to serve via Handler or
// ListenAndServe.
func NewServer(logger zerolog.Logger) *Server {
	s := &Server{
		logger:        logger.With().Str("component", "simulator").Logger(),
		heartbeatFreq: heartbeatInterval,
		subscribers:   make(map[string]chan []byte),
		done:          make(chan struct{}),
	}
	s.router = s.setupRouter()
	return s
}

// SetHeartbeatFrequency overrides the heartbeat cadence. Tests shorten it;
// production callers leave the default alone.
func (s *Server) SetHeartbeatFrequency(d time.Duration) {
	s.heartbeatFreq = d
}

// Handler returns the HTTP handler for the simulator.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)

	// The shell's panel may probe the simulator from a browser context.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(corsHandler.Handler)

	r.Get("/", s.handleInfo)
	r.Get("/stream", s.handleStream)
	r.Post("/command", s.handleCommand)

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		}()

		next.ServeHTTP(ww, r)
	})
}

// handleInfo describes the simulator: its endpoints and the actions the
// event channel understands.
func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"name": "benchview bridge simulator",
		"endpoints": map[string]string{
			"stream":  "GET /stream (SSE)",
			"command": "POST /command",
		},
		"actions": bridge.CommandNames(),
	})
}

// handleStream serves one subscriber's event channel until the client
// disconnects or the simulator shuts down.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	id := uuid.New().String()
	events := s.subscribe(id)
	defer s.unsubscribe(id)

	// Comment lines are invisible to the protocol; this one just pushes
	// the response headers out so clients see the stream open immediately.
	fmt.Fprintf(w, ": connected %s\n\n", id)
	flusher.Flush()

	s.logger.Info().Str("subscriber", id).Msg("stream opened")
	defer s.logger.Info().Str("subscriber", id).Msg("stream closed")

	heartbeat := time.NewTicker(s.heartbeatFreq)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case data := <-events:
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// handleCommand decodes a command envelope and broadcasts it to every
// subscriber. Invalid envelopes are rejected, never forwarded.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
		return
	}

	cmd, err := bridge.DecodeCommand(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	delivered, err := s.Publish(cmd)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{
		"command":   bridge.CommandName(cmd),
		"delivered": delivered,
	})
}

// Publish broadcasts a command to every connected subscriber and reports
// how many received it. Subscribers with a full backlog are skipped.
func (s *Server) Publish(cmd bridge.Command) (int, error) {
	data, err := bridge.EncodeCommand(cmd)
	if err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	delivered := 0
	for id, ch := range s.subscribers {
		select {
		case ch <- data:
			delivered++
		default:
			s.logger.Warn().Str("subscriber", id).Msg("subscriber backlog full, dropping event")
		}
	}

	s.logger.Info().
		Str("command", bridge.CommandName(cmd)).
		Int("delivered", delivered).
		Msg("command published")
	return delivered, nil
}

// SubscriberCount returns the number of open streams.
func (s *Server) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

func (s *Server) subscribe(id string) chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	s.mu.Lock()
	s.subscribers[id] = ch
	s.mu.Unlock()
	return ch
}

func (s *Server) unsubscribe(id string) {
	s.mu.Lock()
	delete(s.subscribers, id)
	s.mu.Unlock()
}

// ListenAndServe runs the simulator on addr until ctx is canceled. Open
// streams are released first so shutdown never waits on them.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.closeOnce.Do(func() { close(s.done) })
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", addr).Msg("simulator listening")
	return srv.ListenAndServe()
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		// Encode failures here mean the connection is already gone.
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
