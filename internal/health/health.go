package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type Server struct {
	httpServer *http.Server
	checks     map[string]Check
}

// New serves GET /health on port. Each named check runs per request; any
// failure turns the response into a 503.
func New(port int, checks map[string]Check) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		checks: checks,
	}
	mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

// Handler exposes the mux for mounting or tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := map[string]string{"status": "ok"}
	status := http.StatusOK
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			body[name] = err.Error()
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
