package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/treefix50/pipeview/internal/inspection"
	"github.com/treefix50/pipeview/internal/session"
	"github.com/treefix50/pipeview/internal/taxonomy"
)

type Server struct {
	addr     string
	catalog  *inspection.Catalog
	sessions *session.Manager
	taxonomy *taxonomy.Service
	events   *RateLimiter
	http     *http.Server
}

type Options struct {
	Addr             string
	EventMinInterval time.Duration
	CORSEnabled      bool
}

func New(opts Options, catalog *inspection.Catalog, sessions *session.Manager, tax *taxonomy.Service) *Server {
	s := &Server{
		addr:     opts.Addr,
		catalog:  catalog,
		sessions: sessions,
		taxonomy: tax,
		events:   NewRateLimiter(opts.EventMinInterval),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/workorders", s.handleWorkOrders)
	mux.HandleFunc("/workorders/", s.handleWorkOrder)
	mux.HandleFunc("/jobs/", s.handleJobs)
	mux.HandleFunc("/taxonomy", s.handleTaxonomy)
	mux.HandleFunc("/taxonomy/", s.handleTaxonomy)
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSession)

	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           logMiddleware(mux, opts.CORSEnabled),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start() error { return s.http.ListenAndServe() }

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) Close() error {
	s.sessions.CloseAll()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
