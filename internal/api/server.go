// Package api exposes perflens over HTTP: dashboard resolution, load-run
// control, the lifecycle event stream, environment reporting, and
// operational metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/perflens/perflens/internal/dashboard"
	"github.com/perflens/perflens/internal/envinfo"
	"github.com/perflens/perflens/internal/loadrun"
	"github.com/perflens/perflens/internal/manifest"
	"github.com/perflens/perflens/internal/probe"
)

// Server wires the prober, resolver and orchestrator to HTTP routes.
type Server struct {
	prober   *probe.Prober
	resolver *dashboard.Resolver
	orch     *loadrun.Orchestrator
	mux      *http.ServeMux
	http     *http.Server
}

// NewServer creates a Server and registers its routes.
func NewServer(prober *probe.Prober, resolver *dashboard.Resolver, orch *loadrun.Orchestrator) *Server {
	s := &Server{
		prober:   prober,
		resolver: resolver,
		orch:     orch,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/v1/dashboard", s.handleDashboard)
	s.mux.HandleFunc("POST /api/v1/loadrun/{key}/start", s.handleStart)
	s.mux.HandleFunc("POST /api/v1/loadrun/{key}/cancel", s.handleCancel)
	s.mux.HandleFunc("GET /api/v1/loadrun/{key}", s.handleStatus)
	s.mux.HandleFunc("GET /api/v1/loadrun/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/v1/environment", s.handleEnvironment)
	s.mux.HandleFunc("GET /api/v1/project/metrics-dependency", s.handleMetricsDependency)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Handler returns the route multiplexer, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins serving on addr in a background goroutine and returns
// immediately.
func (s *Server) Start(addr string) {
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("api: serve: %v", err)
		}
	}()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

type dashboardResponse struct {
	Hosting      string              `json:"hosting"`
	Path         string              `json:"path,omitempty"`
	Available    bool                `json:"available"`
	Capabilities probe.CapabilityMap `json:"capabilities"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	host := q.Get("host")
	language := q.Get("language")
	port, err := strconv.Atoi(q.Get("port"))
	if host == "" || language == "" || err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("host, port and language are required"))
		return
	}

	caps := s.prober.Probe(r.Context(), host, port, probe.Catalog())
	target := s.resolver.Resolve(caps, language)

	writeJSON(w, http.StatusOK, dashboardResponse{
		Hosting:      target.Hosting.String(),
		Path:         target.Path,
		Available:    target.Available(),
		Capabilities: caps,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("unreadable request body"))
		return
	}
	opts, err := loadrun.ParseOptions(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("options must be a JSON object"))
		return
	}

	switch err := s.orch.Start(key, opts); {
	case errors.Is(err, loadrun.ErrMissingURL):
		writeJSON(w, http.StatusBadRequest, errorBody("options missing url"))
	case errors.Is(err, loadrun.ErrAlreadyRunning):
		writeJSON(w, http.StatusConflict, errorBody("run already in progress"))
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "key": key})
	}
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	switch err := s.orch.Cancel(key); {
	case errors.Is(err, loadrun.ErrNotRunning):
		writeJSON(w, http.StatusConflict, errorBody("no run in progress"))
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancelling", "key": key})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	writeJSON(w, http.StatusOK, map[string]any{
		"key":     key,
		"running": s.orch.Running(key),
	})
}

// handleEvents streams lifecycle events over SSE until the client
// disconnects. Only events published after the subscription are delivered;
// there is no replay.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, unsubscribe := s.orch.Bus().Subscribe()
	defer unsubscribe()

	sw := NewSSEWriter(w)
	sw.Init()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sw.WriteEvent(ev); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envinfo.Collect())
}

func (s *Server) handleMetricsDependency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	root := q.Get("root")
	language := q.Get("language")
	if root == "" || language == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("root and language are required"))
		return
	}

	has, err := manifest.HasMetricsDependency(root, language)
	switch {
	case errors.Is(err, manifest.ErrManifestMissing):
		writeJSON(w, http.StatusNotFound, errorBody("build manifest missing"))
	case err != nil:
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"hasMetricsDependency": has})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
