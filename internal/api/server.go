// Package api exposes the decomposition engine over HTTP: job control,
// the hitbox artifact, model info, run history, chart previews, and
// Prometheus metrics.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitboxdb"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/httputil"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/mesh"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/metrics"
)

// Server serves the decomposition API for one loaded model.
type Server struct {
	engine      *hitbox.Engine
	runs        *hitboxdb.RunStore
	log         *zap.Logger
	defaultTier hitbox.Tier

	mu      sync.Mutex
	model   *mesh.Mesh
	lastJob *hitbox.Job
}

// NewServer creates a Server. runs may be nil when run history is not
// persisted; log may be nil.
func NewServer(engine *hitbox.Engine, runs *hitboxdb.RunStore, defaultTier hitbox.Tier, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		engine:      engine,
		runs:        runs,
		log:         log,
		defaultTier: defaultTier,
	}
}

// SetModel replaces the mesh that decomposition jobs operate on.
func (s *Server) SetModel(m *mesh.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m
}

// Model returns the currently loaded mesh, or nil.
func (s *Server) Model() *mesh.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// LoggingMiddleware logs method, path, status, and duration for every
// request.
func LoggingMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Info("request",
			zap.Int("status", lrw.statusCode),
			zap.String("method", r.Method),
			zap.String("path", r.RequestURI),
			zap.Duration("duration", time.Since(start)))
	})
}

// ServeMux returns the route table for the API.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/decompose", s.handleDecompose)
	mux.HandleFunc("/api/job", s.handleJob)
	mux.HandleFunc("/api/job/cancel", s.handleCancel)
	mux.HandleFunc("/api/hitboxes", s.handleHitboxes)
	mux.HandleFunc("/api/model", s.handleModel)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/debug/charts/boxes", s.handleBoxChart)
	mux.HandleFunc("/debug/charts/sizes", s.handleSizeChart)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

type decomposeRequest struct {
	Tier string `json:"tier"`
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	tier := s.defaultTier
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		httputil.BadRequest(w, "failed to read request body")
		return
	}
	if len(body) > 0 {
		var req decomposeRequest
		if err := json.Unmarshal(body, &req); err != nil {
			httputil.BadRequest(w, "invalid JSON body")
			return
		}
		if req.Tier != "" {
			t, err := hitbox.ParseTier(req.Tier)
			if err != nil {
				httputil.BadRequest(w, err.Error())
				return
			}
			tier = t
		}
	}

	m := s.Model()
	if m == nil {
		httputil.BadRequest(w, "no model loaded")
		return
	}

	job, err := s.engine.Decompose(m, tier)
	if err != nil {
		switch {
		case errors.Is(err, hitbox.ErrJobRunning):
			httputil.Conflict(w, "a decomposition job is already running")
		case errors.Is(err, hitbox.ErrUnknownTier):
			httputil.BadRequest(w, err.Error())
		default:
			httputil.InternalServerError(w, err.Error())
		}
		return
	}

	s.mu.Lock()
	s.lastJob = job
	s.mu.Unlock()

	httputil.WriteJSONAccepted(w, map[string]string{
		"run_id": job.ID,
		"tier":   string(job.Tier),
	})
}

type jobStatus struct {
	RunID   string `json:"run_id"`
	State   string `json:"state"`
	Percent int    `json:"percent"`
	Tier    string `json:"tier"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	s.mu.Lock()
	job := s.lastJob
	s.mu.Unlock()
	if job == nil {
		httputil.NotFound(w, "no job has been started")
		return
	}

	status := jobStatus{
		RunID:   job.ID,
		Percent: job.Progress(),
		Tier:    string(job.Tier),
	}
	if outcome, ok := job.Outcome(); ok {
		status.State = outcome.State.String()
		status.Error = outcome.Reason
	} else {
		status.State = hitbox.StateRunning.String()
	}

	httputil.WriteJSONOK(w, status)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	job := s.engine.CurrentJob()
	if job == nil {
		httputil.NotFound(w, "no active job")
		return
	}

	job.Cancel()
	httputil.WriteJSONOK(w, map[string]string{"run_id": job.ID, "status": "cancelling"})
}

func (s *Server) handleHitboxes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	set := s.engine.Hitboxes()
	if set == nil {
		httputil.NotFound(w, "no hitboxes generated yet")
		return
	}

	httputil.WriteJSONOK(w, set)
}

type modelInfo struct {
	Name     string     `json:"name"`
	Vertices int        `json:"vertices"`
	Faces    int        `json:"faces"`
	Min      [3]float64 `json:"min"`
	Max      [3]float64 `json:"max"`
	Hitboxes int        `json:"hitboxes"`
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	m := s.Model()
	if m == nil {
		httputil.NotFound(w, "no model loaded")
		return
	}

	bounds := m.Bounds()
	httputil.WriteJSONOK(w, modelInfo{
		Name:     m.Name,
		Vertices: len(m.Vertices),
		Faces:    len(m.Faces),
		Min:      [3]float64{bounds.Min.X, bounds.Min.Y, bounds.Min.Z},
		Max:      [3]float64{bounds.Max.X, bounds.Max.Y, bounds.Max.Z},
		Hitboxes: len(s.engine.Hitboxes()),
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.runs == nil {
		httputil.NotFound(w, "run history not enabled")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httputil.BadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(limit)
	if err != nil {
		s.log.Error("list runs failed", zap.Error(err))
		httputil.InternalServerError(w, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []*hitboxdb.Run{}
	}

	httputil.WriteJSONOK(w, map[string]interface{}{"runs": runs})
}
