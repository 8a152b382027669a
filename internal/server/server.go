package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/seolens/seolens/internal/app"
	"github.com/seolens/seolens/internal/history"
	"github.com/seolens/seolens/internal/interfaces"
	"github.com/seolens/seolens/internal/logging"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/report"
)

// Server is the HTTP + WebSocket API surface.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       interfaces.Logger
}

// NewServer creates a new Server with its own Orchestrator.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	orch, err := app.NewOrchestrator(cfg.AppConfig, logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       r,
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/api/analyze", s.optionsHandler("POST"))
	r.Options("/api/analyses", s.optionsHandler("GET"))
	r.Options("/api/analyses/compare", s.optionsHandler("GET"))
	r.Options("/api/analyses/{id}", s.optionsHandler("GET"))
	r.Options("/api/jobs", s.optionsHandler("GET, POST"))
	r.Options("/api/jobs/{jobID}", s.optionsHandler("GET, DELETE"))

	r.Get("/health", s.handleHealth)

	// Synchronous analysis
	r.Post("/api/analyze", s.handleAnalyze)

	// History
	r.Get("/api/analyses", s.handleListAnalyses)
	r.Get("/api/analyses/compare", s.handleCompareAnalyses)
	r.Get("/api/analyses/{id}", s.handleGetAnalysis)

	// Jobs over REST
	r.Post("/api/jobs", s.handleStartJob)
	r.Get("/api/jobs", s.handleListJobs)
	r.Get("/api/jobs/{jobID}", s.handleGetJob)
	r.Delete("/api/jobs/{jobID}", s.handleCancelJob)

	// WebSocket for job progress
	r.Get("/ws/analyze", s.handleAnalyzeWS)

	// API documentation
	r.Get("/swagger/doc.json", s.handleSwaggerDoc)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []interfaces.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, interfaces.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, interfaces.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the orchestrator and underlying resources.
func (s *Server) Close() {
	if s.orchestrator != nil {
		s.orchestrator.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// toCategories converts the request's check names. Unknown names are passed
// through so the analyzer rejects them with model.ErrUnknownCategory and the
// handlers answer 400 consistently for sync and async requests.
func toCategories(names []string) []model.Category {
	if len(names) == 0 {
		return nil
	}
	out := make([]model.Category, 0, len(names))
	for _, n := range names {
		out = append(out, model.Category(n))
	}
	return out
}

// validateChecks rejects unknown categories before a job is created.
func validateChecks(checks []model.Category) error {
	for _, cat := range checks {
		if !cat.Valid() {
			return fmt.Errorf("%w: %q", model.ErrUnknownCategory, cat)
		}
	}
	return nil
}

// --- HTTP handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Version: Version})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}

	rep, err := s.orchestrator.Analyze(r.Context(), body.URL, toCategories(body.Checks)...)
	if err != nil {
		if errors.Is(err, model.ErrInvalidURL) || errors.Is(err, model.ErrUnknownCategory) {
			s.logger.Warn("rejected analysis", interfaces.Field{Key: "url", Value: body.URL}, interfaces.Field{Key: "error", Value: err.Error()})
			writeJSON(w, http.StatusBadRequest, report.Envelope{Success: false, URL: body.URL, Error: err.Error()})
			return
		}
		s.logger.Warn("analysis failed", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("analysis complete",
		interfaces.Field{Key: "url", Value: rep.URL},
		interfaces.Field{Key: "status", Value: string(rep.Status)})
	writeJSON(w, http.StatusOK, report.ToEnvelope(rep))
}

// History

func (s *Server) history() *history.Store {
	return s.orchestrator.History()
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	store := s.history()
	if store == nil {
		writeError(w, http.StatusNotFound, "history disabled")
		return
	}

	url := r.URL.Query().Get("url")
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	entries, err := store.List(r.Context(), url, limit)
	if err != nil {
		s.logger.Warn("listing analyses", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("listed analyses", interfaces.Field{Key: "count", Value: len(entries)})
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	store := s.history()
	if store == nil {
		writeError(w, http.StatusNotFound, "history disabled")
		return
	}

	id := chi.URLParam(r, "id")
	rep, err := store.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		s.logger.Warn("getting analysis", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report.ToEnvelope(rep))
}

func (s *Server) handleCompareAnalyses(w http.ResponseWriter, r *http.Request) {
	store := s.history()
	if store == nil {
		writeError(w, http.StatusNotFound, "history disabled")
		return
	}

	base := r.URL.Query().Get("base")
	head := r.URL.Query().Get("head")
	if base == "" || head == "" {
		writeError(w, http.StatusBadRequest, "missing base or head query parameter")
		return
	}

	cmp, err := store.Compare(r.Context(), base, head)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Warn("comparing analyses", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("compared analyses",
		interfaces.Field{Key: "base", Value: base},
		interfaces.Field{Key: "head", Value: head})
	writeJSON(w, http.StatusOK, cmp)
}

// Jobs (REST)

func (s *Server) handleStartJob(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}

	checks := toCategories(body.Checks)
	if err := validateChecks(checks); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The job must outlive this request.
	job, err := s.orchestrator.StartAnalyzeJob(context.Background(), body.URL, checks...)
	if err != nil {
		s.logger.Warn("starting analyze job", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("started analyze job",
		interfaces.Field{Key: "job_id", Value: job.ID},
		interfaces.Field{Key: "url", Value: body.URL})
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		s.logger.Warn("getting job: not found", interfaces.Field{Key: "job_id", Value: jobID})
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	s.orchestrator.CancelJob(jobID)
	s.logger.Info("canceled job", interfaces.Field{Key: "job_id", Value: jobID})
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.orchestrator.ListJobs()
	writeJSON(w, http.StatusOK, jobs)
}

// WebSocket

func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing url query parameter")
		return
	}

	var checks []model.Category
	if raw := r.URL.Query().Get("checks"); raw != "" {
		checks = toCategories(strings.Split(raw, ","))
		if err := validateChecks(checks); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", interfaces.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	job, err := s.orchestrator.StartAnalyzeJob(r.Context(), url, checks...)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		s.logger.Warn("starting analyze job", interfaces.Field{Key: "error", Value: err.Error()})
		return
	}

	s.logger.Info("started analyze job", interfaces.Field{Key: "job_id", Value: job.ID})
	_ = conn.WriteJSON(job)

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; cancel job
			s.orchestrator.CancelJob(job.ID)
			return
		}
	}
}
