package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/georgebossman22/appear-ai-audit-working/internal/app"
	"github.com/georgebossman22/appear-ai-audit-working/internal/logging"
	"github.com/georgebossman22/appear-ai-audit-working/internal/logparse"
)

// Server is the HTTP + WebSocket API surface for the exposure audit.
type Server struct {
	cfg      Config
	auditor  *app.Auditor
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer creates a new Server with its own Auditor.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:     cfg,
		auditor: app.NewAuditor(cfg.AppConfig, logger),
		router:  r,
		logger:  logger,
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

// Auditor returns the underlying auditor for advanced use (tests, etc.).
func (s *Server) Auditor() *app.Auditor {
	return s.auditor
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/upload-log", s.optionsHandler("POST"))
	r.Options("/analyse", s.optionsHandler("POST"))
	r.Options("/jobs/analyse", s.optionsHandler("POST"))
	r.Options("/jobs", s.optionsHandler("GET"))
	r.Options("/jobs/{jobID}", s.optionsHandler("GET, DELETE"))
	r.Options("/ws/analyse", s.optionsHandler("GET"))

	// Log analysis
	r.Post("/upload-log", s.handleUploadLog)

	// Synchronous audit
	r.Post("/analyse", s.handleAnalyse)

	// Jobs over REST
	r.Post("/jobs/analyse", s.handleStartAuditJob)
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{jobID}", s.handleGetJob)
	r.Delete("/jobs/{jobID}", s.handleCancelJob)

	// WebSocket for audit progress
	r.Get("/ws/analyse", s.handleAnalyseWS)

	// API docs
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
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	// Only replay JSON bodies into the log; multipart uploads can be large.
	if r.Body != nil && r.Method == http.MethodPost && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the auditor and any in-flight jobs.
func (s *Server) Close() {
	if s.auditor != nil {
		s.auditor.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // audits can outlive any fixed write budget
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

// --- HTTP handlers ---

// handleUploadLog parses an access-log upload and returns crawler statistics.
//
// @Summary Parse a web server log file
// @Accept mpfd
// @Produce json
// @Param file formData file true "Access log in combined format"
// @Success 200 {object} UploadLogResponse
// @Failure 400 {object} ErrorResponse
// @Router /upload-log [post]
func (s *Server) handleUploadLog(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		s.logger.Warn("reading log upload", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	events, err := s.auditor.Parser().ParseReader(io.LimitReader(file, s.cfg.AppConfig.MaxUploadBytes))
	if err != nil {
		s.logger.Warn("parsing log upload", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary := logparse.Summarize(events)

	s.logger.Info("parsed log upload", logging.Field{Key: "events", Value: len(events)})
	writeJSON(w, http.StatusOK, UploadLogResponse{Events: len(events), Summary: summary})
}

// handleAnalyse runs AI queries plus optional log analysis and returns the
// markdown report.
//
// @Summary Run an exposure audit and return the report
// @Accept mpfd
// @Produce plain
// @Param brand formData string true "Brand or website name"
// @Param keywords formData string false "Comma-separated keywords"
// @Param log_file formData file false "Optional access log for crawl analysis"
// @Success 200 {string} string "Markdown report"
// @Failure 400 {object} ErrorResponse
// @Router /analyse [post]
func (s *Server) handleAnalyse(w http.ResponseWriter, r *http.Request) {
	// Accepts both multipart (with log_file) and urlencoded forms.
	if err := r.ParseMultipartForm(s.cfg.AppConfig.MaxUploadBytes); err != nil && err != http.ErrNotMultipart {
		s.logger.Warn("parsing analyse form", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	brand := strings.TrimSpace(r.FormValue("brand"))
	if brand == "" {
		writeError(w, http.StatusBadRequest, "brand is required")
		return
	}
	keywords := splitKeywords(r.FormValue("keywords"))

	var logLines []string
	if file, _, err := r.FormFile("log_file"); err == nil {
		defer file.Close()
		raw, err := io.ReadAll(io.LimitReader(file, s.cfg.AppConfig.MaxUploadBytes))
		if err != nil {
			s.logger.Warn("reading analyse log upload", logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusBadRequest, "reading log_file upload")
			return
		}
		logLines = strings.Split(string(raw), "\n")
	}

	result, err := s.auditor.RunAudit(r.Context(), app.AuditRequest{
		Brand:    brand,
		Keywords: keywords,
		LogLines: logLines,
	}, nil)
	if err != nil {
		s.logger.Warn("running audit", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("audit complete",
		logging.Field{Key: "brand", Value: brand},
		logging.Field{Key: "responses", Value: len(result.Responses)},
		logging.Field{Key: "events", Value: len(result.Events)})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.Report))
}

// handleStartAuditJob starts an async audit job.
//
// @Summary Start an asynchronous audit job
// @Accept json
// @Produce json
// @Param request body StartAuditJobRequest true "Audit parameters"
// @Success 202 {object} app.Job
// @Failure 400 {object} ErrorResponse
// @Router /jobs/analyse [post]
func (s *Server) handleStartAuditJob(w http.ResponseWriter, r *http.Request) {
	var body StartAuditJobRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// Detached context: the job must outlive this request.
	job, err := s.auditor.StartAuditJob(context.Background(), app.AuditRequest{
		Brand:    body.Brand,
		Keywords: body.Keywords,
		LogLines: body.LogLines,
	})
	if err != nil {
		s.logger.Warn("starting audit job", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Info("started audit job", logging.Field{Key: "job_id", Value: job.ID}, logging.Field{Key: "brand", Value: job.Brand})
	// Encode a snapshot, not the live job the goroutine is mutating.
	writeJSON(w, http.StatusAccepted, s.auditor.GetJob(job.ID))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.auditor.GetJob(jobID)
	if job == nil {
		s.logger.Warn("getting job: not found", logging.Field{Key: "job_id", Value: jobID})
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.logger.Info("got job", logging.Field{Key: "job_id", Value: job.ID})
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	s.auditor.CancelJob(jobID)
	s.logger.Info("canceled job", logging.Field{Key: "job_id", Value: jobID})
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.auditor.ListJobs()
	s.logger.Info("listed jobs", logging.Field{Key: "count", Value: len(jobs)})
	writeJSON(w, http.StatusOK, jobs)
}

// handleAnalyseWS streams audit progress over a websocket: status changes,
// one event per platform response, then the final report.
func (s *Server) handleAnalyseWS(w http.ResponseWriter, r *http.Request) {
	brand := strings.TrimSpace(r.URL.Query().Get("brand"))
	keywords := splitKeywords(r.URL.Query().Get("keywords"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	job, err := s.auditor.StartAuditJob(r.Context(), app.AuditRequest{
		Brand:    brand,
		Keywords: keywords,
	})
	if err != nil {
		s.logger.Warn("starting audit job", logging.Field{Key: "error", Value: err.Error()})
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	s.logger.Info("started audit job", logging.Field{Key: "job_id", Value: job.ID})
	_ = conn.WriteJSON(s.auditor.GetJob(job.ID))

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; cancel job
			s.auditor.CancelJob(job.ID)
			return
		}
	}
}

func splitKeywords(raw string) []string {
	var keywords []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
