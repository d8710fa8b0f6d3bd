package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgebossman22/appear-ai-audit-working/internal/logging"
	"github.com/georgebossman22/appear-ai-audit-working/internal/logparse"
	"github.com/georgebossman22/appear-ai-audit-working/internal/model"
	"github.com/georgebossman22/appear-ai-audit-working/internal/querier"
	"github.com/georgebossman22/appear-ai-audit-working/internal/report"
	"github.com/georgebossman22/appear-ai-audit-working/internal/signature"
)

type JobEventType string

const (
	JobEventStatus   JobEventType = "status"
	JobEventResponse JobEventType = "response"
	JobEventResult   JobEventType = "result"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// For per-response progress
	Response  *model.QueryResponse `json:"response,omitempty"`
	Processed int                  `json:"processed,omitempty"`
	Total     int                  `json:"total,omitempty"`

	// For the final result
	Report string `json:"report,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

type Job struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"` // always "audit" for now
	Brand     string        `json:"brand"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Events    chan JobEvent `json:"-"`

	// Result is set once the job reaches JobDone.
	Result *AuditResult `json:"result,omitempty"`
}

// AuditRequest is one full exposure audit: which brand to ask the platforms
// about, keyword variations for the prompts, and optional raw log lines.
type AuditRequest struct {
	Brand    string   `json:"brand"`
	Keywords []string `json:"keywords,omitempty"`
	LogLines []string `json:"log_lines,omitempty"`
}

// AuditResult bundles everything one audit produced.
type AuditResult struct {
	Report    string                `json:"report"`
	Responses []model.QueryResponse `json:"responses"`
	Events    []model.CrawlEvent    `json:"events"`
	Summary   model.CrawlSummary    `json:"summary"`
}

// Auditor runs exposure audits: it queries the AI platforms, parses uploaded
// logs and compiles the report. It also owns the async job table used by the
// REST and websocket surfaces.
type Auditor struct {
	cfg     *Config
	querier *querier.Querier
	parser  *logparse.Parser
	logger  logging.Logger

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
}

// NewAuditor ties together config, querier, parser and logger.
func NewAuditor(cfg *Config, logger logging.Logger) *Auditor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("Auditor")
	}
	return &Auditor{
		cfg:     cfg,
		querier: querier.New(cfg.QuerierCfg, logger),
		parser:  logparse.NewParser(signature.DefaultTable()),
		logger:  logger,
	}
}

// Parser exposes the log parser for boundary code that only needs log
// analysis (the /upload-log handler).
func (a *Auditor) Parser() *logparse.Parser {
	return a.parser
}

// RunAudit performs a full audit synchronously. onResponse, when non-nil, is
// invoked for each platform response as it arrives.
func (a *Auditor) RunAudit(ctx context.Context, req AuditRequest, onResponse func(model.QueryResponse)) (*AuditResult, error) {
	if req.Brand == "" {
		return nil, errors.New("brand is required")
	}

	queries := querier.GenerateQueries(req.Brand, req.Keywords)
	a.logger.Info("running audit",
		logging.Field{Key: "brand", Value: req.Brand},
		logging.Field{Key: "queries", Value: len(queries)},
		logging.Field{Key: "log_lines", Value: len(req.LogLines)})

	responses := a.querier.RunQueriesWithProgress(ctx, queries, onResponse)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := a.parser.ParseLines(req.LogLines)
	summary := logparse.Summarize(events)

	return &AuditResult{
		Report:    report.Compile(req.Brand, responses, events, summary, time.Now().UTC()),
		Responses: responses,
		Events:    events,
		Summary:   summary,
	}, nil
}

func (a *Auditor) ensureJobMaps() {
	a.jobsMu.Lock()
	defer a.jobsMu.Unlock()
	if a.jobs == nil {
		a.jobs = make(map[string]*Job)
	}
	if a.jobCancels == nil {
		a.jobCancels = make(map[string]context.CancelFunc)
	}
}

func (a *Auditor) emitJobEvent(jobID string, ev JobEvent) {
	a.jobsMu.Lock()
	job, ok := a.jobs[jobID]
	a.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (a *Auditor) setJobStatus(jobID string, status JobStatus, errText string) {
	a.jobsMu.Lock()
	if j, ok := a.jobs[jobID]; ok {
		j.Status = status
		j.Error = errText
	}
	a.jobsMu.Unlock()
	a.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: status, Error: errText})
}

// StartAuditJob runs an audit asynchronously. The returned Job carries a
// buffered Events channel streaming status changes, one event per platform
// response, and the final report.
func (a *Auditor) StartAuditJob(ctx context.Context, req AuditRequest) (*Job, error) {
	if req.Brand == "" {
		return nil, errors.New("brand is required")
	}
	a.ensureJobMaps()

	jobID := uuid.New().String()
	job := &Job{
		ID:        jobID,
		Type:      "audit",
		Brand:     req.Brand,
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, 64),
	}

	a.jobsMu.Lock()
	a.jobs[jobID] = job
	a.jobsMu.Unlock()

	jobCtx, cancel := context.WithCancel(ctx)
	a.jobsMu.Lock()
	a.jobCancels[jobID] = cancel
	a.jobsMu.Unlock()

	a.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobPending})

	total := a.querier.ResponseCount(len(querier.GenerateQueries(req.Brand, req.Keywords)))

	go func() {
		defer func() {
			a.jobsMu.Lock()
			if j, ok := a.jobs[jobID]; ok {
				j.EndedAt = time.Now().UTC()
			}
			delete(a.jobCancels, jobID)
			j := a.jobs[jobID]
			a.jobsMu.Unlock()

			// Close events channel so websocket loops terminate cleanly.
			if j != nil && j.Events != nil {
				close(j.Events)
			}
		}()

		a.setJobStatus(jobID, JobRunning, "")

		processed := 0
		result, err := a.RunAudit(jobCtx, req, func(resp model.QueryResponse) {
			processed++
			r := resp
			a.emitJobEvent(jobID, JobEvent{
				JobID:     jobID,
				Type:      JobEventResponse,
				Response:  &r,
				Processed: processed,
				Total:     total,
			})
		})
		if err != nil {
			if jobCtx.Err() != nil {
				a.setJobStatus(jobID, JobCanceled, jobCtx.Err().Error())
			} else {
				a.setJobStatus(jobID, JobFailed, err.Error())
			}
			return
		}

		a.jobsMu.Lock()
		if j, ok := a.jobs[jobID]; ok {
			j.Status = JobDone
			j.Result = result
		}
		a.jobsMu.Unlock()
		a.emitJobEvent(jobID, JobEvent{
			JobID:  jobID,
			Type:   JobEventResult,
			Status: JobDone,
			Report: result.Report,
		})
	}()

	return job, nil
}

func (a *Auditor) CancelJob(jobID string) {
	a.jobsMu.Lock()
	cancel := a.jobCancels[jobID]
	a.jobsMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// snapshotLocked copies j so callers can read or JSON-encode it while the job
// goroutine keeps mutating the stored Job under jobsMu. The live events
// channel is deliberately left out of the copy. Callers must hold jobsMu.
func (j *Job) snapshotLocked() *Job {
	c := *j
	c.Events = nil
	return &c
}

// GetJob returns a snapshot of the job, or nil if unknown. The snapshot is
// detached: it never changes after return and carries no events channel.
func (a *Auditor) GetJob(jobID string) *Job {
	a.jobsMu.Lock()
	defer a.jobsMu.Unlock()
	j, ok := a.jobs[jobID]
	if !ok {
		return nil
	}
	return j.snapshotLocked()
}

// ListJobs returns detached snapshots of every known job.
func (a *Auditor) ListJobs() []*Job {
	a.jobsMu.Lock()
	defer a.jobsMu.Unlock()
	jobs := make([]*Job, 0, len(a.jobs))
	for _, j := range a.jobs {
		jobs = append(jobs, j.snapshotLocked())
	}
	return jobs
}

// Close cancels every in-flight job.
func (a *Auditor) Close() {
	a.jobsMu.Lock()
	cancels := make([]context.CancelFunc, 0, len(a.jobCancels))
	for _, c := range a.jobCancels {
		cancels = append(cancels, c)
	}
	a.jobsMu.Unlock()
	for _, c := range cancels {
		c()
	}
}
