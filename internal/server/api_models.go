package server

import "github.com/georgebossman22/appear-ai-audit-working/internal/model"

// UploadLogResponse reports how many crawl events a log upload produced and
// the per-bot, per-URL counts.
type UploadLogResponse struct {
	Events  int                `json:"events" example:"3"`
	Summary model.CrawlSummary `json:"summary"`
}

// StartAuditJobRequest is the payload for starting an async audit job.
type StartAuditJobRequest struct {
	Brand    string   `json:"brand" example:"Acme"`
	Keywords []string `json:"keywords" example:"analytics,AI"`
	LogLines []string `json:"log_lines"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"brand is required"`
}
