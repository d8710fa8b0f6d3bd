package server

import (
	"github.com/georgebossman22/appear-ai-audit-working/internal/app"
	"github.com/georgebossman22/appear-ai-audit-working/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// AppConfig configures the auditor behind the API. Nil means
	// app.DefaultConfig().
	AppConfig *app.Config

	// Logger is optional; nil means a stdout JSON logger.
	Logger logging.Logger
}
