package app

import (
	"github.com/georgebossman22/appear-ai-audit-working/internal/querier"
)

// Config contains the runtime configuration shared by the CLI and the API
// server. Keep this small — add fields as wiring requires them.
type Config struct {
	// QuerierCfg carries per-platform API credentials and call timeouts.
	QuerierCfg querier.Config

	// MaxUploadBytes bounds uploaded log files accepted by the API server.
	MaxUploadBytes int64
}

// DefaultConfig returns a Config populated with sensible development defaults.
// Credentials default to empty, which makes every platform a placeholder;
// call querier.ConfigFromEnv on QuerierCfg to pick up env keys.
func DefaultConfig() *Config {
	return &Config{
		QuerierCfg: querier.Config{
			HTTPTimeout: querier.DefaultHTTPTimeout,
		},
		MaxUploadBytes: 32 << 20,
	}
}
