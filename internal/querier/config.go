package querier

import (
	"os"
	"time"
)

// Config carries per-platform credentials. Each platform's capability
// (real client vs. placeholder) is decided once when the Querier is
// constructed, never re-checked per call.
type Config struct {
	// OpenAIKey enables real ChatGPT queries when set.
	OpenAIKey string

	// OpenAIModel overrides the default chat model.
	OpenAIModel string

	// ClaudeKey enables real Claude queries when set.
	ClaudeKey string

	// ClaudeModel overrides the default Claude model.
	ClaudeModel string

	// GeminiKey is accepted but the Gemini integration is not implemented;
	// a configured key changes the placeholder text only.
	GeminiKey string

	// PerplexityKey, same as GeminiKey.
	PerplexityKey string

	// HTTPTimeout bounds each outbound platform call. Zero means
	// DefaultHTTPTimeout.
	HTTPTimeout time.Duration
}

// DefaultHTTPTimeout is the per-call budget for platform APIs.
const DefaultHTTPTimeout = 60 * time.Second

// ConfigFromEnv fills missing keys from the environment, mirroring how the
// service is deployed (keys come in as env vars, flags win when set).
func ConfigFromEnv(cfg Config) Config {
	if cfg.OpenAIKey == "" {
		cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = os.Getenv("OPENAI_MODEL")
	}
	if cfg.ClaudeKey == "" {
		cfg.ClaudeKey = os.Getenv("CLAUDE_API_KEY")
	}
	if cfg.ClaudeModel == "" {
		cfg.ClaudeModel = os.Getenv("CLAUDE_MODEL")
	}
	if cfg.GeminiKey == "" {
		cfg.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.PerplexityKey == "" {
		cfg.PerplexityKey = os.Getenv("PERPLEXITY_API_KEY")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	return cfg
}
