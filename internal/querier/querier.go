// Package querier asks generative AI platforms about a brand and collects
// their answers. It is the only networking component of the audit; everything
// downstream (report compilation) is pure.
package querier

import (
	"context"
	"fmt"

	"github.com/georgebossman22/appear-ai-audit-working/internal/logging"
	"github.com/georgebossman22/appear-ai-audit-working/internal/model"
)

// QueryClient sends one prompt to one platform and returns the answer text.
type QueryClient interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// Querier fans prompts out to every platform. The client behind each platform
// is fixed at construction: a real API client when credentials were supplied,
// a placeholder otherwise.
type Querier struct {
	clients map[model.Platform]QueryClient
	logger  logging.Logger
}

// New builds a Querier from cfg. Pass the result of ConfigFromEnv if env
// fallback is wanted; New itself never reads the environment.
func New(cfg Config, logger logging.Logger) *Querier {
	if logger == nil {
		logger = logging.NewStdoutLogger("Querier")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}

	clients := map[model.Platform]QueryClient{
		model.PlatformChatGPT:    placeholderClient{"[Placeholder] OpenAI API key not configured."},
		model.PlatformClaude:     placeholderClient{"[Placeholder] Claude API key not configured."},
		model.PlatformGemini:     placeholderClient{"[Placeholder] Gemini API key not configured."},
		model.PlatformPerplexity: placeholderClient{"[Placeholder] Perplexity API key not configured."},
	}

	if cfg.OpenAIKey != "" {
		clients[model.PlatformChatGPT] = newOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
		logger.Info("chatgpt client enabled")
	}
	if cfg.ClaudeKey != "" {
		clients[model.PlatformClaude] = newAnthropicClient(cfg.ClaudeKey, cfg.ClaudeModel, cfg.HTTPTimeout)
		logger.Info("claude client enabled")
	}
	// Gemini and Perplexity integrations are not implemented yet; a key only
	// switches the placeholder wording, exactly as absent integrations should
	// read in the report.
	if cfg.GeminiKey != "" {
		clients[model.PlatformGemini] = placeholderClient{"[Placeholder] Gemini integration not implemented."}
	}
	if cfg.PerplexityKey != "" {
		clients[model.PlatformPerplexity] = placeholderClient{"[Placeholder] Perplexity integration not implemented."}
	}

	return &Querier{clients: clients, logger: logger}
}

// GenerateQueries builds the prompt list for a brand: three general questions
// plus two keyword-specific variations per keyword.
func GenerateQueries(brand string, keywords []string) []string {
	prompts := []string{
		fmt.Sprintf("What do you know about %s?", brand),
		fmt.Sprintf("How would you describe %s's products or services?", brand),
		fmt.Sprintf("What are some alternatives to %s?", brand),
	}
	for _, kw := range keywords {
		prompts = append(prompts,
			fmt.Sprintf("Does %s have expertise in %s?", brand, kw),
			fmt.Sprintf("Best %s providers - does %s rank among them?", kw, brand),
		)
	}
	return prompts
}

// RunQueries sends every prompt to every platform, in the fixed platform
// order, and returns one QueryResponse per (prompt, platform) pair. A failed
// platform call becomes "[Error] ..." response text rather than aborting the
// run; one broken platform must not lose the rest of the audit.
func (q *Querier) RunQueries(ctx context.Context, queries []string) []model.QueryResponse {
	return q.RunQueriesWithProgress(ctx, queries, nil)
}

// RunQueriesWithProgress is RunQueries with a per-response callback, invoked
// as each answer arrives (used by the websocket job path). progress may be
// nil.
func (q *Querier) RunQueriesWithProgress(ctx context.Context, queries []string, progress func(model.QueryResponse)) []model.QueryResponse {
	results := make([]model.QueryResponse, 0, len(queries)*len(q.clients))
	for _, prompt := range queries {
		if ctx.Err() != nil {
			return results
		}
		for _, platform := range model.Platforms() {
			text, err := q.clients[platform].Query(ctx, prompt)
			if err != nil {
				q.logger.Warn("platform query failed",
					logging.Field{Key: "platform", Value: string(platform)},
					logging.Field{Key: "error", Value: err.Error()})
				text = fmt.Sprintf("[Error] %s", err.Error())
			}
			resp := model.QueryResponse{Platform: platform, Prompt: prompt, Response: text}
			results = append(results, resp)
			if progress != nil {
				progress(resp)
			}
		}
	}
	return results
}

// ResponseCount returns how many responses a run over n queries produces.
func (q *Querier) ResponseCount(n int) int {
	return n * len(q.clients)
}
