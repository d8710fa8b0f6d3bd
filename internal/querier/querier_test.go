package querier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/georgebossman22/appear-ai-audit-working/internal/interfaces"
	"github.com/georgebossman22/appear-ai-audit-working/internal/model"
)

type fakeClient struct {
	text string
	err  error
}

func (f fakeClient) Query(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

func TestGenerateQueries(t *testing.T) {
	prompts := GenerateQueries("Acme", []string{"analytics", "AI"})

	// 3 base prompts + 2 per keyword.
	if len(prompts) != 7 {
		t.Fatalf("got %d prompts, want 7", len(prompts))
	}
	if prompts[0] != "What do you know about Acme?" {
		t.Fatalf("unexpected first prompt: %q", prompts[0])
	}
	found := false
	for _, p := range prompts {
		if strings.Contains(p, "expertise in analytics") {
			found = true
		}
	}
	if !found {
		t.Fatal("keyword variation missing from prompt list")
	}
}

func TestGenerateQueriesNoKeywords(t *testing.T) {
	prompts := GenerateQueries("Acme", nil)
	if len(prompts) != 3 {
		t.Fatalf("got %d prompts, want 3", len(prompts))
	}
}

func TestNewWithoutKeysUsesPlaceholders(t *testing.T) {
	q := New(Config{}, interfaces.NewTestLogger(false))

	responses := q.RunQueries(context.Background(), []string{"p"})
	if len(responses) != 4 {
		t.Fatalf("got %d responses, want 4", len(responses))
	}
	for _, r := range responses {
		if !strings.HasPrefix(r.Response, "[Placeholder]") {
			t.Fatalf("platform %s response %q, want placeholder", r.Platform, r.Response)
		}
	}
}

func TestNewWithKeysEnablesRealClients(t *testing.T) {
	q := New(Config{OpenAIKey: "sk-test", ClaudeKey: "key-test"}, interfaces.NewTestLogger(false))

	if _, ok := q.clients[model.PlatformChatGPT].(*openAIClient); !ok {
		t.Fatalf("ChatGPT client is %T, want *openAIClient", q.clients[model.PlatformChatGPT])
	}
	if _, ok := q.clients[model.PlatformClaude].(*anthropicClient); !ok {
		t.Fatalf("Claude client is %T, want *anthropicClient", q.clients[model.PlatformClaude])
	}
}

func TestRunQueriesOrderAndPairing(t *testing.T) {
	q := &Querier{
		clients: map[model.Platform]QueryClient{
			model.PlatformChatGPT:    fakeClient{text: "chatgpt says Acme"},
			model.PlatformClaude:     fakeClient{text: "claude says nothing"},
			model.PlatformGemini:     fakeClient{text: "gemini"},
			model.PlatformPerplexity: fakeClient{text: "perplexity"},
		},
		logger: interfaces.NewTestLogger(false),
	}

	queries := []string{"q1", "q2"}
	responses := q.RunQueries(context.Background(), queries)

	if len(responses) != 8 {
		t.Fatalf("got %d responses, want 8", len(responses))
	}
	// Per prompt, platforms arrive in the fixed order.
	wantPlatforms := model.Platforms()
	for i, r := range responses {
		if r.Platform != wantPlatforms[i%4] {
			t.Fatalf("response %d platform = %s, want %s", i, r.Platform, wantPlatforms[i%4])
		}
		if r.Prompt != queries[i/4] {
			t.Fatalf("response %d prompt = %q, want %q", i, r.Prompt, queries[i/4])
		}
	}
}

func TestRunQueriesTurnsErrorsIntoErrorText(t *testing.T) {
	q := &Querier{
		clients: map[model.Platform]QueryClient{
			model.PlatformChatGPT:    fakeClient{err: errors.New("connection refused")},
			model.PlatformClaude:     fakeClient{text: "ok"},
			model.PlatformGemini:     fakeClient{text: "ok"},
			model.PlatformPerplexity: fakeClient{text: "ok"},
		},
		logger: interfaces.NewTestLogger(false),
	}

	responses := q.RunQueries(context.Background(), []string{"p"})
	if got := responses[0].Response; !strings.HasPrefix(got, "[Error]") || !strings.Contains(got, "connection refused") {
		t.Fatalf("error response = %q, want [Error] prefix with cause", got)
	}
	if responses[1].Response != "ok" {
		t.Fatalf("a failing platform must not affect the others, got %q", responses[1].Response)
	}
}

func TestRunQueriesWithProgressReportsEveryResponse(t *testing.T) {
	q := New(Config{}, interfaces.NewTestLogger(false))

	var seen []model.QueryResponse
	responses := q.RunQueriesWithProgress(context.Background(), []string{"a", "b"}, func(r model.QueryResponse) {
		seen = append(seen, r)
	})

	if len(seen) != len(responses) {
		t.Fatalf("progress saw %d responses, run returned %d", len(seen), len(responses))
	}
	for i := range seen {
		if seen[i] != responses[i] {
			t.Fatalf("progress order diverged at %d", i)
		}
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("CLAUDE_API_KEY", "env-claude")

	cfg := ConfigFromEnv(Config{OpenAIKey: "explicit"})
	if cfg.OpenAIKey != "explicit" {
		t.Fatalf("explicit key overridden: %q", cfg.OpenAIKey)
	}
	if cfg.ClaudeKey != "env-claude" {
		t.Fatalf("env fallback missing: %q", cfg.ClaudeKey)
	}
	if cfg.HTTPTimeout != DefaultHTTPTimeout {
		t.Fatalf("timeout default missing: %v", cfg.HTTPTimeout)
	}
}
