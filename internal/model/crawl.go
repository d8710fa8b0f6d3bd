package model

import "sort"

// Bot identifies a known AI crawler by its friendly name. The set of bots is
// closed; new crawlers are added here and in signature.DefaultTable together.
type Bot string

const (
	BotChatGPTUser       Bot = "ChatGPT-User"
	BotGPTBot            Bot = "GPTBot"
	BotOAISearchBot      Bot = "OAI-SearchBot"
	BotClaudeBot         Bot = "ClaudeBot"
	BotClaudeWeb         Bot = "Claude-Web"
	BotCCBot             Bot = "CCBot"
	BotPerplexityBot     Bot = "PerplexityBot"
	BotAnthropicAI       Bot = "Anthropic-AI"
	BotBytespider        Bot = "Bytespider"
	BotAmazonbot         Bot = "Amazonbot"
	BotMetaExternalAgent Bot = "Meta-ExternalAgent"
	BotYouBot            Bot = "YouBot"
)

// CrawlEvent is one observed request from a recognized AI bot, extracted from
// a single access-log line. Immutable once created.
type CrawlEvent struct {
	// Bot is the crawler that made the request.
	Bot Bot `json:"bot"`

	// URL is the request path; empty if the request line was too short.
	URL string `json:"url"`

	// Timestamp is the bracketed log timestamp, carried verbatim. It is
	// deliberately not parsed into a time.Time.
	Timestamp string `json:"timestamp"`
}

// CrawlSummary counts requests per bot and per URL: bot -> url -> count.
// Every stored count is positive; rebuilt fresh on every summarize call.
type CrawlSummary map[Bot]map[string]int

// Bots returns the bot keys in lexicographic order for deterministic rendering.
func (s CrawlSummary) Bots() []Bot {
	bots := make([]Bot, 0, len(s))
	for b := range s {
		bots = append(bots, b)
	}
	sort.Slice(bots, func(i, j int) bool { return bots[i] < bots[j] })
	return bots
}

// TotalRequests sums all per-URL counts recorded for bot.
func (s CrawlSummary) TotalRequests(bot Bot) int {
	total := 0
	for _, n := range s[bot] {
		total += n
	}
	return total
}

// EventCount sums every count in the summary. Equals the number of events the
// summary was built from.
func (s CrawlSummary) EventCount() int {
	total := 0
	for b := range s {
		total += s.TotalRequests(b)
	}
	return total
}
