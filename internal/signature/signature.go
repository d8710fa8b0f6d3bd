package signature

import (
	"sort"
	"strings"

	"github.com/georgebossman22/appear-ai-audit-working/internal/model"
)

// Table maps bot names to the user-agent substring that identifies them.
// Matching is case-insensitive substring containment, not token matching: a
// user agent containing "ChatGPT-User" anywhere matches, even mid-string.
//
// When several signatures occur in the same user agent the longest signature
// wins; equal lengths fall back to lexicographic bot-name order. This is a
// deliberate contract, not an artifact of map iteration.
type Table struct {
	sigs map[model.Bot]string

	// order is the deterministic match order derived from sigs.
	order []model.Bot
}

// NewTable builds a Table from a bot -> signature mapping. Signatures are
// lowered once here so Match only lowers the user agent.
func NewTable(sigs map[model.Bot]string) *Table {
	t := &Table{sigs: make(map[model.Bot]string, len(sigs))}
	for bot, sig := range sigs {
		t.sigs[bot] = strings.ToLower(sig)
		t.order = append(t.order, bot)
	}
	sort.Slice(t.order, func(i, j int) bool {
		si, sj := t.sigs[t.order[i]], t.sigs[t.order[j]]
		if len(si) != len(sj) {
			return len(si) > len(sj)
		}
		return t.order[i] < t.order[j]
	})
	return t
}

// DefaultTable returns the built-in table of known AI crawlers. Extend this
// as new crawlers emerge.
func DefaultTable() *Table {
	return NewTable(map[model.Bot]string{
		model.BotChatGPTUser:       "ChatGPT-User",
		model.BotGPTBot:            "GPTBot",
		model.BotOAISearchBot:      "OAI-SearchBot",
		model.BotClaudeBot:         "ClaudeBot",
		model.BotClaudeWeb:         "Claude-Web",
		model.BotCCBot:             "CCBot",
		model.BotPerplexityBot:     "PerplexityBot",
		model.BotAnthropicAI:       "Anthropic-ai",
		model.BotBytespider:        "Bytespider",
		model.BotAmazonbot:         "Amazonbot",
		model.BotMetaExternalAgent: "Meta-ExternalAgent",
		model.BotYouBot:            "YouBot",
	})
}

// Match reports the bot whose signature occurs in userAgent, if any. Absence
// of a match is a normal result, not an error.
func (t *Table) Match(userAgent string) (model.Bot, bool) {
	ua := strings.ToLower(userAgent)
	for _, bot := range t.order {
		if strings.Contains(ua, t.sigs[bot]) {
			return bot, true
		}
	}
	return "", false
}

// Len returns the number of signatures in the table.
func (t *Table) Len() int {
	return len(t.sigs)
}
