// Package report renders the markdown exposure report. Compile is a pure
// function: same inputs and date, same bytes out.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/georgebossman22/appear-ai-audit-working/internal/model"
)

// MentionStats is the outcome of scanning response text for a brand.
type MentionStats struct {
	Hits  int
	Total int
}

// Rate returns hits as a percentage of total, 0.0 when total is zero.
func (m MentionStats) Rate() float64 {
	if m.Total == 0 {
		return 0.0
	}
	return float64(m.Hits) / float64(m.Total) * 100
}

// AnalyseMentions counts responses whose text mentions brand,
// case-insensitively, as a substring.
func AnalyseMentions(responses []model.QueryResponse, brand string) MentionStats {
	needle := strings.ToLower(brand)
	stats := MentionStats{Total: len(responses)}
	for _, rec := range responses {
		if strings.Contains(strings.ToLower(rec.Response), needle) {
			stats.Hits++
		}
	}
	return stats
}

// platformRow is one platform's mention stats, in first-encounter order.
type platformRow struct {
	platform model.Platform
	stats    MentionStats
}

func platformBreakdown(responses []model.QueryResponse, brand string) []platformRow {
	needle := strings.ToLower(brand)
	index := make(map[model.Platform]int)
	var rows []platformRow
	for _, rec := range responses {
		i, ok := index[rec.Platform]
		if !ok {
			i = len(rows)
			index[rec.Platform] = i
			rows = append(rows, platformRow{platform: rec.Platform})
		}
		rows[i].stats.Total++
		if strings.Contains(strings.ToLower(rec.Response), needle) {
			rows[i].stats.Hits++
		}
	}
	return rows
}

// Compile renders the full exposure report. Section order is invariant:
// title, exposure summary, platform breakdown, crawl activity,
// recommendations, footer — every section is present even when its data is
// empty. generatedOn is the only externally varying input; callers pass
// time.Now() at the boundary.
func Compile(brand string, responses []model.QueryResponse, events []model.CrawlEvent, summary model.CrawlSummary, generatedOn time.Time) string {
	var b strings.Builder

	stats := AnalyseMentions(responses, brand)

	fmt.Fprintf(&b, "# AI Exposure Report for **%s**\n\n", brand)
	fmt.Fprintf(&b, "Generated on %s\n\n", generatedOn.Format("2006-01-02"))

	b.WriteString("## Exposure Summary\n\n")
	fmt.Fprintf(&b,
		"Out of **%d** AI responses analysed across all platforms, **%d** mentioned the brand, giving an approximate exposure rate of **%.1f%%**.\n\n",
		stats.Total, stats.Hits, stats.Rate())

	b.WriteString("### Platform Breakdown\n\n")
	b.WriteString("| Platform | Mentions | Responses | Exposure Rate |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, row := range platformBreakdown(responses, brand) {
		fmt.Fprintf(&b, "| %s | %d | %d | %.1f%% |\n",
			row.platform, row.stats.Hits, row.stats.Total, row.stats.Rate())
	}
	b.WriteString("\n")

	b.WriteString("## AI Bot Crawl Activity\n\n")
	if len(events) == 0 {
		b.WriteString("No crawl events were detected in the supplied log file. This may indicate that your site is not being visited by AI crawlers or the log file does not contain bot traffic.\n")
	} else {
		b.WriteString("The table below shows how many times each AI crawler accessed your site in the provided logs. Use this information to assess whether your content is being discovered.\n\n")
		b.WriteString("| Crawler | Pages Crawled | Total Requests |\n")
		b.WriteString("|---|---:|---:|\n")
		// Sorted bot keys keep the rendering deterministic.
		for _, bot := range summary.Bots() {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", bot, len(summary[bot]), summary.TotalRequests(bot))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Recommendations\n\n")
	b.WriteString("Based on the data and current best practices in generative engine optimisation, consider the following actions:\n\n")
	for i, rec := range recommendations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
	}
	b.WriteString("\n")

	b.WriteString("---\n")
	b.WriteString("This report was generated automatically. For more detailed guidance, consider upgrading to the full package.")

	return b.String()
}

// recommendations is static guidance text, identical on every report.
var recommendations = []string{
	"**Strengthen crawlability.** Ensure important pages are indexable and easily discoverable through internal linking. Check `robots.txt` and meta tags to avoid inadvertently blocking AI crawlers.",
	"**Develop comprehensive, factual content.** Create in-depth guides and FAQs that answer common questions in your niche. Break content into clear sections with headings and bullet lists to aid passage-level retrieval.",
	"**Optimise for multiple query variations.** Use keyword research to identify different ways people might ask about your products and weave those variations naturally into your content.",
	"**Earn citations on authoritative sites.** Digital PR and guest posts can generate brand mentions on trusted domains. AI platforms favour established sources.",
	"**Monitor AI visibility regularly.** Repeat this analysis periodically to track improvements and respond to algorithm updates. Adjust your strategy based on changes in AI platform behaviour.",
}
