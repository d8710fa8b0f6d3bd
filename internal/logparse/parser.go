// Package logparse extracts AI crawler visits from combined-format access
// logs. A line either matches the expected shape and is processed, or it is
// skipped silently; malformed input is never an error here.
package logparse

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/georgebossman22/appear-ai-audit-working/internal/model"
	"github.com/georgebossman22/appear-ai-audit-working/internal/signature"
)

// lineRE matches the Apache/nginx combined log format:
// host ident user [timestamp] "request" status size "referer" "user-agent"
var lineRE = regexp.MustCompile(
	`^(\S+) \S+ \S+ \[([^\]]+)\] "([^"]+)" (\d{3}) (\S+) "([^"]*)" "([^"]*)"`,
)

// Capture group indexes into lineRE.
const (
	groupTimestamp = 2
	groupRequest   = 3
	groupUserAgent = 7
)

// maxLineBytes bounds a single scanned log line (some access logs carry very
// long query strings or user agents).
const maxLineBytes = 1 << 20

// Parser turns raw access-log lines into CrawlEvents using a signature table.
// Parsers are stateless and safe for concurrent use.
type Parser struct {
	table *signature.Table
}

// NewParser creates a Parser. A nil table means signature.DefaultTable().
func NewParser(table *signature.Table) *Parser {
	if table == nil {
		table = signature.DefaultTable()
	}
	return &Parser{table: table}
}

// ParseLines scans lines in order and returns one CrawlEvent per line whose
// user agent identifies a known AI bot. Event order follows line order.
// Non-conforming lines and lines from unrecognized clients produce nothing.
func (p *Parser) ParseLines(lines []string) []model.CrawlEvent {
	var events []model.CrawlEvent
	for _, line := range lines {
		if ev, ok := p.parseLine(line); ok {
			events = append(events, ev)
		}
	}
	return events
}

// ParseReader reads newline-delimited log text from r and parses it like
// ParseLines. Only read errors are reported; bad lines are still skipped.
func (p *Parser) ParseReader(r io.Reader) ([]model.CrawlEvent, error) {
	var events []model.CrawlEvent
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		if ev, ok := p.parseLine(sc.Text()); ok {
			events = append(events, ev)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading log input: %w", err)
	}
	return events, nil
}

func (p *Parser) parseLine(line string) (model.CrawlEvent, bool) {
	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return model.CrawlEvent{}, false
	}

	bot, ok := p.table.Match(m[groupUserAgent])
	if !ok {
		return model.CrawlEvent{}, false
	}

	// Request line shape: "GET /path HTTP/1.1". The URL is the second token;
	// a request line with fewer than two tokens yields an empty URL.
	url := ""
	if parts := strings.Fields(m[groupRequest]); len(parts) > 1 {
		url = parts[1]
	}

	return model.CrawlEvent{
		Bot:       bot,
		URL:       url,
		Timestamp: m[groupTimestamp],
	}, true
}

// Summarize counts events per (bot, url) pair. Empty input yields an empty
// summary. The summary is rebuilt from scratch on every call.
func Summarize(events []model.CrawlEvent) model.CrawlSummary {
	summary := make(model.CrawlSummary)
	for _, ev := range events {
		urls, ok := summary[ev.Bot]
		if !ok {
			urls = make(map[string]int)
			summary[ev.Bot] = urls
		}
		urls[ev.URL]++
	}
	return summary
}
