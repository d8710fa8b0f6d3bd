// Command appear-ai-audit runs a one-shot exposure audit from the terminal:
// it queries the configured AI platforms about a brand, optionally analyses
// an access log for AI crawler traffic, and prints the markdown report.
//
// Usage: go run . -brand Acme -keywords "analytics,AI" -log access.log
//
// API keys come from the environment (OPENAI_API_KEY, CLAUDE_API_KEY, ...);
// platforms without keys answer with placeholders.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/georgebossman22/appear-ai-audit-working/internal/app"
	"github.com/georgebossman22/appear-ai-audit-working/internal/cli"
	"github.com/georgebossman22/appear-ai-audit-working/internal/logging"
	"github.com/georgebossman22/appear-ai-audit-working/internal/querier"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewStdoutLogger("CLI")

	cfg := app.DefaultConfig()
	cfg.QuerierCfg = querier.ConfigFromEnv(cfg.QuerierCfg)

	var logLines []string
	if args.LogPath != "" {
		raw, err := os.ReadFile(args.LogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading log file: %v\n", err)
			os.Exit(1)
		}
		logLines = strings.Split(string(raw), "\n")
	}

	auditor := app.NewAuditor(cfg, logger)
	result, err := auditor.RunAudit(context.Background(), app.AuditRequest{
		Brand:    args.Brand,
		Keywords: args.Keywords,
		LogLines: logLines,
	}, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.Report)
}
