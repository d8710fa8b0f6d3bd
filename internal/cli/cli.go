package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// CLIArgs are the command-line arguments that control a single audit run.
// Keep this small for now — add fields as modules need them.
type CLIArgs struct {
	// Brand is the brand or website name the audit asks about.
	Brand string

	// Keywords are prompt variations, from a comma-separated flag value.
	Keywords []string

	// LogPath is an optional access-log file to analyse for crawl events.
	LogPath string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("appear-ai-audit", flag.ContinueOnError)
	var (
		brand    = fs.String("brand", "", "Brand or website name to audit (required)")
		keywords = fs.String("keywords", "", "Comma-separated keywords for prompt variations")
		logPath  = fs.String("log", "", "Path to an access log file for crawl analysis")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(*brand) == "" {
		return nil, fmt.Errorf("missing required -brand argument")
	}

	var kws []string
	for _, kw := range strings.Split(*keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			kws = append(kws, kw)
		}
	}

	return &CLIArgs{
		Brand:    strings.TrimSpace(*brand),
		Keywords: kws,
		LogPath:  *logPath,
		RawArgs:  args,
	}, nil
}
