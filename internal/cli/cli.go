package cli

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// CLIArgs are the command-line arguments for one invocation. The binary
// either serves the HTTP API or runs a single analysis and exits.
type CLIArgs struct {
	// URL is the page to analyze; required unless Serve is set.
	URL string

	// Serve starts the API server instead of a one-shot analysis.
	Serve bool

	// ListenAddr is the server listen address when Serve is set.
	ListenAddr string

	// Timeout bounds the whole analysis; 0 means "use config default".
	Timeout time.Duration

	// Render fetches through a headless browser instead of plain HTTP.
	Render bool

	// Checks restricts the run to the named categories; empty means all.
	Checks []string

	// JSON prints the raw result envelope instead of the text summary.
	JSON bool

	// HistoryPath is the SQLite file for analysis history; empty disables it.
	HistoryPath string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("seolens", flag.ContinueOnError)
	var (
		url     = fs.String("url", "", "URL to analyze (required unless -serve)")
		serve   = fs.Bool("serve", false, "Start the HTTP API server")
		listen  = fs.String("listen", ":8080", "Listen address for -serve")
		timeout = fs.Duration("timeout", 0, "Analysis timeout (0=use default)")
		render  = fs.Bool("render", false, "Fetch through a headless browser")
		checks  = fs.String("checks", "", "Comma-separated check categories to run (empty=all)")
		jsonOut = fs.Bool("json", false, "Print the raw JSON envelope")
		db      = fs.String("db", "", "SQLite history database path (empty=disabled)")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(nil)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !*serve && strings.TrimSpace(*url) == "" {
		return nil, fmt.Errorf("missing required -url argument")
	}

	var checkList []string
	for _, c := range strings.Split(*checks, ",") {
		if c = strings.TrimSpace(c); c != "" {
			checkList = append(checkList, c)
		}
	}

	return &CLIArgs{
		URL:         *url,
		Serve:       *serve,
		ListenAddr:  *listen,
		Timeout:     *timeout,
		Render:      *render,
		Checks:      checkList,
		JSON:        *jsonOut,
		HistoryPath: *db,
		RawArgs:     args,
	}, nil
}
