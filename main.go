// Command seolens analyzes a page's SEO health from the command line or
// serves the analysis API over HTTP.
//
// Usage:
//
//	seolens -url https://example.com
//	seolens -serve -listen :8080 -db seolens.db
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/seolens/seolens/internal/app"
	"github.com/seolens/seolens/internal/cli"
	"github.com/seolens/seolens/internal/logging"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/report"
	"github.com/seolens/seolens/internal/server"
	"github.com/seolens/seolens/internal/webclient"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "seolens: %v\n", err)
		os.Exit(2)
	}

	cfg := app.DefaultConfig()
	cfg.HistoryPath = args.HistoryPath
	if args.Timeout > 0 {
		cfg.AnalyzerCfg.Timeout = args.Timeout
		cfg.WebClientCfg.Timeout = args.Timeout
	}
	if args.Render {
		cfg.WebClientCfg.Backend = webclient.BackendChromedp
	}

	if args.Serve {
		runServer(cfg, args)
		return
	}

	os.Exit(runOnce(cfg, args))
}

func runServer(cfg *app.Config, args *cli.CLIArgs) {
	logger := logging.NewStdoutLogger("Server")

	srv, err := server.NewServer(server.Config{
		ListenAddr: args.ListenAddr,
		AppConfig:  cfg,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seolens: %v\n", err)
		os.Exit(1)
	}
	defer srv.Close()

	httpSrv := srv.HTTPServer()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		_ = httpSrv.Shutdown(context.Background())
	}()

	logger.Info("listening")
	if err := httpSrv.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "seolens: %v\n", err)
	}
}

func runOnce(cfg *app.Config, args *cli.CLIArgs) int {
	logger := logging.NewStdoutLogger("CLI")
	if !args.JSON {
		// Keep stdout clean for the report text.
		logger = logging.NewWriterLogger("CLI", os.Stderr)
	}

	orch, err := app.NewOrchestrator(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seolens: %v\n", err)
		return 1
	}
	defer orch.Close()

	checks := make([]model.Category, 0, len(args.Checks))
	for _, c := range args.Checks {
		checks = append(checks, model.Category(c))
	}

	rep, err := orch.Analyze(context.Background(), args.URL, checks...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seolens: %v\n", err)
		return 1
	}

	if args.JSON {
		data, err := report.ToEnvelope(rep).Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "seolens: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
	} else {
		printSummary(rep)
	}

	if rep.Status == model.StatusFailed {
		return 1
	}
	return 0
}

func printSummary(rep *model.AnalysisReport) {
	fmt.Printf("URL:    %s\n", rep.URL)
	fmt.Printf("Status: %s\n", rep.Status)
	if rep.Score != nil {
		fmt.Printf("Score:  %d/100\n", *rep.Score)
	}
	if rep.Error != "" {
		fmt.Printf("Error:  %s\n", rep.Error)
		return
	}

	fmt.Println()
	for _, cat := range model.Categories {
		score, ok := rep.CategoryScores[cat]
		if !ok {
			continue
		}
		fmt.Printf("%-12s %3d\n", cat, score)
		for _, f := range rep.Findings {
			if f.Category != cat {
				continue
			}
			fmt.Printf("  [%s] %s\n", f.Severity, f.Message)
		}
	}

	if len(rep.Recommendations) > 0 {
		fmt.Println()
		fmt.Println("Recommendations:")
		for _, rec := range rep.Recommendations {
			fmt.Printf("  %s (%s): %s\n", rec.Title, rec.Priority, rec.Solution)
		}
	}

	if len(rep.PartialFailures) > 0 {
		fmt.Println()
		fmt.Println("Skipped checks:")
		for _, pf := range rep.PartialFailures {
			fmt.Printf("  %s: %s\n", pf.Category, pf.Reason)
		}
	}
}
