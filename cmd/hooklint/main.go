package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hooklint/internal/app"
	"hooklint/internal/config"
	"hooklint/internal/report"
	"hooklint/internal/shared/observability"
	"hooklint/internal/shared/version"
	"hooklint/internal/watcher"
)

var (
	configPath        = flag.String("config", "./hooklint.toml", "Path to config file")
	manifestPath      = flag.String("manifest", "", "Path to pyproject.toml (overrides config)")
	sarifPath         = flag.String("sarif", "", "Write a SARIF report to this path (overrides config)")
	watch             = flag.Bool("watch", false, "Re-run on file changes")
	strict            = flag.Bool("strict", false, "Treat warnings as failures")
	noColor           = flag.Bool("no-color", false, "Disable colored output")
	checkUnmaintained = flag.Bool("check-unmaintained", false, "Query PyPI for unmaintained dependencies")
	checkIssues       = flag.Bool("check-issues", false, "Query GitHub for resolved issue references")
	trends            = flag.Bool("trends", false, "Print per-rule deltas against the previous recorded run")
	verbose           = flag.Bool("verbose", false, "Enable verbose logging")
	showVersion       = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("hooklint v%s\n", version.Version)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || *configPath != "./hooklint.toml" {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(2)
		}
		cfg = config.Default()
	}

	// positional arguments override the configured paths
	if flag.NArg() > 0 {
		cfg.Paths = flag.Args()
	}
	if *manifestPath != "" {
		cfg.Manifest = *manifestPath
	}
	if *sarifPath != "" {
		cfg.Output.SARIF = *sarifPath
	}
	if *noColor || !isTerminal(os.Stdout) {
		cfg.Output.Color = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, version.Version)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer shutdownTracing(context.Background())
	}

	cwd, _ := os.Getwd()
	a, err := app.New(cfg, app.Options{
		Strict:            *strict,
		CheckUnmaintained: *checkUnmaintained,
		CheckIssues:       *checkIssues,
		ProjectRoot:       cwd,
	})
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer a.Close()

	console := report.NewConsole(os.Stdout, cfg.Output.Color)

	runOnce := func() bool {
		result, err := a.Run(ctx)
		if err != nil {
			slog.Error("run failed", "error", err)
			return true
		}
		console.Print(result.Diagnostics)
		console.PrintErrors(result.Errors)
		console.Summary(result.Counts, len(result.Files), result.Failed)

		if cfg.Output.SARIF != "" {
			doc, err := report.GenerateSARIF(cwd, result.Diagnostics)
			if err != nil {
				slog.Error("failed to build SARIF report", "error", err)
				return true
			}
			if err := os.WriteFile(cfg.Output.SARIF, doc, 0o644); err != nil {
				slog.Error("failed to write SARIF report", "path", cfg.Output.SARIF, "error", err)
				return true
			}
		}
		return result.Failed
	}

	failed := runOnce()

	if *trends {
		printTrends(a)
	}

	if !*watch {
		if failed {
			os.Exit(1)
		}
		return
	}

	if cfg.Metrics.Addr != "" {
		server := observability.NewServer(cfg.Metrics.Addr)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
		} else {
			defer server.Stop(context.Background())
		}
	}

	w, err := watcher.New(cfg.Watch.Debounce, a.Matcher(), func(changed []string) {
		slog.Info("changes detected, re-running", "files", len(changed))
		runOnce()
	})
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(2)
	}
	defer w.Close()

	if err := w.Watch(cfg.Paths); err != nil {
		slog.Error("failed to watch paths", "error", err)
		os.Exit(2)
	}

	slog.Info("watching for changes", "paths", cfg.Paths)
	<-ctx.Done()
}

func printTrends(a *app.App) {
	trends, err := a.Trends()
	if err != nil {
		slog.Warn("failed to load trends", "error", err)
		return
	}
	for _, t := range trends {
		if t.Delta() == 0 {
			continue
		}
		fmt.Printf("  %-40s %+d (%d -> %d)\n", t.Rule, t.Delta(), t.Previous, t.Current)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
