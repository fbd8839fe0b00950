// Package app wires discovery, parsing, the rule engine and the
// heavier cross-cutting checks into one run.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"hooklint/internal/config"
	"hooklint/internal/crossfile"
	"hooklint/internal/engine"
	"hooklint/internal/history"
	"hooklint/internal/parser"
	"hooklint/internal/pyproject"
	"hooklint/internal/registry"
	"hooklint/internal/rules"
	"hooklint/internal/shared/observability"
	"hooklint/internal/shared/util"
)

// Options are the per-invocation switches that do not belong in the
// config file.
type Options struct {
	Strict            bool
	CheckUnmaintained bool
	CheckIssues       bool
	ProjectRoot       string
}

type App struct {
	cfg     *config.Config
	opts    Options
	parser  *parser.Parser
	engine  *engine.Engine
	cross   *crossfile.Analyzer
	matcher *util.Matcher
	store   *history.Store
}

// Result carries everything a reporter needs from one run.
type Result struct {
	Files       []string
	Diagnostics []engine.Diagnostic
	Errors      []engine.FileError
	Counts      map[string]int
	Failed      bool
}

func New(cfg *config.Config, opts Options) (*App, error) {
	matcher, err := util.NewMatcher(cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		opts:    opts,
		parser:  parser.NewParser(parser.NewGrammarLoader()),
		engine:  engine.New(rules.Build(cfg.Rules)...),
		cross:   crossfile.New(cfg.Rules.CleanInterface),
		matcher: matcher,
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Matcher exposes the compiled exclusion matcher for the watcher.
func (a *App) Matcher() *util.Matcher { return a.matcher }

// Run analyzes all configured paths and returns the collected
// diagnostics. File results are collected in path order regardless of
// which goroutine finished first, so repeated runs produce identical
// output.
func (a *App) Run(ctx context.Context) (*Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "run")
	defer span.End()

	files, err := util.DiscoverPython(a.cfg.Paths, a.matcher)
	if err != nil {
		return nil, err
	}
	return a.analyze(ctx, files)
}

type fileResult struct {
	diags   []engine.Diagnostic
	summary *parser.File
	err     error
}

func (a *App) analyze(ctx context.Context, files []string) (*Result, error) {
	start := time.Now()

	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			results[i] = a.analyzeFile(gctx, path)
			return nil
		})
	}
	_ = g.Wait()

	collector := engine.NewCollector()
	var summaries []*parser.File
	for i, r := range results {
		if r.err != nil {
			collector.AddError(files[i], r.err)
			continue
		}
		collector.Add(r.diags...)
		summaries = append(summaries, r.summary)
	}

	if a.cfg.Rules.CleanInterface.Enabled {
		collector.Add(a.cross.Check(summaries)...)
	}

	if a.cfg.Manifest != "" {
		a.checkManifest(ctx, collector, summaries)
	}

	if a.opts.CheckIssues {
		a.checkIssues(ctx, collector, files)
	}

	counts := collector.Counts()
	for rule, n := range counts {
		observability.DiagnosticsTotal.WithLabelValues(rule).Add(float64(n))
	}
	observability.AnalysisDuration.WithLabelValues("run").Observe(time.Since(start).Seconds())

	result := &Result{
		Files:       files,
		Diagnostics: collector.Diagnostics(),
		Errors:      collector.Errors(),
		Counts:      counts,
		Failed:      collector.Failed(a.opts.Strict),
	}

	if a.store != nil {
		snapshot := history.Snapshot{
			Timestamp:  time.Now().UTC(),
			FileCount:  len(files),
			ErrorCount: len(result.Errors),
			RuleCounts: counts,
		}
		if err := a.store.SaveSnapshot(a.projectKey(), snapshot); err != nil {
			slog.Warn("failed to record run snapshot", "error", err)
		}
	}

	return result, nil
}

func (a *App) analyzeFile(ctx context.Context, path string) fileResult {
	if err := ctx.Err(); err != nil {
		return fileResult{err: err}
	}

	_, span := observability.Tracer().Start(ctx, "file")
	span.SetAttributes(attribute.String("file.path", path))
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		return fileResult{err: err}
	}

	parseStart := time.Now()
	res, err := a.parser.ParseFile(path, content)
	if err != nil {
		return fileResult{err: err}
	}
	defer res.Close()
	observability.ParsingDuration.WithLabelValues("python").Observe(time.Since(parseStart).Seconds())

	diags, err := a.engine.Run(path, content, res.Root())
	if err != nil {
		return fileResult{err: err}
	}
	observability.FilesAnalyzed.Inc()

	return fileResult{
		diags:   diags,
		summary: parser.Summarize(res, a.opts.ProjectRoot),
	}
}

// checkManifest runs the dependency bookkeeping against pyproject.toml,
// plus the PyPI maintenance lookup when enabled.
func (a *App) checkManifest(ctx context.Context, collector *engine.Collector, summaries []*parser.File) {
	manifest, err := pyproject.Load(a.cfg.Manifest)
	if err != nil {
		collector.AddError(a.cfg.Manifest, err)
		return
	}

	checker := pyproject.NewChecker(a.cfg.Pyproject.Distributions)
	collector.Add(checker.Check(manifest, summaries)...)

	if a.opts.CheckUnmaintained {
		client := registry.NewClient(a.cfg.Registry)
		diags, errs := client.CheckMaintained(ctx, manifest.Path, manifest.DeclaredNames())
		collector.Add(diags...)
		for _, err := range errs {
			collector.AddError(manifest.Path, err)
		}
	}
}

func (a *App) checkIssues(ctx context.Context, collector *engine.Collector, files []string) {
	var refs []registry.IssueRef
	for _, path := range files {
		found, err := registry.FindIssueRefs(path)
		if err != nil {
			collector.AddError(path, err)
			continue
		}
		refs = append(refs, found...)
	}
	if len(refs) == 0 {
		return
	}

	client := registry.NewClient(a.cfg.Registry)
	diags, errs := client.CheckIssues(ctx, refs)
	collector.Add(diags...)
	for _, err := range errs {
		collector.AddError("", err)
	}
}

func (a *App) projectKey() string {
	if a.opts.ProjectRoot != "" {
		return a.opts.ProjectRoot
	}
	return "default"
}

// Trends returns the per-rule deltas of the two latest recorded runs.
func (a *App) Trends() ([]history.Trend, error) {
	if a.store == nil {
		return nil, nil
	}
	return a.store.Trends(a.projectKey())
}
