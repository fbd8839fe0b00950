package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hooklint_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hooklint_files_analyzed_total",
		Help: "Total number of files run through the rule engine.",
	})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hooklint_diagnostics_total",
		Help: "Total number of diagnostics emitted, by rule.",
	}, []string{"rule"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hooklint_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	RegistryRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hooklint_registry_requests_total",
		Help: "Total number of registry API requests, by service and outcome.",
	}, []string{"service", "outcome"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hooklint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
