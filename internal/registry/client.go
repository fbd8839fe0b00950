// Package registry talks to PyPI and GitHub for the checks that need
// information a source tree cannot provide: release recency and issue
// state.
package registry

import (
	"net/http"
	"os"
	"time"

	"hooklint/internal/config"
	"hooklint/internal/shared/util"
)

// Client shares one HTTP client, rate limiter and concurrency bound
// across all registry checks of a run.
type Client struct {
	http        *http.Client
	pypiBase    string
	githubBase  string
	githubToken string
	limiter     *util.Limiter
	timeout     time.Duration
	maxAge      time.Duration
	parallelism int
}

func NewClient(cfg config.Registry) *Client {
	return &Client{
		http:        &http.Client{Timeout: cfg.RequestTimeout},
		pypiBase:    cfg.PyPIBaseURL,
		githubBase:  cfg.GitHubBaseURL,
		githubToken: os.Getenv("GITHUB_TOKEN"),
		limiter:     util.NewLimiter(cfg.RatePerSecond, cfg.Burst),
		timeout:     cfg.RequestTimeout,
		maxAge:      cfg.MaxAge,
		parallelism: cfg.Parallelism,
	}
}
