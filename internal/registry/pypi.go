package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"hooklint/internal/engine"
	"hooklint/internal/shared/observability"
)

// pypiProject is the slice of the PyPI JSON API the maintenance check reads.
type pypiProject struct {
	Info struct {
		Version string `json:"version"`
		Yanked  bool   `json:"yanked"`
	} `json:"info"`
	Releases map[string][]struct {
		UploadTime time.Time `json:"upload_time_iso_8601"`
		Yanked     bool      `json:"yanked"`
	} `json:"releases"`
}

// latestUpload returns the most recent upload time across all releases.
func (p *pypiProject) latestUpload() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, uploads := range p.Releases {
		for _, u := range uploads {
			if u.UploadTime.After(latest) {
				latest = u.UploadTime
				found = true
			}
		}
	}
	return latest, found
}

// CheckMaintained queries PyPI for every package and flags the ones
// whose newest release is older than the configured age, or whose
// current version is yanked. Lookups run concurrently but the result
// order follows the sorted package names. Failed lookups are reported
// as errors, not diagnostics.
func (c *Client) CheckMaintained(ctx context.Context, manifest string, packages []string) ([]engine.Diagnostic, []error) {
	names := append([]string(nil), packages...)
	sort.Strings(names)

	type outcome struct {
		diag *engine.Diagnostic
		err  error
	}
	results := make([]outcome, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)

	for i, name := range names {
		g.Go(func() error {
			diag, err := c.checkPackage(ctx, manifest, name)
			results[i] = outcome{diag: diag, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var diags []engine.Diagnostic
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
		}
		if r.diag != nil {
			diags = append(diags, *r.diag)
		}
	}
	return diags, errs
}

func (c *Client) checkPackage(ctx context.Context, manifest, name string) (*engine.Diagnostic, error) {
	if err := c.limiter.Wait(ctx, 1); err != nil {
		return nil, fmt.Errorf("pypi %s: %w", name, err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/pypi/%s/json", c.pypiBase, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("pypi %s: %w", name, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		observability.RegistryRequests.WithLabelValues("pypi", "error").Inc()
		return nil, fmt.Errorf("pypi %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.RegistryRequests.WithLabelValues("pypi", "error").Inc()
		return nil, fmt.Errorf("pypi %s: unexpected status %d", name, resp.StatusCode)
	}
	observability.RegistryRequests.WithLabelValues("pypi", "ok").Inc()

	var project pypiProject
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		return nil, fmt.Errorf("pypi %s: decoding response: %w", name, err)
	}

	if project.Info.Yanked {
		return &engine.Diagnostic{
			File: manifest, Line: 1, Column: 1,
			Rule: "pyproject/unmaintained", Severity: engine.SeverityWarning,
			Message: fmt.Sprintf("dependency %q: current version %s is yanked", name, project.Info.Version),
		}, nil
	}

	latest, ok := project.latestUpload()
	if !ok || time.Since(latest) <= c.maxAge {
		return nil, nil
	}
	return &engine.Diagnostic{
		File: manifest, Line: 1, Column: 1,
		Rule: "pyproject/unmaintained", Severity: engine.SeverityWarning,
		Message: fmt.Sprintf("dependency %q looks unmaintained: last release %s (%s)",
			name, project.Info.Version, latest.Format("2006-01-02")),
	}, nil
}
