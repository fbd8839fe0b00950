package registry

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"hooklint/internal/engine"
	"hooklint/internal/shared/observability"
)

const ResolvedIssueID = "resolved-issue"

var issuePattern = regexp.MustCompile(
	`https://github\.com/([\w-]+)/([\w-]+)/issues/(\d+)`)

// IssueRef is one issue URL found in a source file.
type IssueRef struct {
	File   string
	Line   int
	Column int
	Owner  string
	Repo   string
	Number int
}

func (r IssueRef) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s/issues/%d", r.Owner, r.Repo, r.Number)
}

// key identifies the issue independent of where it is referenced.
func (r IssueRef) key() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// FindIssueRefs scans the file line by line for GitHub issue URLs.
// Workarounds usually carry the issue link in a comment next to them.
func FindIssueRefs(path string) ([]IssueRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var refs []IssueRef
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		for _, idx := range issuePattern.FindAllStringSubmatchIndex(text, -1) {
			number, err := strconv.Atoi(text[idx[6]:idx[7]])
			if err != nil {
				continue
			}
			refs = append(refs, IssueRef{
				File:   path,
				Line:   line,
				Column: idx[0] + 1,
				Owner:  text[idx[2]:idx[3]],
				Repo:   text[idx[4]:idx[5]],
				Number: number,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

// CheckIssues looks up the state of every referenced issue and emits a
// warning for each reference to a closed one. Each distinct issue is
// queried once even when referenced from several files.
func (c *Client) CheckIssues(ctx context.Context, refs []IssueRef) ([]engine.Diagnostic, []error) {
	distinct := make(map[string]IssueRef)
	for _, ref := range refs {
		if _, ok := distinct[ref.key()]; !ok {
			distinct[ref.key()] = ref
		}
	}

	closed := make(map[string]bool, len(distinct))
	errs := make(map[string]error, len(distinct))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for key, ref := range distinct {
		g.Go(func() error {
			isClosed, err := c.issueClosed(gctx, ref)
			mu.Lock()
			closed[key] = isClosed
			errs[key] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var diags []engine.Diagnostic
	var errors []error
	seenErr := make(map[string]bool)
	for _, ref := range refs {
		if err := errs[ref.key()]; err != nil {
			if !seenErr[ref.key()] {
				seenErr[ref.key()] = true
				errors = append(errors, err)
			}
			continue
		}
		if !closed[ref.key()] {
			continue
		}
		diags = append(diags, engine.Diagnostic{
			File: ref.File, Line: ref.Line, Column: ref.Column,
			Rule: ResolvedIssueID, Severity: engine.SeverityWarning,
			Message: fmt.Sprintf("issue %s is resolved, the workaround can go", ref.URL()),
		})
	}
	return diags, errors
}

func (c *Client) issueClosed(ctx context.Context, ref IssueRef) (bool, error) {
	if err := c.limiter.Wait(ctx, 1); err != nil {
		return false, fmt.Errorf("github %s: %w", ref.key(), err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.githubBase, ref.Owner, ref.Repo, ref.Number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("github %s: %w", ref.key(), err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.githubToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.githubToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.RegistryRequests.WithLabelValues("github", "error").Inc()
		return false, fmt.Errorf("github %s: %w", ref.key(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.RegistryRequests.WithLabelValues("github", "error").Inc()
		return false, fmt.Errorf("github %s: unexpected status %d", ref.key(), resp.StatusCode)
	}
	observability.RegistryRequests.WithLabelValues("github", "ok").Inc()

	var issue struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return false, fmt.Errorf("github %s: decoding response: %w", ref.key(), err)
	}
	return strings.EqualFold(issue.State, "closed"), nil
}
