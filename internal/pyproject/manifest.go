// Package pyproject checks a project's declared dependencies against
// the imports actually found in its sources.
package pyproject

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is the subset of pyproject.toml the dependency checks read.
type Manifest struct {
	Path    string
	Project struct {
		Name                 string              `toml:"name"`
		Version              string              `toml:"version"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]string `toml:"dependency-groups"`
}

// Load reads and decodes a pyproject.toml file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m := &Manifest{Path: path}
	if _, err := toml.Decode(string(data), m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return m, nil
}

// requirementName extracts the distribution name from a PEP 508
// requirement string such as `requests[socks] >=2.28, <3`.
var requirementName = regexp.MustCompile(`^\s*([A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?)`)

func RequirementName(req string) (string, bool) {
	m := requirementName.FindStringSubmatch(req)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Normalize applies PEP 503 name normalization: lowercase with runs of
// `-`, `_` and `.` collapsed to a single dash.
var normalizeRuns = regexp.MustCompile(`[-_.]+`)

func Normalize(name string) string {
	return normalizeRuns.ReplaceAllString(strings.ToLower(name), "-")
}

// pep440 accepts public version identifiers (epoch, release, pre, post
// and dev segments). Local version labels are intentionally rejected.
var pep440 = regexp.MustCompile(
	`^([0-9]+!)?[0-9]+(\.[0-9]+)*((a|b|rc)[0-9]+)?(\.post[0-9]+)?(\.dev[0-9]+)?$`)

func ValidVersion(version string) bool {
	return pep440.MatchString(strings.TrimSpace(version))
}

// DeclaredNames returns the normalized names of all declared
// dependencies, including optional extras and dependency groups.
func (m *Manifest) DeclaredNames() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(reqs []string) {
		for _, req := range reqs {
			name, ok := RequirementName(req)
			if !ok {
				continue
			}
			norm := Normalize(name)
			if !seen[norm] {
				seen[norm] = true
				out = append(out, norm)
			}
		}
	}
	add(m.Project.Dependencies)
	for _, reqs := range m.Project.OptionalDependencies {
		add(reqs)
	}
	for _, reqs := range m.DependencyGroups {
		add(reqs)
	}
	return out
}
