package pyproject

import (
	"fmt"
	"sort"
	"strings"

	"hooklint/internal/engine"
	"hooklint/internal/parser"
)

const (
	UnusedID     = "pyproject/unused"
	UndeclaredID = "pyproject/undeclared"
	VersionID    = "pyproject/version"
)

// defaultDistributions maps import names to distribution names where
// the two differ. Everything else maps to itself.
var defaultDistributions = map[string]string{
	"attr":     "attrs",
	"bs4":      "beautifulsoup4",
	"cv2":      "opencv-python",
	"dateutil": "python-dateutil",
	"dotenv":   "python-dotenv",
	"git":      "GitPython",
	"PIL":      "pillow",
	"sklearn":  "scikit-learn",
	"yaml":     "PyYAML",
}

// Checker compares declared and imported dependencies.
type Checker struct {
	distributions map[string]string
}

func NewChecker(extra map[string]string) *Checker {
	dist := make(map[string]string, len(defaultDistributions)+len(extra))
	for k, v := range defaultDistributions {
		dist[k] = v
	}
	for k, v := range extra {
		dist[k] = v
	}
	return &Checker{distributions: dist}
}

// distribution resolves an import name to its normalized distribution name.
func (c *Checker) distribution(module string) string {
	if dist, ok := c.distributions[module]; ok {
		return Normalize(dist)
	}
	return Normalize(module)
}

// Check flags declared dependencies that are never imported and
// imports that no declared dependency covers, plus an invalid project
// version. Relative imports, stdlib modules and first-party packages
// are exempt.
func (c *Checker) Check(m *Manifest, files []*parser.File) []engine.Diagnostic {
	var diags []engine.Diagnostic

	if m.Project.Version != "" && !ValidVersion(m.Project.Version) {
		diags = append(diags, engine.Diagnostic{
			File: m.Path, Line: 1, Column: 1,
			Rule: VersionID, Severity: engine.SeverityError,
			Message: fmt.Sprintf("project version %q is not a valid PEP 440 public version", m.Project.Version),
		})
	}

	firstParty := map[string]bool{Normalize(m.Project.Name): true}
	for _, f := range files {
		root := strings.SplitN(f.Module, ".", 2)[0]
		firstParty[Normalize(root)] = true
	}

	// first import location per third-party root
	firstSeen := make(map[string]parser.Location)
	var roots []string
	for _, f := range files {
		for _, imp := range f.Imports {
			if imp.IsRelative || imp.Module == "" {
				continue
			}
			root := strings.SplitN(imp.Module, ".", 2)[0]
			if strings.HasPrefix(root, "_") || IsStdlib(root) || firstParty[Normalize(root)] {
				continue
			}
			if _, ok := firstSeen[root]; !ok {
				firstSeen[root] = imp.Location
				roots = append(roots, root)
			}
		}
	}
	sort.Strings(roots)

	declared := make(map[string]bool)
	for _, name := range m.DeclaredNames() {
		declared[name] = true
	}

	used := make(map[string]bool)
	for _, root := range roots {
		dist := c.distribution(root)
		used[dist] = true
		if declared[dist] {
			continue
		}
		loc := firstSeen[root]
		diags = append(diags, engine.Diagnostic{
			File: loc.File, Line: loc.Line, Column: loc.Column,
			Rule: UndeclaredID, Severity: engine.SeverityError,
			Message: fmt.Sprintf("imported package %q is not declared in %s", root, m.Path),
		})
	}

	var unused []string
	for name := range declared {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	for _, name := range unused {
		diags = append(diags, engine.Diagnostic{
			File: m.Path, Line: 1, Column: 1,
			Rule: UnusedID, Severity: engine.SeverityError,
			Message: fmt.Sprintf("declared dependency %q is never imported", name),
		})
	}

	return diags
}
