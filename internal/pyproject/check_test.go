package pyproject

import (
	"strings"
	"testing"

	"hooklint/internal/engine"
	"hooklint/internal/parser"
)

func manifestWith(deps ...string) *Manifest {
	m := &Manifest{Path: "pyproject.toml"}
	m.Project.Name = "my-tool"
	m.Project.Version = "1.0"
	m.Project.Dependencies = deps
	return m
}

func fileWithImports(module string, imports ...string) *parser.File {
	f := &parser.File{Path: module + ".py", Module: module}
	for i, imp := range imports {
		f.Imports = append(f.Imports, parser.Import{
			Module:   imp,
			Location: parser.Location{File: f.Path, Line: i + 1, Column: 1},
		})
	}
	return f
}

func messages(diags []engine.Diagnostic, rule string) []string {
	var out []string
	for _, d := range diags {
		if d.Rule == rule {
			out = append(out, d.Message)
		}
	}
	return out
}

func TestCheckBalanced(t *testing.T) {
	m := manifestWith("requests")
	files := []*parser.File{fileWithImports("my_tool.main", "requests", "os", "json")}

	diags := NewChecker(nil).Check(m, files)
	if len(diags) != 0 {
		t.Errorf("Expected no findings, got %v", diags)
	}
}

func TestCheckUndeclaredImport(t *testing.T) {
	m := manifestWith()
	files := []*parser.File{fileWithImports("my_tool.main", "numpy.linalg")}

	diags := NewChecker(nil).Check(m, files)
	msgs := messages(diags, UndeclaredID)
	if len(msgs) != 1 || !strings.Contains(msgs[0], `imported package "numpy" is not declared`) {
		t.Errorf("Unexpected undeclared findings: %v", msgs)
	}
	if diags[0].File != "my_tool.main.py" || diags[0].Line != 1 {
		t.Errorf("Expected the first import location, got %s:%d", diags[0].File, diags[0].Line)
	}
}

func TestCheckUnusedDependency(t *testing.T) {
	m := manifestWith("requests", "flask")
	files := []*parser.File{fileWithImports("my_tool.main", "requests")}

	diags := NewChecker(nil).Check(m, files)
	msgs := messages(diags, UnusedID)
	if len(msgs) != 1 || !strings.Contains(msgs[0], `declared dependency "flask" is never imported`) {
		t.Errorf("Unexpected unused findings: %v", msgs)
	}
}

func TestCheckDistributionMapping(t *testing.T) {
	m := manifestWith("PyYAML", "scikit-learn")
	files := []*parser.File{fileWithImports("my_tool.main", "yaml", "sklearn")}

	diags := NewChecker(nil).Check(m, files)
	if len(diags) != 0 {
		t.Errorf("Expected the distribution mapping to cover both, got %v", diags)
	}
}

func TestCheckExtraDistributionMapping(t *testing.T) {
	m := manifestWith("my-companylib")
	files := []*parser.File{fileWithImports("my_tool.main", "companylib")}

	diags := NewChecker(map[string]string{"companylib": "my-companylib"}).Check(m, files)
	if len(diags) != 0 {
		t.Errorf("Expected the extra mapping to cover the import, got %v", diags)
	}
}

func TestCheckFirstPartyAndStdlibExempt(t *testing.T) {
	m := manifestWith()
	files := []*parser.File{
		fileWithImports("my_tool.main", "my_tool.helpers", "collections.abc", "__future__"),
		fileWithImports("my_tool.helpers"),
	}

	diags := NewChecker(nil).Check(m, files)
	if len(diags) != 0 {
		t.Errorf("Expected no findings, got %v", diags)
	}
}

func TestCheckRelativeImportsExempt(t *testing.T) {
	m := manifestWith()
	f := &parser.File{Path: "pkg/mod.py", Module: "pkg.mod"}
	f.Imports = []parser.Import{{Module: "sibling", IsRelative: true}}

	diags := NewChecker(nil).Check(m, []*parser.File{f})
	if len(diags) != 0 {
		t.Errorf("Expected no findings, got %v", diags)
	}
}

func TestCheckInvalidVersion(t *testing.T) {
	m := manifestWith()
	m.Project.Version = "v1.0-beta"

	diags := NewChecker(nil).Check(m, nil)
	msgs := messages(diags, VersionID)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "not a valid PEP 440") {
		t.Errorf("Unexpected version findings: %v", msgs)
	}
}

func TestCheckDeterministicOrder(t *testing.T) {
	m := manifestWith("zzz", "aaa")
	files := []*parser.File{fileWithImports("my_tool.main", "zulu", "alpha")}

	diags := NewChecker(nil).Check(m, files)
	var undeclared, unused []string
	for _, d := range diags {
		switch d.Rule {
		case UndeclaredID:
			undeclared = append(undeclared, d.Message)
		case UnusedID:
			unused = append(unused, d.Message)
		}
	}
	if len(undeclared) != 2 || !strings.Contains(undeclared[0], `"alpha"`) {
		t.Errorf("Expected undeclared findings sorted by root, got %v", undeclared)
	}
	if len(unused) != 2 || !strings.Contains(unused[0], `"aaa"`) {
		t.Errorf("Expected unused findings sorted by name, got %v", unused)
	}
}
