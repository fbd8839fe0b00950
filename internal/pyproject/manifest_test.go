package pyproject

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestLoad(t *testing.T) {
	content := `[project]
name = "my-tool"
version = "1.2.3"
dependencies = ["requests >=2.28", "typing-extensions; python_version < '3.11'"]

[project.optional-dependencies]
dev = ["pytest"]

[dependency-groups]
lint = ["ruff ~=0.4"]
`
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Project.Name != "my-tool" {
		t.Errorf("Expected name my-tool, got %q", m.Project.Name)
	}
	if m.Project.Version != "1.2.3" {
		t.Errorf("Expected version 1.2.3, got %q", m.Project.Version)
	}
	if len(m.Project.Dependencies) != 2 {
		t.Errorf("Unexpected dependencies: %v", m.Project.Dependencies)
	}

	names := m.DeclaredNames()
	sort.Strings(names)
	want := []string{"pytest", "requests", "ruff", "typing-extensions"}
	if len(names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, names)
			break
		}
	}
}

func TestRequirementName(t *testing.T) {
	cases := []struct {
		req  string
		want string
		ok   bool
	}{
		{"requests", "requests", true},
		{"requests[socks] >=2.28, <3", "requests", true},
		{"  typing_extensions;python_version<'3.11'", "typing_extensions", true},
		{"Pillow==10.0", "Pillow", true},
		{"-e .", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := RequirementName(c.req)
		if got != c.want || ok != c.ok {
			t.Errorf("RequirementName(%q): expected (%q, %v), got (%q, %v)", c.req, c.want, c.ok, got, ok)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Requests":          "requests",
		"typing_extensions": "typing-extensions",
		"zope.interface":    "zope-interface",
		"a--b__c..d":        "a-b-c-d",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestValidVersion(t *testing.T) {
	valid := []string{"1", "1.2.3", "2!1.0", "1.0a1", "1.0rc2", "1.0.post1", "1.0.dev3", "1.2.3a1.post2.dev4"}
	for _, v := range valid {
		if !ValidVersion(v) {
			t.Errorf("Expected %q to be valid", v)
		}
	}
	invalid := []string{"", "v1.0", "1.0+local", "1.0.0-beta", "latest"}
	for _, v := range invalid {
		if ValidVersion(v) {
			t.Errorf("Expected %q to be invalid", v)
		}
	}
}
