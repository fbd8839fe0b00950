package rules

import (
	"testing"

	"hooklint/internal/config"
	"hooklint/internal/engine"
)

func directImportsRule() *DirectImports {
	return NewDirectImports(config.DirectImports{Enabled: true, SkipAssignTargets: true})
}

func TestDirectImportsQualifiedAccess(t *testing.T) {
	source := `import collections
from collections import defaultdict

d = collections.defaultdict(list)
`
	diags := analyze(t, source, directImportsRule())
	if len(diags) != 1 {
		t.Fatalf("Expected 1 finding, got %v", diags)
	}
	assertFinding(t, diags, `use directly imported "defaultdict" instead of "collections.defaultdict"`)
	if diags[0].Line != 4 {
		t.Errorf("Expected finding on line 4, got %d", diags[0].Line)
	}
	if diags[0].Severity != engine.SeverityWarning {
		t.Errorf("Expected warning severity, got %v", diags[0].Severity)
	}
}

func TestDirectImportsAliasedModule(t *testing.T) {
	source := `import pandas as pd
from pandas import DataFrame

df = pd.DataFrame()
`
	diags := analyze(t, source, directImportsRule())
	assertFinding(t, diags, `use directly imported "DataFrame" instead of "pd.DataFrame"`)
}

func TestDirectImportsNoDirectImport(t *testing.T) {
	source := `import collections

d = collections.defaultdict(list)
`
	assertNoFindings(t, analyze(t, source, directImportsRule()))
}

func TestDirectImportsDifferentOrigin(t *testing.T) {
	// defaultdict comes from another module, collections.defaultdict is a
	// deliberate different reference.
	source := `import collections
from mypkg.compat import defaultdict

d = collections.defaultdict(list)
`
	assertNoFindings(t, analyze(t, source, directImportsRule()))
}

func TestDirectImportsShadowedName(t *testing.T) {
	source := `import collections
from collections import defaultdict

def outer():
    defaultdict = make()
    return collections.defaultdict(list)
`
	assertNoFindings(t, analyze(t, source, directImportsRule()))
}

func TestDirectImportsAssignTargetSkipped(t *testing.T) {
	source := `import mymod
from mymod import CONST

mymod.CONST = 1
`
	assertNoFindings(t, analyze(t, source, directImportsRule()))

	loud := NewDirectImports(config.DirectImports{Enabled: true, SkipAssignTargets: false})
	diags := analyze(t, source, loud)
	assertFinding(t, diags, `use directly imported "CONST"`)
}

func TestDirectImportsOnlyOutermostAttribute(t *testing.T) {
	source := `import a.b
from a.b import c

x = a.b.c
`
	diags := analyze(t, source, directImportsRule())
	if len(diags) > 1 {
		t.Errorf("Expected at most one finding for a chain, got %v", diags)
	}
}

func TestDirectImportsFunctionScopeImport(t *testing.T) {
	source := `import json

def dump(obj):
    from json import dumps
    return json.dumps(obj)
`
	diags := analyze(t, source, directImportsRule())
	assertFinding(t, diags, `use directly imported "dumps"`)
}
