package rules

import (
	"testing"

	"hooklint/internal/config"
)

func dunderAllCfg() config.DunderAll {
	return config.DunderAll{
		Enabled:                 true,
		WarnNonLiteral:          true,
		WarnAnnotated:           true,
		WarnLocation:            true,
		WarnMultipleDefinitions: true,
		WarnDuplicateKeys:       true,
	}
}

func TestDunderAllMissing(t *testing.T) {
	source := `"""Module docstring."""

def public():
    pass
`
	diags := analyze(t, source, NewDunderAll(dunderAllCfg()))
	if len(diags) != 1 {
		t.Fatalf("Expected 1 finding, got %v", diags)
	}
	assertFinding(t, diags, "no __all__ found")
	if diags[0].Line != 1 {
		t.Errorf("Expected the missing report on line 1, got %d", diags[0].Line)
	}
}

func TestDunderAllMissingAllowed(t *testing.T) {
	source := `def public():
    pass
`
	cfg := dunderAllCfg()
	cfg.AllowMissing = true
	assertNoFindings(t, analyze(t, source, NewDunderAll(cfg)))
}

func TestDunderAllMissingTrivialModule(t *testing.T) {
	source := `"""Only a docstring here."""

if __name__ == "__main__":
    pass
`
	assertNoFindings(t, analyze(t, source, NewDunderAll(dunderAllCfg())))
}

func TestDunderAllWellFormed(t *testing.T) {
	source := `"""Docstring."""

__all__ = ["public", "Thing"]

def public():
    pass

class Thing:
    pass
`
	assertNoFindings(t, analyze(t, source, NewDunderAll(dunderAllCfg())))
}

func TestDunderAllNonLiteral(t *testing.T) {
	source := `__all__ = public_names()

def public_names():
    return []
`
	diags := analyze(t, source, NewDunderAll(dunderAllCfg()))
	assertFinding(t, diags, "__all__ is not a literal list")
}

func TestDunderAllTupleIsNonLiteral(t *testing.T) {
	source := `__all__ = ("a", "b")

def a():
    pass
`
	diags := analyze(t, source, NewDunderAll(dunderAllCfg()))
	assertFinding(t, diags, "__all__ is not a literal list")
}

func TestDunderAllAnnotated(t *testing.T) {
	source := `__all__: list[str] = ["public"]

def public():
    pass
`
	diags := analyze(t, source, NewDunderAll(dunderAllCfg()))
	assertFinding(t, diags, "__all__ is annotated")
}

func TestDunderAllMultipleDefinitions(t *testing.T) {
	source := `__all__ = ["a"]
__all__ += ["b"]

def a():
    pass

def b():
    pass
`
	diags := analyze(t, source, NewDunderAll(dunderAllCfg()))
	assertFinding(t, diags, "multiple __all__ found")
	assertFinding(t, diags, "additional __all__")
}

func TestDunderAllNotAtTop(t *testing.T) {
	source := `"""Docstring."""

import os

__all__ = ["main"]

def main():
    os.getcwd()
`
	diags := analyze(t, source, NewDunderAll(dunderAllCfg()))
	assertFinding(t, diags, "__all__ is not at the top of the module")
}

func TestDunderAllFutureImportMayPrecede(t *testing.T) {
	source := `"""Docstring."""

from __future__ import annotations

__all__ = ["main"]

def main():
    pass
`
	assertNoFindings(t, analyze(t, source, NewDunderAll(dunderAllCfg())))
}

func TestDunderAllDuplicateKeys(t *testing.T) {
	source := `__all__ = ["a", "b", "a", "b", "c"]

def a():
    pass

def b():
    pass

def c():
    pass
`
	diags := analyze(t, source, NewDunderAll(dunderAllCfg()))
	assertFinding(t, diags, "__all__ has duplicate keys: a, b")
}

func TestDunderAllSuperfluous(t *testing.T) {
	source := `"""Nothing but a docstring."""

__all__ = []
`
	cfg := dunderAllCfg()
	cfg.WarnSuperfluous = true
	diags := analyze(t, source, NewDunderAll(cfg))
	assertFinding(t, diags, "__all__ is superfluous")
}
