package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"hooklint/internal/engine"
)

func TestConsolePrint(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Print([]engine.Diagnostic{
		{File: "a.py", Line: 3, Column: 5, Rule: "no-mixed-args", Severity: engine.SeverityError, Message: "mixed args"},
		{File: "b.py", Line: 1, Column: 1, Rule: "dunder-all", Severity: engine.SeverityWarning, Message: "no __all__ found"},
	})

	out := buf.String()
	if !strings.Contains(out, "a.py:3:5: [no-mixed-args] mixed args") {
		t.Errorf("Unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "b.py:1:1: [dunder-all] no __all__ found") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestConsolePrintErrors(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.PrintErrors([]engine.FileError{
		{File: "broken.py", Err: errors.New("invalid syntax")},
	})

	if !strings.Contains(buf.String(), "error: broken.py: invalid syntax") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}
}

func TestConsoleSummary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Summary(map[string]int{"signatures": 2, "dunder-all": 1}, 7, true)

	out := buf.String()
	if !strings.Contains(out, "7 files checked, 3 findings") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
	// per-rule lines sorted alphabetically
	if strings.Index(out, "dunder-all") > strings.Index(out, "signatures") {
		t.Errorf("Expected sorted per-rule lines:\n%s", out)
	}
}

func TestConsoleSummaryClean(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Summary(nil, 4, false)

	if !strings.Contains(buf.String(), "4 files checked, no findings") {
		t.Errorf("Unexpected summary:\n%s", buf.String())
	}
}
