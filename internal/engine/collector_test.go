package engine

import (
	"errors"
	"testing"
)

func TestCollectorFailed(t *testing.T) {
	c := NewCollector()
	if c.Failed(false) {
		t.Error("An empty collector must not fail")
	}

	c.Add(Diagnostic{Rule: "dunder-all", Severity: SeverityWarning})
	if c.Failed(false) {
		t.Error("Warnings alone must not fail")
	}
	if !c.Failed(true) {
		t.Error("Strict mode must fail on warnings")
	}

	c.Add(Diagnostic{Rule: "signatures", Severity: SeverityError})
	if !c.Failed(false) {
		t.Error("Errors must fail")
	}
}

func TestCollectorToolErrorsFail(t *testing.T) {
	c := NewCollector()
	c.AddError("broken.py", errors.New("invalid syntax"))

	if !c.Failed(false) {
		t.Error("Tool errors must fail the run")
	}
	if len(c.Errors()) != 1 || c.Errors()[0].File != "broken.py" {
		t.Errorf("Unexpected errors: %v", c.Errors())
	}
}

func TestCollectorPartitionsEquivalent(t *testing.T) {
	fileA := []Diagnostic{
		{File: "a.py", Line: 1, Rule: "signatures", Severity: SeverityError},
		{File: "a.py", Line: 7, Rule: "dunder-all", Severity: SeverityWarning},
	}
	fileB := []Diagnostic{
		{File: "b.py", Line: 2, Rule: "signatures", Severity: SeverityError},
	}

	whole := NewCollector()
	whole.Add(fileA...)
	whole.Add(fileB...)

	split := NewCollector()
	split.Add(fileA...)
	rest := NewCollector()
	rest.Add(fileB...)

	var joined []Diagnostic
	joined = append(joined, split.Diagnostics()...)
	joined = append(joined, rest.Diagnostics()...)

	if len(joined) != len(whole.Diagnostics()) {
		t.Fatalf("Expected %d diagnostics, got %d", len(whole.Diagnostics()), len(joined))
	}
	for i, d := range whole.Diagnostics() {
		if joined[i] != d {
			t.Errorf("Diagnostic %d differs: %v vs %v", i, joined[i], d)
		}
	}

	wholeCounts := whole.Counts()
	for rule, n := range splitCountsSum(split, rest) {
		if wholeCounts[rule] != n {
			t.Errorf("Expected %d findings for %s, got %d", n, rule, wholeCounts[rule])
		}
	}
	if whole.Failed(false) != (split.Failed(false) || rest.Failed(false)) {
		t.Error("Partitioned verdict differs from the whole-run verdict")
	}
}

func splitCountsSum(collectors ...*Collector) map[string]int {
	out := make(map[string]int)
	for _, c := range collectors {
		for rule, n := range c.Counts() {
			out[rule] += n
		}
	}
	return out
}

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.Add(
		Diagnostic{Rule: "signatures"},
		Diagnostic{Rule: "signatures"},
		Diagnostic{Rule: "dunder-all"},
	)

	counts := c.Counts()
	if counts["signatures"] != 2 || counts["dunder-all"] != 1 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}
