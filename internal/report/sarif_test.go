package report

import (
	"encoding/json"
	"testing"

	"hooklint/internal/engine"
)

func TestGenerateSARIF(t *testing.T) {
	diags := []engine.Diagnostic{
		{File: "/proj/src/a.py", Line: 3, Column: 5, Rule: "signatures", Severity: engine.SeverityError, Message: "too many args"},
		{File: "/proj/src/b.py", Line: 1, Column: 1, Rule: "dunder-all", Severity: engine.SeverityWarning, Message: "no __all__ found"},
		{File: "/proj/src/b.py", Line: 2, Column: 1, Rule: "dunder-all", Severity: engine.SeverityError, Message: "multiple __all__ found"},
	}

	data, err := GenerateSARIF("/proj", diags)
	if err != nil {
		t.Fatalf("GenerateSARIF failed: %v", err)
	}

	var doc struct {
		Schema  string `json:"$schema"`
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID            string `json:"id"`
						DefaultConfig struct {
							Level string `json:"level"`
						} `json:"defaultConfiguration"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			AutomationDetails struct {
				GUID string `json:"guid"`
			} `json:"automationDetails"`
			Results []struct {
				RuleID  string `json:"ruleId"`
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI       string `json:"uri"`
							URIBaseID string `json:"uriBaseId"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Generated SARIF is not valid JSON: %v", err)
	}

	if doc.Version != "2.1.0" {
		t.Errorf("Expected SARIF 2.1.0, got %s", doc.Version)
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(doc.Runs))
	}
	run := doc.Runs[0]
	if run.Tool.Driver.Name != "hooklint" {
		t.Errorf("Expected driver hooklint, got %s", run.Tool.Driver.Name)
	}
	if run.AutomationDetails.GUID == "" {
		t.Error("Expected a run GUID")
	}

	if len(run.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(run.Results))
	}
	first := run.Results[0]
	if first.RuleID != "signatures" || first.Level != "error" {
		t.Errorf("Unexpected first result: %+v", first)
	}
	loc := first.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/a.py" {
		t.Errorf("Expected a root-relative URI, got %q", loc.ArtifactLocation.URI)
	}
	if loc.ArtifactLocation.URIBaseID != "%SRCROOT%" {
		t.Errorf("Expected %%SRCROOT%% base, got %q", loc.ArtifactLocation.URIBaseID)
	}
	if loc.Region.StartLine != 3 || loc.Region.StartColumn != 5 {
		t.Errorf("Unexpected region: %+v", loc.Region)
	}

	// dunder-all appeared as warning and error: strictest level wins
	if len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("Expected 2 rule entries, got %+v", run.Tool.Driver.Rules)
	}
	if run.Tool.Driver.Rules[0].ID != "dunder-all" || run.Tool.Driver.Rules[0].DefaultConfig.Level != "error" {
		t.Errorf("Unexpected rule metadata: %+v", run.Tool.Driver.Rules[0])
	}
}

func TestGenerateSARIFEmpty(t *testing.T) {
	data, err := GenerateSARIF("", nil)
	if err != nil {
		t.Fatalf("GenerateSARIF failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Generated SARIF is not valid JSON: %v", err)
	}
	runs := doc["runs"].([]any)
	results := runs[0].(map[string]any)["results"].([]any)
	if len(results) != 0 {
		t.Errorf("Expected empty results array, got %v", results)
	}
}
