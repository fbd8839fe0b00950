package report

import (
	"encoding/json"
	"path/filepath"

	"github.com/google/uuid"

	"hooklint/internal/engine"
	"hooklint/internal/shared/util"
	"hooklint/internal/shared/version"
)

// SARIF v2.1.0 schema: https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool     `json:"tool"`
	AutomationDetails *sarifAutoID  `json:"automationDetails,omitempty"`
	Results           []sarifResult `json:"results"`
}

type sarifAutoID struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID            string                 `json:"id"`
	DefaultConfig sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from the run's
// diagnostics. File URIs are made relative to projectRoot; absolute
// paths are never included so that reports are safe to share.
func GenerateSARIF(projectRoot string, diags []engine.Diagnostic) ([]byte, error) {
	results := make([]sarifResult, 0, len(diags))
	levels := make(map[string]string)

	for _, d := range diags {
		level := severityLevel(d.Severity)
		// the rule's default level is its strictest observed level
		if levels[d.Rule] != "error" {
			levels[d.Rule] = level
		}

		result := sarifResult{
			RuleID:  d.Rule,
			Level:   level,
			Message: sarifMessage{Text: d.Message},
		}
		if d.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, d.File),
						URIBaseID: "%SRCROOT%",
					},
				},
			}
			if d.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   d.Line,
					StartColumn: d.Column,
				}
			}
			result.Locations = []sarifLocation{loc}
		}
		results = append(results, result)
	}

	ruleIDs := util.SortedStringKeys(levels)
	rules := make([]sarifRule, 0, len(ruleIDs))
	for _, id := range ruleIDs {
		rules = append(rules, sarifRule{
			ID:            id,
			DefaultConfig: sarifRuleDefaultConfig{Level: levels[id]},
		})
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "hooklint",
						Version: version.Version,
						Rules:   rules,
					},
				},
				AutomationDetails: &sarifAutoID{GUID: uuid.NewString()},
				Results:           results,
			},
		},
	}

	return json.MarshalIndent(doc, "", "  ")
}

func severityLevel(sev engine.Severity) string {
	switch sev {
	case engine.SeverityError:
		return "error"
	case engine.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	// SARIF URIs use forward slashes.
	return filepath.ToSlash(filePath)
}
