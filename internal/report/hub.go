package report

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/ppiankov/refspectre/internal/analyzer"
)

// spectre/v1 envelope types

type spectreEnvelope struct {
	Schema    string           `json:"schema"`
	Tool      string           `json:"tool"`
	Version   string           `json:"version"`
	Timestamp string           `json:"timestamp"`
	Target    spectreTarget    `json:"target"`
	Findings  []spectreFinding `json:"findings"`
	Summary   spectreSummary   `json:"summary"`
}

type spectreTarget struct {
	Type    string `json:"type"`
	URIHash string `json:"uri_hash"`
}

type spectreFinding struct {
	ID       string         `json:"id"`
	Severity string         `json:"severity"`
	Location string         `json:"location"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type spectreSummary struct {
	Total  int `json:"total"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Info   int `json:"info"`
}

// HashProject produces a sha256 hash of the project directory for target
// identification without leaking local paths.
func HashProject(projectDir string) string {
	h := sha256.Sum256([]byte(projectDir))
	return fmt.Sprintf("sha256:%x", h)
}

// HubReporter generates spectre/v1 JSON envelope output.
type HubReporter struct {
	writer io.Writer
}

// NewHubReporter creates a new hub reporter.
func NewHubReporter(w io.Writer) *HubReporter {
	return &HubReporter{writer: w}
}

// Generate generates a spectre/v1 envelope report.
func (r *HubReporter) Generate(data Data) error {
	env := spectreEnvelope{
		Schema:    "spectre/v1",
		Tool:      data.Tool,
		Version:   data.Version,
		Timestamp: data.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		Target: spectreTarget{
			Type:    "panel-project",
			URIHash: HashProject(data.Config.ProjectDir),
		},
		Findings: []spectreFinding{},
	}

	for _, cab := range data.Cabinets {
		for _, fa := range cab.Files {
			finding, ok := hubFinding(cab, fa)
			if !ok {
				continue
			}
			env.Findings = append(env.Findings, finding)
			env.Summary.Total++
			switch finding.Severity {
			case "high":
				env.Summary.High++
			case "medium":
				env.Summary.Medium++
			case "low":
				env.Summary.Low++
			default:
				env.Summary.Info++
			}
		}
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(env)
}

func hubFinding(cab CabinetReport, fa *analyzer.FileAnalysis) (spectreFinding, bool) {
	location := path.Join(cab.ObjectsRoot, fa.Target)
	meta := map[string]any{
		"cabinet":       cab.Cabinet,
		"active_count":  fa.ActiveCount,
		"comment_count": fa.CommentCount,
	}

	switch fa.Category {
	case analyzer.CategoryCommentOrphan:
		return spectreFinding{
			ID:       sarifRuleCommentOrphan,
			Severity: "medium",
			Location: location,
			Message:  fmt.Sprintf("referenced only from %d commented-out line(s)", fa.CommentCount),
			Metadata: meta,
		}, true
	case analyzer.CategoryUnreferenced:
		return spectreFinding{
			ID:       sarifRuleUnreferenced,
			Severity: "low",
			Location: location,
			Message:  "not referenced anywhere in the corpus",
			Metadata: meta,
		}, true
	case analyzer.CategoryMixed:
		return spectreFinding{
			ID:       sarifRuleMixedRefs,
			Severity: "info",
			Location: location,
			Message: fmt.Sprintf("%d live and %d commented reference(s)",
				fa.ActiveCount, fa.CommentCount),
			Metadata: meta,
		}, true
	default:
		return spectreFinding{}, false
	}
}
