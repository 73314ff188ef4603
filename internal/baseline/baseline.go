package baseline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/refspectre/internal/analyzer"
	"github.com/ppiankov/refspectre/internal/report"
)

// Finding is a flattened, identity-comparable issue from a scan.
type Finding struct {
	Type    string `json:"type"`
	Cabinet string `json:"cabinet"`
	Target  string `json:"target"`
}

func (f Finding) key() string {
	return fmt.Sprintf("%s|%s|%s", f.Type, f.Cabinet, f.Target)
}

// DiffResult holds the outcome of comparing current findings against a baseline.
type DiffResult struct {
	New       []Finding
	Resolved  []Finding
	Unchanged []Finding
}

// FlattenFindings converts a scan report into a flat finding list.
// Active targets are not findings.
func FlattenFindings(data report.Data) []Finding {
	var findings []Finding
	for _, cab := range data.Cabinets {
		for _, fa := range cab.Files {
			if fa.Category == analyzer.CategoryActive {
				continue
			}
			findings = append(findings, Finding{
				Type:    string(fa.Category),
				Cabinet: cab.Cabinet,
				Target:  fa.Target,
			})
		}
	}
	return findings
}

// Load reads a previous scan JSON report and extracts findings.
func Load(path string) ([]Finding, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	var data report.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse baseline: %w", err)
	}
	return FlattenFindings(data), nil
}

// Diff compares current findings against a baseline.
func Diff(current, baseline []Finding) DiffResult {
	baseMap := make(map[string]struct{}, len(baseline))
	for _, f := range baseline {
		baseMap[f.key()] = struct{}{}
	}
	curMap := make(map[string]struct{}, len(current))
	for _, f := range current {
		curMap[f.key()] = struct{}{}
	}

	var result DiffResult
	for _, f := range current {
		if _, exists := baseMap[f.key()]; exists {
			result.Unchanged = append(result.Unchanged, f)
		} else {
			result.New = append(result.New, f)
		}
	}
	for _, f := range baseline {
		if _, exists := curMap[f.key()]; !exists {
			result.Resolved = append(result.Resolved, f)
		}
	}
	return result
}
