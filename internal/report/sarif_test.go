package report

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSARIFReporter(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewSARIFReporter(&buf)

	if err := reporter.Generate(sampleData()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	if log.Version != "2.1.0" {
		t.Errorf("unexpected SARIF version: %q", log.Version)
	}
	if len(log.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(log.Runs))
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "refspectre" {
		t.Errorf("unexpected driver name: %q", run.Tool.Driver.Name)
	}
	if len(run.Tool.Driver.Rules) != 3 {
		t.Errorf("expected 3 rules, got %d", len(run.Tool.Driver.Rules))
	}

	// One result per non-active file: orphan, unreferenced, mixed.
	if len(run.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(run.Results))
	}

	byRule := make(map[string]sarifResult)
	for _, res := range run.Results {
		byRule[res.RuleID] = res
	}

	orphan, ok := byRule[sarifRuleCommentOrphan]
	if !ok {
		t.Fatal("missing COMMENT_ORPHAN result")
	}
	if orphan.Level != "warning" {
		t.Errorf("unexpected orphan level: %q", orphan.Level)
	}
	// First location is the target file, then the referencing line.
	if len(orphan.Locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(orphan.Locations))
	}
	if got := orphan.Locations[0].PhysicalLocation.ArtifactLocation.URI; got != "panels/objects/objects_SHD_03_1/PV/FPs/heat.xml" {
		t.Errorf("unexpected target URI: %q", got)
	}
	if got := orphan.Locations[1].PhysicalLocation.Region.StartLine; got != 42 {
		t.Errorf("unexpected occurrence line: %d", got)
	}

	if _, ok := byRule[sarifRuleUnreferenced]; !ok {
		t.Error("missing UNREFERENCED result")
	}
	if _, ok := byRule[sarifRuleMixedRefs]; !ok {
		t.Error("missing MIXED_REFS result")
	}
}
