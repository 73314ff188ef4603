package baseline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/refspectre/internal/analyzer"
	"github.com/ppiankov/refspectre/internal/report"
)

func reportWith(files ...*analyzer.FileAnalysis) report.Data {
	return report.Data{
		Tool: "refspectre",
		Cabinets: []report.CabinetReport{{
			Cabinet: "SHD_03_1",
			Files:   files,
		}},
	}
}

func TestFlattenFindings(t *testing.T) {
	data := reportWith(
		&analyzer.FileAnalysis{Target: "PV/a.xml", Category: analyzer.CategoryActive, ActiveCount: 1},
		&analyzer.FileAnalysis{Target: "PV/b.xml", Category: analyzer.CategoryCommentOrphan, CommentCount: 1},
		&analyzer.FileAnalysis{Target: "PV/c.xml", Category: analyzer.CategoryUnreferenced},
	)

	findings := FlattenFindings(data)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings (active excluded), got %d", len(findings))
	}
	if findings[0].Type != string(analyzer.CategoryCommentOrphan) || findings[0].Target != "PV/b.xml" {
		t.Errorf("unexpected first finding: %+v", findings[0])
	}
	if findings[0].Cabinet != "SHD_03_1" {
		t.Errorf("finding missing cabinet: %+v", findings[0])
	}
}

func TestDiff(t *testing.T) {
	current := []Finding{
		{Type: "COMMENT_ORPHAN", Cabinet: "SHD", Target: "PV/a.xml"},
		{Type: "UNREFERENCED", Cabinet: "SHD", Target: "PV/new.xml"},
	}
	base := []Finding{
		{Type: "COMMENT_ORPHAN", Cabinet: "SHD", Target: "PV/a.xml"},
		{Type: "COMMENT_ORPHAN", Cabinet: "SHD", Target: "PV/fixed.xml"},
	}

	diff := Diff(current, base)
	if len(diff.New) != 1 || diff.New[0].Target != "PV/new.xml" {
		t.Errorf("unexpected new findings: %+v", diff.New)
	}
	if len(diff.Resolved) != 1 || diff.Resolved[0].Target != "PV/fixed.xml" {
		t.Errorf("unexpected resolved findings: %+v", diff.Resolved)
	}
	if len(diff.Unchanged) != 1 || diff.Unchanged[0].Target != "PV/a.xml" {
		t.Errorf("unexpected unchanged findings: %+v", diff.Unchanged)
	}
}

func TestDiff_SameTargetDifferentType(t *testing.T) {
	// A target whose category changed is both a new and a resolved finding.
	current := []Finding{{Type: "MIXED", Cabinet: "SHD", Target: "PV/a.xml"}}
	base := []Finding{{Type: "COMMENT_ORPHAN", Cabinet: "SHD", Target: "PV/a.xml"}}

	diff := Diff(current, base)
	if len(diff.New) != 1 || len(diff.Resolved) != 1 || len(diff.Unchanged) != 0 {
		t.Fatalf("expected category change to surface, got %+v", diff)
	}
}

func TestLoad(t *testing.T) {
	data := reportWith(
		&analyzer.FileAnalysis{Target: "PV/b.xml", Category: analyzer.CategoryCommentOrphan, CommentCount: 2},
	)
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "baseline.json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("write baseline: %v", err)
	}

	findings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(findings) != 1 || findings[0].Target != "PV/b.xml" {
		t.Fatalf("unexpected findings: %+v", findings)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing baseline")
	}
}
