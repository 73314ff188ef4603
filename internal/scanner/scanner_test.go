package scanner

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/ppiankov/refspectre/internal/catalog"
)

// corpusOf builds a synthetic in-memory corpus. Keys are display names;
// a "objects/" prefix marks the file as living in the target root with
// the remainder as its own identifier.
func corpusOf(files map[string]string) *catalog.Corpus {
	corpus := &catalog.Corpus{}
	var names []string
	for name := range files {
		names = append(names, name)
	}
	// map order is random; corpus order must be fixed for assertions
	sort.Strings(names)
	for _, name := range names {
		cf := catalog.CorpusFile{
			Path:    "/project/" + name,
			Display: name,
			Lines:   strings.Split(files[name], "\n"),
		}
		if rel, ok := strings.CutPrefix(name, "objects/"); ok {
			cf.TargetRel = rel
		}
		corpus.Files = append(corpus.Files, cf)
	}
	return corpus
}

func scanOne(t *testing.T, corpus *catalog.Corpus, target string, strict bool) ScanResult {
	t.Helper()
	s := NewRefScanner(corpus, 2)
	s.SetStrictComments(strict)
	results, err := s.ScanAll(context.Background(), []catalog.Target{{Rel: target}})
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	return results[0]
}

func TestScan_CommentOrphanScenario(t *testing.T) {
	corpus := corpusOf(map[string]string{
		"screens/main.xml": "header\n// ref: PV/FPs/heat.xml\nfooter",
	})
	res := scanOne(t, corpus, "PV/FPs/heat.xml", false)

	if res.ActiveCount != 0 || res.CommentCount != 1 {
		t.Fatalf("expected active=0 comment=1, got active=%d comment=%d",
			res.ActiveCount, res.CommentCount)
	}
	occ := res.Occurrences[0]
	if occ.File != "screens/main.xml" || occ.Line != 2 || !occ.Commented {
		t.Errorf("unexpected occurrence: %+v", occ)
	}
	if occ.Text != "// ref: PV/FPs/heat.xml" {
		t.Errorf("unexpected occurrence text: %q", occ.Text)
	}
}

func TestScan_MixedScenario(t *testing.T) {
	corpus := corpusOf(map[string]string{
		"screens/main.xml": `load("PV/FPs/heat.xml")` + "\n" + `<!-- PV/FPs/heat.xml -->`,
	})
	res := scanOne(t, corpus, "PV/FPs/heat.xml", false)

	if res.ActiveCount != 1 || res.CommentCount != 1 {
		t.Fatalf("expected active=1 comment=1, got active=%d comment=%d",
			res.ActiveCount, res.CommentCount)
	}
}

func TestScan_ActiveScenario(t *testing.T) {
	corpus := corpusOf(map[string]string{
		"screens/a.xml": `load("PV/FPs/heat.xml")`,
		"screens/b.xml": `also PV/FPs/heat.xml here`,
	})
	res := scanOne(t, corpus, "PV/FPs/heat.xml", false)

	if res.ActiveCount != 2 || res.CommentCount != 0 {
		t.Fatalf("expected active=2 comment=0, got active=%d comment=%d",
			res.ActiveCount, res.CommentCount)
	}
}

func TestScan_UnreferencedScenario(t *testing.T) {
	corpus := corpusOf(map[string]string{
		"screens/a.xml": "nothing relevant",
	})
	res := scanOne(t, corpus, "PV/FPs/heat.xml", false)

	if res.ActiveCount != 0 || res.CommentCount != 0 || len(res.Occurrences) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestScan_SelfReferenceExcluded(t *testing.T) {
	corpus := corpusOf(map[string]string{
		// The target's own file mentions its own identifier.
		"objects/PV/FPs/heat.xml": `self: PV/FPs/heat.xml`,
		"objects/PV/other.xml":    `uses PV/FPs/heat.xml`,
	})
	res := scanOne(t, corpus, "PV/FPs/heat.xml", false)

	if res.ActiveCount != 1 {
		t.Fatalf("self-reference must not count: got active=%d", res.ActiveCount)
	}
	if res.Occurrences[0].File != "objects/PV/other.xml" {
		t.Errorf("occurrence from wrong file: %+v", res.Occurrences[0])
	}
}

// activeCount + commentCount equals the number of corpus lines (excluding
// the target itself) containing the identifier.
func TestScan_CountInvariant(t *testing.T) {
	corpus := corpusOf(map[string]string{
		"objects/PV/a.xml": "PV/x.xml\n// PV/x.xml\nnothing\nPV/x.xml twice PV/x.xml",
		"objects/PV/x.xml": "my own PV/x.xml",
		"screens/m.xml":    "<!-- PV/x.xml -->",
	})
	res := scanOne(t, corpus, "PV/x.xml", false)

	// 4 matching lines outside the target file; the double match on one
	// line counts once.
	if got := res.ActiveCount + res.CommentCount; got != 4 {
		t.Fatalf("expected 4 counted lines, got %d (active=%d comment=%d)",
			got, res.ActiveCount, res.CommentCount)
	}
	if len(res.Occurrences) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(res.Occurrences))
	}
}

// Identifiers containing pattern metacharacters match only literally.
func TestScan_LiteralMatching(t *testing.T) {
	corpus := corpusOf(map[string]string{
		"screens/a.xml": "PV/pump(1).xml\nPV/pumpX1Y.xml\nPV/pump.1..xml",
	})
	res := scanOne(t, corpus, "PV/pump(1).xml", false)
	if res.ActiveCount != 1 {
		t.Fatalf("parenthesized identifier: expected 1 match, got %d", res.ActiveCount)
	}

	res = scanOne(t, corpus, "PV/pump.1..xml", false)
	if res.ActiveCount != 1 {
		t.Fatalf("dotted identifier must not match PV/pumpX1Y.xml: got %d", res.ActiveCount)
	}
}

func TestScan_StrictBlockTracking(t *testing.T) {
	corpus := corpusOf(map[string]string{
		"screens/a.xml": "<!-- disabled\nPV/FPs/heat.xml\n-->",
	})

	// Default single-line heuristic: the middle line has no markers → live.
	res := scanOne(t, corpus, "PV/FPs/heat.xml", false)
	if res.ActiveCount != 1 || res.CommentCount != 0 {
		t.Fatalf("default mode: expected active=1, got active=%d comment=%d",
			res.ActiveCount, res.CommentCount)
	}

	// Strict mode tracks the open block across lines.
	res = scanOne(t, corpus, "PV/FPs/heat.xml", true)
	if res.ActiveCount != 0 || res.CommentCount != 1 {
		t.Fatalf("strict mode: expected comment=1, got active=%d comment=%d",
			res.ActiveCount, res.CommentCount)
	}
}

func TestScanAll_OrderedResults(t *testing.T) {
	corpus := corpusOf(map[string]string{
		"screens/a.xml": "t0.xml t1.xml t2.xml t3.xml t4.xml t5.xml t6.xml t7.xml",
	})
	targets := []catalog.Target{
		{Rel: "t0.xml"}, {Rel: "t1.xml"}, {Rel: "t2.xml"}, {Rel: "t3.xml"},
		{Rel: "t4.xml"}, {Rel: "t5.xml"}, {Rel: "t6.xml"}, {Rel: "t7.xml"},
	}

	s := NewRefScanner(corpus, 4)
	results, err := s.ScanAll(context.Background(), targets)
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	for i, res := range results {
		if res.Target != targets[i].Rel {
			t.Fatalf("result %d out of order: got %q, want %q", i, res.Target, targets[i].Rel)
		}
	}
}

func TestScanAll_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	corpus := corpusOf(map[string]string{"screens/a.xml": "x"})
	s := NewRefScanner(corpus, 2)
	_, err := s.ScanAll(ctx, []catalog.Target{{Rel: "a.xml"}})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestScanAll_Progress(t *testing.T) {
	corpus := corpusOf(map[string]string{"screens/a.xml": "a.xml b.xml"})
	s := NewRefScanner(corpus, 1)

	var calls int
	s.SetProgressCallback(func(current, total int, message string) {
		calls++
		if total != 2 {
			t.Errorf("expected total 2, got %d", total)
		}
	})

	_, err := s.ScanAll(context.Background(), []catalog.Target{{Rel: "a.xml"}, {Rel: "b.xml"}})
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 progress calls, got %d", calls)
	}
}
