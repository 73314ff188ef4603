package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/ppiankov/refspectre/internal/analyzer"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"

	sarifRuleCommentOrphan = "refspectre/COMMENT_ORPHAN"
	sarifRuleMixedRefs     = "refspectre/MIXED_REFS"
	sarifRuleUnreferenced  = "refspectre/UNREFERENCED"
)

// SARIFReporter generates SARIF 2.1.0 output for CI annotation.
type SARIFReporter struct {
	writer io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer) *SARIFReporter {
	return &SARIFReporter{writer: w}
}

type sarifLog struct {
	Schema  string     `json:"$schema,omitempty"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	ShortDescription sarifMessage `json:"shortDescription,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level,omitempty"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysicalLocation `json:"physicalLocation,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

type sarifRuleMeta struct {
	Name        string
	Description string
	Level       string
}

var sarifRules = map[string]sarifRuleMeta{
	sarifRuleCommentOrphan: {
		Name:        "CommentOrphan",
		Description: "Object file referenced only from commented-out markup",
		Level:       "warning",
	},
	sarifRuleMixedRefs: {
		Name:        "MixedReferences",
		Description: "Object file has both live and commented-out references",
		Level:       "note",
	},
	sarifRuleUnreferenced: {
		Name:        "Unreferenced",
		Description: "Object file has no references anywhere in the corpus",
		Level:       "note",
	},
}

// Generate generates a SARIF report. One result per non-active target;
// comment orphans and mixed targets carry their occurrence sites as
// locations so CI can annotate the referencing lines.
func (r *SARIFReporter) Generate(data Data) error {
	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:    data.Tool,
					Version: data.Version,
					Rules:   ruleList(),
				},
			},
		}},
	}

	for _, cab := range data.Cabinets {
		for _, fa := range cab.Files {
			res, ok := resultFor(cab, fa)
			if ok {
				log.Runs[0].Results = append(log.Runs[0].Results, res)
			}
		}
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}

func ruleList() []sarifRule {
	ids := []string{sarifRuleCommentOrphan, sarifRuleMixedRefs, sarifRuleUnreferenced}
	rules := make([]sarifRule, 0, len(ids))
	for _, id := range ids {
		meta := sarifRules[id]
		rules = append(rules, sarifRule{
			ID:               id,
			Name:             meta.Name,
			ShortDescription: sarifMessage{Text: meta.Description},
		})
	}
	return rules
}

func resultFor(cab CabinetReport, fa *analyzer.FileAnalysis) (sarifResult, bool) {
	var ruleID, text string
	switch fa.Category {
	case analyzer.CategoryCommentOrphan:
		ruleID = sarifRuleCommentOrphan
		text = fmt.Sprintf("%s is referenced only from commented-out lines (%d)",
			fa.Target, fa.CommentCount)
	case analyzer.CategoryMixed:
		ruleID = sarifRuleMixedRefs
		text = fmt.Sprintf("%s has %d live and %d commented references",
			fa.Target, fa.ActiveCount, fa.CommentCount)
	case analyzer.CategoryUnreferenced:
		ruleID = sarifRuleUnreferenced
		text = fmt.Sprintf("%s is not referenced anywhere in the corpus", fa.Target)
	default:
		return sarifResult{}, false
	}

	res := sarifResult{
		RuleID:  ruleID,
		Level:   sarifRules[ruleID].Level,
		Message: sarifMessage{Text: text},
		Locations: []sarifLocation{{
			PhysicalLocation: &sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{
					URI: path.Join(cab.ObjectsRoot, fa.Target),
				},
			},
		}},
	}

	for _, occ := range fa.Occurrences {
		res.Locations = append(res.Locations, sarifLocation{
			PhysicalLocation: &sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: occ.File},
				Region:           &sarifRegion{StartLine: occ.Line},
			},
		})
	}

	return res, true
}
