package analyzer

import "github.com/ppiankov/refspectre/internal/scanner"

// Category classifies a target file by how it is referenced.
type Category string

const (
	// CategoryActive — live references only.
	CategoryActive Category = "ACTIVE"
	// CategoryMixed — both live and commented references.
	CategoryMixed Category = "MIXED"
	// CategoryCommentOrphan — commented references only: dead configuration
	// masquerading as live.
	CategoryCommentOrphan Category = "COMMENT_ORPHAN"
	// CategoryUnreferenced — no references at all.
	CategoryUnreferenced Category = "UNREFERENCED"
)

// FileAnalysis is the classification of one target file. Occurrence detail
// is kept for COMMENT_ORPHAN and MIXED, where a human needs to review the
// referencing lines.
type FileAnalysis struct {
	Target       string               `json:"target"`
	Category     Category             `json:"category"`
	ActiveCount  int                  `json:"active_count"`
	CommentCount int                  `json:"comment_count"`
	Occurrences  []scanner.Occurrence `json:"occurrences,omitempty"`
}

// Summary holds per-category aggregates. The identifier lists preserve
// catalog enumeration order for deterministic output.
type Summary struct {
	TotalTargets   int      `json:"total_targets"`
	ActiveTargets  int      `json:"active_targets"`
	CommentOrphans []string `json:"comment_orphans,omitempty"`
	MixedTargets   []string `json:"mixed_targets,omitempty"`
	Unreferenced   []string `json:"unreferenced,omitempty"`
}

// Result is the complete classification of one cabinet's target set.
type Result struct {
	Summary Summary         `json:"summary"`
	Files   []*FileAnalysis `json:"files"`
}
