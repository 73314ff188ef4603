package scanner

// Occurrence is one line of one corpus file containing a target's
// identifier as a substring.
type Occurrence struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Text      string `json:"text"`
	Commented bool   `json:"commented"`
}

// ScanResult holds the per-target outcome of scanning the full corpus.
// Occurrences are in scan order: corpus file order, then line order.
type ScanResult struct {
	Target       string       `json:"target"`
	ActiveCount  int          `json:"active_count"`
	CommentCount int          `json:"comment_count"`
	Occurrences  []Occurrence `json:"occurrences,omitempty"`
}
