package scanner

import (
	"strings"
	"unicode"
)

const (
	lineCommentMarker = "//"
	blockOpenMarker   = "<!--"
	blockCloseMarker  = "-->"

	// maxContextLen caps the occurrence text kept for reports.
	maxContextLen = 150
)

// isCommented reports whether a match starting at idx in line falls inside
// a comment. Rules are evaluated in order; the first that applies wins:
//
//  1. The line, after leading whitespace, starts with // — the whole line
//     is commented.
//  2. A // appears before the match — trailing comment covers it.
//  3. A <!-- appears before the match and no --> closes it at or before
//     the match.
//  4. Otherwise the match is live.
//
// This is a single-line heuristic: block comments opened on earlier lines
// are not tracked here. That matches the reports this tool replaces; the
// strict tracker below is the opt-in alternative.
func isCommented(line string, idx int) bool {
	stripped := strings.TrimLeftFunc(line, unicode.IsSpace)
	if strings.HasPrefix(stripped, lineCommentMarker) {
		return true
	}
	if p := strings.Index(line, lineCommentMarker); p >= 0 && p < idx {
		return true
	}
	if p := strings.Index(line, blockOpenMarker); p >= 0 && p < idx {
		c := strings.Index(line, blockCloseMarker)
		if c < 0 || c > idx {
			return true
		}
	}
	return false
}

// blockStates returns, for each line, whether the line begins inside an
// open <!-- --> block. Only the strict mode consults this.
func blockStates(lines []string) []bool {
	states := make([]bool, len(lines))
	open := false
	for i, line := range lines {
		states[i] = open
		pos := 0
		for {
			if open {
				c := strings.Index(line[pos:], blockCloseMarker)
				if c < 0 {
					break
				}
				pos += c + len(blockCloseMarker)
				open = false
			} else {
				o := strings.Index(line[pos:], blockOpenMarker)
				if o < 0 {
					break
				}
				pos += o + len(blockOpenMarker)
				open = true
			}
		}
	}
	return states
}

// inOpenBlock reports whether a match at idx is still covered by a block
// comment that was open when the line started.
func inOpenBlock(line string, idx int) bool {
	c := strings.Index(line, blockCloseMarker)
	return c < 0 || c >= idx
}

// truncateContext left-trims the line and caps it for report output.
func truncateContext(line string) string {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	runes := []rune(trimmed)
	if len(runes) > maxContextLen {
		return string(runes[:maxContextLen])
	}
	return trimmed
}
