package analyzer

import "github.com/ppiankov/refspectre/internal/scanner"

// Classify maps occurrence counts to a category. Pure function; the four
// categories partition every possible count pair.
func Classify(activeCount, commentCount int) Category {
	switch {
	case activeCount > 0 && commentCount > 0:
		return CategoryMixed
	case activeCount > 0:
		return CategoryActive
	case commentCount > 0:
		return CategoryCommentOrphan
	default:
		return CategoryUnreferenced
	}
}

// Analyze classifies every scan result and aggregates per-category lists.
// Input order (the catalog enumeration order) is preserved in both the
// file list and the summary lists.
func Analyze(results []scanner.ScanResult) *Result {
	result := &Result{
		Files: make([]*FileAnalysis, 0, len(results)),
	}

	for _, sr := range results {
		fa := &FileAnalysis{
			Target:       sr.Target,
			Category:     Classify(sr.ActiveCount, sr.CommentCount),
			ActiveCount:  sr.ActiveCount,
			CommentCount: sr.CommentCount,
		}

		result.Summary.TotalTargets++
		switch fa.Category {
		case CategoryActive:
			result.Summary.ActiveTargets++
		case CategoryMixed:
			fa.Occurrences = sr.Occurrences
			result.Summary.MixedTargets = append(result.Summary.MixedTargets, sr.Target)
		case CategoryCommentOrphan:
			fa.Occurrences = sr.Occurrences
			result.Summary.CommentOrphans = append(result.Summary.CommentOrphans, sr.Target)
		case CategoryUnreferenced:
			result.Summary.Unreferenced = append(result.Summary.Unreferenced, sr.Target)
		}

		result.Files = append(result.Files, fa)
	}

	return result
}
