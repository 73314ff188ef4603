package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ppiankov/refspectre/internal/catalog"
)

// ProgressCallback is called as target scans complete.
type ProgressCallback func(current, total int, message string)

// RefScanner scans the corpus for occurrences of target identifiers.
// Target scans are independent and fan out over a bounded worker pool.
type RefScanner struct {
	corpus      *catalog.Corpus
	concurrency int
	strict      bool
	progress    ProgressCallback
}

// NewRefScanner creates a scanner over the given corpus.
func NewRefScanner(corpus *catalog.Corpus, concurrency int) *RefScanner {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &RefScanner{
		corpus:      corpus,
		concurrency: concurrency,
	}
}

// SetStrictComments enables cross-line block-comment tracking on top of the
// default single-line heuristic. Off by default so reports stay comparable
// with earlier runs.
func (s *RefScanner) SetStrictComments(enabled bool) {
	s.strict = enabled
}

// SetProgressCallback sets the progress callback function.
func (s *RefScanner) SetProgressCallback(callback ProgressCallback) {
	s.progress = callback
}

func (s *RefScanner) reportProgress(current, total int, message string) {
	if s.progress != nil {
		s.progress(current, total, message)
	}
}

// ScanAll scans every target against the full corpus. Results come back in
// target order regardless of scheduling: each worker writes into its own
// slot. Cancellation is honored between target scans.
func (s *RefScanner) ScanAll(ctx context.Context, targets []catalog.Target) ([]ScanResult, error) {
	var states [][]bool
	if s.strict {
		states = make([][]bool, len(s.corpus.Files))
		for i := range s.corpus.Files {
			states[i] = blockStates(s.corpus.Files[i].Lines)
		}
	}

	results := make([]ScanResult, len(targets))

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, s.concurrency)

	total := len(targets)
	current := 0

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func(i int, target catalog.Target) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			results[i] = s.scanTarget(target, states)

			mu.Lock()
			current++
			s.reportProgress(current, total, fmt.Sprintf("Scanned %s", target.Rel))
			mu.Unlock()
		}(i, target)
	}

	wg.Wait()
	return results, nil
}

// scanTarget scans one target identifier against every corpus file. The
// target's own file is never scanned: a file referencing itself is not a
// reference. Each matching line yields exactly one occurrence, classified
// by the first match position on that line.
func (s *RefScanner) scanTarget(target catalog.Target, states [][]bool) ScanResult {
	result := ScanResult{Target: target.Rel}

	for fi := range s.corpus.Files {
		cf := &s.corpus.Files[fi]
		if cf.TargetRel != "" && cf.TargetRel == target.Rel {
			continue
		}

		for li, line := range cf.Lines {
			idx := strings.Index(line, target.Rel)
			if idx < 0 {
				continue
			}

			commented := isCommented(line, idx)
			if !commented && s.strict && states[fi][li] {
				commented = inOpenBlock(line, idx)
			}

			result.Occurrences = append(result.Occurrences, Occurrence{
				File:      cf.Display,
				Line:      li + 1,
				Text:      truncateContext(line),
				Commented: commented,
			})
			if commented {
				result.CommentCount++
			} else {
				result.ActiveCount++
			}
		}
	}

	return result
}
