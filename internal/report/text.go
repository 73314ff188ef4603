package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ppiankov/refspectre/internal/analyzer"
)

// TextReporter generates human-readable text reports
type TextReporter struct {
	writer io.Writer
}

// NewTextReporter creates a new text reporter
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{writer: w}
}

// Generate generates a text report
func (r *TextReporter) Generate(data Data) error {
	fmt.Fprintf(r.writer, "RefSpectre Report\n")
	fmt.Fprintf(r.writer, "=================\n\n")
	fmt.Fprintf(r.writer, "Scan Time: %s\n", data.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.writer, "Project: %s\n", data.Config.ProjectDir)
	fmt.Fprintf(r.writer, "Objects: %s\n", data.Config.ObjectsDir)
	if data.Config.ScreensDir != "" {
		fmt.Fprintf(r.writer, "Screens: %s\n", data.Config.ScreensDir)
	}
	if data.Config.StrictComments {
		fmt.Fprintf(r.writer, "Comment tracking: strict (cross-line)\n")
	}
	fmt.Fprintf(r.writer, "\n")

	if len(data.Warnings) > 0 {
		fmt.Fprintf(r.writer, "%s\n", color.YellowString("Warnings"))
		fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 50))
		for _, w := range data.Warnings {
			fmt.Fprintf(r.writer, "  ! %s\n", w)
		}
		fmt.Fprintf(r.writer, "\n")
	}

	for _, cab := range data.Cabinets {
		r.printCabinet(cab)
	}

	return nil
}

func (r *TextReporter) printCabinet(cab CabinetReport) {
	fmt.Fprintf(r.writer, "Cabinet: %s\n", cab.Cabinet)
	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("=", 50))

	r.printSummary(cab.Summary)

	byTarget := make(map[string]*analyzer.FileAnalysis, len(cab.Files))
	for _, fa := range cab.Files {
		byTarget[fa.Target] = fa
	}

	// Comment orphans: the reason this tool exists. Full occurrence detail
	// so the operator can judge each referencing line.
	if len(cab.Summary.CommentOrphans) > 0 {
		fmt.Fprintf(r.writer, "%s\n", color.RedString("Comment Orphans"))
		fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 50))
		for _, target := range cab.Summary.CommentOrphans {
			fa := byTarget[target]
			fmt.Fprintf(r.writer, "  %s: %s (commented: %d)\n",
				color.RedString("[COMMENT_ORPHAN]"), target, fa.CommentCount)
			r.printOccurrences(fa)
		}
		fmt.Fprintf(r.writer, "\n")
	}

	if len(cab.Summary.MixedTargets) > 0 {
		fmt.Fprintf(r.writer, "%s\n", color.YellowString("Mixed References"))
		fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 50))
		for _, target := range cab.Summary.MixedTargets {
			fa := byTarget[target]
			fmt.Fprintf(r.writer, "  %s: %s (active: %d, commented: %d)\n",
				color.YellowString("[MIXED]"), target, fa.ActiveCount, fa.CommentCount)
			r.printOccurrences(fa)
		}
		fmt.Fprintf(r.writer, "\n")
	}

	if len(cab.Summary.Unreferenced) > 0 {
		fmt.Fprintf(r.writer, "%s\n", color.MagentaString("Unreferenced Files"))
		fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 50))
		for _, target := range cab.Summary.Unreferenced {
			fmt.Fprintf(r.writer, "  %s: %s\n",
				color.MagentaString("[UNREFERENCED]"), target)
		}
		fmt.Fprintf(r.writer, "\n")
	}

	if cab.Summary.ActiveTargets > 0 {
		fmt.Fprintf(r.writer, "%s\n\n",
			color.GreenString("Active Files: %d", cab.Summary.ActiveTargets))
	}
}

func (r *TextReporter) printSummary(summary analyzer.Summary) {
	fmt.Fprintf(r.writer, "Total Target Files: %d\n", summary.TotalTargets)
	fmt.Fprintf(r.writer, "Active: %d\n", summary.ActiveTargets)

	if len(summary.CommentOrphans) > 0 {
		fmt.Fprintf(r.writer, "%s: %d\n",
			color.RedString("Comment Orphans"), len(summary.CommentOrphans))
	}
	if len(summary.MixedTargets) > 0 {
		fmt.Fprintf(r.writer, "%s: %d\n",
			color.YellowString("Mixed"), len(summary.MixedTargets))
	}
	if len(summary.Unreferenced) > 0 {
		fmt.Fprintf(r.writer, "%s: %d\n",
			color.MagentaString("Unreferenced"), len(summary.Unreferenced))
	}
	fmt.Fprintf(r.writer, "\n")
}

func (r *TextReporter) printOccurrences(fa *analyzer.FileAnalysis) {
	for _, occ := range fa.Occurrences {
		marker := ""
		if occ.Commented {
			marker = " (commented)"
		}
		fmt.Fprintf(r.writer, "    L%d in %s%s: %s\n", occ.Line, occ.File, marker, occ.Text)
	}
}
