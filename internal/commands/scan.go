package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/refspectre/internal/analyzer"
	"github.com/ppiankov/refspectre/internal/baseline"
	"github.com/ppiankov/refspectre/internal/catalog"
	"github.com/ppiankov/refspectre/internal/report"
	"github.com/ppiankov/refspectre/internal/scanner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var scanFlags struct {
	projectDir         string
	objectsDir         string
	screensDir         string
	extension          string
	maxConcurrency     int
	strictComments     bool
	outputFormat       string
	outputFile         string
	failOnOrphans      bool
	failOnUnreferenced bool
	noProgress         bool
	timeout            time.Duration
	baselinePath       string
}

var scanCmd = &cobra.Command{
	Use:   "scan [CABINET...]",
	Short: "Scan the project and classify object file references",
	Long: `Scans every object file of the given cabinets (all cabinets when none are
named) against the cabinet's screen and object files, classifies each
occurrence as live or commented-out, and reports comment orphans: object
files whose only references are inside disabled markup.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFlags.projectDir, "project", "p", ".", "Path to the panel project root")
	scanCmd.Flags().StringVar(&scanFlags.objectsDir, "objects", "panels/objects", "Objects directory, relative to the project root")
	scanCmd.Flags().StringVar(&scanFlags.screensDir, "screens", "panels/vision/LCSMnemo", "Screens directory, relative to the project root")
	scanCmd.Flags().StringVar(&scanFlags.extension, "ext", ".xml", "Markup file extension")
	scanCmd.Flags().IntVar(&scanFlags.maxConcurrency, "concurrency", 8, "Max concurrent target scans")
	scanCmd.Flags().BoolVar(&scanFlags.strictComments, "strict-comments", false, "Track block comments across lines (changes classification)")
	scanCmd.Flags().StringVarP(&scanFlags.outputFormat, "format", "f", "text", "Output format: text, json, sarif, or hub")
	scanCmd.Flags().StringVarP(&scanFlags.outputFile, "output", "o", "", "Output file (default: stdout)")
	scanCmd.Flags().BoolVar(&scanFlags.failOnOrphans, "fail-on-orphans", false, "Exit with error if comment orphans found")
	scanCmd.Flags().BoolVar(&scanFlags.failOnUnreferenced, "fail-on-unreferenced", false, "Exit with error if unreferenced files found")
	scanCmd.Flags().BoolVar(&scanFlags.noProgress, "no-progress", false, "Disable progress indicators")
	scanCmd.Flags().DurationVar(&scanFlags.timeout, "timeout", 0, "Total operation timeout (e.g. 5m, 30s). 0 means no timeout")
	scanCmd.Flags().StringVar(&scanFlags.baselinePath, "baseline", "", "Path to previous JSON report for diff comparison")
}

func runScan(cmd *cobra.Command, args []string) error {
	// Apply config file defaults for flags not explicitly set
	applyConfigToScanFlags(cmd)

	ctx := context.Background()
	if scanFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scanFlags.timeout)
		defer cancel()
	}
	start := time.Now()

	// Check if we're running in a terminal (for progress indicators)
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	showProgress := isTTY && !scanFlags.noProgress

	objectsRoot := resolveDir(scanFlags.projectDir, scanFlags.objectsDir)
	screensRoot := resolveDir(scanFlags.projectDir, scanFlags.screensDir)

	cabinets := args
	if len(cabinets) == 0 {
		cabinets = cfg.Cabinets
	}
	if len(cabinets) == 0 {
		discovered, err := discoverCabinets(objectsRoot)
		if err != nil {
			return enhanceError("cabinet discovery", err)
		}
		cabinets = discovered
	}
	if len(cabinets) == 0 {
		return fmt.Errorf("no %s<CABINET> directories under %s", cabinetDirPrefix, objectsRoot)
	}
	printStatus("Scanning %d cabinet(s) in %s", len(cabinets), scanFlags.projectDir)

	ign := catalog.LoadIgnoreFile(scanFlags.projectDir)

	var cabReports []report.CabinetReport
	var warnings []string

	for _, cabinet := range cabinets {
		if err := ctx.Err(); err != nil {
			return enhanceError("scan", err)
		}

		targetRoot := filepath.Join(objectsRoot, cabinetDirPrefix+cabinet)
		targets, err := catalog.ListTargets(targetRoot, scanFlags.extension)
		if err != nil {
			return enhanceError("target enumeration", err)
		}
		printStatus("Cabinet %s: %d target files", cabinet, len(targets))

		screenDir := filepath.Join(screensRoot, cabinet)
		corpus := catalog.LoadCorpus(targetRoot, []string{screenDir},
			scanFlags.extension, scanFlags.projectDir, ign)
		warnings = append(warnings, corpus.Warnings...)
		printStatus("Cabinet %s: %d corpus files", cabinet, len(corpus.Files))

		refScanner := scanner.NewRefScanner(corpus, scanFlags.maxConcurrency)
		refScanner.SetStrictComments(scanFlags.strictComments)
		if showProgress {
			refScanner.SetProgressCallback(func(current, total int, message string) {
				slog.Debug("Scan progress",
					slog.Int("current", current),
					slog.Int("total", total),
					slog.String("message", message))
			})
		}

		results, err := refScanner.ScanAll(ctx, targets)
		if err != nil {
			return enhanceError("reference scan", err)
		}

		analysis := analyzer.Analyze(results)
		cabReports = append(cabReports, report.CabinetReport{
			Cabinet:     cabinet,
			ObjectsRoot: displayDir(scanFlags.projectDir, targetRoot),
			Summary:     analysis.Summary,
			Files:       analysis.Files,
		})
	}

	for _, w := range warnings {
		slog.Warn(w)
	}

	reportData := report.Data{
		Tool:      "refspectre",
		Version:   GetVersion(),
		Timestamp: time.Now(),
		Config: report.Config{
			ProjectDir:     scanFlags.projectDir,
			ObjectsDir:     scanFlags.objectsDir,
			ScreensDir:     scanFlags.screensDir,
			Extension:      scanFlags.extension,
			StrictComments: scanFlags.strictComments,
		},
		Cabinets: cabReports,
		Warnings: warnings,
	}

	// Determine output writer
	writer := os.Stdout
	if scanFlags.outputFile != "" {
		f, err := os.Create(scanFlags.outputFile)
		if err != nil {
			return enhanceError("output file creation", err)
		}
		defer func() { _ = f.Close() }()
		writer = f
	}

	reporter, err := selectReporter(scanFlags.outputFormat, writer)
	if err != nil {
		return err
	}
	if err := reporter.Generate(reportData); err != nil {
		return enhanceError("report generation", err)
	}

	// Baseline comparison
	if scanFlags.baselinePath != "" {
		currentFindings := baseline.FlattenFindings(reportData)
		baselineFindings, err := baseline.Load(scanFlags.baselinePath)
		if err != nil {
			return enhanceError("baseline load", err)
		}
		diff := baseline.Diff(currentFindings, baselineFindings)
		slog.Info("Baseline comparison",
			slog.Int("new", len(diff.New)),
			slog.Int("resolved", len(diff.Resolved)),
			slog.Int("unchanged", len(diff.Unchanged)),
		)
	}

	totalTargets := 0
	totalOrphans := 0
	totalUnreferenced := 0
	for _, cab := range cabReports {
		totalTargets += cab.Summary.TotalTargets
		totalOrphans += len(cab.Summary.CommentOrphans)
		totalUnreferenced += len(cab.Summary.Unreferenced)
	}
	slog.Info("Scan complete",
		slog.Int("cabinet_count", len(cabReports)),
		slog.Int("target_count", totalTargets),
		slog.Int("comment_orphan_count", totalOrphans),
		slog.Int("unreferenced_count", totalUnreferenced),
		slog.Duration("duration", time.Since(start)),
	)

	// Check exit conditions. Findings are a reporting outcome by default,
	// not a failure.
	if scanFlags.failOnOrphans && totalOrphans > 0 {
		return fmt.Errorf("found %d comment orphans", totalOrphans)
	}
	if scanFlags.failOnUnreferenced && totalUnreferenced > 0 {
		return fmt.Errorf("found %d unreferenced files", totalUnreferenced)
	}

	return nil
}

func applyConfigToScanFlags(cmd *cobra.Command) {
	if !cmd.Flags().Lookup("objects").Changed && cfg.ObjectsDir != "" {
		scanFlags.objectsDir = cfg.ObjectsDir
	}
	if !cmd.Flags().Lookup("screens").Changed && cfg.ScreensDir != "" {
		scanFlags.screensDir = cfg.ScreensDir
	}
	if !cmd.Flags().Lookup("ext").Changed && cfg.Extension != "" {
		scanFlags.extension = cfg.Extension
	}
	if !cmd.Flags().Lookup("concurrency").Changed && cfg.Concurrency > 0 {
		scanFlags.maxConcurrency = cfg.Concurrency
	}
	if !cmd.Flags().Lookup("format").Changed && cfg.Format != "" {
		scanFlags.outputFormat = cfg.Format
	}
	if !cmd.Flags().Lookup("strict-comments").Changed && cfg.StrictComments {
		scanFlags.strictComments = true
	}
	if !cmd.Flags().Lookup("timeout").Changed {
		if d := cfg.TimeoutDuration(); d > 0 {
			scanFlags.timeout = d
		}
	}
}

// displayDir renders dir relative to the project root for report output.
func displayDir(projectDir, dir string) string {
	rel, err := filepath.Rel(projectDir, dir)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	return filepath.ToSlash(rel)
}
