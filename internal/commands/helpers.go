package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/refspectre/internal/catalog"
	"github.com/ppiankov/refspectre/internal/report"
)

func printStatus(format string, args ...interface{}) {
	slog.Info(fmt.Sprintf(format, args...))
}

// enhanceError enhances an error with additional context and helpful suggestions
func enhanceError(operation string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, catalog.ErrTargetDirNotFound) {
		return fmt.Errorf("%s failed: Object directory not found.\n"+
			"Solutions:\n"+
			"  - Check the --project and --objects paths\n"+
			"  - Check the cabinet name: the tool expects objects_<CABINET> under the objects root\n"+
			"Original error: %w", operation, err)
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "permission denied") {
		return fmt.Errorf("%s failed: Permission denied.\n"+
			"Solutions:\n"+
			"  - Ensure the project tree is readable by the current user\n"+
			"Original error: %w", operation, err)
	}

	if strings.Contains(errMsg, "no such file or directory") {
		return fmt.Errorf("%s failed: Path not found.\n"+
			"Solutions:\n"+
			"  - Check the --project path is correct\n"+
			"  - Ensure the directory exists and is readable\n"+
			"Original error: %w", operation, err)
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

func selectReporter(format string, writer io.Writer) (report.Reporter, error) {
	switch format {
	case "json":
		return report.NewJSONReporter(writer), nil
	case "sarif":
		return report.NewSARIFReporter(writer), nil
	case "hub":
		return report.NewHubReporter(writer), nil
	case "text":
		return report.NewTextReporter(writer), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: text, json, sarif, hub)", format)
	}
}

// resolveDir joins dir onto the project root unless dir is absolute.
func resolveDir(projectDir, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(projectDir, dir)
}

const cabinetDirPrefix = "objects_"

// discoverCabinets lists cabinet names from objects_<NAME> directories
// under the objects root.
func discoverCabinets(objectsRoot string) ([]string, error) {
	entries, err := os.ReadDir(objectsRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalog.ErrTargetDirNotFound, objectsRoot)
	}
	var cabinets []string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), cabinetDirPrefix) {
			continue
		}
		cabinets = append(cabinets, strings.TrimPrefix(e.Name(), cabinetDirPrefix))
	}
	sort.Strings(cabinets)
	return cabinets, nil
}
