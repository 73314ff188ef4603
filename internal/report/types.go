package report

import (
	"time"

	"github.com/ppiankov/refspectre/internal/analyzer"
)

// Reporter interface for different report formats
type Reporter interface {
	Generate(data Data) error
}

// Data contains all report data for one run.
type Data struct {
	Tool      string          `json:"tool"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Config    Config          `json:"config"`
	Cabinets  []CabinetReport `json:"cabinets"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// CabinetReport holds one cabinet's classification results.
type CabinetReport struct {
	Cabinet string `json:"cabinet"`
	// ObjectsRoot is the cabinet's object directory, relative to the
	// project root. Target identifiers resolve against it.
	ObjectsRoot string                   `json:"objects_root"`
	Summary     analyzer.Summary         `json:"summary"`
	Files       []*analyzer.FileAnalysis `json:"files"`
}

// Config contains scan configuration echoed into the report.
type Config struct {
	ProjectDir     string `json:"project_dir"`
	ObjectsDir     string `json:"objects_dir"`
	ScreensDir     string `json:"screens_dir"`
	Extension      string `json:"extension"`
	StrictComments bool   `json:"strict_comments"`
}
