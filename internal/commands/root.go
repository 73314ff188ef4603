package commands

import (
	"log/slog"

	"github.com/ppiankov/refspectre/internal/config"
	"github.com/ppiankov/refspectre/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	version string
	commit  string
	date    string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "refspectre",
	Short: "RefSpectre - panel project reference auditor",
	Long: `RefSpectre scans a WinCC OA style panel project for object files that are
only referenced from commented-out markup. It classifies every object file
as active, mixed, comment-orphan, or unreferenced, and reports the lines
behind each finding.

Part of the Spectre family of infrastructure cleanup tools.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		loaded, err := config.Load(".")
		if err != nil {
			slog.Warn("Failed to load config file", "error", err)
		} else {
			cfg = loaded
		}
	},
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

// GetVersion returns the current version.
func GetVersion() string {
	return version
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(versionCmd)
}
