package commands

import (
	"fmt"
	"path/filepath"

	"github.com/ppiankov/refspectre/internal/catalog"
	"github.com/spf13/cobra"
)

var targetsFlags struct {
	projectDir string
	objectsDir string
	extension  string
}

var targetsCmd = &cobra.Command{
	Use:   "targets [CABINET...]",
	Short: "List the object files that a scan would classify",
	Long: `Enumerates the target catalog per cabinet without scanning anything.
Useful for verifying --project/--objects paths and cabinet names before
a full run.`,
	RunE: runTargets,
}

func init() {
	targetsCmd.Flags().StringVarP(&targetsFlags.projectDir, "project", "p", ".", "Path to the panel project root")
	targetsCmd.Flags().StringVar(&targetsFlags.objectsDir, "objects", "panels/objects", "Objects directory, relative to the project root")
	targetsCmd.Flags().StringVar(&targetsFlags.extension, "ext", ".xml", "Markup file extension")
}

func runTargets(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Lookup("objects").Changed && cfg.ObjectsDir != "" {
		targetsFlags.objectsDir = cfg.ObjectsDir
	}
	if !cmd.Flags().Lookup("ext").Changed && cfg.Extension != "" {
		targetsFlags.extension = cfg.Extension
	}

	objectsRoot := resolveDir(targetsFlags.projectDir, targetsFlags.objectsDir)

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

	for _, cabinet := range cabinets {
		targetRoot := filepath.Join(objectsRoot, cabinetDirPrefix+cabinet)
		targets, err := catalog.ListTargets(targetRoot, targetsFlags.extension)
		if err != nil {
			return enhanceError("target enumeration", err)
		}

		fmt.Printf("%s: %d target files\n", cabinet, len(targets))
		for _, t := range targets {
			fmt.Printf("  %s\n", t.Rel)
		}
	}

	return nil
}
