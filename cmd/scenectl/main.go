package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/animakit/scenectl/internal/domain"
	"github.com/animakit/scenectl/internal/logging"
)

var (
	configPath string
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "scenectl [scene|all] [quality]",
		Short: "scenectl - Manim scene render orchestrator",
		Long: `scenectl discovers Manim scenes in a project and drives the manim engine
to render them. With no arguments it lists the discovered scenes; given a
scene name (or "all") and an optional quality token (l, m, h, k) it renders
the selection, continuing past scene-local failures in a batch.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
		RunE: runRoot,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds to the process exit status: 3 for a missing
// scene, 2 for a batch that completed with failures, 130 for an interrupted
// run, and 1 for discovery/configuration errors.
func exitCode(err error) int {
	var unknownScene *domain.UnknownSceneError
	if errors.As(err, &unknownScene) {
		return 3
	}
	var failed *batchFailedError
	if errors.As(err, &failed) {
		return 2
	}
	if errors.Is(err, errAborted) {
		return 130
	}
	return 1
}
