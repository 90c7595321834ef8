package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "beatcut <clips-dir>",
		Short:        "Cut a beat-synced montage from a directory of MP4 clips",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().StringP("audio", "a", "", "Audio file for the montage")
	root.Flags().Float64P("tempo", "t", 0, "Tempo of the audio file in BPM")
	root.Flags().StringP("out", "o", "out", "Output directory for output.mp4")
	root.Flags().Bool("randomize", false, "Pick clips in random order")
	root.Flags().Float64("max-length", 0, "Maximum montage length in seconds")
	root.Flags().Int("max-clips", 0, "Maximum number of clips to use")
	root.Flags().Uint64("seed", 0, "Random seed for a reproducible edit")
	root.Flags().Bool("dry-run", false, "Print the edit list without rendering")
	root.Flags().String("config", "", "Path to a TOML config file (default ./beatcut.toml)")
	_ = root.MarkFlagRequired("tempo")

	return root
}
