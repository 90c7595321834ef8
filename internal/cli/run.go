package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/forPelevin/beatcut/internal/config"
	"github.com/forPelevin/beatcut/internal/logging"
	"github.com/forPelevin/beatcut/internal/pipeline"
)

func run(cmd *cobra.Command, clipsDir string) error {
	configPath, _ := cmd.Flags().GetString("config")
	fileCfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  fileCfg.Logging.Level,
		Format: fileCfg.Logging.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	absDir, err := filepath.Abs(clipsDir)
	if err != nil {
		return err
	}

	cfg := pipeline.Config{
		ClipsDir: absDir,
		OutDir:   stringFlag(cmd, "out"),
		DryRun:   boolFlag(cmd, "dry-run"),
		Render:   fileCfg.RenderSettings(),
		Logf:     logging.Logf(logger),
		Debugf:   logging.Debugf(logger),
		Stdout:   cmd.OutOrStdout(),

		CacheDir:     fileCfg.Paths.CacheDir,
		FFmpegPath:   fileCfg.Tools.FFmpeg,
		FFprobePath:  fileCfg.Tools.FFprobe,
		ProbeWorkers: fileCfg.Tools.ProbeWorkers,
	}
	cfg.TempoBPM, _ = cmd.Flags().GetFloat64("tempo")
	cfg.Randomize = boolFlag(cmd, "randomize")
	if audio := stringFlag(cmd, "audio"); audio != "" {
		if cfg.AudioPath, err = filepath.Abs(audio); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("max-length") {
		v, _ := cmd.Flags().GetFloat64("max-length")
		cfg.MaxLength = &v
	}
	if cmd.Flags().Changed("max-clips") {
		v, _ := cmd.Flags().GetInt("max-clips")
		cfg.MaxClips = &v
	}
	if cmd.Flags().Changed("seed") {
		v, _ := cmd.Flags().GetUint64("seed")
		cfg.Seed = &v
	}
	if isTerminal(os.Stderr) {
		cfg.Progress = os.Stderr
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()
	return pipeline.Run(ctx, cfg)
}

func stringFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func boolFlag(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
