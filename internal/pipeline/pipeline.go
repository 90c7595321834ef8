package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/forPelevin/beatcut/internal/clipdir"
	"github.com/forPelevin/beatcut/internal/domain/montage"
	"github.com/forPelevin/beatcut/internal/ports"
	"github.com/forPelevin/beatcut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/beatcut/internal/ports/adapters/sqlitecache"
	"github.com/forPelevin/beatcut/internal/types"
	"github.com/forPelevin/beatcut/internal/usecase"
)

const (
	outputName   = "output.mp4"
	manifestName = "manifest.json"
	lockName     = ".beatcut.lock"
)

type Config struct {
	ClipsDir  string
	AudioPath string
	OutDir    string

	TempoBPM  float64
	Randomize bool
	// MaxLength is in seconds. Nil fields are unbounded.
	MaxLength *float64
	MaxClips  *int
	// Seed makes a run reproducible. A random seed is drawn when nil.
	Seed *uint64

	DryRun bool
	Render types.RenderSettings
	Logf   func(format string, args ...any)
	// Debugf receives per-clip skip decisions; nil discards them.
	Debugf func(format string, args ...any)

	// Stdout receives the edit list table; nil discards it.
	Stdout io.Writer
	// Progress receives the render progress bar; nil disables it.
	Progress io.Writer

	// CacheDir is the base directory for the duration cache and per-run
	// work files. If empty, defaults to ".cache".
	CacheDir string

	FFmpegPath   string
	FFprobePath  string
	ProbeWorkers int
}

func (c Config) Validate() error {
	if c.ClipsDir == "" {
		return errors.New("clips directory is empty")
	}
	info, err := os.Stat(c.ClipsDir)
	if err != nil {
		return fmt.Errorf("stat clips directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", c.ClipsDir)
	}
	if _, err := montage.SecondsPerBeat(c.TempoBPM); err != nil {
		return err
	}
	if c.MaxLength != nil && *c.MaxLength <= 0 {
		return errors.New("max length must be > 0")
	}
	if c.MaxClips != nil && *c.MaxClips <= 0 {
		return errors.New("max clips must be > 0")
	}
	if c.DryRun {
		return nil
	}
	if c.AudioPath == "" {
		return errors.New("audio is required")
	}
	if _, err := os.Stat(c.AudioPath); err != nil {
		return fmt.Errorf("stat audio: %w", err)
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	paths, err := clipdir.Scan(cfg.ClipsDir)
	if err != nil {
		return err
	}
	logf("selecting clips from %d files in %s", len(paths), cfg.ClipsDir)

	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}

	deps := usecase.Deps{Video: ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)}
	cache, err := sqlitecache.Open(filepath.Join(baseCache, "probe.db"))
	if err != nil {
		logf("duration cache disabled: %v", err)
	} else {
		defer cache.Close()
		deps.Cache = cache
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	if !cfg.DryRun {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		lock := flock.New(filepath.Join(outDir, lockName))
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire output lock: %w", err)
		}
		if !ok {
			return fmt.Errorf("output directory %s is in use by another run", outDir)
		}
		defer func() { _ = lock.Unlock() }()
	}

	workDir := filepath.Join(baseCache, "runs", buildRunID(cfg.ClipsDir, uuid.NewString()))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return err
	}
	defer os.RemoveAll(workDir)
	logf("work dir: %s", workDir)

	seed := rand.Uint64()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	res, err := usecase.New(deps).Run(ctx, usecase.Input{
		Clips: paths,
		Audio: cfg.AudioPath,
		Select: montage.Options{
			TempoBPM:  cfg.TempoBPM,
			Randomize: cfg.Randomize,
			Budget:    types.Budget{MaxTotalSeconds: cfg.MaxLength, MaxClips: cfg.MaxClips},
		},
		Rand:         newRand(seed),
		Render:       cfg.Render,
		ProbeWorkers: cfg.ProbeWorkers,
		WorkDir:      workDir,
		Output:       filepath.Join(outDir, outputName),
		DryRun:       cfg.DryRun,
		Progress:     cfg.Progress,
		Logf:         logf,
		Debugf:       cfg.Debugf,
	})
	if err != nil {
		return err
	}
	res.Manifest.InputDir = cfg.ClipsDir
	res.Manifest.Seed = seed

	if cfg.Stdout != nil {
		fmt.Fprintln(cfg.Stdout, renderEditTable(res.Manifest))
	}
	if cfg.DryRun {
		logf("dry run: %d clips, %.2fs (seed %d)", len(res.EditList), res.EditList.Total(), seed)
		return nil
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(outDir, manifestName)
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	logf("wrote %s (%d clips, %.2fs)", res.Manifest.Output, len(res.EditList), res.EditList.Total())
	return nil
}

// newRand returns the single generator a run draws from.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func buildRunID(clipsDir, id string) string {
	name := normalizePathSegment(filepath.Base(filepath.Clean(clipsDir)))
	if name == "" {
		name = "clips"
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return name + "-" + id
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.DurationCache = (*sqlitecache.Cache)(nil)
