package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/forPelevin/beatcut/internal/types"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "beatcut.toml"

// Render contains output encoding settings.
type Render struct {
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	FPS     int    `toml:"fps"`
	Threads int    `toml:"threads"`
	CRF     int    `toml:"crf"`
	Preset  string `toml:"preset"`
}

// Tools contains external binary locations.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	// ProbeWorkers bounds concurrent ffprobe calls.
	ProbeWorkers int `toml:"probe_workers"`
}

type Paths struct {
	CacheDir string `toml:"cache_dir"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config holds settings that rarely change between runs. Per-run choices
// (tempo, budgets, randomize) are command-line flags.
type Config struct {
	Render  Render  `toml:"render"`
	Tools   Tools   `toml:"tools"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
}

// RenderSettings converts the [render] section for the video adapter.
func (c *Config) RenderSettings() types.RenderSettings {
	return types.RenderSettings{
		Width:   c.Render.Width,
		Height:  c.Render.Height,
		FPS:     c.Render.FPS,
		Threads: c.Render.Threads,
		CRF:     c.Render.CRF,
		Preset:  c.Render.Preset,
	}
}

// Load reads path (or DefaultFileName when empty), applies BEATCUT_*
// environment overrides and validates the result. A missing file is not an
// error; defaults are used. It returns the resolved path and whether the
// file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolvePath(path string) (string, bool, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return abs, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config %s is a directory", abs)
	}
	return abs, true, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&c.Tools.FFmpeg, "BEATCUT_FFMPEG")
	setString(&c.Tools.FFprobe, "BEATCUT_FFPROBE")
	setString(&c.Paths.CacheDir, "BEATCUT_CACHE_DIR")
	setString(&c.Logging.Level, "BEATCUT_LOG_LEVEL")
	setString(&c.Logging.Format, "BEATCUT_LOG_FORMAT")
}

func (c *Config) normalize() {
	c.Render.Preset = strings.ToLower(strings.TrimSpace(c.Render.Preset))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	c.Paths.CacheDir = strings.TrimSpace(c.Paths.CacheDir)
}
