package config

import (
	"errors"
	"fmt"
)

var allowedPresets = map[string]struct{}{
	"ultrafast": {},
	"superfast": {},
	"veryfast":  {},
	"faster":    {},
	"fast":      {},
	"medium":    {},
	"slow":      {},
	"slower":    {},
	"veryslow":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRender() error {
	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("render.width and render.height must be > 0, got %dx%d", r.Width, r.Height)
	}
	// libx264 with yuv420p rejects odd dimensions.
	if r.Width%2 != 0 || r.Height%2 != 0 {
		return fmt.Errorf("render.width and render.height must be even, got %dx%d", r.Width, r.Height)
	}
	if r.FPS <= 0 {
		return errors.New("render.fps must be > 0")
	}
	if r.Threads < 0 {
		return errors.New("render.threads must be >= 0")
	}
	if r.CRF < 0 || r.CRF > 51 {
		return errors.New("render.crf must be between 0 and 51")
	}
	if _, ok := allowedPresets[r.Preset]; !ok {
		return fmt.Errorf("render.preset %q is not a libx264 preset", r.Preset)
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.FFmpeg == "" {
		return errors.New("tools.ffmpeg must be set")
	}
	if c.Tools.FFprobe == "" {
		return errors.New("tools.ffprobe must be set")
	}
	if c.Tools.ProbeWorkers <= 0 {
		return errors.New("tools.probe_workers must be > 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
