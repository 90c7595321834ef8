package config

const (
	defaultWidth        = 1080
	defaultHeight       = 1920
	defaultFPS          = 30
	defaultThreads      = 8
	defaultCRF          = 18
	defaultPreset       = "veryfast"
	defaultFFmpeg       = "ffmpeg"
	defaultFFprobe      = "ffprobe"
	defaultProbeWorkers = 4
	defaultCacheDir     = ".cache"
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Render: Render{
			Width:   defaultWidth,
			Height:  defaultHeight,
			FPS:     defaultFPS,
			Threads: defaultThreads,
			CRF:     defaultCRF,
			Preset:  defaultPreset,
		},
		Tools: Tools{
			FFmpeg:       defaultFFmpeg,
			FFprobe:      defaultFFprobe,
			ProbeWorkers: defaultProbeWorkers,
		},
		Paths: Paths{
			CacheDir: defaultCacheDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
