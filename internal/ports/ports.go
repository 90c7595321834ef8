package ports

import (
	"context"
	"time"

	"github.com/forPelevin/beatcut/internal/types"
)

type VideoTool interface {
	ProbeDuration(ctx context.Context, inMP4 string) (time.Duration, error)
	RenderSegment(ctx context.Context, inMP4 string, start, end time.Duration, outMP4 string, rs types.RenderSettings) error
	Concat(ctx context.Context, parts []string, outMP4 string) error
	MuxAudio(ctx context.Context, inMP4, audio string, length time.Duration, outMP4 string, rs types.RenderSettings) error
}

// DurationCache remembers probed durations keyed by file identity.
type DurationCache interface {
	Get(ctx context.Context, key FileKey) (time.Duration, bool, error)
	Put(ctx context.Context, key FileKey, d time.Duration) error
}

type FileKey struct {
	Path    string
	Size    int64
	ModTime time.Time
}
