package montage

import (
	"math"

	"github.com/forPelevin/beatcut/internal/types"
)

// maxBeatPairs caps a single selection at 8 beats however long the clip is.
const maxBeatPairs = 4

// Rand is the randomness Select draws from. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type RejectReason string

const (
	RejectTooShort  RejectReason = "shorter than two beats"
	RejectOvershoot RejectReason = "beat length exceeds clip"
)

type Options struct {
	TempoBPM  float64
	Randomize bool
	Budget    types.Budget

	// OnReject, if set, is called for every clip dropped from the pool
	// without producing a selection.
	OnReject func(c types.Clip, reason RejectReason)
}

// Pool is the working set of candidates. Removal keeps the order of the
// remaining clips.
type Pool struct {
	clips []types.Clip
}

func NewPool(clips []types.Clip) *Pool {
	return &Pool{clips: append([]types.Clip(nil), clips...)}
}

func (p *Pool) Len() int { return len(p.clips) }

// Take removes and returns the clip at index i.
func (p *Pool) Take(i int) types.Clip {
	c := p.clips[i]
	p.clips = append(p.clips[:i], p.clips[i+1:]...)
	return c
}

// Select builds a beat-aligned edit list from clips. Every clip is
// considered at most once; clips that cannot hold two beats are skipped.
// An empty result is not an error.
func Select(clips []types.Clip, opts Options, rng Rand) (types.EditList, error) {
	sbp, err := SecondsPerBeat(opts.TempoBPM)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, ErrNoRand
	}

	pool := NewPool(clips)
	var (
		out   types.EditList
		total float64
	)
	for pool.Len() > 0 {
		if budgetSpent(opts.Budget, total, len(out)) {
			break
		}

		i := 0
		if opts.Randomize {
			i = rng.IntN(pool.Len())
		}
		c := pool.Take(i)

		maxPairs := int(math.Min(math.Floor(c.Duration/sbp/2), maxBeatPairs))
		if maxPairs < 2 {
			reject(opts, c, RejectTooShort)
			continue
		}

		numBeats := (1 + rng.IntN(maxPairs)) * 2
		target := sbp * float64(numBeats)
		if target > c.Duration {
			reject(opts, c, RejectOvershoot)
			continue
		}

		start := rng.Float64() * (c.Duration - target)
		total += target
		out = append(out, types.Selection{
			ClipID: c.ID,
			Path:   c.Path,
			Start:  start,
			End:    start + target,
		})
	}
	return out, nil
}

func budgetSpent(b types.Budget, total float64, n int) bool {
	if b.MaxTotalSeconds != nil && total >= *b.MaxTotalSeconds {
		return true
	}
	return b.MaxClips != nil && n >= *b.MaxClips
}

func reject(opts Options, c types.Clip, reason RejectReason) {
	if opts.OnReject != nil {
		opts.OnReject(c, reason)
	}
}
