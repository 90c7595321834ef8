package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/beatcut/internal/clipdir"
	"github.com/forPelevin/beatcut/internal/domain/montage"
	"github.com/forPelevin/beatcut/internal/ports"
	"github.com/forPelevin/beatcut/internal/types"
)

type Deps struct {
	Video ports.VideoTool
	// Cache is optional.
	Cache ports.DurationCache
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Clips  []string
	Audio  string
	Select montage.Options
	Rand   montage.Rand
	Render types.RenderSettings

	ProbeWorkers int
	WorkDir      string
	Output       string
	DryRun       bool

	// Progress receives a render progress bar when non-nil.
	Progress io.Writer
	Logf     func(format string, args ...any)
	// Debugf receives per-clip skip decisions. Nil discards them.
	Debugf func(format string, args ...any)
}

type Result struct {
	EditList types.EditList
	Manifest types.Manifest
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	debugf := in.Debugf
	if debugf == nil {
		debugf = func(string, ...any) {}
	}

	sbp, err := montage.SecondsPerBeat(in.Select.TempoBPM)
	if err != nil {
		return Result{}, err
	}
	if in.Rand == nil {
		return Result{}, montage.ErrNoRand
	}

	clips, err := u.probeAll(ctx, in.Clips, in.ProbeWorkers, logf)
	if err != nil {
		return Result{}, err
	}

	opts := in.Select
	if opts.OnReject == nil {
		opts.OnReject = func(c types.Clip, reason montage.RejectReason) {
			debugf("skipping %s (%.2fs): %s", c.ID, c.Duration, reason)
		}
	}
	edits, err := montage.Select(clips, opts, in.Rand)
	if err != nil {
		return Result{}, err
	}
	if len(edits) == 0 {
		return Result{}, fmt.Errorf("%w from %d candidates", montage.ErrEmptyPool, len(clips))
	}

	m := types.Manifest{
		Audio:      in.Audio,
		TempoBPM:   in.Select.TempoBPM,
		Randomize:  in.Select.Randomize,
		Candidates: len(clips),
		TotalSec:   edits.Total(),
	}
	for i, s := range edits {
		m.Selections = append(m.Selections, types.ManifestSelection{
			ID:       fmt.Sprintf("%03d", i+1),
			Clip:     s.ClipID,
			File:     s.Path,
			StartSec: s.Start,
			EndSec:   s.End,
			Beats:    montage.Beats(s.Length(), sbp),
		})
	}
	res := Result{EditList: edits, Manifest: m}
	if in.DryRun {
		return res, nil
	}

	logf("now editing %d clips, this may take a moment", len(edits))
	parts, err := u.renderParts(ctx, in, edits, logf)
	if err != nil {
		return Result{}, err
	}

	joined := filepath.Join(in.WorkDir, "montage.mp4")
	if err := u.d.Video.Concat(ctx, parts, joined); err != nil {
		return Result{}, err
	}
	logf("overwriting audio of output file")
	if err := u.d.Video.MuxAudio(ctx, joined, in.Audio, seconds(edits.Total()), in.Output, in.Render); err != nil {
		return Result{}, err
	}
	res.Manifest.Output = in.Output
	return res, nil
}

// probeAll resolves durations for paths, keeping their order. Clips that
// fail to probe or report no duration are dropped; only cancellation of ctx
// aborts the scan.
func (u Usecase) probeAll(ctx context.Context, paths []string, workers int, logf func(string, ...any)) ([]types.Clip, error) {
	if workers <= 0 {
		workers = 1
	}
	durs := make([]time.Duration, len(paths))
	errs := make([]error, len(paths))

	var mu sync.Mutex
	syncLogf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		logf(format, args...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		g.Go(func() error {
			d, err := u.probe(gctx, p, syncLogf)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
				return nil
			}
			durs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	clips := make([]types.Clip, 0, len(paths))
	for i, p := range paths {
		if errs[i] != nil {
			logf("skipping %s: %v", clipdir.ID(p), errs[i])
			continue
		}
		if durs[i] <= 0 {
			logf("skipping %s: no duration", clipdir.ID(p))
			continue
		}
		clips = append(clips, types.Clip{ID: clipdir.ID(p), Path: p, Duration: durs[i].Seconds()})
	}
	return clips, nil
}

func (u Usecase) probe(ctx context.Context, path string, logf func(string, ...any)) (time.Duration, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat clip: %w", err)
	}
	key := ports.FileKey{Path: path, Size: info.Size(), ModTime: info.ModTime()}

	if u.d.Cache != nil {
		d, ok, err := u.d.Cache.Get(ctx, key)
		if err != nil {
			logf("duration cache: %v", err)
		} else if ok {
			return d, nil
		}
	}

	d, err := u.d.Video.ProbeDuration(ctx, path)
	if err != nil {
		return 0, err
	}
	if u.d.Cache != nil {
		if err := u.d.Cache.Put(ctx, key, d); err != nil {
			logf("duration cache: %v", err)
		}
	}
	return d, nil
}

func (u Usecase) renderParts(ctx context.Context, in Input, edits types.EditList, logf func(string, ...any)) ([]string, error) {
	var bar *progressbar.ProgressBar
	if in.Progress != nil {
		bar = progressbar.NewOptions(len(edits),
			progressbar.OptionSetWriter(in.Progress),
			progressbar.OptionSetDescription("Rendering"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		)
	}

	parts := make([]string, 0, len(edits))
	for i, s := range edits {
		logf("%s (%.1f -> %.1f)", s.ClipID, s.Start, s.End)
		part := filepath.Join(in.WorkDir, fmt.Sprintf("part-%03d.mp4", i+1))
		if err := u.d.Video.RenderSegment(ctx, s.Path, seconds(s.Start), seconds(s.End), part, in.Render); err != nil {
			return nil, err
		}
		parts = append(parts, part)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return parts, nil
}

func seconds(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
