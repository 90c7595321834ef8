package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/beatcut/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ProbeDuration(ctx context.Context, inMP4 string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inMP4,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

// RenderSegment cuts [start, end) out of inMP4, scales it to the output
// frame and drops its audio.
func (a *Adapter) RenderSegment(ctx context.Context, inMP4 string, start, end time.Duration, outMP4 string, rs types.RenderSettings) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, segmentArgs(inMP4, start, end, outMP4, rs)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render segment: %w\n%s", err, string(b))
	}
	return nil
}

// Concat joins already-encoded parts with the concat demuxer. All parts must
// share codec parameters, which RenderSegment guarantees.
func (a *Adapter) Concat(ctx context.Context, parts []string, outMP4 string) error {
	if len(parts) == 0 {
		return fmt.Errorf("ffmpeg concat: no parts")
	}
	listPath := strings.TrimSuffix(outMP4, filepath.Ext(outMP4)) + ".concat.txt"
	if err := os.WriteFile(listPath, []byte(concatList(parts)), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outMP4,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg concat: %w\n%s", err, string(b))
	}
	return nil
}

// MuxAudio replaces the audio of inMP4 with the first length of audio.
func (a *Adapter) MuxAudio(ctx context.Context, inMP4, audio string, length time.Duration, outMP4 string, rs types.RenderSettings) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, muxArgs(inMP4, audio, length, outMP4, rs)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg mux audio: %w\n%s", err, string(b))
	}
	return nil
}

func segmentArgs(inMP4 string, start, end time.Duration, outMP4 string, rs types.RenderSettings) []string {
	vf := fmt.Sprintf("scale=%d:%d,setsar=1,fps=%d", rs.Width, rs.Height, rs.FPS)
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", inMP4,
		"-vf", vf,
		"-an",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-preset", rs.Preset,
		"-crf", strconv.Itoa(rs.CRF),
	}
	if rs.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(rs.Threads))
	}
	return append(args, outMP4)
}

func muxArgs(inMP4, audio string, length time.Duration, outMP4 string, rs types.RenderSettings) []string {
	args := []string{
		"-y",
		"-i", inMP4,
		"-i", audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-t", fmtSeconds(length),
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
	}
	if rs.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(rs.Threads))
	}
	return append(args, outMP4)
}

func concatList(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
