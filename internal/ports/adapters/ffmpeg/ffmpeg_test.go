package ffmpeg

import (
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/beatcut/internal/types"
)

var testSettings = types.RenderSettings{Width: 1080, Height: 1920, FPS: 30, Threads: 8, CRF: 18, Preset: "veryfast"}

func TestSegmentArgs(t *testing.T) {
	args := segmentArgs("in.mp4", 1500*time.Millisecond, 3500*time.Millisecond, "out.mp4", testSettings)
	got := strings.Join(args, " ")
	for _, want := range []string{
		"-ss 1.500 -to 3.500 -i in.mp4",
		"-vf scale=1080:1920,setsar=1,fps=30",
		"-an",
		"-preset veryfast -crf 18",
		"-threads 8",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected args to contain %q, got: %s", want, got)
		}
	}
	if args[len(args)-1] != "out.mp4" {
		t.Fatalf("expected output last, got %q", args[len(args)-1])
	}
}

func TestSegmentArgs_NoThreads(t *testing.T) {
	rs := testSettings
	rs.Threads = 0
	got := strings.Join(segmentArgs("in.mp4", 0, time.Second, "out.mp4", rs), " ")
	if strings.Contains(got, "-threads") {
		t.Fatalf("expected no -threads flag, got: %s", got)
	}
}

func TestMuxArgs_TrimsAudioToLength(t *testing.T) {
	got := strings.Join(muxArgs("video.mp4", "song.mp3", 12*time.Second, "output.mp4", testSettings), " ")
	for _, want := range []string{
		"-i video.mp4 -i song.mp3",
		"-map 0:v:0 -map 1:a:0",
		"-t 12.000",
		"-c:v copy",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected args to contain %q, got: %s", want, got)
		}
	}
}

func TestConcatList_EscapesQuotes(t *testing.T) {
	got := concatList([]string{"/tmp/a.mp4", "/tmp/it's.mp4"})
	want := "file '/tmp/a.mp4'\nfile '/tmp/it'\\''s.mp4'\n"
	if got != want {
		t.Fatalf("concatList = %q, want %q", got, want)
	}
}

func TestFmtSeconds(t *testing.T) {
	if got := fmtSeconds(61*time.Second + 234*time.Millisecond); got != "61.234" {
		t.Fatalf("fmtSeconds = %s", got)
	}
}
