package types

// Clip is a source clip available to the selector. Duration is in seconds.
type Clip struct {
	ID       string
	Path     string
	Duration float64
}

type Selection struct {
	ClipID string
	Path   string
	Start  float64
	End    float64
}

func (s Selection) Length() float64 { return s.End - s.Start }

// EditList is played back in slice order.
type EditList []Selection

func (l EditList) Total() float64 {
	var sum float64
	for _, s := range l {
		sum += s.Length()
	}
	return sum
}

// Budget limits an edit list. A nil field is unbounded.
type Budget struct {
	MaxTotalSeconds *float64
	MaxClips        *int
}

type Manifest struct {
	InputDir   string              `json:"input_dir"`
	Audio      string              `json:"audio,omitempty"`
	TempoBPM   float64             `json:"tempo_bpm"`
	Randomize  bool                `json:"randomize"`
	Seed       uint64              `json:"seed"`
	Candidates int                 `json:"candidates"`
	TotalSec   float64             `json:"total_sec"`
	Output     string              `json:"output,omitempty"`
	Selections []ManifestSelection `json:"selections"`
}

type ManifestSelection struct {
	ID       string  `json:"id"`
	Clip     string  `json:"clip"`
	File     string  `json:"file"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Beats    int     `json:"beats"`
}

// RenderSettings controls the encoded output of every segment.
type RenderSettings struct {
	Width   int
	Height  int
	FPS     int
	Threads int
	CRF     int
	Preset  string
}
