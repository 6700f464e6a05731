package effect

import "github.com/linuxmatters/jivecut/internal/audio"

// FadeDirection selects which end of the buffer a Fade shapes
type FadeDirection int

const (
	FadeIn FadeDirection = iota
	FadeOut
)

// Fade applies a linear ramp over the first (FadeIn) or last (FadeOut)
// frames of a buffer. A fade longer than the buffer covers the whole buffer.
type Fade struct {
	bypass
	direction FadeDirection
	frames    int
}

// NewFade creates a fade over frames frames. Negative lengths become 0.
func NewFade(direction FadeDirection, frames int) *Fade {
	return &Fade{direction: direction, frames: max(frames, 0)}
}

func (f *Fade) Name() string {
	if f.direction == FadeOut {
		return "Fade Out"
	}
	return "Fade In"
}

// Frames returns the ramp length
func (f *Fade) Frames() int {
	return f.frames
}

func (f *Fade) Process(buf *audio.Buffer) {
	if !f.Enabled() {
		return
	}

	n := min(f.frames, buf.Frames())
	if n == 0 {
		return
	}

	first := 0
	if f.direction == FadeOut {
		first = buf.Frames() - n
	}

	for i := 0; i < n; i++ {
		var level float32
		if f.direction == FadeIn {
			level = float32(i) / float32(n)
		} else {
			level = float32(n-1-i) / float32(n)
		}

		frame := first + i
		for ch := 0; ch < buf.Channels(); ch++ {
			buf.SetSample(frame, ch, buf.Sample(frame, ch)*level)
		}
	}
}
