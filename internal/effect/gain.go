package effect

import "github.com/linuxmatters/jivecut/internal/audio"

// Gain scales every sample by a non-negative factor
type Gain struct {
	bypass
	gain float32
}

// NewGain creates a gain effect. Negative values are clamped to 0.
func NewGain(gain float32) *Gain {
	g := &Gain{}
	g.SetGain(gain)
	return g
}

func (g *Gain) Name() string {
	return "Gain"
}

// SetGain updates the factor. Negative values and NaN become 0.
func (g *Gain) SetGain(gain float32) {
	if !(gain > 0) {
		gain = 0
	}
	g.gain = gain
}

// Gain returns the current factor
func (g *Gain) Gain() float32 {
	return g.gain
}

func (g *Gain) Process(buf *audio.Buffer) {
	if !g.Enabled() {
		return
	}
	buf.ApplyGain(g.gain)
}
