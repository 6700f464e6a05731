package effect

import "github.com/linuxmatters/jivecut/internal/audio"

// Normalize scales the buffer so its peak sits at full scale. Silent buffers
// pass through unchanged.
type Normalize struct {
	bypass
}

func NewNormalize() *Normalize {
	return &Normalize{}
}

func (n *Normalize) Name() string {
	return "Normalize"
}

func (n *Normalize) Process(buf *audio.Buffer) {
	if !n.Enabled() {
		return
	}
	buf.Normalize()
}
