// Package effect provides in-place buffer processors that share a common
// Effect contract, plus a chain and a name-based registry for building them
// from command-line strings.
package effect

import "github.com/linuxmatters/jivecut/internal/audio"

// Effect transforms a buffer in place. Process does nothing while the effect
// is disabled. Effects start enabled.
type Effect interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	Process(buf *audio.Buffer)
}

// bypass holds the enabled flag; the zero value is enabled
type bypass struct {
	bypassed bool
}

func (b *bypass) Enabled() bool {
	return !b.bypassed
}

func (b *bypass) SetEnabled(enabled bool) {
	b.bypassed = !enabled
}

// Toggle flips an effect between enabled and disabled and reports the new
// state.
func Toggle(e Effect) bool {
	e.SetEnabled(!e.Enabled())
	return e.Enabled()
}
