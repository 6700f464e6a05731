package effect

import (
	"strings"

	"github.com/linuxmatters/jivecut/internal/audio"
)

// Chain runs a fixed sequence of effects in order. Disabled members are
// skipped; disabling the chain skips all of them.
type Chain struct {
	bypass
	effects []Effect
}

func NewChain(effects ...Effect) *Chain {
	return &Chain{effects: effects}
}

// Append adds an effect to the end of the chain
func (c *Chain) Append(e Effect) {
	c.effects = append(c.effects, e)
}

// Effects returns the chain members in processing order
func (c *Chain) Effects() []Effect {
	return c.effects
}

func (c *Chain) Len() int {
	return len(c.effects)
}

// Name lists the member names in order, e.g. "Gain > Normalize"
func (c *Chain) Name() string {
	if len(c.effects) == 0 {
		return "Chain"
	}
	names := make([]string, len(c.effects))
	for i, e := range c.effects {
		names[i] = e.Name()
	}
	return strings.Join(names, " > ")
}

func (c *Chain) Process(buf *audio.Buffer) {
	if !c.Enabled() {
		return
	}
	for _, e := range c.effects {
		if e.Enabled() {
			e.Process(buf)
		}
	}
}
