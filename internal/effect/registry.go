package effect

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Factory builds an effect from its textual parameter. param is empty when
// the user gave only a name. sampleRate lets time-based parameters resolve to
// frame counts.
type Factory func(param string, sampleRate int) (Effect, error)

// Registry maps lower-case effect names to factories. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with gain, normalize, fadein and fadeout
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("gain", newGainFromParam)
	r.MustRegister("normalize", newNormalizeFromParam)
	r.MustRegister("fadein", newFadeFactory(FadeIn))
	r.MustRegister("fadeout", newFadeFactory(FadeOut))
	return r
}

// Register adds a factory under name
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return errors.New("empty effect name")
	}
	if factory == nil {
		return errors.New("nil factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic("effect registry: " + err.Error())
	}
}

// Names lists registered effect names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse builds one effect from "name" or "name=param", e.g. "gain=0.5",
// "gain=-6dB" or "fadeout=1.5s".
func (r *Registry) Parse(expr string, sampleRate int) (Effect, error) {
	name, param, _ := strings.Cut(expr, "=")
	name = strings.ToLower(strings.TrimSpace(name))
	param = strings.TrimSpace(param)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownEffect, name, strings.Join(r.Names(), ", "))
	}

	e, err := factory(param, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return e, nil
}

// ParseChain builds a chain from several effect expressions, in order
func (r *Registry) ParseChain(exprs []string, sampleRate int) (*Chain, error) {
	chain := NewChain()
	for _, expr := range exprs {
		e, err := r.Parse(expr, sampleRate)
		if err != nil {
			return nil, err
		}
		chain.Append(e)
	}
	return chain, nil
}

// ParseGain accepts a linear factor ("0.5") or a decibel value ("-6dB").
// The resulting factor must be finite.
func ParseGain(param string) (float32, error) {
	if param == "" {
		return 1, nil
	}

	var v float64
	var err error
	lower := strings.ToLower(param)
	if strings.HasSuffix(lower, "db") {
		v, err = strconv.ParseFloat(strings.TrimSpace(lower[:len(lower)-2]), 64)
		v = math.Pow(10, v/20)
	} else {
		v, err = strconv.ParseFloat(param, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: gain %q", ErrInvalidParameter, param)
	}

	gain := float32(v)
	if math.IsNaN(float64(gain)) || math.IsInf(float64(gain), 0) {
		return 0, fmt.Errorf("%w: gain %q is not finite", ErrInvalidParameter, param)
	}
	return gain, nil
}

func newGainFromParam(param string, _ int) (Effect, error) {
	g, err := ParseGain(param)
	if err != nil {
		return nil, err
	}
	return NewGain(g), nil
}

func newNormalizeFromParam(param string, _ int) (Effect, error) {
	if param != "" {
		return nil, fmt.Errorf("%w: normalize takes no value, got %q", ErrInvalidParameter, param)
	}
	return NewNormalize(), nil
}

// newFadeFactory parses a Go duration ("500ms", "2s") or a bare number of
// seconds
func newFadeFactory(direction FadeDirection) Factory {
	return func(param string, sampleRate int) (Effect, error) {
		if param == "" {
			return nil, fmt.Errorf("%w: fade needs a length, e.g. 500ms", ErrInvalidParameter)
		}

		d, err := time.ParseDuration(param)
		if err != nil {
			secs, ferr := strconv.ParseFloat(param, 64)
			if ferr != nil {
				return nil, fmt.Errorf("%w: fade length %q", ErrInvalidParameter, param)
			}
			d = time.Duration(secs * float64(time.Second))
		}
		if d < 0 {
			return nil, fmt.Errorf("%w: negative fade length %s", ErrInvalidParameter, d)
		}

		frames := int(math.Round(d.Seconds() * float64(sampleRate)))
		return NewFade(direction, frames), nil
	}
}
