package audio

import (
	"io"
	"sort"
	"sync"
)

// AudioDecoder decodes a complete audio stream into a Buffer
type AudioDecoder interface {
	Decode(r io.Reader) (*Buffer, error)
}

// DecoderFunc adapts a plain function to AudioDecoder
type DecoderFunc func(r io.Reader) (*Buffer, error)

// Decode calls f(r)
func (f DecoderFunc) Decode(r io.Reader) (*Buffer, error) {
	return f(r)
}

// Registry maps format keys (lower-case file extensions without the dot)
// to decoders. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]AudioDecoder
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]AudioDecoder),
	}
}

// DefaultRegistry returns a registry with every built-in format
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("wav", WAVDecoder{})
	r.Register("wave", WAVDecoder{})
	r.Register("mp3", MP3Decoder{})
	r.Register("flac", FLACDecoder{})
	r.Register("ogg", VorbisDecoder{})
	r.Register("oga", VorbisDecoder{})
	r.Register("aif", AIFFDecoder{})
	r.Register("aiff", AIFFDecoder{})
	return r
}

// Register adds or replaces the decoder for format
func (r *Registry) Register(format string, d AudioDecoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[format] = d
}

// Get returns the decoder for format
func (r *Registry) Get(format string) (AudioDecoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats lists the registered format keys in sorted order
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.codecs))
	for f := range r.codecs {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
