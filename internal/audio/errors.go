package audio

import "errors"

// Buffer errors
var (
	ErrInvalidChannels   = errors.New("channel count must be at least 1")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrOutOfRange        = errors.New("sample index out of range")
	ErrNilBuffer         = errors.New("nil buffer")
)

// PCM codec errors
var (
	ErrInvalidContainer  = errors.New("not a RIFF/WAVE container")
	ErrUnsupportedFormat = errors.New("unsupported sample format")
	ErrTruncatedInput    = errors.New("truncated input")
	ErrShortRead         = errors.New("data chunk shorter than declared")
	ErrMissingChunk      = errors.New("missing fmt or data chunk")
)

// Loader and analysis errors
var (
	ErrUnknownFormat = errors.New("no decoder registered for format")
	ErrFFTSize       = errors.New("FFT size must be a power of two")
)
