package encoder

import (
	"errors"
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/linuxmatters/jivecut/internal/audio"
)

const (
	wavFormatPCM = 1

	// Frames converted per IntBuffer write
	chunkFrames = 4096
)

var (
	ErrNotInitialized = errors.New("encoder not initialized")
	ErrFormatMismatch = errors.New("buffer format does not match encoder")
)

// Config holds the encoder configuration
type Config struct {
	OutputPath string // Path to output WAV file
	SampleRate int    // Hz
	Channels   int
	BitDepth   int // 16, 24 or 32
}

// Encoder writes float buffers to an integer PCM WAV file
type Encoder struct {
	config Config

	file *os.File
	wav  *wav.Encoder

	// Reused conversion buffer
	intBuf *goaudio.IntBuffer
	scale  float64

	framesWritten int
}

// New validates config and creates an encoder. Call Initialize before
// writing.
func New(config Config) (*Encoder, error) {
	if config.OutputPath == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}
	if config.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", config.SampleRate)
	}
	if config.Channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", config.Channels)
	}
	switch config.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d (want 16, 24 or 32)", config.BitDepth)
	}

	return &Encoder{
		config: config,
		scale:  float64(int64(1)<<(config.BitDepth-1)) - 1,
	}, nil
}

// NewForBuffer creates an encoder matching buf's sample rate and channels
func NewForBuffer(outputPath string, buf audio.View, bitDepth int) (*Encoder, error) {
	return New(Config{
		OutputPath: outputPath,
		SampleRate: buf.SampleRate(),
		Channels:   buf.Channels(),
		BitDepth:   bitDepth,
	})
}

// Initialize creates the output file and writes the WAV header
func (e *Encoder) Initialize() error {
	f, err := os.Create(e.config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	e.file = f
	e.wav = wav.NewEncoder(f, e.config.SampleRate, e.config.BitDepth, e.config.Channels, wavFormatPCM)
	e.intBuf = &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: e.config.Channels,
			SampleRate:  e.config.SampleRate,
		},
		Data:           make([]int, 0, chunkFrames*e.config.Channels),
		SourceBitDepth: e.config.BitDepth,
	}
	return nil
}

// WriteBuffer appends every frame of v. Its sample rate and channel count
// must match the encoder's.
func (e *Encoder) WriteBuffer(v audio.View) error {
	if e.wav == nil {
		return ErrNotInitialized
	}
	if v.SampleRate() != e.config.SampleRate || v.Channels() != e.config.Channels {
		return fmt.Errorf("%w: got %d Hz %d ch, want %d Hz %d ch", ErrFormatMismatch,
			v.SampleRate(), v.Channels(), e.config.SampleRate, e.config.Channels)
	}

	channels := e.config.Channels
	for start := 0; start < v.Frames(); start += chunkFrames {
		end := min(start+chunkFrames, v.Frames())

		e.intBuf.Data = e.intBuf.Data[:0]
		for f := start; f < end; f++ {
			for ch := 0; ch < channels; ch++ {
				e.intBuf.Data = append(e.intBuf.Data, e.quantize(v.Sample(f, ch)))
			}
		}

		if err := e.wav.Write(e.intBuf); err != nil {
			return fmt.Errorf("failed to write PCM data: %w", err)
		}
		e.framesWritten += end - start
	}
	return nil
}

// quantize clamps to [-1, 1] and scales to the output bit depth
func (e *Encoder) quantize(s float32) int {
	v := math.Max(-1, math.Min(1, float64(s)))
	return int(math.Round(v * e.scale))
}

// FramesWritten returns the number of frames written so far
func (e *Encoder) FramesWritten() int {
	return e.framesWritten
}

// Close finalises the WAV header and closes the file. It is safe to call
// more than once.
func (e *Encoder) Close() error {
	if e.wav == nil {
		return nil
	}

	encErr := e.wav.Close()
	fileErr := e.file.Close()
	e.wav, e.file = nil, nil

	if encErr != nil {
		return fmt.Errorf("failed to finalise WAV: %w", encErr)
	}
	return fileErr
}

// Export writes buf to path as a WAV file in one call
func Export(path string, buf audio.View, bitDepth int) error {
	enc, err := NewForBuffer(path, buf, bitDepth)
	if err != nil {
		return err
	}
	if err := enc.Initialize(); err != nil {
		return err
	}
	if err := enc.WriteBuffer(buf); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
