package audio

import (
	"math"
	"time"
)

// Partial is one harmonic overtone relative to the fundamental
type Partial struct {
	Multiple float64 // Frequency as a multiple of the fundamental
	Level    float64 // Amplitude as a fraction of the fundamental amplitude
}

// ToneOptions configures GenerateTone
type ToneOptions struct {
	SampleRate int
	Channels   int
	Duration   time.Duration
	Frequency  float64 // Hz
	Amplitude  float64 // Peak amplitude of the fundamental
	Partials   []Partial
}

// DefaultToneOptions returns a one second A4 test tone with two soft
// harmonics, in stereo at 44.1 kHz.
func DefaultToneOptions() ToneOptions {
	return ToneOptions{
		SampleRate: 44100,
		Channels:   2,
		Duration:   time.Second,
		Frequency:  440,
		Amplitude:  0.3,
		Partials: []Partial{
			{Multiple: 2, Level: 0.1},
			{Multiple: 3, Level: 0.05},
		},
	}
}

// GenerateTone synthesises a sine tone with optional partials. Every channel
// carries the same signal.
func GenerateTone(opts ToneOptions) (*Buffer, error) {
	buf, err := NewBuffer(opts.SampleRate, opts.Channels)
	if err != nil {
		return nil, err
	}
	frames := int(opts.Duration.Seconds() * float64(opts.SampleRate))
	buf.Resize(frames)

	for i := 0; i < frames; i++ {
		t := float64(i) / float64(opts.SampleRate)
		phase := 2 * math.Pi * opts.Frequency * t

		sample := opts.Amplitude * math.Sin(phase)
		for _, p := range opts.Partials {
			sample += p.Level * opts.Amplitude * math.Sin(phase*p.Multiple)
		}

		for ch := 0; ch < opts.Channels; ch++ {
			buf.data[i*opts.Channels+ch] = float32(sample)
		}
	}
	return buf, nil
}
