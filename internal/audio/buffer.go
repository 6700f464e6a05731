package audio

import (
	"fmt"
	"math"
	"time"
)

// Buffer holds interleaved float32 PCM: all channels of frame 0, then frame 1,
// and so on. Samples are not clipped; values may exceed ±1.0.
//
// Out-of-range reads through Sample return 0 and out-of-range writes through
// SetSample are ignored, so rendering and mixing code can overrun a range
// without crashing. Use SampleAt and SetSampleAt when an indexing mistake
// should surface as an error instead.
//
// A Buffer is not safe for concurrent mutation. Share it with a playback
// reader through SharedBuffer and publish a new instance rather than
// mutating one that is being read.
type Buffer struct {
	data       []float32
	sampleRate int
	channels   int
	frames     int
}

// NewBuffer creates an empty buffer with a fixed channel count.
func NewBuffer(sampleRate, channels int) (*Buffer, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChannels, channels)
	}
	if sampleRate < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleRate, sampleRate)
	}

	return &Buffer{
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// SampleRate returns the sample rate in Hz
func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

// Channels returns the number of interleaved channels
func (b *Buffer) Channels() int {
	return b.channels
}

// Frames returns the number of frames
func (b *Buffer) Frames() int {
	return b.frames
}

// Len returns the number of stored samples (frames × channels)
func (b *Buffer) Len() int {
	return len(b.data)
}

// Duration returns the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	return time.Duration(float64(b.frames) / float64(b.sampleRate) * float64(time.Second))
}

// Resize reallocates storage to frames × channels samples, all zero.
// A negative frame count is treated as zero.
func (b *Buffer) Resize(frames int) {
	if frames < 0 {
		frames = 0
	}
	b.frames = frames
	b.data = make([]float32, frames*b.channels)
}

// Clear zeroes every sample without changing the dimensions.
func (b *Buffer) Clear() {
	clear(b.data)
}

func (b *Buffer) inRange(frame, channel int) bool {
	return frame >= 0 && frame < b.frames && channel >= 0 && channel < b.channels
}

// Sample returns the value at (frame, channel), or 0 when out of range.
func (b *Buffer) Sample(frame, channel int) float32 {
	if !b.inRange(frame, channel) {
		return 0
	}
	return b.data[frame*b.channels+channel]
}

// SetSample writes the value at (frame, channel). Out-of-range writes are
// ignored.
func (b *Buffer) SetSample(frame, channel int, value float32) {
	if !b.inRange(frame, channel) {
		return
	}
	b.data[frame*b.channels+channel] = value
}

// SampleAt is the checked counterpart of Sample.
func (b *Buffer) SampleAt(frame, channel int) (float32, error) {
	if !b.inRange(frame, channel) {
		return 0, b.rangeError(frame, channel)
	}
	return b.data[frame*b.channels+channel], nil
}

// SetSampleAt is the checked counterpart of SetSample.
func (b *Buffer) SetSampleAt(frame, channel int, value float32) error {
	if !b.inRange(frame, channel) {
		return b.rangeError(frame, channel)
	}
	b.data[frame*b.channels+channel] = value
	return nil
}

func (b *Buffer) rangeError(frame, channel int) error {
	return fmt.Errorf("%w: frame %d channel %d (buffer is %d frames × %d channels)",
		ErrOutOfRange, frame, channel, b.frames, b.channels)
}

// Frame copies the channels of one frame into dst and returns how many
// samples were copied. An out-of-range frame copies nothing.
func (b *Buffer) Frame(frame int, dst []float32) int {
	if frame < 0 || frame >= b.frames {
		return 0
	}
	start := frame * b.channels
	return copy(dst, b.data[start:start+b.channels])
}

// ApplyGain multiplies every sample by gain. Zero silences the buffer and a
// negative gain inverts phase; nothing is clamped.
func (b *Buffer) ApplyGain(gain float32) {
	for i := range b.data {
		b.data[i] *= gain
	}
}

// Normalize scales the buffer so its peak amplitude becomes 1.0.
// A silent or empty buffer is left unchanged.
func (b *Buffer) Normalize() {
	peak := b.PeakAmplitude()
	if peak > 0 {
		b.ApplyGain(1 / peak)
	}
}

// Mix crossfades other into b: each overlapping sample becomes
// self·(1−level) + other·level. Only the overlap of both frame counts and both
// channel counts is touched. level is not clamped. A nil other is a no-op.
func (b *Buffer) Mix(other *Buffer, level float32) {
	if other == nil {
		return
	}
	frames := min(b.frames, other.frames)
	channels := min(b.channels, other.channels)

	for f := 0; f < frames; f++ {
		dst := b.data[f*b.channels:]
		src := other.data[f*other.channels:]
		for c := 0; c < channels; c++ {
			dst[c] = dst[c]*(1-level) + src[c]*level
		}
	}
}

// PeakAmplitude returns the largest absolute sample value, or 0 for an empty
// buffer.
func (b *Buffer) PeakAmplitude() float32 {
	var peak float32
	for _, s := range b.data {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// RMSAmplitude returns the root mean square over every stored sample with all
// channels pooled, or 0 for an empty buffer.
func (b *Buffer) RMSAmplitude() float32 {
	if len(b.data) == 0 {
		return 0
	}

	var sumSquares float64
	for _, s := range b.data {
		sumSquares += float64(s) * float64(s)
	}
	return float32(math.Sqrt(sumSquares / float64(len(b.data))))
}

// Clone returns an independent copy.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.data = make([]float32, len(b.data))
	copy(c.data, b.data)
	return &c
}
