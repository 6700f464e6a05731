package audio

import (
	"errors"
	"math"
	"testing"
	"time"
)

const tolerance = 1e-6

func newTestBuffer(t *testing.T, sampleRate, channels, frames int) *Buffer {
	t.Helper()
	buf, err := NewBuffer(sampleRate, channels)
	if err != nil {
		t.Fatalf("NewBuffer(%d, %d) error = %v", sampleRate, channels, err)
	}
	buf.Resize(frames)
	return buf
}

func fillConstant(buf *Buffer, value float32) {
	for f := 0; f < buf.Frames(); f++ {
		for ch := 0; ch < buf.Channels(); ch++ {
			buf.SetSample(f, ch, value)
		}
	}
}

func TestNewBuffer_InvalidArguments(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		channels   int
		wantErr    error
	}{
		{"zero channels", 44100, 0, ErrInvalidChannels},
		{"negative channels", 44100, -2, ErrInvalidChannels},
		{"zero sample rate", 0, 2, ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuffer(tt.sampleRate, tt.channels)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewBuffer(%d, %d) error = %v, want %v", tt.sampleRate, tt.channels, err, tt.wantErr)
			}
		})
	}
}

func TestBuffer_ResizeZeroFills(t *testing.T) {
	buf := newTestBuffer(t, 44100, 2, 16)
	fillConstant(buf, 0.75)

	for _, n := range []int{32, 8, 0, 5} {
		buf.Resize(n)

		if buf.Frames() != n {
			t.Errorf("Resize(%d): Frames() = %d", n, buf.Frames())
		}
		if buf.Len() != n*2 {
			t.Errorf("Resize(%d): Len() = %d, want %d", n, buf.Len(), n*2)
		}
		for f := 0; f < n; f++ {
			for ch := 0; ch < 2; ch++ {
				if got := buf.Sample(f, ch); got != 0 {
					t.Fatalf("Resize(%d): Sample(%d, %d) = %f, want 0", n, f, ch, got)
				}
			}
		}
	}

	buf.Resize(-3)
	if buf.Frames() != 0 || buf.Len() != 0 {
		t.Errorf("Resize(-3) left %d frames / %d samples, want 0", buf.Frames(), buf.Len())
	}
}

func TestBuffer_Clear(t *testing.T) {
	buf := newTestBuffer(t, 48000, 3, 10)
	fillConstant(buf, -0.5)

	buf.Clear()

	if buf.Frames() != 10 || buf.Channels() != 3 {
		t.Fatalf("Clear changed dimensions to %d×%d", buf.Frames(), buf.Channels())
	}
	if peak := buf.PeakAmplitude(); peak != 0 {
		t.Errorf("PeakAmplitude after Clear = %f, want 0", peak)
	}
}

func TestBuffer_SampleRoundTrip(t *testing.T) {
	buf := newTestBuffer(t, 44100, 2, 4)

	buf.SetSample(0, 0, 0.25)
	buf.SetSample(3, 1, -1.5) // values beyond ±1 are stored as-is
	buf.SetSample(2, 0, 3)

	tests := []struct {
		frame, channel int
		want           float32
	}{
		{0, 0, 0.25},
		{3, 1, -1.5},
		{2, 0, 3},
		{1, 1, 0},
	}
	for _, tt := range tests {
		if got := buf.Sample(tt.frame, tt.channel); got != tt.want {
			t.Errorf("Sample(%d, %d) = %f, want %f", tt.frame, tt.channel, got, tt.want)
		}
	}
}

func TestBuffer_OutOfRangeAbsorbed(t *testing.T) {
	buf := newTestBuffer(t, 44100, 2, 4)
	fillConstant(buf, 0.5)
	before := buf.Clone()

	indices := []struct{ frame, channel int }{
		{4, 0},
		{0, 2},
		{100, 100},
		{-1, 0},
		{0, -1},
	}

	for _, idx := range indices {
		if got := buf.Sample(idx.frame, idx.channel); got != 0 {
			t.Errorf("Sample(%d, %d) = %f, want 0", idx.frame, idx.channel, got)
		}
		buf.SetSample(idx.frame, idx.channel, 9)
	}

	for i := range buf.data {
		if buf.data[i] != before.data[i] {
			t.Fatalf("out-of-range SetSample changed sample %d: %f -> %f", i, before.data[i], buf.data[i])
		}
	}
}

func TestBuffer_CheckedAccess(t *testing.T) {
	buf := newTestBuffer(t, 44100, 2, 4)

	if err := buf.SetSampleAt(1, 1, 0.3); err != nil {
		t.Fatalf("SetSampleAt in range error = %v", err)
	}
	got, err := buf.SampleAt(1, 1)
	if err != nil || got != 0.3 {
		t.Errorf("SampleAt(1, 1) = %f, %v; want 0.3, nil", got, err)
	}

	if _, err := buf.SampleAt(4, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SampleAt(4, 0) error = %v, want ErrOutOfRange", err)
	}
	if err := buf.SetSampleAt(0, 2, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SetSampleAt(0, 2) error = %v, want ErrOutOfRange", err)
	}
}

func TestBuffer_ApplyGainScalesPeak(t *testing.T) {
	for _, gain := range []float32{0, 0.5, 1, 2.5} {
		buf := newTestBuffer(t, 44100, 2, 8)
		buf.SetSample(3, 1, -0.4)
		buf.SetSample(5, 0, 0.2)
		before := buf.PeakAmplitude()

		buf.ApplyGain(gain)

		want := gain * before
		if got := buf.PeakAmplitude(); math.Abs(float64(got-want)) > tolerance {
			t.Errorf("gain %f: PeakAmplitude = %f, want %f", gain, got, want)
		}
	}
}

func TestBuffer_ApplyNegativeGainInvertsPhase(t *testing.T) {
	buf := newTestBuffer(t, 44100, 1, 2)
	buf.SetSample(0, 0, 0.5)
	buf.SetSample(1, 0, -0.25)

	buf.ApplyGain(-2)

	if buf.Sample(0, 0) != -1 || buf.Sample(1, 0) != 0.5 {
		t.Errorf("ApplyGain(-2) = [%f %f], want [-1 0.5]", buf.Sample(0, 0), buf.Sample(1, 0))
	}
}

func TestBuffer_Normalize(t *testing.T) {
	buf := newTestBuffer(t, 44100, 2, 100)
	for f := 0; f < 100; f++ {
		buf.SetSample(f, 0, float32(f)/400)
		buf.SetSample(f, 1, -float32(f)/200)
	}

	buf.Normalize()

	if got := buf.PeakAmplitude(); math.Abs(float64(got)-1) > tolerance {
		t.Errorf("PeakAmplitude after Normalize = %f, want 1.0", got)
	}
}

func TestBuffer_NormalizeSilentAndEmpty(t *testing.T) {
	silent := newTestBuffer(t, 44100, 2, 10)
	silent.Normalize()
	if silent.PeakAmplitude() != 0 || silent.Frames() != 10 {
		t.Errorf("Normalize on silence changed the buffer")
	}

	empty := newTestBuffer(t, 44100, 2, 0)
	empty.Normalize()
	if empty.Frames() != 0 || empty.Len() != 0 {
		t.Errorf("Normalize on empty buffer changed it")
	}
}

func TestBuffer_MixConstantBuffers(t *testing.T) {
	a := newTestBuffer(t, 44100, 2, 10)
	b := newTestBuffer(t, 44100, 2, 6)
	fillConstant(a, 0.8)
	fillConstant(b, 0.2)

	a.Mix(b, 0.5)

	for f := 0; f < 10; f++ {
		want := float32(0.5)
		if f >= 6 {
			want = 0.8 // beyond the shorter buffer, untouched
		}
		for ch := 0; ch < 2; ch++ {
			if got := a.Sample(f, ch); math.Abs(float64(got-want)) > tolerance {
				t.Errorf("Sample(%d, %d) = %f, want %f", f, ch, got, want)
			}
		}
	}
}

func TestBuffer_MixChannelOverlap(t *testing.T) {
	stereo := newTestBuffer(t, 44100, 2, 4)
	mono := newTestBuffer(t, 44100, 1, 4)
	fillConstant(stereo, 1)
	fillConstant(mono, 0)

	stereo.Mix(mono, 0.25)

	for f := 0; f < 4; f++ {
		if got := stereo.Sample(f, 0); math.Abs(float64(got)-0.75) > tolerance {
			t.Errorf("left Sample(%d) = %f, want 0.75", f, got)
		}
		if got := stereo.Sample(f, 1); got != 1 {
			t.Errorf("right Sample(%d) = %f, want untouched 1.0", f, got)
		}
	}
}

func TestBuffer_MixLevelNotClamped(t *testing.T) {
	a := newTestBuffer(t, 44100, 1, 1)
	b := newTestBuffer(t, 44100, 1, 1)
	a.SetSample(0, 0, 1)
	b.SetSample(0, 0, 0)

	a.Mix(b, 2)

	if got := a.Sample(0, 0); got != -1 {
		t.Errorf("Mix level 2 = %f, want -1 (extrapolated)", got)
	}
}

func TestBuffer_PeakAndRMS(t *testing.T) {
	empty := newTestBuffer(t, 44100, 2, 0)
	if empty.PeakAmplitude() != 0 || empty.RMSAmplitude() != 0 {
		t.Errorf("empty buffer peak/RMS = %f/%f, want 0/0", empty.PeakAmplitude(), empty.RMSAmplitude())
	}

	buf := newTestBuffer(t, 44100, 2, 2)
	buf.SetSample(0, 0, 1)
	buf.SetSample(0, 1, -1)
	buf.SetSample(1, 0, 1)
	buf.SetSample(1, 1, -0.5)

	if got := buf.PeakAmplitude(); got != 1 {
		t.Errorf("PeakAmplitude = %f, want 1", got)
	}
	// sqrt((1 + 1 + 1 + 0.25) / 4)
	want := math.Sqrt(3.25 / 4)
	if got := buf.RMSAmplitude(); math.Abs(float64(got)-want) > tolerance {
		t.Errorf("RMSAmplitude = %f, want %f", got, want)
	}
}

func TestBuffer_CloneIsIndependent(t *testing.T) {
	orig := newTestBuffer(t, 22050, 2, 4)
	orig.SetSample(1, 1, 0.5)

	c := orig.Clone()
	c.SetSample(1, 1, -0.5)
	c.Resize(8)

	if orig.Sample(1, 1) != 0.5 {
		t.Errorf("mutating clone changed original: %f", orig.Sample(1, 1))
	}
	if orig.Frames() != 4 {
		t.Errorf("resizing clone changed original frame count to %d", orig.Frames())
	}
	if c.SampleRate() != 22050 || c.Channels() != 2 {
		t.Errorf("clone lost format: %d Hz %d ch", c.SampleRate(), c.Channels())
	}
}

func TestBuffer_FrameAndDuration(t *testing.T) {
	buf := newTestBuffer(t, 1000, 3, 500)
	buf.SetSample(7, 0, 0.1)
	buf.SetSample(7, 2, 0.3)

	dst := make([]float32, 3)
	if n := buf.Frame(7, dst); n != 3 {
		t.Fatalf("Frame(7) copied %d samples, want 3", n)
	}
	if dst[0] != 0.1 || dst[1] != 0 || dst[2] != 0.3 {
		t.Errorf("Frame(7) = %v", dst)
	}
	if n := buf.Frame(500, dst); n != 0 {
		t.Errorf("Frame(500) copied %d samples, want 0", n)
	}

	if got := buf.Duration(); got != 500*time.Millisecond {
		t.Errorf("Duration = %v, want 500ms", got)
	}
}

func TestBuffer_MixNil(t *testing.T) {
	buf := newTestBuffer(t, 44100, 1, 4)
	fillConstant(buf, 0.25)

	buf.Mix(nil, 0.5)

	if buf.Sample(3, 0) != 0.25 {
		t.Errorf("Mix(nil) changed samples: %f", buf.Sample(3, 0))
	}
}
