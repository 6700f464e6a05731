package encoder

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxmatters/jivecut/internal/audio"
)

func TestExport_RoundTrip16(t *testing.T) {
	opts := audio.DefaultToneOptions()
	opts.Duration /= 20
	buf, err := audio.GenerateTone(opts)
	if err != nil {
		t.Fatalf("GenerateTone failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := Export(path, buf, 16); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// 16-bit output goes back through the native codec
	got, err := audio.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if got.SampleRate() != buf.SampleRate() || got.Channels() != buf.Channels() || got.Frames() != buf.Frames() {
		t.Fatalf("round trip format %d Hz %d ch %d frames, want %d Hz %d ch %d frames",
			got.SampleRate(), got.Channels(), got.Frames(),
			buf.SampleRate(), buf.Channels(), buf.Frames())
	}

	for f := 0; f < buf.Frames(); f += 97 {
		for ch := 0; ch < buf.Channels(); ch++ {
			diff := math.Abs(float64(got.Sample(f, ch) - buf.Sample(f, ch)))
			if diff > 2.0/32768 {
				t.Fatalf("frame %d ch %d differs by %g", f, ch, diff)
			}
		}
	}

	info, _ := os.Stat(path)
	t.Logf("Exported %d frames (%d bytes)", got.Frames(), info.Size())
}

func TestExport_ClampsAndWidens(t *testing.T) {
	buf, err := audio.NewBuffer(48000, 1)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	buf.Resize(3)
	buf.SetSample(0, 0, 2)  // clipped to full scale
	buf.SetSample(1, 0, -3) // clipped to negative full scale
	buf.SetSample(2, 0, 0.5)

	path := filepath.Join(t.TempDir(), "wide.wav")
	if err := Export(path, buf, 24); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// 24-bit takes the go-audio fallback path
	got, err := audio.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Frames() != 3 {
		t.Fatalf("Frames = %d, want 3", got.Frames())
	}

	want := []float64{1, -1, 0.5}
	for f, w := range want {
		if diff := math.Abs(float64(got.Sample(f, 0)) - w); diff > 1e-6 {
			t.Errorf("frame %d = %f, want %f", f, got.Sample(f, 0), w)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	valid := Config{OutputPath: "out.wav", SampleRate: 44100, Channels: 2, BitDepth: 16}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty path", func(c *Config) { c.OutputPath = "" }},
		{"zero rate", func(c *Config) { c.SampleRate = 0 }},
		{"zero channels", func(c *Config) { c.Channels = 0 }},
		{"8-bit", func(c *Config) { c.BitDepth = 8 }},
		{"12-bit", func(c *Config) { c.BitDepth = 12 }},
	}

	if _, err := New(valid); err != nil {
		t.Fatalf("New(valid) failed: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if _, err := New(c); err == nil {
				t.Errorf("New(%+v) succeeded", c)
			}
		})
	}
}

func TestEncoder_WriteErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mismatch.wav")
	enc, err := New(Config{OutputPath: path, SampleRate: 44100, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	mono, _ := audio.NewBuffer(44100, 1)
	if err := enc.WriteBuffer(mono); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("WriteBuffer before Initialize error = %v", err)
	}

	if err := enc.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := enc.WriteBuffer(mono); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("WriteBuffer(mono) error = %v, want ErrFormatMismatch", err)
	}
	if err := enc.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
