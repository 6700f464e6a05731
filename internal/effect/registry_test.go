package effect

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		expr     string
		wantName string
		check    func(t *testing.T, e Effect)
	}{
		{
			expr:     "gain=0.5",
			wantName: "Gain",
			check: func(t *testing.T, e Effect) {
				if g := e.(*Gain).Gain(); g != 0.5 {
					t.Errorf("gain = %f, want 0.5", g)
				}
			},
		},
		{
			expr:     " GAIN = -6dB ",
			wantName: "Gain",
			check: func(t *testing.T, e Effect) {
				if g := e.(*Gain).Gain(); math.Abs(float64(g)-0.501187) > 1e-5 {
					t.Errorf("gain = %f, want ~0.501", g)
				}
			},
		},
		{
			expr:     "gain=-2",
			wantName: "Gain",
			check: func(t *testing.T, e Effect) {
				if g := e.(*Gain).Gain(); g != 0 {
					t.Errorf("negative gain = %f, want clamped 0", g)
				}
			},
		},
		{
			expr:     "gain",
			wantName: "Gain",
			check: func(t *testing.T, e Effect) {
				if g := e.(*Gain).Gain(); g != 1 {
					t.Errorf("default gain = %f, want 1", g)
				}
			},
		},
		{
			expr:     "normalize",
			wantName: "Normalize",
		},
		{
			expr:     "fadein=500ms",
			wantName: "Fade In",
			check: func(t *testing.T, e Effect) {
				if n := e.(*Fade).Frames(); n != 22050 {
					t.Errorf("fade frames = %d, want 22050", n)
				}
			},
		},
		{
			expr:     "fadeout=2",
			wantName: "Fade Out",
			check: func(t *testing.T, e Effect) {
				if n := e.(*Fade).Frames(); n != 88200 {
					t.Errorf("fade frames = %d, want 88200", n)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := r.Parse(tt.expr, 44100)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.expr, err)
			}
			if e.Name() != tt.wantName {
				t.Errorf("Name = %q, want %q", e.Name(), tt.wantName)
			}
			if !e.Enabled() {
				t.Error("parsed effect is disabled")
			}
			if tt.check != nil {
				tt.check(t, e)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		expr    string
		wantErr error
	}{
		{"reverb=0.3", ErrUnknownEffect},
		{"", ErrUnknownEffect},
		{"gain=loud", ErrInvalidParameter},
		{"gain=xdB", ErrInvalidParameter},
		{"normalize=1", ErrInvalidParameter},
		{"fadein", ErrInvalidParameter},
		{"fadeout=soon", ErrInvalidParameter},
		{"fadein=-1s", ErrInvalidParameter},
		{"gain=NaN", ErrInvalidParameter},
		{"gain=inf", ErrInvalidParameter},
		{"gain=-Inf", ErrInvalidParameter},
		{"gain=NaNdB", ErrInvalidParameter},
		{"gain=1000dB", ErrInvalidParameter},
	}

	for _, tt := range tests {
		if _, err := r.Parse(tt.expr, 44100); !errors.Is(err, tt.wantErr) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.expr, err, tt.wantErr)
		}
	}
}

func TestParseChain(t *testing.T) {
	r := DefaultRegistry()

	chain, err := r.ParseChain([]string{"gain=2", "normalize", "fadeout=10ms"}, 1000)
	if err != nil {
		t.Fatalf("ParseChain failed: %v", err)
	}
	if chain.Len() != 3 {
		t.Fatalf("chain length = %d, want 3", chain.Len())
	}
	if got := chain.Name(); got != "Gain > Normalize > Fade Out" {
		t.Errorf("chain Name = %q", got)
	}
	if n := chain.Effects()[2].(*Fade).Frames(); n != 10 {
		t.Errorf("fade frames = %d, want 10", n)
	}

	if _, err := r.ParseChain([]string{"gain", "bogus"}, 1000); !errors.Is(err, ErrUnknownEffect) {
		t.Errorf("ParseChain with bogus effect error = %v", err)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	factory := func(string, int) (Effect, error) { return NewNormalize(), nil }

	if err := r.Register("Loud", factory); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register("loud", factory); !errors.Is(err, errDuplicateEffect) {
		t.Errorf("duplicate Register error = %v", err)
	}
	if err := r.Register(" ", factory); err == nil {
		t.Error("Register with empty name succeeded")
	}
	if err := r.Register("quiet", nil); err == nil {
		t.Error("Register with nil factory succeeded")
	}

	if got := DefaultRegistry().Names(); !reflect.DeepEqual(got, []string{"fadein", "fadeout", "gain", "normalize"}) {
		t.Errorf("Names = %v", got)
	}
}
