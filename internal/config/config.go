package config

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Audio defaults
const (
	SampleRate    = 44100
	Channels      = 2
	FFTSize       = 2048
	SpectrumBands = 64
)

// Waveform image settings
const (
	Width        = 1280
	Height       = 360
	BarWidth     = 3    // Width of each column in pixels
	BarGap       = 1    // Gap between columns
	CenterGap    = 2    // Gap between the upper and lower halves
	MaxBarHeight = 0.90 // Tallest bar as a fraction of each half
	TitleSize    = 22.0 // Title label size in points
	TitleMargin  = 14   // Title label distance from the top left corner
)

// Viewer settings
const (
	TickRate     = 30   // Transport updates per second
	GainStepDB   = 1.0  // Gain change per keypress
	ZoomStep     = 1.25 // Zoom multiplier per keypress
	MaxZoom      = 32.0 // Upper bound for viewer zoom
	ScrollColumn = 8    // Columns moved per scroll keypress
	ViewerHeight = 12   // Terminal rows used by the waveform
	PreviewWidth = 100  // Terminal columns used by the PNG preview
)

// Export settings
const (
	ExportBitDepth = 16
)

// Appearance
const (
	// Waveform colour, also used for the viewer
	BarColorR = 164
	BarColorG = 0
	BarColorB = 0

	// Title text and centre line
	TextColorR = 248
	TextColorG = 179
	TextColorB = 29
)

// RuntimeConfig holds optional overrides from the command line. Nil or empty
// fields fall back to the constants above.
type RuntimeConfig struct {
	BarColorR *uint8
	BarColorG *uint8
	BarColorB *uint8

	TextColorR *uint8
	TextColorG *uint8
	TextColorB *uint8

	// PNG drawn behind the waveform, scaled to fit
	BackgroundImagePath string

	// TrueType font for the title; the built-in Go Regular face is used
	// when empty
	FontPath string
}

// GetBarColor returns the override only when all three components are set
func (c *RuntimeConfig) GetBarColor() (r, g, b uint8) {
	if c.BarColorR != nil && c.BarColorG != nil && c.BarColorB != nil {
		return *c.BarColorR, *c.BarColorG, *c.BarColorB
	}
	return BarColorR, BarColorG, BarColorB
}

// GetTextColor returns the override only when all three components are set
func (c *RuntimeConfig) GetTextColor() (r, g, b uint8) {
	if c.TextColorR != nil && c.TextColorG != nil && c.TextColorB != nil {
		return *c.TextColorR, *c.TextColorG, *c.TextColorB
	}
	return TextColorR, TextColorG, TextColorB
}

func (c *RuntimeConfig) GetBackgroundImagePath() string {
	return c.BackgroundImagePath
}

func (c *RuntimeConfig) GetFontPath() string {
	return c.FontPath
}

// SetBarColor parses a hex colour and stores it as the bar override
func (c *RuntimeConfig) SetBarColor(hexColor string) error {
	r, g, b, err := ParseHexColor(hexColor)
	if err != nil {
		return fmt.Errorf("bar colour: %w", err)
	}
	c.BarColorR, c.BarColorG, c.BarColorB = &r, &g, &b
	return nil
}

// SetTextColor parses a hex colour and stores it as the text override
func (c *RuntimeConfig) SetTextColor(hexColor string) error {
	r, g, b, err := ParseHexColor(hexColor)
	if err != nil {
		return fmt.Errorf("text colour: %w", err)
	}
	c.TextColorR, c.TextColorG, c.TextColorB = &r, &g, &b
	return nil
}

// ParseHexColor parses "RRGGBB" or "#RRGGBB"
func ParseHexColor(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: want 6 hex digits", s)
	}

	rgb, err := hex.DecodeString(s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return rgb[0], rgb[1], rgb[2], nil
}
