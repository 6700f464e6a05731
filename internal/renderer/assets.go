package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// LoadBackgroundImage loads a PNG and scales it to width×height
func LoadBackgroundImage(filename string, width, height int) (*image.RGBA, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode background %s: %w", filename, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))

	if bounds.Dx() != width || bounds.Dy() != height {
		// ApproxBiLinear is the fastest bilinear implementation
		draw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, bounds, draw.Src, nil)
	} else {
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	return rgba, nil
}

// LoadFont loads a TrueType font from a file
func LoadFont(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, err
	}
	return parseFace(fontBytes, size)
}

// DefaultFont returns the built-in Go Regular face
func DefaultFont(size float64) (font.Face, error) {
	return parseFace(goregular.TTF, size)
}

func parseFace(fontBytes []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return face, nil
}

// DrawLabel draws text with its top left corner at (x, y)
func DrawLabel(img *image.RGBA, face font.Face, text string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}

	ascent := face.Metrics().Ascent.Ceil()
	d.Dot = freetype.Pt(x, y+ascent)
	d.DrawString(text)
}

// DrawCenterText draws text centred horizontally with its baseline just
// below centerY
func DrawCenterText(img *image.RGBA, face font.Face, text string, centerY int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}

	bounds, _ := d.BoundString(text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()

	x := (img.Bounds().Dx() - textWidth) / 2
	y := centerY + face.Metrics().Ascent.Ceil()/2

	d.Dot = freetype.Pt(x, y)
	d.DrawString(text)
}

// SavePNG writes img to path
func SavePNG(img image.Image, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return out.Close()
}
