package renderer

import (
	"image"
	"image/color"

	"github.com/linuxmatters/jivecut/internal/audio"
	"github.com/linuxmatters/jivecut/internal/config"
	"github.com/linuxmatters/jivecut/internal/waveform"
	"golang.org/x/image/font"
)

// Style controls the geometry and colours of a waveform image
type Style struct {
	Width        int
	Height       int
	BarWidth     int
	BarGap       int
	CenterGap    int
	MaxBarHeight float64 // Fraction of each half
	BarColor     color.RGBA
	TextColor    color.RGBA
}

// DefaultStyle builds a style from the config constants and any runtime
// colour overrides. rc may be nil.
func DefaultStyle(rc *config.RuntimeConfig) Style {
	if rc == nil {
		rc = &config.RuntimeConfig{}
	}
	br, bg, bb := rc.GetBarColor()
	tr, tg, tb := rc.GetTextColor()

	return Style{
		Width:        config.Width,
		Height:       config.Height,
		BarWidth:     config.BarWidth,
		BarGap:       config.BarGap,
		CenterGap:    config.CenterGap,
		MaxBarHeight: config.MaxBarHeight,
		BarColor:     color.RGBA{R: br, G: bg, B: bb, A: 255},
		TextColor:    color.RGBA{R: tr, G: tg, B: tb, A: 255},
	}
}

// Frame draws profile points as bars mirrored around a horizontal centre
// line. Bars fade from full colour at the centre to half brightness at the
// tip.
type Frame struct {
	img      *image.RGBA
	bgImage  *image.RGBA
	fontFace font.Face
	style    Style

	columns      int
	startX       int
	centerY      int
	maxBarHeight int

	// Pre-computed values
	alphaTable    []uint8    // Alpha by distance from the centre
	barColorTable [][3]uint8 // Bar colour premultiplied at each alpha level
	hasBackground bool
}

// NewFrame creates a renderer. bgImage, when set, must match the style size;
// fontFace may be nil to skip the title.
func NewFrame(style Style, bgImage *image.RGBA, fontFace font.Face) *Frame {
	pitch := style.BarWidth + style.BarGap
	columns := 0
	if pitch > 0 {
		columns = (style.Width + style.BarGap) / pitch
	}
	totalWidth := columns*style.BarWidth + max(columns-1, 0)*style.BarGap
	centerY := style.Height / 2

	maxBarHeight := max(int(float64(centerY-style.CenterGap/2)*style.MaxBarHeight), 1)

	// Alpha gradient from 1.0 at the centre to 0.5 at full height
	alphaTable := make([]uint8, maxBarHeight)
	for i := 0; i < maxBarHeight; i++ {
		distanceFromCenter := float64(i) / float64(maxBarHeight)
		alphaFactor := 1.0 - (distanceFromCenter * 0.5)
		alphaTable[i] = uint8(alphaFactor * 255)
	}

	barColorTable := make([][3]uint8, 256)
	for alpha := 0; alpha < 256; alpha++ {
		factor := float64(alpha) / 255.0
		barColorTable[alpha][0] = uint8(float64(style.BarColor.R) * factor)
		barColorTable[alpha][1] = uint8(float64(style.BarColor.G) * factor)
		barColorTable[alpha][2] = uint8(float64(style.BarColor.B) * factor)
	}

	return &Frame{
		img:           image.NewRGBA(image.Rect(0, 0, style.Width, style.Height)),
		bgImage:       bgImage,
		fontFace:      fontFace,
		style:         style,
		columns:       columns,
		startX:        (style.Width - totalWidth) / 2,
		centerY:       centerY,
		maxBarHeight:  maxBarHeight,
		alphaTable:    alphaTable,
		barColorTable: barColorTable,
		hasBackground: bgImage != nil && bgImage.Bounds().Eq(image.Rect(0, 0, style.Width, style.Height)),
	}
}

// Columns is the number of bars that fit the image width, and therefore
// the profile width to request.
func (f *Frame) Columns() int {
	return f.columns
}

// DrawView profiles v at the frame's column count and draws it. zoom is
// clamped like the viewer's.
func (f *Frame) DrawView(v audio.View, zoom float32, offset int, title string) {
	f.Draw(waveform.Profile(v, f.columns, waveform.ClampZoom(zoom), offset), title)
}

// Draw renders points (1.0 = full half height) and an optional title.
// Points beyond the column count are ignored; missing points leave the
// remaining columns empty.
func (f *Frame) Draw(points []float32, title string) {
	f.clear()
	f.drawCenterLine()

	for i := 0; i < len(points) && i < f.columns; i++ {
		barHeight := min(int(points[i]*float32(f.maxBarHeight)), f.maxBarHeight)
		if barHeight <= 0 {
			continue
		}

		x := f.startX + i*(f.style.BarWidth+f.style.BarGap)
		yEnd := f.centerY - f.style.CenterGap/2
		yStart := yEnd - barHeight

		f.renderBar(x, yStart, yEnd, barHeight)
		f.mirrorBarVertical(x, yStart, yEnd)
	}

	if f.fontFace == nil {
		return
	}
	if len(points) == 0 {
		DrawCenterText(f.img, f.fontFace, "no audio", f.centerY/2, f.style.TextColor)
	}
	if title != "" {
		DrawLabel(f.img, f.fontFace, title, config.TitleMargin, config.TitleMargin, f.style.TextColor)
	}
}

func (f *Frame) clear() {
	if f.hasBackground {
		copy(f.img.Pix, f.bgImage.Pix)
		return
	}

	// Opaque black, 8 pixels at a time
	blackPattern := [32]byte{
		0, 0, 0, 255, 0, 0, 0, 255,
		0, 0, 0, 255, 0, 0, 0, 255,
		0, 0, 0, 255, 0, 0, 0, 255,
		0, 0, 0, 255, 0, 0, 0, 255,
	}
	for i := 0; i < len(f.img.Pix); i += 32 {
		copy(f.img.Pix[i:], blackPattern[:])
	}
}

// drawCenterLine fills the gap between the two halves with the text colour
func (f *Frame) drawCenterLine() {
	c := f.style.TextColor
	top := f.centerY - f.style.CenterGap/2
	for y := top; y < top+f.style.CenterGap && y < f.style.Height; y++ {
		row := f.img.Pix[y*f.img.Stride : y*f.img.Stride+f.style.Width*4]
		for x := 0; x < len(row); x += 4 {
			row[x], row[x+1], row[x+2], row[x+3] = c.R, c.G, c.B, 255
		}
	}
}

// renderBar draws one upward bar, blending over the background if present
func (f *Frame) renderBar(x, yStart, yEnd, barHeight int) {
	for y := yStart; y < yEnd; y++ {
		if y < 0 {
			continue
		}

		// Dim at the tip, bright at the centre
		distanceFromCenter := yEnd - 1 - y
		alphaIndex := min((distanceFromCenter*f.maxBarHeight)/barHeight, f.maxBarHeight-1)
		alpha := f.alphaTable[alphaIndex]

		offset := y*f.img.Stride + x*4
		for px := 0; px < f.style.BarWidth; px++ {
			p := offset + px*4
			if f.hasBackground {
				alphaF := float64(alpha) / 255.0
				invAlphaF := 1.0 - alphaF
				f.img.Pix[p] = uint8(float64(f.style.BarColor.R)*alphaF + float64(f.img.Pix[p])*invAlphaF)
				f.img.Pix[p+1] = uint8(float64(f.style.BarColor.G)*alphaF + float64(f.img.Pix[p+1])*invAlphaF)
				f.img.Pix[p+2] = uint8(float64(f.style.BarColor.B)*alphaF + float64(f.img.Pix[p+2])*invAlphaF)
				continue
			}
			colors := &f.barColorTable[alpha]
			f.img.Pix[p] = colors[0]
			f.img.Pix[p+1] = colors[1]
			f.img.Pix[p+2] = colors[2]
			f.img.Pix[p+3] = 255
		}
	}
}

// mirrorBarVertical copies the upward bar below the centre line, reversing
// the scanline order so the gradient mirrors too.
func (f *Frame) mirrorBarVertical(x, yStart, yEnd int) {
	upwardHeight := yEnd - yStart
	downStart := f.centerY - f.style.CenterGap/2 + f.style.CenterGap
	width := f.style.BarWidth * 4

	for i := 0; i < upwardHeight; i++ {
		srcY := yEnd - 1 - i
		dstY := downStart + i
		if srcY < 0 || dstY >= f.style.Height {
			continue
		}

		srcOffset := srcY*f.img.Stride + x*4
		dstOffset := dstY*f.img.Stride + x*4
		copy(f.img.Pix[dstOffset:dstOffset+width], f.img.Pix[srcOffset:srcOffset+width])
	}
}

// Image returns the rendered image. It is reused by the next Draw.
func (f *Frame) Image() *image.RGBA {
	return f.img
}
