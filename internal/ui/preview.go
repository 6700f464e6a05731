package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// PreviewConfig holds configuration for the image preview
type PreviewConfig struct {
	Width  int // Width in terminal cells
	Height int // Height in terminal cells
}

// PreviewConfigFor sizes a preview width cells wide that keeps the aspect
// ratio of bounds, assuming terminal cells twice as tall as they are wide
func PreviewConfigFor(bounds image.Rectangle, width int) PreviewConfig {
	if bounds.Dx() == 0 {
		return PreviewConfig{Width: width, Height: 1}
	}
	height := width * bounds.Dy() / bounds.Dx() / 2
	return PreviewConfig{Width: width, Height: max(height, 1)}
}

// DownsampleFrame averages each rectangular region of frame into one
// terminal cell
func DownsampleFrame(frame *image.RGBA, config PreviewConfig) [][]color.RGBA {
	bounds := frame.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	cellWidth := max(srcWidth/config.Width, 1)
	cellHeight := max(srcHeight/config.Height, 1)

	preview := make([][]color.RGBA, config.Height)
	for row := 0; row < config.Height; row++ {
		preview[row] = make([]color.RGBA, config.Width)
		for col := 0; col < config.Width; col++ {
			srcX := col * cellWidth
			srcY := row * cellHeight

			var sumR, sumG, sumB uint32
			pixelCount := 0

			for y := srcY; y < srcY+cellHeight && y < srcHeight; y++ {
				for x := srcX; x < srcX+cellWidth && x < srcWidth; x++ {
					p := frame.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
					sumR += uint32(p.R)
					sumG += uint32(p.G)
					sumB += uint32(p.B)
					pixelCount++
				}
			}

			if pixelCount > 0 {
				preview[row][col] = color.RGBA{
					R: uint8(sumR / uint32(pixelCount)),
					G: uint8(sumG / uint32(pixelCount)),
					B: uint8(sumB / uint32(pixelCount)),
					A: 255,
				}
			}
		}
	}

	return preview
}

// RenderPreview converts a preview grid to text using ANSI 24-bit
// background colours, one space per cell, inside a box titled title
func RenderPreview(preview [][]color.RGBA, title string) string {
	if len(preview) == 0 {
		return ""
	}

	var b strings.Builder
	rule := strings.Repeat("─", len(preview[0]))

	b.WriteString("  " + title + ":\n")
	b.WriteString("  ┌" + rule + "┐\n")
	for _, row := range preview {
		b.WriteString("  │")
		for _, pixel := range row {
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm \x1b[0m", pixel.R, pixel.G, pixel.B)
		}
		b.WriteString("│\n")
	}
	b.WriteString("  └" + rule + "┘\n")

	return b.String()
}

// RenderImage downsamples img to width cells and renders it
func RenderImage(img *image.RGBA, width int, title string) string {
	return RenderPreview(DownsampleFrame(img, PreviewConfigFor(img.Bounds(), width)), title)
}
