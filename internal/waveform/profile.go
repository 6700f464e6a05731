// Package waveform reduces sample buffers to per-pixel amplitude summaries
// for drawing.
package waveform

import (
	"math"

	"github.com/linuxmatters/jivecut/internal/audio"
)

// Profile returns one RMS magnitude per pixel column, scaled by zoom.
//
// Each column covers max(1, frames/width) frames starting at
// column*framesPerPixel + offset, with all channels pooled. The result stops
// at the first column that would start past the end of the view, so it can be
// shorter than width when scrolled. Empty views and non-positive widths give
// an empty result. Negative offsets are treated as 0.
func Profile(v audio.View, width int, zoom float32, offset int) []float32 {
	frames := v.Frames()
	if frames == 0 || width <= 0 {
		return []float32{}
	}
	offset = max(offset, 0)
	framesPerPixel := framesPerPixel(frames, width)
	channels := v.Channels()

	points := make([]float32, 0, width)
	for p := 0; p < width; p++ {
		start := p*framesPerPixel + offset
		if start >= frames {
			break
		}
		end := min(start+framesPerPixel, frames)

		var sum float64
		count := 0
		for f := start; f < end; f++ {
			for ch := 0; ch < channels; ch++ {
				s := float64(v.Sample(f, ch))
				sum += s * s
				count++
			}
		}

		if count == 0 {
			points = append(points, 0)
			continue
		}
		rms := float32(math.Sqrt(sum / float64(count)))
		points = append(points, rms*zoom)
	}

	return points
}

// Peak is the sample range inside one pixel column
type Peak struct {
	Min float32
	Max float32
}

// Peaks uses the same column layout as Profile but reports the minimum and
// maximum sample of each column, for envelope-style drawing.
func Peaks(v audio.View, width int, offset int) []Peak {
	frames := v.Frames()
	if frames == 0 || width <= 0 {
		return []Peak{}
	}
	offset = max(offset, 0)
	framesPerPixel := framesPerPixel(frames, width)
	channels := v.Channels()

	peaks := make([]Peak, 0, width)
	for p := 0; p < width; p++ {
		start := p*framesPerPixel + offset
		if start >= frames {
			break
		}
		end := min(start+framesPerPixel, frames)

		pk := Peak{Min: float32(math.Inf(1)), Max: float32(math.Inf(-1))}
		for f := start; f < end; f++ {
			for ch := 0; ch < channels; ch++ {
				s := v.Sample(f, ch)
				pk.Min = min(pk.Min, s)
				pk.Max = max(pk.Max, s)
			}
		}
		if channels == 0 {
			pk = Peak{}
		}
		peaks = append(peaks, pk)
	}

	return peaks
}

func framesPerPixel(frames, width int) int {
	return max(1, frames/width)
}
