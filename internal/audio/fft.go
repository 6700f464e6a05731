package audio

import (
	"fmt"
	"math"

	"github.com/argusdusty/gofft"
)

// ApplyHanning applies a Hanning window to the input data
func ApplyHanning(data []float64) []float64 {
	windowed := make([]float64, len(data))
	n := len(data)
	if n == 1 {
		copy(windowed, data)
		return windowed
	}
	for i := range data {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = data[i] * window
	}
	return windowed
}

// Downmix averages the channels of size frames starting at startFrame.
// Frames past the end of the view read as silence.
func Downmix(v View, startFrame, size int) []float64 {
	mono := make([]float64, size)
	channels := v.Channels()
	if channels == 0 {
		return mono
	}
	inv := 1.0 / float64(channels)

	for i := range mono {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(v.Sample(startFrame+i, ch))
		}
		mono[i] = sum * inv
	}
	return mono
}

// Spectrum computes band magnitudes for size frames starting at startFrame.
// size must be a power of two. The lower 3/4 of the spectrum is split into
// bands equal-width groups of bins, each reported as its average magnitude.
func Spectrum(v View, startFrame, size, bands int) ([]float64, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrFFTSize, size)
	}
	if bands < 1 {
		return nil, fmt.Errorf("band count must be positive, got %d", bands)
	}

	windowed := ApplyHanning(Downmix(v, startFrame, size))
	coeffs := gofft.Float64ToComplex128Array(windowed)
	if err := gofft.FFT(coeffs); err != nil {
		return nil, fmt.Errorf("FFT failed: %w", err)
	}

	return BinFFT(coeffs, bands), nil
}

// bandLayout returns how many FFT bins each band covers and the first bin
// past the last band, for an FFT of size points
func bandLayout(size, bands int) (binsPerBand, maxFreqBin int) {
	maxFreqBin = (size / 2 * 3) / 4
	return max(1, maxFreqBin/max(bands, 1)), maxFreqBin
}

// BandEdges returns the lower frequency in Hz of each band that Spectrum
// and BinFFT produce for an FFT of size points at sampleRate.
func BandEdges(sampleRate, size, bands int) []float64 {
	if size <= 0 || bands <= 0 {
		return nil
	}
	binsPerBand, _ := bandLayout(size, bands)
	binHz := float64(sampleRate) / float64(size)

	edges := make([]float64, bands)
	for band := range edges {
		edges[band] = float64(band*binsPerBand) * binHz
	}
	return edges
}

// BinFFT averages FFT magnitudes into bands over the lower 3/4 of the
// positive-frequency half, where most programme material sits.
func BinFFT(coeffs []complex128, bands int) []float64 {
	binsPerBand, maxFreqBin := bandLayout(len(coeffs), bands)

	heights := make([]float64, bands)

	for band := 0; band < bands; band++ {
		start := band * binsPerBand
		end := min(start+binsPerBand, maxFreqBin)
		if start >= end {
			continue
		}

		var sum float64
		for i := start; i < end; i++ {
			sum += math.Hypot(real(coeffs[i]), imag(coeffs[i]))
		}
		heights[band] = sum / float64(end-start)
	}

	return heights
}
