package audio

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC streams
type FLACDecoder struct{}

// Decode implements AudioDecoder
func (FLACDecoder) Decode(r io.Reader) (*Buffer, error) {
	// Parse FLAC stream - reads signature and StreamInfo block
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)
	samples := make([]int, 0, int(stream.Info.NSamples)*channels)

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		// One subframe per channel; interleave them frame-major
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
				samples = append(samples, int(frame.Subframes[ch].Samples[i]))
			}
		}
	}

	return bufferFromInts(samples, int(stream.Info.SampleRate), channels, bitDepth)
}
