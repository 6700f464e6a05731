package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
)

// ErrNotAIFF is returned when the stream has no FORM/AIFF header
var ErrNotAIFF = errors.New("not an AIFF file")

// AIFFDecoder decodes uncompressed AIFF streams
type AIFFDecoder struct{}

// Decode implements AudioDecoder
func (AIFFDecoder) Decode(r io.Reader) (*Buffer, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read AIFF data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAIFF
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("%w: missing COMM chunk", ErrUnsupportedFormat)
	}

	pcm := &goaudio.IntBuffer{
		Data:   make([]int, 4096*format.NumChannels),
		Format: format,
	}
	var samples []int
	for {
		n, err := dec.PCMBuffer(pcm)
		samples = append(samples, pcm.Data[:n]...)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	return bufferFromInts(samples, format.SampleRate, format.NumChannels, int(dec.BitDepth))
}
