package audio

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis streams
type VorbisDecoder struct{}

// Decode implements AudioDecoder
func (VorbisDecoder) Decode(r io.Reader) (*Buffer, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Vorbis: %w", err)
	}

	buf, err := NewBuffer(format.SampleRate, format.Channels)
	if err != nil {
		return nil, err
	}
	buf.Resize(len(samples) / format.Channels)
	copy(buf.data, samples)
	return buf, nil
}
