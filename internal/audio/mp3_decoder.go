package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always outputs interleaved 16-bit stereo
const mp3Channels = 2

// MP3Decoder decodes MP3 streams
type MP3Decoder struct{}

// Decode implements AudioDecoder
func (MP3Decoder) Decode(r io.Reader) (*Buffer, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create MP3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to read MP3 data: %w", err)
	}

	buf, err := NewBuffer(decoder.SampleRate(), mp3Channels)
	if err != nil {
		return nil, err
	}
	buf.Resize(len(pcm) / (mp3Channels * bytesPerPCM16))

	for i := range buf.data {
		v := int16(binary.LittleEndian.Uint16(pcm[i*bytesPerPCM16:]))
		buf.data[i] = float32(v) / pcm16Scale
	}
	return buf, nil
}
