package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// WAVDecoder decodes RIFF/WAVE files. 16-bit PCM goes through the native
// chunk parser; other integer depths (8, 24, 32-bit) fall back to go-audio.
type WAVDecoder struct{}

// Decode implements AudioDecoder
func (WAVDecoder) Decode(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV data: %w", err)
	}

	buf, err := Decode(data)
	if err == nil || !errors.Is(err, ErrUnsupportedFormat) {
		return buf, err
	}

	return decodeWideWAV(data, err)
}

// decodeWideWAV handles integer PCM the native parser rejects. nativeErr is
// returned when go-audio cannot do better either.
func decodeWideWAV(data []byte, nativeErr error) (*Buffer, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, nativeErr
	}
	if decoder.WavAudioFormat != wavFormatPCM && decoder.WavAudioFormat != wavFormatExtensible {
		return nil, nativeErr
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 8 {
		// 8-bit WAV is unsigned
		for i, v := range pcm.Data {
			pcm.Data[i] = v - 128
		}
	}

	return bufferFromInts(pcm.Data, int(decoder.SampleRate), int(decoder.NumChans), bitDepth)
}
