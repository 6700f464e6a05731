package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load decodes an audio file into a Buffer, choosing the decoder from the
// file extension.
func Load(filename string) (*Buffer, error) {
	return LoadWith(DefaultRegistry(), filename)
}

// LoadWith is Load with an explicit registry
func LoadWith(registry *Registry, filename string) (*Buffer, error) {
	format := FormatKey(filename)
	decoder, ok := registry.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := decoder.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	return buf, nil
}

// FormatKey returns the registry key for a file name: its lower-case
// extension without the dot.
func FormatKey(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// bufferFromInts converts integer PCM (as produced by go-audio and the FLAC
// and MP3 decoders) into a float buffer, scaling by the signed full-scale
// value of bitDepth.
func bufferFromInts(samples []int, sampleRate, channels, bitDepth int) (*Buffer, error) {
	if bitDepth < 1 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, bitDepth)
	}
	buf, err := NewBuffer(sampleRate, channels)
	if err != nil {
		return nil, err
	}
	buf.Resize(len(samples) / channels)

	scale := float32(int64(1) << (bitDepth - 1))
	for i := range buf.data {
		buf.data[i] = float32(samples[i]) / scale
	}
	return buf, nil
}
