package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	fmtChunkMinSize = 16

	formatPCM     = 1
	bitsPerSample = 16
	bytesPerPCM16 = 2
	pcm16Scale    = 32768.0
)

var (
	idRIFF = []byte("RIFF")
	idWAVE = []byte("WAVE")
	idFmt  = []byte("fmt ")
	idData = []byte("data")
)

// FormatInfo describes the PCM stream inside a container.
type FormatInfo struct {
	SampleRate int
	Channels   int
	Frames     int
}

// Chunk is one tagged, length-prefixed section of a RIFF container.
// Offset is the position of the chunk header within the input.
type Chunk struct {
	ID     string
	Offset int
	Size   uint32
}

// pcmLayout is the result of a forward chunk scan
type pcmLayout struct {
	info       FormatInfo
	dataOffset int
	dataSize   uint32
}

// Probe reports whether data starts with the RIFF/WAVE magic. It does not
// look at any chunk.
func Probe(data []byte) bool {
	if len(data) < riffHeaderSize {
		return false
	}
	return bytes.Equal(data[0:4], idRIFF) && bytes.Equal(data[8:12], idWAVE)
}

// ReadHeader scans the chunk list and returns the stream format.
// Only 16-bit integer PCM is accepted.
func ReadHeader(data []byte) (FormatInfo, error) {
	layout, err := scanPCM(data)
	if err != nil {
		return FormatInfo{}, err
	}
	return layout.info, nil
}

// Decode parses a 16-bit PCM RIFF/WAVE stream into a new buffer.
func Decode(data []byte) (*Buffer, error) {
	layout, err := scanPCM(data)
	if err != nil {
		return nil, err
	}

	available := len(data) - layout.dataOffset
	if uint64(available) < uint64(layout.dataSize) {
		return nil, fmt.Errorf("%w: declared %d bytes, %d available",
			ErrShortRead, layout.dataSize, available)
	}

	buf, err := NewBuffer(layout.info.SampleRate, layout.info.Channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	buf.Resize(layout.info.Frames)

	pcm := data[layout.dataOffset:]
	for i := range buf.data {
		v := int16(binary.LittleEndian.Uint16(pcm[i*bytesPerPCM16:]))
		buf.data[i] = float32(v) / pcm16Scale
	}

	return buf, nil
}

// DecodeInto decodes data and replaces dst's contents with the result.
// On failure dst is left exactly as it was. A nil dst is ErrNilBuffer.
func DecodeInto(data []byte, dst *Buffer) error {
	if dst == nil {
		return ErrNilBuffer
	}
	buf, err := Decode(data)
	if err != nil {
		return err
	}
	*dst = *buf
	return nil
}

// DecodeReader reads r to the end and decodes it.
func DecodeReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM stream: %w", err)
	}
	return Decode(data)
}

// LoadFile decodes a 16-bit PCM WAV file.
func LoadFile(filename string) (*Buffer, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	buf, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return buf, nil
}

// ProbeFile reports whether the file starts with the RIFF/WAVE magic.
// Unreadable files report false.
func ProbeFile(filename string) bool {
	f, err := os.Open(filename)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, riffHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return Probe(header)
}

// FileInfo returns the stream format of a WAV file without converting
// samples.
func FileInfo(filename string) (FormatInfo, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return FormatInfo{}, err
	}
	return ReadHeader(data)
}

// Chunks lists every chunk header in the container, in file order.
// The payload of each chunk must be present except for a trailing chunk,
// which is reported with its declared size.
func Chunks(data []byte) ([]Chunk, error) {
	if !Probe(data) {
		return nil, ErrInvalidContainer
	}

	var chunks []Chunk
	pos := riffHeaderSize
	for pos < len(data) {
		id, size, err := readChunkHeader(data, pos)
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, Chunk{ID: string(id), Offset: pos, Size: size})

		next := uint64(pos) + chunkHeaderSize + uint64(size)
		if next > uint64(len(data)) {
			break
		}
		pos = int(next)
	}
	return chunks, nil
}

// scanPCM walks chunks forward from the RIFF header until both "fmt " and
// "data" have been seen. Unknown chunks are skipped by their declared size.
// The data payload is located but not required to be complete; Decode checks
// it.
func scanPCM(data []byte) (pcmLayout, error) {
	var layout pcmLayout

	if !Probe(data) {
		return layout, ErrInvalidContainer
	}

	var haveFmt, haveData bool
	pos := riffHeaderSize

	for pos < len(data) && !(haveFmt && haveData) {
		id, size, err := readChunkHeader(data, pos)
		if err != nil {
			return layout, err
		}
		payload := pos + chunkHeaderSize
		next := uint64(payload) + uint64(size)

		switch {
		case bytes.Equal(id, idFmt):
			if next > uint64(len(data)) {
				return layout, fmt.Errorf("%w: fmt chunk at offset %d declares %d bytes, %d available",
					ErrTruncatedInput, pos, size, len(data)-payload)
			}
			if err := parseFmt(data[payload:int(next)], &layout.info); err != nil {
				return layout, err
			}
			haveFmt = true

		case bytes.Equal(id, idData):
			layout.dataOffset = payload
			layout.dataSize = size
			haveData = true

		default:
			if next > uint64(len(data)) {
				return layout, fmt.Errorf("%w: %q chunk at offset %d declares %d bytes, %d available",
					ErrTruncatedInput, id, pos, size, len(data)-payload)
			}
		}

		if next > uint64(len(data)) {
			// Only a data chunk can get here: its payload runs to the end
			break
		}
		pos = int(next)
	}

	if !haveFmt || !haveData {
		return layout, fmt.Errorf("%w: fmt=%t data=%t", ErrMissingChunk, haveFmt, haveData)
	}

	layout.info.Frames = int(layout.dataSize / uint32(layout.info.Channels*bytesPerPCM16))
	return layout, nil
}

func readChunkHeader(data []byte, pos int) ([]byte, uint32, error) {
	if len(data)-pos < chunkHeaderSize {
		return nil, 0, fmt.Errorf("%w: chunk header at offset %d needs %d bytes, %d available",
			ErrTruncatedInput, pos, chunkHeaderSize, len(data)-pos)
	}
	id := data[pos : pos+4]
	size := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
	return id, size, nil
}

// parseFmt reads formatCode, channels, sampleRate, byteRate, blockAlign and
// bitsPerSample; trailing extension bytes are ignored.
func parseFmt(payload []byte, info *FormatInfo) error {
	if len(payload) < fmtChunkMinSize {
		return fmt.Errorf("%w: fmt chunk is %d bytes, need %d",
			ErrTruncatedInput, len(payload), fmtChunkMinSize)
	}

	formatCode := binary.LittleEndian.Uint16(payload[0:2])
	channels := binary.LittleEndian.Uint16(payload[2:4])
	sampleRate := binary.LittleEndian.Uint32(payload[4:8])
	bits := binary.LittleEndian.Uint16(payload[14:16])

	if formatCode != formatPCM {
		return fmt.Errorf("%w: format code %d (only PCM is supported)", ErrUnsupportedFormat, formatCode)
	}
	if bits != bitsPerSample {
		return fmt.Errorf("%w: %d bits per sample (only 16-bit is supported)", ErrUnsupportedFormat, bits)
	}
	if channels == 0 || sampleRate == 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedFormat, channels, sampleRate)
	}

	info.SampleRate = int(sampleRate)
	info.Channels = int(channels)
	return nil
}
