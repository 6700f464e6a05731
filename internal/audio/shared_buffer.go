package audio

import (
	"errors"
	"io"
	"sync/atomic"
)

// ErrNoBuffer is returned by a Cursor when nothing has been published yet.
var ErrNoBuffer = errors.New("no buffer published")

// View is the read-only surface handed to collaborators that only pull
// samples: playback, rendering, analysis. *Buffer implements it.
type View interface {
	SampleRate() int
	Channels() int
	Frames() int
	Sample(frame, channel int) float32
}

// SharedBuffer publishes buffers to a concurrent reader without locks on
// the read path.
//
// Design:
// - A published *Buffer is treated as immutable
// - Writers Clone the current snapshot, mutate the clone, then Publish it
// - Readers Load once per operation and keep using that snapshot
// - The retired buffer stays valid for any reader still holding it
type SharedBuffer struct {
	current atomic.Pointer[Buffer]
}

// NewSharedBuffer creates a shared buffer with an initial snapshot, which may
// be nil.
func NewSharedBuffer(initial *Buffer) *SharedBuffer {
	s := &SharedBuffer{}
	if initial != nil {
		s.current.Store(initial)
	}
	return s
}

// Load returns the currently published snapshot, or nil.
func (s *SharedBuffer) Load() *Buffer {
	return s.current.Load()
}

// Publish swaps in b and returns the snapshot it replaced.
func (s *SharedBuffer) Publish(b *Buffer) *Buffer {
	return s.current.Swap(b)
}

// Apply clones the current snapshot, runs fn on the clone and publishes the
// result. It returns the new snapshot, or nil when nothing was published.
// Concurrent Apply calls are not serialised; the last publish wins.
func (s *SharedBuffer) Apply(fn func(*Buffer)) *Buffer {
	cur := s.current.Load()
	if cur == nil {
		return nil
	}
	next := cur.Clone()
	fn(next)
	s.current.Store(next)
	return next
}

// Cursor is a playback read position over a SharedBuffer. The cursor owns
// only its position; it never mutates the buffer and never reads past the
// snapshot's frame count. A Cursor itself is meant for a single reader.
type Cursor struct {
	shared *SharedBuffer
	frame  atomic.Int64
}

// NewCursor creates a cursor positioned at frame 0.
func NewCursor(shared *SharedBuffer) *Cursor {
	return &Cursor{shared: shared}
}

// Read fills dst with interleaved samples from the current snapshot and
// returns the number of samples written (a whole number of frames).
// It returns io.EOF once the end of the snapshot has been reached.
func (c *Cursor) Read(dst []float32) (int, error) {
	b := c.shared.Load()
	if b == nil {
		return 0, ErrNoBuffer
	}

	pos := int(c.frame.Load())
	if pos > b.Frames() {
		// A shorter buffer was published since the last read
		pos = b.Frames()
	}
	if pos == b.Frames() {
		c.frame.Store(int64(pos))
		return 0, io.EOF
	}

	ch := b.Channels()
	frames := min(len(dst)/ch, b.Frames()-pos)
	n := copy(dst, b.data[pos*ch:(pos+frames)*ch])
	c.frame.Store(int64(pos + frames))

	return n, nil
}

// Frame returns the next frame the cursor will read.
func (c *Cursor) Frame() int {
	return int(c.frame.Load())
}

// Seek moves the cursor to frame, clamped to the current snapshot.
func (c *Cursor) Seek(frame int) {
	if frame < 0 {
		frame = 0
	}
	if b := c.shared.Load(); b != nil && frame > b.Frames() {
		frame = b.Frames()
	}
	c.frame.Store(int64(frame))
}

// Reset rewinds to the start.
func (c *Cursor) Reset() {
	c.frame.Store(0)
}

// Position reports progress through the current snapshot from 0.0 to 1.0.
func (c *Cursor) Position() float64 {
	b := c.shared.Load()
	if b == nil || b.Frames() == 0 {
		return 0
	}
	pos := min(int(c.frame.Load()), b.Frames())
	return float64(pos) / float64(b.Frames())
}
