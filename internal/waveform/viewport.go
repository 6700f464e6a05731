package waveform

import "github.com/linuxmatters/jivecut/internal/audio"

// MinZoom is the smallest accepted zoom factor
const MinZoom = 0.1

// Viewport holds the display parameters for one waveform and caches the last
// computed profile until the view or a parameter changes.
type Viewport struct {
	width  int
	zoom   float32
	offset int

	view   audio.View
	points []float32
	dirty  bool
}

// NewViewport creates a viewport of width columns at zoom 1, offset 0
func NewViewport(width int) *Viewport {
	return &Viewport{width: max(width, 0), zoom: 1, dirty: true}
}

// SetView attaches the view to summarise. Passing nil detaches it.
func (vp *Viewport) SetView(v audio.View) {
	vp.view = v
	vp.dirty = true
}

func (vp *Viewport) SetWidth(width int) {
	vp.width = max(width, 0)
	vp.dirty = true
}

// SetZoom sets the amplitude scale, clamped to at least MinZoom
func (vp *Viewport) SetZoom(zoom float32) {
	vp.zoom = ClampZoom(zoom)
	vp.dirty = true
}

// ClampZoom raises zoom to MinZoom. NaN also becomes MinZoom.
func ClampZoom(zoom float32) float32 {
	if !(zoom >= MinZoom) {
		return MinZoom
	}
	return zoom
}

// SetOffset sets the scroll position in frames, clamped to at least 0
func (vp *Viewport) SetOffset(offset int) {
	vp.offset = max(offset, 0)
	vp.dirty = true
}

func (vp *Viewport) Width() int    { return vp.width }
func (vp *Viewport) Zoom() float32 { return vp.zoom }
func (vp *Viewport) Offset() int   { return vp.offset }

// Points returns the profile for the current settings, recomputing only
// when something changed since the last call.
func (vp *Viewport) Points() []float32 {
	if vp.view == nil {
		return []float32{}
	}
	if vp.dirty {
		vp.points = Profile(vp.view, vp.width, vp.zoom, vp.offset)
		vp.dirty = false
	}
	return vp.points
}

// Scroll moves the offset by delta frames
func (vp *Viewport) Scroll(delta int) {
	vp.SetOffset(vp.offset + delta)
}

// FramesPerColumn reports how many frames each column currently covers,
// or 0 without a view.
func (vp *Viewport) FramesPerColumn() int {
	if vp.view == nil || vp.width == 0 {
		return 0
	}
	return framesPerPixel(vp.view.Frames(), vp.width)
}
