package model

// EMUPerInch is the number of English Metric Units in one inch.
// All DrawingML geometry is expressed in EMUs.
const EMUPerInch = 914400

// DefaultPageWidth is the width of a standard 16:9 widescreen slide in EMUs.
// It is used when a presentation does not declare its slide size.
const DefaultPageWidth int64 = 12192000

// DefaultPageHeight is the height of a standard 16:9 widescreen slide in EMUs.
const DefaultPageHeight int64 = 6858000

// Inches converts an EMU length to inches.
func Inches(emu int64) float64 {
	return float64(emu) / EMUPerInch
}

// BBox represents a shape's bounding box in EMUs.
// X and Y are the top-left corner in the coordinate space the shape lives in.
type BBox struct {
	X      int64
	Y      int64
	Width  int64
	Height int64
}

// NewBBox creates a bounding box from an offset and an extent.
func NewBBox(x, y, width, height int64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (b BBox) Left() int64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() int64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge Y coordinate (Y grows downwards in DrawingML)
func (b BBox) Bottom() int64 {
	return b.Y + b.Height
}

// AspectRatio returns width/height, or 0 when the box has no height.
func (b BBox) AspectRatio() float64 {
	if b.Height <= 0 {
		return 0
	}
	return float64(b.Width) / float64(b.Height)
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// CoordinateSpace is a one-dimensional reference frame that a shape's X
// (or Y) is relative to. A slide is the root space; every group shape
// defines a child space for its children.
type CoordinateSpace struct {
	Offset int64
	Width  int64
}

// RootSpace returns the coordinate space of a page with the given width.
func RootSpace(pageWidth int64) CoordinateSpace {
	return CoordinateSpace{Offset: 0, Width: pageWidth}
}

// Right returns the right edge of the space.
func (s CoordinateSpace) Right() int64 {
	return s.Offset + s.Width
}

// Project maps v from space s onto space t, scaling by the ratio of their
// widths. A space without width maps by offset alone.
func (s CoordinateSpace) Project(v int64, t CoordinateSpace) int64 {
	if s.Width <= 0 {
		return t.Offset + (v - s.Offset)
	}
	return t.Offset + (v-s.Offset)*t.Width/s.Width
}

// MirrorX mirrors x for a shape of the given width inside space s, so that
// the shape's distance from the right edge becomes its distance from the
// left edge. Applying it twice with the same width and space returns x.
func MirrorX(x, width int64, s CoordinateSpace) int64 {
	relative := x - s.Offset
	return s.Offset + (s.Width - (relative + width))
}

// Mirror returns a copy of b with X mirrored inside space s.
// Y, Width and Height are never changed.
func (b BBox) Mirror(s CoordinateSpace) BBox {
	b.X = MirrorX(b.X, b.Width, s)
	return b
}
