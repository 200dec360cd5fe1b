package vision

import "fmt"

// BoundingBox is a located rectangle in screen coordinates.
type BoundingBox struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// Box builds a BoundingBox from int coordinates.
func Box(x, y, w, h int) BoundingBox {
	return BoundingBox{X: int32(x), Y: int32(y), Width: uint32(w), Height: uint32(h)}
}

// Rect converts the box to an int rectangle.
func (b BoundingBox) Rect() Rect {
	return Rect{X: int(b.X), Y: int(b.Y), Width: int(b.Width), Height: int(b.Height)}
}

// Valid reports whether the box has a non-zero area.
func (b BoundingBox) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// Right is the exclusive right edge.
func (b BoundingBox) Right() int { return int(b.X) + int(b.Width) }

// Bottom is the exclusive bottom edge.
func (b BoundingBox) Bottom() int { return int(b.Y) + int(b.Height) }

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", b.X, b.Y, b.Width, b.Height)
}

// Rect is a region of interest. Offsets relative to an anchor may be negative.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Offset returns r translated by the anchor's top-left corner.
func (r Rect) Offset(anchor BoundingBox) Rect {
	return Rect{X: int(anchor.X) + r.X, Y: int(anchor.Y) + r.Y, Width: r.Width, Height: r.Height}
}

// Span builds a Rect from two corners, max exclusive.
func Span(x0, y0, x1, y1 int) Rect {
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// IoU is intersection area over union area. Zero or negative intersection yields 0.
func IoU(a, b BoundingBox) float32 {
	x0 := max(int64(a.X), int64(b.X))
	y0 := max(int64(a.Y), int64(b.Y))
	x1 := min(int64(a.X)+int64(a.Width), int64(b.X)+int64(b.Width))
	y1 := min(int64(a.Y)+int64(a.Height), int64(b.Y)+int64(b.Height))

	inter := max(0, x1-x0) * max(0, y1-y0)
	if inter <= 0 {
		return 0
	}
	union := int64(a.Width)*int64(a.Height) + int64(b.Width)*int64(b.Height) - inter
	if union <= 0 {
		return 0
	}
	return float32(inter) / float32(union)
}
