package geometry

import "math"

// Box is an axis-aligned bounding box in normalized page coordinates,
// matching the Textract convention: origin at the top-left corner of the
// page, all fields in [0, 1].
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewBox constructs a Box, clamping negative dimensions to zero.
func NewBox(left, top, width, height float64) Box {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Box{Left: left, Top: top, Width: width, Height: height}
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.Left + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Area returns the box area.
func (b Box) Area() float64 { return b.Width * b.Height }

// Center returns the center point of the box.
func (b Box) Center() (x, y float64) {
	return b.Left + b.Width/2.0, b.Top + b.Height/2.0
}

// IoU computes Intersection over Union for two boxes in the same
// coordinate space. Disjoint boxes and degenerate unions yield 0.
func IoU(a, b Box) float64 {
	interLeft := math.Max(a.Left, b.Left)
	interTop := math.Max(a.Top, b.Top)
	interRight := math.Min(a.Right(), b.Right())
	interBottom := math.Min(a.Bottom(), b.Bottom())

	interW := interRight - interLeft
	interH := interBottom - interTop
	if interW <= 0 || interH <= 0 {
		return 0.0
	}

	inter := interW * interH
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0.0
	}
	return inter / union
}

// CenterInside reports whether the center point of child lies within the
// closed rectangle of parent. Boundary points count as inside.
func CenterInside(child, parent Box) bool {
	cx, cy := child.Center()
	return parent.Left <= cx && cx <= parent.Right() &&
		parent.Top <= cy && cy <= parent.Bottom()
}

// UnionBox returns the minimal axis-aligned box covering all input boxes.
// The second return value is false for an empty input.
func UnionBox(boxes []Box) (Box, bool) {
	if len(boxes) == 0 {
		return Box{}, false
	}
	left := boxes[0].Left
	top := boxes[0].Top
	right := boxes[0].Right()
	bottom := boxes[0].Bottom()
	for _, b := range boxes[1:] {
		left = math.Min(left, b.Left)
		top = math.Min(top, b.Top)
		right = math.Max(right, b.Right())
		bottom = math.Max(bottom, b.Bottom())
	}
	return Box{Left: left, Top: top, Width: right - left, Height: bottom - top}, true
}
