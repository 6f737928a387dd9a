// Package geometry provides the rectangle and inset arithmetic used to lay
// out content views inside a window.
package geometry

import "fmt"

// Rect is a screen rectangle in pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect creates a rectangle.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Size returns width and height.
func (r Rect) Size() (int, int) {
	return r.Width, r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Offset holds the chrome insets of a window in pixels. Content views are
// laid out inside the area left over once the insets are removed.
type Offset struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Horizontal returns the total horizontal inset.
func (o Offset) Horizontal() int {
	return o.Left + o.Right
}

// Vertical returns the total vertical inset.
func (o Offset) Vertical() int {
	return o.Top + o.Bottom
}

// CalculateBounds maps a window's outer rectangle and its offset to the
// usable content rectangle. The origin is (Left, Top) and both insets of an
// axis are subtracted from the outer size. Degenerate offsets yield negative
// sizes; they are returned as-is.
func CalculateBounds(outer Rect, offset Offset) Rect {
	return Rect{
		X:      offset.Left,
		Y:      offset.Top,
		Width:  outer.Width - offset.Left - offset.Right,
		Height: outer.Height - offset.Top - offset.Bottom,
	}
}
