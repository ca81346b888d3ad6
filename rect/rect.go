// Package rect implements the rectangle algebra the rest of the viewer is
// built on: predicates, intersection, union, subtraction, sorting and
// placement over axis-aligned rectangles in PDF point space.
package rect

import "math"

// Tolerance is the slack allowed when comparing coordinates, in PDF points.
const Tolerance = 1e-3

// Rectangle is an axis-aligned rectangle. After Normalize, X1<=X2 and Y1<=Y2.
type Rectangle struct {
	X1, Y1, X2, Y2 float64
}

// New returns a normalized rectangle built from the given corners.
func New(x1, y1, x2, y2 float64) Rectangle {
	r := Rectangle{x1, y1, x2, y2}
	r.Normalize()
	return r
}

// Normalize swaps coordinates so that X1<=X2 and Y1<=Y2.
func (r *Rectangle) Normalize() {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
}

// Width returns X2-X1.
func (r Rectangle) Width() float64 { return r.X2 - r.X1 }

// Height returns Y2-Y1.
func (r Rectangle) Height() float64 { return r.Y2 - r.Y1 }

// Area returns the rectangle's area; zero for a degenerate rectangle.
func (r Rectangle) Area() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IsEmpty reports whether the rectangle has zero or negative area.
func (r Rectangle) IsEmpty() bool { return r.Width() <= 0 || r.Height() <= 0 }

func near(a, b float64) bool { return math.Abs(a-b) <= Tolerance }

// HEqual reports whether a and b have the same horizontal extent.
func HEqual(a, b Rectangle) bool { return near(a.X1, b.X1) && near(a.X2, b.X2) }

// VEqual reports whether a and b have the same vertical extent.
func VEqual(a, b Rectangle) bool { return near(a.Y1, b.Y1) && near(a.Y2, b.Y2) }

// Equal reports whether a and b coincide within Tolerance.
func Equal(a, b Rectangle) bool { return HEqual(a, b) && VEqual(a, b) }

// HContain reports whether a's horizontal extent contains b's.
func HContain(a, b Rectangle) bool {
	return a.X1 <= b.X1+Tolerance && a.X2 >= b.X2-Tolerance
}

// VContain reports whether a's vertical extent contains b's.
func VContain(a, b Rectangle) bool {
	return a.Y1 <= b.Y1+Tolerance && a.Y2 >= b.Y2-Tolerance
}

// Contain reports whether a contains b (reflexive, transitive).
func Contain(a, b Rectangle) bool { return HContain(a, b) && VContain(a, b) }

// HOverlap reports whether a and b's horizontal extents strictly overlap
// (a shared edge is not an overlap).
func HOverlap(a, b Rectangle) bool {
	return a.X1 < b.X2-Tolerance && b.X1 < a.X2-Tolerance
}

// VOverlap reports whether a and b's vertical extents strictly overlap.
func VOverlap(a, b Rectangle) bool {
	return a.Y1 < b.Y2-Tolerance && b.Y1 < a.Y2-Tolerance
}

// Overlap reports whether a and b overlap on both axes.
func Overlap(a, b Rectangle) bool { return HOverlap(a, b) && VOverlap(a, b) }

// HTouch reports whether a and b meet or overlap horizontally (a shared
// edge counts as touching, unlike HOverlap).
func HTouch(a, b Rectangle) bool {
	return a.X1 <= b.X2+Tolerance && b.X1 <= a.X2+Tolerance
}

// VTouch reports whether a and b meet or overlap vertically.
func VTouch(a, b Rectangle) bool {
	return a.Y1 <= b.Y2+Tolerance && b.Y1 <= a.Y2+Tolerance
}

// Touch reports whether a and b touch or overlap on both axes.
func Touch(a, b Rectangle) bool { return HTouch(a, b) && VTouch(a, b) }

// HDistance returns the horizontal gap between a and b, zero if they touch.
func HDistance(a, b Rectangle) float64 {
	return math.Max(0, math.Max(a.X1-b.X2, b.X1-a.X2))
}

// VDistance returns the vertical gap between a and b, zero if they touch.
func VDistance(a, b Rectangle) float64 {
	return math.Max(0, math.Max(a.Y1-b.Y2, b.Y1-a.Y2))
}

// Shift translates r by (dx,dy).
func Shift(r Rectangle, dx, dy float64) Rectangle {
	return Rectangle{r.X1 + dx, r.Y1 + dy, r.X2 + dx, r.Y2 + dy}
}

// Expand grows r by dx on each horizontal side and dy on each vertical side.
func Expand(r Rectangle, dx, dy float64) Rectangle {
	return Rectangle{r.X1 - dx, r.Y1 - dy, r.X2 + dx, r.Y2 + dy}
}

// Intersect returns the intersection of a and b. The caller must test
// IsEmpty: the result may be empty or degenerate.
func Intersect(a, b Rectangle) Rectangle {
	return Rectangle{
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
		X2: math.Min(a.X2, b.X2),
		Y2: math.Min(a.Y2, b.Y2),
	}
}

// Join returns the smallest rectangle enclosing both a and b.
func Join(a, b Rectangle) Rectangle {
	return Rectangle{
		X1: math.Min(a.X1, b.X1),
		Y1: math.Min(a.Y1, b.Y1),
		X2: math.Max(a.X2, b.X2),
		Y2: math.Max(a.Y2, b.Y2),
	}
}

// Compare implements the "quick" ordering: rectangles that touch
// horizontally are ordered by Y1, otherwise by X1. Not transitively
// consistent (see Design Notes in SPEC_FULL.md) — that is the point: it
// is a fast heuristic, not a correctness guarantee.
func Compare(a, b Rectangle) int {
	if HTouch(a, b) {
		return cmpFloat(a.Y1, b.Y1)
	}
	return cmpFloat(a.X1, b.X1)
}

// VCompare orders strictly by Y1, used by the two-step sort's restart rule.
func VCompare(a, b Rectangle) int { return cmpFloat(a.Y1, b.Y1) }

// HCompare orders strictly by X1.
func HCompare(a, b Rectangle) int { return cmpFloat(a.X1, b.X1) }

// AreaCompare orders by descending area.
func AreaCompare(a, b Rectangle) int { return cmpFloat(b.Area(), a.Area()) }

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
