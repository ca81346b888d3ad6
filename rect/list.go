package rect

// Kind fixes the semantic role of a List at construction: either the set
// of rectangles whose union covers some area, or an ordered sequence
// (e.g. text blocks in reading order). Both roles share the same
// underlying container; see spec.md Design Note "Rectangle lists as two
// semantics".
type Kind int

const (
	// Set lists represent the union of their rectangles' areas. Add
	// deduplicates; element order carries no meaning.
	Set Kind = iota
	// Sequence lists represent an ordered collection, e.g. a reading order.
	Sequence
)

// List is a list of rectangles, either a Set (area union, deduplicated on
// Add) or a Sequence (ordered, meaningful order).
type List struct {
	Kind  Kind
	Items []Rectangle
}

// NewList returns an empty list of the given kind.
func NewList(kind Kind) *List { return &List{Kind: kind} }

// NewSequence returns an ordered list seeded with items, in the given order.
func NewSequence(items ...Rectangle) *List {
	return &List{Kind: Sequence, Items: append([]Rectangle(nil), items...)}
}

// Len returns the number of rectangles.
func (l *List) Len() int { return len(l.Items) }

// Copy returns a deep copy of the list.
func (l *List) Copy() *List {
	return &List{Kind: l.Kind, Items: append([]Rectangle(nil), l.Items...)}
}

// Tighten shrinks the backing array to exactly Len(); present for parity
// with the original's capacity-tightening pass, a no-op concern in Go's
// GC'd slices beyond this one reallocation.
func (l *List) Tighten() {
	if cap(l.Items) == len(l.Items) {
		return
	}
	tight := make([]Rectangle, len(l.Items))
	copy(tight, l.Items)
	l.Items = tight
}

// Append adds r to the end of the list unconditionally. Valid for both
// kinds, but only meaningful as "build a sequence" for Sequence lists;
// Set lists should generally use Add instead.
func (l *List) Append(r Rectangle) { l.Items = append(l.Items, r) }

// Delete removes the rectangle at index i.
func (l *List) Delete(i int) {
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
}

// Add inserts r into a Set list if it is not redundant: dropped if
// contained in an existing rectangle, and any existing rectangle strictly
// contained in r is removed. Deliberately conservative — see spec.md
// §4.A: the result may remain redundant if r is covered by the *union* of
// two or more existing rectangles, since checking that would be
// exponential in list size.
func (l *List) Add(r Rectangle) bool {
	if r.IsEmpty() {
		return false
	}
	for _, e := range l.Items {
		if Contain(e, r) {
			return false
		}
	}
	kept := l.Items[:0:0]
	for _, e := range l.Items {
		if !Contain(r, e) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, r)
	l.Items = kept
	return true
}

// JoinAll returns the smallest rectangle enclosing every rectangle in the
// list, and false if the list is empty.
func (l *List) JoinAll() (Rectangle, bool) {
	if len(l.Items) == 0 {
		return Rectangle{}, false
	}
	out := l.Items[0]
	for _, r := range l.Items[1:] {
		out = Join(out, r)
	}
	return out, true
}

// Largest returns the rectangle of maximum area in the list.
func (l *List) Largest() (Rectangle, bool) {
	if len(l.Items) == 0 {
		return Rectangle{}, false
	}
	best := l.Items[0]
	for _, r := range l.Items[1:] {
		if r.Area() > best.Area() {
			best = r
		}
	}
	return best, true
}

// SumWidth returns the total width of every rectangle in the list.
func (l *List) SumWidth() float64 {
	var s float64
	for _, r := range l.Items {
		s += r.Width()
	}
	return s
}

// SumHeight returns the total height of every rectangle in the list.
func (l *List) SumHeight() float64 {
	var s float64
	for _, r := range l.Items {
		s += r.Height()
	}
	return s
}

// AverageWidth returns the mean width, zero for an empty list.
func (l *List) AverageWidth() float64 {
	if len(l.Items) == 0 {
		return 0
	}
	return l.SumWidth() / float64(len(l.Items))
}

// AverageHeight returns the mean height, zero for an empty list.
func (l *List) AverageHeight() float64 {
	if len(l.Items) == 0 {
		return 0
	}
	return l.SumHeight() / float64(len(l.Items))
}

// IndexContain returns the index of the first rectangle in the list that
// contains r, or -1.
func (l *List) IndexContain(r Rectangle) int {
	for i, e := range l.Items {
		if Contain(e, r) {
			return i
		}
	}
	return -1
}

// IndexTouch returns the index of the first rectangle in the list that
// touches r, or -1.
func (l *List) IndexTouch(r Rectangle) int {
	for i, e := range l.Items {
		if Touch(e, r) {
			return i
		}
	}
	return -1
}

// IndexOverlap returns the index of the first rectangle in the list that
// overlaps r, or -1.
func (l *List) IndexOverlap(r Rectangle) int {
	for i, e := range l.Items {
		if Overlap(e, r) {
			return i
		}
	}
	return -1
}

// Bound is a minimum-size filter applied to subtraction candidates: both
// dimensions must be at least Both, and at least one dimension at least
// Each.
type Bound struct {
	Both float64
	Each float64
}

func (b Bound) accepts(r Rectangle) bool {
	w, h := r.Width(), r.Height()
	if w < b.Both || h < b.Both {
		return false
	}
	return w >= b.Each || h >= b.Each
}

// MaxCandidates bounds the size of intermediate lists built while
// subtracting; a page that blows through this limit is abandoned in
// favor of a single whole-page fallback rather than let the algorithm's
// hot path run unbounded. See spec.md §4.B "Complexity budget".
const MaxCandidates = 20000

// ErrTooManyCandidates is returned by Subtract/Subtract1 when an
// intermediate list would exceed MaxCandidates.
var ErrTooManyCandidates = overflowError{}

type overflowError struct{}

func (overflowError) Error() string { return "rect: candidate rectangle list too large" }

// Subtract1 computes r \ sub, filtering candidates through bound and, if
// cont is non-nil, requiring each surviving rectangle to contain *cont.
// Splits a rectangle minus one subtrahend into up to four strips (left,
// top, right, bottom) and recurses over the subtrahend list, accumulating
// via Add. Returns ErrTooManyCandidates if the result would exceed
// MaxCandidates.
func Subtract1(r Rectangle, sub *List, cont *Rectangle, bound Bound) (*List, error) {
	out := NewList(Set)
	out.Add(r)
	for _, s := range sub.Items {
		var next List
		next.Kind = Set
		for _, cur := range out.Items {
			if !Overlap(cur, s) {
				next.Add(cur)
				continue
			}
			for _, piece := range splitMinus(cur, s) {
				if piece.IsEmpty() {
					continue
				}
				if !bound.accepts(piece) {
					continue
				}
				if cont != nil && !Contain(piece, *cont) {
					continue
				}
				next.Add(piece)
				if len(next.Items) > MaxCandidates {
					return nil, ErrTooManyCandidates
				}
			}
		}
		out = &next
	}
	return out, nil
}

// splitMinus returns up to four rectangles covering a \ b: left, top,
// right and bottom strips of a outside b. Each strip is maximal (left and
// right span a's full height, top and bottom a's full width), so the
// strips overlap at a's corners.
func splitMinus(a, b Rectangle) [4]Rectangle {
	var out [4]Rectangle
	// left strip
	out[0] = Rectangle{a.X1, a.Y1, minf(a.X2, b.X1), a.Y2}
	// top strip
	out[1] = Rectangle{a.X1, a.Y1, a.X2, minf(a.Y2, b.Y1)}
	// right strip
	out[2] = Rectangle{maxf(a.X1, b.X2), a.Y1, a.X2, a.Y2}
	// bottom strip
	out[3] = Rectangle{a.X1, maxf(a.Y1, b.Y2), a.X2, a.Y2}
	return out
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Subtract computes orig -= sub in place: for every rectangle of sub,
// every current rectangle of orig is replaced by up to four pieces
// covering its remainder, filtered by cont/bound, and re-accumulated via
// Add. This is the list-from-list form used by the text-area engine's
// white/black-list passes.
func Subtract(orig *List, sub *List, cont *Rectangle, bound Bound) error {
	result := NewList(Set)
	for _, o := range orig.Items {
		piece, err := Subtract1(o, sub, cont, bound)
		if err != nil {
			return err
		}
		for _, r := range piece.Items {
			result.Add(r)
			if len(result.Items) > MaxCandidates {
				return ErrTooManyCandidates
			}
		}
	}
	orig.Items = result.Items
	return nil
}

// Place scans candidate positions for a rectangle of size w×h inside page,
// left-to-right top-to-bottom, skipping past rectangles in occupied by
// their right/bottom edges. Returns the first non-overlapping placement
// and true, or false if none fits.
func Place(page Rectangle, occupied *List, w, h float64) (Rectangle, bool) {
	step := func(v float64) float64 {
		if v <= 0 {
			return 1
		}
		return v
	}
	for y := page.Y1; y+h <= page.Y2; {
		advancedY := false
		for x := page.X1; x+w <= page.X2; {
			cand := Rectangle{x, y, x + w, y + h}
			blocker := -1
			for i, o := range occupied.Items {
				if Overlap(cand, o) {
					blocker = i
					break
				}
			}
			if blocker < 0 {
				return cand, true
			}
			x = occupied.Items[blocker].X2
			if x <= cand.X1 {
				x = cand.X1 + step(0)
			}
		}
		// advance y past the topmost blocker that still overlaps a
		// candidate starting at page.X1
		bestY := y
		for _, o := range occupied.Items {
			if o.Y2 > bestY && o.X1 < page.X2 && o.X2 > page.X1 {
				if !advancedY || o.Y2 < bestY {
					bestY = o.Y2
					advancedY = true
				}
			}
		}
		if !advancedY || bestY <= y {
			break
		}
		y = bestY
	}
	return Rectangle{}, false
}
