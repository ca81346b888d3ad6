// Package textarea decomposes a PDF page into the set of rectangles
// text actually occupies, per spec.md §4.B. Grounded on
// rectanglelist_textarea_distance/_bound/_bound_fallback and
// rectanglelist_consecutive/_join in
// _examples/original_source/pdfrects.c.
package textarea

import (
	"context"

	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/rect"
)

// DefaultWhiteEach is the "each" bound applied to the white-list
// subtraction: a candidate whitespace rectangle must have at least one
// dimension at least this wide, grounded on the 100.0 literal in
// rectanglelist_textarea_bound.
const DefaultWhiteEach = 100.0

// Decompose computes a page's text-area decomposition: the disjoint
// rectangles of inked text, joined at touching boundaries. distance is
// the space threshold w; pass a negative value to use the adaptive
// default (min(15, max(9, 1.5*averageCharWidth))).
//
// Tolerates pages with tens of thousands of characters: the subtraction
// step (rect.Subtract1) short-circuits on the bound predicate and is
// capped at rect.MaxCandidates, degrading to the single-element
// whole-page fallback rather than running unbounded (spec.md §4.B
// "Complexity budget"/"Failure mode").
func Decompose(ctx context.Context, page pdf.Page, distance float64) *rect.List {
	chars, err := page.Chars(ctx)
	pageRect := page.MediaBox()
	if err != nil || len(chars) == 0 {
		return fallback(pageRect)
	}

	layout := nullifySpaces(chars)
	layout = mergeConsecutive(layout)

	w := distance
	if w < 0 {
		w = adaptiveDistance(layout)
	}

	black, ok := textareaBound(pageRect, layout, w, DefaultWhiteEach, 0, 0)
	if !ok {
		return fallback(pageRect)
	}
	return black
}

func fallback(pageRect rect.Rectangle) *rect.List {
	return rect.NewSequence(pageRect)
}

// nullifySpaces zeroes the width of every U+0020 character rectangle,
// so a run of spaces never bridges two blocks of ink together.
func nullifySpaces(chars []pdf.CharRect) []rect.Rectangle {
	out := make([]rect.Rectangle, len(chars))
	for i, c := range chars {
		r := c.Rect
		if c.Rune == ' ' {
			r.X2 = r.X1
		}
		out[i] = r
	}
	return out
}

// mergeConsecutive joins adjacent rectangles that pairwise touch, a
// single pass reducing the character stream's cardinality before the
// more expensive subtraction step. Grounded on rectanglelist_consecutive.
func mergeConsecutive(chars []rect.Rectangle) []rect.Rectangle {
	if len(chars) == 0 {
		return chars
	}
	out := make([]rect.Rectangle, 0, len(chars))
	cur := chars[0]
	for _, r := range chars[1:] {
		if rect.Touch(cur, r) {
			cur = rect.Join(cur, r)
			continue
		}
		out = append(out, cur)
		cur = r
	}
	out = append(out, cur)
	return out
}

func adaptiveDistance(chars []rect.Rectangle) float64 {
	if len(chars) == 0 {
		return 9
	}
	var sum float64
	for _, r := range chars {
		sum += r.Width()
	}
	avg := sum / float64(len(chars))
	w := 1.5 * avg
	if w > 15 {
		w = 15
	}
	if w < 9 {
		w = 9
	}
	return w
}

// textareaBound runs the white-list/black-list/join pipeline of
// spec.md §4.B steps 3-5. Returns ok=false when an intermediate list
// overflows rect.MaxCandidates, signalling the caller to fall back to
// the whole page.
func textareaBound(pageRect rect.Rectangle, chars []rect.Rectangle, whiteBoth, whiteEach, blackBoth, blackEach float64) (*rect.List, bool) {
	layout := &rect.List{Kind: rect.Set, Items: chars}

	enlarged := rect.Expand(pageRect, whiteBoth-1.0, whiteBoth-1.0)
	white, err := rect.Subtract1(enlarged, layout, nil, rect.Bound{Both: whiteBoth, Each: whiteEach})
	if err != nil {
		return nil, false
	}

	black, err := rect.Subtract1(pageRect, white, nil, rect.Bound{Both: blackBoth, Each: blackEach})
	if err != nil {
		return nil, false
	}

	joinTouching(black)
	black.Tighten()
	return black, true
}

// joinTouching fixed-point-joins every pair of touching rectangles in
// place, grounded on rectanglelist_join: joining two rectangles can
// produce one that now touches a third, so the scan restarts from the
// joined pair's position whenever a join happens.
func joinTouching(l *rect.List) {
	for {
		changed := false
		for i := 0; i < len(l.Items); i++ {
			for j := i + 1; j < len(l.Items); j++ {
				if rect.Touch(l.Items[i], l.Items[j]) {
					l.Items[i] = rect.Join(l.Items[i], l.Items[j])
					l.Delete(j)
					j = i
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// BoundingBox returns the join of every non-space character rectangle
// on the page, ignoring the text-area decomposition.
func BoundingBox(ctx context.Context, page pdf.Page) (rect.Rectangle, bool) {
	chars, err := page.Chars(ctx)
	if err != nil {
		return rect.Rectangle{}, false
	}
	list := rect.NewList(rect.Set)
	for _, c := range chars {
		if c.Rune == ' ' {
			continue
		}
		list.Add(c.Rect)
	}
	return list.JoinAll()
}

// Largest returns the rectangle of maximum area in a decomposition.
func Largest(l *rect.List) (rect.Rectangle, bool) { return l.Largest() }

// ViewMode selects one of the four textarea.View outputs.
type ViewMode int

const (
	ViewText ViewMode = iota
	ViewAuto
	ViewBBox
	ViewPage
)

// InterOverlapThreshold is the index below which ViewAuto prefers the
// whole bounding box over the per-block decomposition (spec.md §4.B
// "View-mode outputs").
const InterOverlapThreshold = 0.8

// View returns the rectangle list for the requested view mode. decomp
// is the page's text-area decomposition (as from Decompose); bbox is
// BoundingBox's result for the same page; pageRect is the page's
// MediaBox.
func View(mode ViewMode, decomp *rect.List, bbox rect.Rectangle, haveBBox bool, pageRect rect.Rectangle) *rect.List {
	switch mode {
	case ViewBBox:
		if !haveBBox {
			return rect.NewList(rect.Set)
		}
		return single(bbox)
	case ViewPage:
		return single(pageRect)
	case ViewAuto:
		if decomp == nil || decomp.Len() == 0 || !haveBBox {
			if haveBBox {
				return single(bbox)
			}
			return single(pageRect)
		}
		if InterOverlapIndex(decomp, bbox) < InterOverlapThreshold {
			return single(bbox)
		}
		return decomp
	default: // ViewText
		if decomp == nil || decomp.Len() == 0 {
			return single(pageRect)
		}
		return decomp
	}
}

func single(r rect.Rectangle) *rect.List { return rect.NewSequence(r) }

// InterOverlapIndex computes Σ (h_i/H)·(h_j/H) over every pair of
// blocks that do NOT horizontally touch, H the bounding box height. A
// high index indicates genuine multi-column text; a low index
// indicates effectively single-column text where the whole bounding
// box is the better view. Grounded on spec.md §4.B "View-mode outputs".
func InterOverlapIndex(decomp *rect.List, bbox rect.Rectangle) float64 {
	H := bbox.Height()
	if H <= 0 || decomp == nil {
		return 0
	}
	var idx float64
	items := decomp.Items
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if rect.HTouch(items[i], items[j]) {
				continue
			}
			idx += (items[i].Height() / H) * (items[j].Height() / H)
		}
	}
	return idx
}

// Rows greedily groups characters into horizontal rows: sorted by Y1,
// a new row starts whenever the vertical gap to the previous row
// exceeds threshold; otherwise the row's rectangle is extended by
// Join. Grounded on spec.md §4.B "Row list".
func Rows(chars []rect.Rectangle, threshold float64) []rect.Rectangle {
	if len(chars) == 0 {
		return nil
	}
	sorted := append([]rect.Rectangle(nil), chars...)
	rect.SortQuickStableByY(sorted)

	var rows []rect.Rectangle
	cur := sorted[0]
	for _, c := range sorted[1:] {
		if rect.VDistance(cur, c) > threshold {
			rows = append(rows, cur)
			cur = c
			continue
		}
		cur = rect.Join(cur, c)
	}
	rows = append(rows, cur)
	return rows
}
