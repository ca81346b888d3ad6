// Package recur finds the rectangles occupied by text that recurs
// across a document's pages with identical vertical extent — typical
// of page numbers, running heads and footers — and derives the "main
// text" region of a page once those are excluded. Grounded on
// rectanglevector_frequent/_main and rectanglelist_clip_containing in
// _examples/original_source/pdfrects.c (spec.md §4.C).
package recur

import (
	"context"
	"math/rand"

	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/rect"
	"github.com/wudi/hovacui/textarea"
)

// DefaultMaxHeight is the default maximal height of a block considered
// a candidate recurring rectangle (page numbers and running heads are
// short), used when Detect is given a non-positive height.
const DefaultMaxHeight = 20.0

// Detect samples the document's pages and returns the rectangles that
// recur across them with sufficient frequency. maxHeight filters
// candidate blocks by height (pass <=0 for DefaultMaxHeight); distance
// is the text-area space threshold forwarded to textarea.Decompose
// (pass <0 for its adaptive default).
//
// Sampling rate follows spec.md §4.C: 100% below 40 pages, 50% below
// 100, 25% otherwise — a full scan of every page of a 2000-page
// document is wasteful when a handful of samples identify the
// recurring header/footer reliably.
func Detect(ctx context.Context, doc pdf.Document, maxHeight, distance float64) *rect.List {
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	n := doc.PageCount()
	samplerate := sampleRate(n)

	vec := rect.NewVector(rect.DefaultCapacity)
	iterations := 0
	for i := 0; i < n; i++ {
		if rand.Intn(100) >= samplerate {
			continue
		}
		iterations++
		page, err := doc.Page(i)
		if err != nil {
			continue
		}
		decomp := textarea.Decompose(ctx, page, distance)
		for _, r := range decomp.Items {
			if r.Height() <= maxHeight {
				vec.Add(r)
			}
		}
	}
	if iterations == 0 {
		return rect.NewList(rect.Set)
	}
	return vec.Frequent(iterations)
}

// sampleRate returns the percentage of pages to sample, per spec.md
// §4.C: 100 if pages<40, 50 if pages<100, else 25.
func sampleRate(pages int) int {
	switch {
	case pages < 40:
		return 100
	case pages < 100:
		return 50
	default:
		return 25
	}
}

// MainRegion returns the page's main-text rectangle: the first page's
// media box minus the recurring list, then the largest remaining
// rectangle — "the page minus headers and footers". recur may be the
// result of a prior Detect call; if nil, it is computed from doc.
func MainRegion(ctx context.Context, doc pdf.Document, recur *rect.List, maxHeight, distance float64) (rect.Rectangle, bool) {
	if recur == nil {
		recur = Detect(ctx, doc, maxHeight, distance)
	}
	if doc.PageCount() == 0 {
		return rect.Rectangle{}, false
	}
	first, err := doc.Page(0)
	if err != nil {
		return rect.Rectangle{}, false
	}
	pageRect := first.MediaBox()
	remaining, err := rect.Subtract1(pageRect, recur, nil, rect.Bound{})
	if err != nil {
		return rect.Rectangle{}, false
	}
	return remaining.Largest()
}

// Clip returns the subset of a page's text-area decomposition that
// does NOT contain any recurring rectangle: blocks that are, or
// contain, a recurring element (a page number, a running head) are
// excluded, while arbitrary non-recurring text that merely overlaps a
// recurring rectangle's bounding area is kept — an even-odd clip by
// containment, not by overlap. Grounded on rectanglelist_clip_containing.
func Clip(decomp *rect.List, recur *rect.List) *rect.List {
	out := rect.NewList(rect.Set)
	for _, block := range decomp.Items {
		excluded := false
		for _, r := range recur.Items {
			if rect.Contain(block, r) {
				excluded = true
				break
			}
		}
		if !excluded {
			out.Append(block)
		}
	}
	return out
}
