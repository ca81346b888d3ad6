// Package navigate implements block/page motion and document search
// over a position.Position, per spec.md §4.D (block boundary motions)
// and §4.E (search). Grounded on nextpage/prevpage/nexttextbox/
// prevtextbox/scrolldown/scrollright in
// _examples/original_source/hovacui.c and poppler_page_find_text's
// consumer pagematch/findtext in the same file.
package navigate

import (
	"context"
	"strings"

	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/position"
	"github.com/wudi/hovacui/rect"
	"github.com/wudi/hovacui/textarea"
)

// Reshape, when non-nil, post-processes the decomposition LoadPage just
// built before it replaces pos.TextArea — the hook a viewer installs
// once at startup (analogous to image.RegisterFormat: fixed for the
// process lifetime, not signal-handler-mutated per-call state) to layer
// view-mode selection (textarea.View) and reading order (rect.Sort*)
// onto every page load, including the ones NextPage/PrevPage/search
// trigger internally while crossing pages. Left nil, LoadPage stores
// the raw per-character decomposition unchanged.
var Reshape func(ctx context.Context, page pdf.Page, decomp *rect.List, bbox rect.Rectangle, haveBBox bool) *rect.List

// LoadPage opens page index on doc, replacing pos.Page/BoundingBox/
// TextArea, clamping pos.PageIndex into range. Callers use it whenever
// the current page changes (next/prev page, reload, search wrap).
func LoadPage(ctx context.Context, pos *position.Position, index int, distance float64) error {
	if pos.TotalPages <= 0 {
		return pdf.ErrNoPages
	}
	if index < 0 {
		index = 0
	}
	if index >= pos.TotalPages {
		index = pos.TotalPages - 1
	}
	page, err := pos.Document.Page(index)
	if err != nil {
		return err
	}
	pos.PageIndex = index
	pos.Page = page

	decomp := textarea.Decompose(ctx, page, distance)
	if decomp.Len() == 0 {
		decomp = rect.NewSequence(page.MediaBox())
	}

	bbox, ok := textarea.BoundingBox(ctx, page)
	if !ok {
		bbox = page.MediaBox()
	}
	pos.BoundingBox = bbox
	pos.HaveBBox = true // either a real text bound or the media box fallback

	if Reshape != nil {
		decomp = Reshape(ctx, page, decomp, bbox, pos.HaveBBox)
	}
	pos.TextArea = decomp
	return nil
}

// NextPage moves to the start of the next page, wrapping is the
// caller's responsibility (see FirstMatch/NextMatch below, which wrap
// explicitly; plain navigation does not auto-wrap). Returns false at
// the last page.
func NextPage(ctx context.Context, pos *position.Position, view *position.View, distance float64) bool {
	if pos.PageIndex+1 >= pos.TotalPages {
		return false
	}
	if err := LoadPage(ctx, pos, pos.PageIndex+1, distance); err != nil {
		return false
	}
	pos.BoxIndex = 0
	position.TopOfBlock(pos, view)
	return true
}

// PrevPage moves to the last block of the previous page. Returns false
// at the first page.
func PrevPage(ctx context.Context, pos *position.Position, view *position.View, distance float64) bool {
	if pos.PageIndex <= 0 {
		return false
	}
	if err := LoadPage(ctx, pos, pos.PageIndex-1, distance); err != nil {
		return false
	}
	pos.BoxIndex = pos.TextArea.Len() - 1
	position.BottomOfBlock(pos, view)
	return true
}

// NextBlock advances to the top of the next block, crossing to the
// next page at the last block of the current one — unless fit is
// FitNone, in which case block-skipping is suppressed since manual
// scrolling replaces block navigation (spec.md §4.D).
func NextBlock(ctx context.Context, pos *position.Position, view *position.View, distance float64) bool {
	if pos.BoxIndex+1 >= pos.TextArea.Len() {
		if view.Fit == position.FitNone {
			return false
		}
		return NextPage(ctx, pos, view, distance)
	}
	pos.BoxIndex++
	position.TopOfBlock(pos, view)
	return true
}

// PrevBlock retreats to the bottom of the previous block, crossing to
// the previous page at the first block — unless fit is FitNone.
func PrevBlock(ctx context.Context, pos *position.Position, view *position.View, distance float64) bool {
	if pos.BoxIndex-1 < 0 {
		if view.Fit == position.FitNone {
			return false
		}
		return PrevPage(ctx, pos, view, distance)
	}
	pos.BoxIndex--
	position.BottomOfBlock(pos, view)
	return true
}

// screenTolerance is the slack, in screen-space points, within which a
// block's far edge is considered already visible (spec.md §4.D).
const screenTolerance = 0.3

// ScrollDown advances the viewport within the current block, or moves
// to the next block/page if the block's bottom edge is already
// visible.
func ScrollDown(ctx context.Context, pos *position.Position, view *position.View, distance float64) bool {
	position.MoveTo(pos, view)
	block := pos.TextArea.Items[pos.BoxIndex]
	m := position.Transform(pos, view)
	bottomScreen := m.Transform(coords.Point{X: block.X1, Y: block.Y2}).Y
	if bottomScreen <= view.Dest.Y2+screenTolerance {
		return NextBlock(ctx, pos, view, distance)
	}
	pos.ScrollY += view.Dest.Height() * view.ScrollFrac / scaleY(pos, view)
	return true
}

// ScrollRight advances the viewport horizontally, or moves to the next
// block/page if the block's right edge is already visible.
func ScrollRight(ctx context.Context, pos *position.Position, view *position.View, distance float64) bool {
	position.MoveTo(pos, view)
	block := pos.TextArea.Items[pos.BoxIndex]
	m := position.Transform(pos, view)
	rightScreen := m.Transform(coords.Point{X: block.X2, Y: block.Y1}).X
	if rightScreen <= view.Dest.X2+screenTolerance {
		return NextBlock(ctx, pos, view, distance)
	}
	pos.ScrollX += view.Dest.Width() * view.ScrollFrac / scaleX(pos, view)
	return true
}

// ScrollUp retreats the viewport within the current block, or moves to
// the previous block/page if the block's top edge is already visible.
// Supplemented from scrollup() in the original — spec.md §4.D only
// describes the forward scroll directions, but a viewer needs both.
func ScrollUp(ctx context.Context, pos *position.Position, view *position.View, distance float64) bool {
	position.MoveTo(pos, view)
	block := pos.TextArea.Items[pos.BoxIndex]
	m := position.Transform(pos, view)
	topScreen := m.Transform(coords.Point{X: block.X1, Y: block.Y1}).Y
	if topScreen >= view.Dest.Y1-screenTolerance {
		return PrevBlock(ctx, pos, view, distance)
	}
	pos.ScrollY -= view.Dest.Height() * view.ScrollFrac / scaleY(pos, view)
	return true
}

// ScrollLeft retreats the viewport horizontally, or moves to the
// previous block/page if the block's left edge is already visible.
// Supplemented from scrollleft() in the original, symmetric to
// ScrollUp.
func ScrollLeft(ctx context.Context, pos *position.Position, view *position.View, distance float64) bool {
	position.MoveTo(pos, view)
	block := pos.TextArea.Items[pos.BoxIndex]
	m := position.Transform(pos, view)
	leftScreen := m.Transform(coords.Point{X: block.X1, Y: block.Y1}).X
	if leftScreen >= view.Dest.X1-screenTolerance {
		return PrevBlock(ctx, pos, view, distance)
	}
	pos.ScrollX -= view.Dest.Width() * view.ScrollFrac / scaleX(pos, view)
	return true
}

func scaleX(pos *position.Position, view *position.View) float64 {
	w := pos.ViewBox.Width()
	if w == 0 {
		return 1
	}
	return view.Dest.Width() / w
}

func scaleY(pos *position.Position, view *position.View) float64 {
	h := pos.ViewBox.Height()
	if h == 0 {
		return 1
	}
	return view.Dest.Height() / h
}

// TopOfBlock/BottomOfBlock are re-exported for callers that only need
// navigate, not position, imported directly.
func TopOfBlock(pos *position.Position, view *position.View)    { position.TopOfBlock(pos, view) }
func BottomOfBlock(pos *position.Position, view *position.View) { position.BottomOfBlock(pos, view) }

// MatchTargetOffset is the distance, in document points, a found match
// is placed from the viewport's leading edge once jumped to.
const MatchTargetOffset = 40.0

// FirstMatch searches for needle starting at the current position and
// direction, accepting a match that is inside or beyond the block's
// currently visible portion. Wraps across the whole document at most
// once. Returns false if needle is not found anywhere.
func FirstMatch(ctx context.Context, pos *position.Position, view *position.View, needle string, forward bool, distance float64) bool {
	return search(ctx, pos, view, needle, forward, distance, true)
}

// NextMatch is FirstMatch's strict sibling: a match must be strictly
// outside the block's currently visible portion in the chosen
// direction (so repeated calls advance instead of re-landing on the
// same match).
func NextMatch(ctx context.Context, pos *position.Position, view *position.View, needle string, forward bool, distance float64) bool {
	return search(ctx, pos, view, needle, forward, distance, false)
}

func search(ctx context.Context, pos *position.Position, view *position.View, needle string, forward bool, distance float64, inScreen bool) bool {
	if needle == "" || pos.TotalPages == 0 {
		return false
	}
	startPage := pos.PageIndex
	for wrapped := false; ; {
		if matched := searchPage(ctx, pos, view, needle, forward, inScreen); matched {
			return true
		}
		inScreen = true // only the starting block applies the strict filter
		var advanced bool
		if forward {
			advanced = NextPage(ctx, pos, view, distance)
			if !advanced && !wrapped {
				wrapped = true
				LoadPage(ctx, pos, 0, distance)
				pos.BoxIndex = 0
				position.TopOfBlock(pos, view)
				advanced = true
			}
		} else {
			advanced = PrevPage(ctx, pos, view, distance)
			if !advanced && !wrapped {
				wrapped = true
				LoadPage(ctx, pos, pos.TotalPages-1, distance)
				pos.BoxIndex = pos.TextArea.Len() - 1
				position.BottomOfBlock(pos, view)
				advanced = true
			}
		}
		if !advanced || (wrapped && pos.PageIndex == startPage) {
			return false
		}
	}
}

// searchPage looks for needle on the current page only, starting from
// the current block, honoring inScreen for the starting block and
// accepting any match in subsequent blocks. On success it leaves pos
// positioned at the match's block, snapped to top-of-block, scrolled
// so the match sits MatchTargetOffset from the leading edge.
func searchPage(ctx context.Context, pos *position.Position, view *position.View, needle string, forward bool, inScreen bool) bool {
	matches, err := pos.Page.Find(ctx, needle)
	if err != nil || len(matches) == 0 {
		return false
	}

	order := orderMatches(matches, pos.TextArea, forward)
	startBlock := pos.BoxIndex

	for _, om := range order {
		if om.block == startBlock {
			if !acceptsInBlock(om.match, pos.ViewBox, forward, inScreen) {
				continue
			}
		}
		pos.BoxIndex = om.block
		position.TopOfBlock(pos, view)
		offsetMatch(pos, view, om.match, forward)
		return true
	}
	return false
}

type orderedMatch struct {
	block int
	match pdf.Match
}

// orderMatches assigns each match to the text-area block that contains
// its first rectangle, then orders blocks and in-block matches in
// document order (or the reverse for backward search).
func orderMatches(matches []pdf.Match, ta *rect.List, forward bool) []orderedMatch {
	var out []orderedMatch
	for _, m := range matches {
		if len(m.Rects) == 0 {
			continue
		}
		block := ta.IndexContain(m.Rects[0])
		if block < 0 {
			block = ta.IndexOverlap(m.Rects[0])
		}
		if block < 0 {
			continue
		}
		out = append(out, orderedMatch{block: block, match: m})
	}
	less := func(i, j int) bool {
		if out[i].block != out[j].block {
			return out[i].block < out[j].block
		}
		return out[i].match.Offset < out[j].match.Offset
	}
	// simple stable insertion sort: match counts per page are small
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if !forward {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// acceptsInBlock applies the starting-block filter: strict search
// requires the match to lie outside the currently visible viewbox in
// the travel direction; first-match accepts inside-or-beyond.
func acceptsInBlock(m pdf.Match, viewbox rect.Rectangle, forward, inScreen bool) bool {
	if len(m.Rects) == 0 {
		return false
	}
	r := m.Rects[0]
	if forward {
		if inScreen {
			return r.Y1 >= viewbox.Y1-rect.Tolerance
		}
		return r.Y1 > viewbox.Y2-rect.Tolerance
	}
	if inScreen {
		return r.Y2 <= viewbox.Y2+rect.Tolerance
	}
	return r.Y2 < viewbox.Y1+rect.Tolerance
}

// offsetMatch nudges scroll so the match sits MatchTargetOffset from
// the viewport's leading edge (top if forward, bottom if backward).
func offsetMatch(pos *position.Position, view *position.View, m pdf.Match, forward bool) {
	if len(m.Rects) == 0 {
		return
	}
	r := m.Rects[0]
	if forward {
		pos.ScrollY = r.Y1 - pos.ViewBox.Y1 - MatchTargetOffset
	} else {
		pos.ScrollY = r.Y2 - pos.ViewBox.Y2 + MatchTargetOffset
	}
}

// NormalizeMatchY converts a backend match rectangle whose origin is
// at the page's bottom-left into the viewer's top-left-origin space,
// per spec.md §4.E "Per-page match": y' = page_height - y.
func NormalizeMatchY(r rect.Rectangle, pageHeight float64) rect.Rectangle {
	return rect.Rectangle{
		X1: r.X1, X2: r.X2,
		Y1: pageHeight - r.Y2,
		Y2: pageHeight - r.Y1,
	}
}

// FoldCase reports whether needle occurs in haystack, ignoring case —
// the fold FirstMatch/NextMatch rely on the backend (Document.Find) to
// have already applied; exposed for callers (e.g. pdftext) needing the
// same comparison.
func FoldCase(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
