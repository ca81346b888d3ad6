// Package position computes the coordinate transform between a
// document page and the drawing canvas, and the scroll/zoom state that
// drives it, per spec.md §4.D. Grounded on struct position/struct
// output, moveto/adjustviewbox/adjustscroll/toptextbox/bottomtextbox in
// _examples/original_source/hovacui.c and rectangle_map_to_cairo in
// _examples/original_source/pdfrects.c.
package position

import (
	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/rect"
)

// Fit selects how a textbox's viewbox is scaled onto the destination
// rectangle.
type Fit int

const (
	// FitH scales uniformly so the viewbox fits the destination
	// horizontally, aspect preserved.
	FitH Fit = iota
	// FitV scales uniformly so the viewbox fits the destination
	// vertically, aspect preserved.
	FitV
	// FitBoth scales each axis independently to exactly fill the
	// destination rectangle.
	FitBoth
	// FitNone applies no scale; the viewbox may be smaller than the
	// destination, panned by explicit scroll.
	FitNone
)

// View carries the screen-side parameters of a draw cycle: the
// destination rectangle, screen geometry (for aspect correction and
// minimum-zoom calculations), fit mode and scroll step fraction.
// Renamed from the original's "struct output" to avoid stuttering with
// uiloop's window-level state.
type View struct {
	Dest         rect.Rectangle
	ScreenWidth  float64
	ScreenHeight float64
	Aspect       float64 // pixel aspect ratio; 1.0 for square pixels
	MinWidth     float64 // minimum on-screen zoom width, in screen units
	Fit          Fit
	ScrollFrac   float64 // fraction of dest per ScrollDown/ScrollRight step
}

// Position is the viewer's location within a document: the current
// page, its bounding box and text-area decomposition, which block is
// selected, and the viewbox/scroll that decides what part of that
// block is visible.
type Position struct {
	Document pdf.Document
	PageIndex int
	TotalPages int
	Page     pdf.Page

	BoundingBox rect.Rectangle
	HaveBBox    bool

	TextArea *rect.List
	BoxIndex int

	ViewBox rect.Rectangle
	ScrollX float64
	ScrollY float64
}

// DefaultMinWidth mirrors the original's built-in minimum on-screen
// zoom width, preventing a pathologically small textbox from producing
// an unreadable microscopic zoom.
const DefaultMinWidth = 400.0

// adjustViewbox pads pos.ViewBox to the minimum displayed size allowed
// by view, centered on the original viewbox. Per spec.md §4.D: the x
// axis is padded when Fit is FitH, FitBoth or FitNone and the viewbox
// is narrower than the minimum; the y axis analogously for FitV,
// FitBoth and FitNone.
func adjustViewbox(pos *Position, view *View) {
	minWidthDoc := screenToDocDistanceX(view, view.MinWidth*destWidth(view)/nonZero(view.ScreenWidth))
	minHeightDoc := screenToDocDistanceY(view, view.MinWidth*destHeight(view)/nonZero(view.ScreenHeight))

	padX := view.Fit == FitH || view.Fit == FitBoth || view.Fit == FitNone
	padY := view.Fit == FitV || view.Fit == FitBoth || view.Fit == FitNone

	vb := pos.ViewBox
	if padX && vb.Width() < minWidthDoc {
		d := (minWidthDoc - vb.Width()) / 2
		vb.X1 -= d
		vb.X2 += d
	}
	if padY && vb.Height() < minHeightDoc {
		d := (minHeightDoc - vb.Height()) / 2
		vb.Y1 -= d
		vb.Y2 += d
	}
	pos.ViewBox = vb
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func destWidth(view *View) float64  { return view.Dest.Width() }
func destHeight(view *View) float64 { return view.Dest.Height() }

// screenToDocDistanceX/Y approximate the original's
// xscreentodocdistance/yscreentodocdistance for the minimum-zoom
// calculation: a plain unit-scale conversion, since the "screen" unit
// used for MinWidth is already expressed relative to ScreenWidth/Height
// rather than through the cairo matrix the original reads it from.
func screenToDocDistanceX(view *View, screenUnits float64) float64 { return screenUnits }
func screenToDocDistanceY(view *View, screenUnits float64) float64 { return screenUnits }

// Transform computes the coordinate-mapping matrix from document space
// to canvas space for the current viewbox: scale so viewbox maps to
// view.Dest per the fit mode, pixel-aspect corrected on the
// non-fit-constrained axis, then translated by -scroll. Grounded on
// moveto()/rectangle_map_to_cairo().
func Transform(pos *Position, view *View) coords.Matrix {
	vb := pos.ViewBox
	srcw, srch := vb.Width(), vb.Height()
	dstw, dsth := view.Dest.Width(), view.Dest.Height()

	var scalex, scaley float64
	switch view.Fit {
	case FitH:
		scalex = dstw / nonZero(srcw)
		scaley = scalex
	case FitV:
		scaley = dsth / nonZero(srch)
		scalex = scaley
	case FitBoth:
		scalex = dstw / nonZero(srcw)
		scaley = dsth / nonZero(srch)
	case FitNone:
		scalex, scaley = 1, 1
	}

	aspect := view.Aspect
	if aspect == 0 {
		aspect = 1
	}
	switch view.Fit {
	case FitV:
		scalex /= aspect
	default:
		scaley *= aspect
	}

	// Matrix.Multiply composes left-to-right (m.Multiply(o) applies m
	// first, then o), so build this as: shift doc point relative to
	// the scrolled viewbox origin, scale, then place at dest.
	m := coords.Translate(-(vb.X1 + pos.ScrollX), -(vb.Y1 + pos.ScrollY))
	m = m.Multiply(coords.Scale(scalex, scaley))
	m = m.Multiply(coords.Translate(view.Dest.X1, view.Dest.Y1))
	return m
}

// adjustScroll clamps pos.ScrollX/ScrollY so the canvas never shows
// area outside the bounding box when the bounding box exceeds the
// viewport, and centers the bounding box when it is smaller than the
// viewport. Grounded on adjustscroll().
func adjustScroll(pos *Position, view *View) {
	if !pos.HaveBBox {
		return
	}
	bb := pos.BoundingBox
	vb := pos.ViewBox
	dst := view.Dest

	scalex := scaleForAxisX(pos, view)
	scaley := scaleForAxisY(pos, view)

	// horizontal
	if docToScreenX(vb, dst, scalex, bb.X2-pos.ScrollX) < dst.X2 {
		pos.ScrollX = bb.X2 - screenToDocX(vb, dst, scalex, dst.X2)
	}
	if docToScreenX(vb, dst, scalex, bb.X1-pos.ScrollX) > dst.X1 {
		pos.ScrollX = bb.X1 - screenToDocX(vb, dst, scalex, dst.X1)
	}
	if bb.Width() < (dst.X2-dst.X1)/nonZero(scalex) {
		pos.ScrollX = (bb.X1+bb.X2)/2 - screenToDocX(vb, dst, scalex, (dst.X1+dst.X2)/2)
	}

	// vertical
	if docToScreenY(vb, dst, scaley, bb.Y2-pos.ScrollY) < dst.Y2 {
		pos.ScrollY = bb.Y2 - screenToDocY(vb, dst, scaley, dst.Y2)
	}
	if docToScreenY(vb, dst, scaley, bb.Y1-pos.ScrollY) > dst.Y1 {
		pos.ScrollY = bb.Y1 - screenToDocY(vb, dst, scaley, dst.Y1)
	}
	if bb.Height() < (dst.Y2-dst.Y1)/nonZero(scaley) {
		pos.ScrollY = (bb.Y1+bb.Y2)/2 - screenToDocY(vb, dst, scaley, (dst.Y1+dst.Y2)/2)
	}
}

func scaleForAxisX(pos *Position, view *View) float64 {
	vb := pos.ViewBox
	switch view.Fit {
	case FitV:
		return view.Dest.Height() / nonZero(vb.Height())
	case FitNone:
		return 1
	default:
		return view.Dest.Width() / nonZero(vb.Width())
	}
}

func scaleForAxisY(pos *Position, view *View) float64 {
	vb := pos.ViewBox
	switch view.Fit {
	case FitH:
		return view.Dest.Width() / nonZero(vb.Width())
	case FitNone:
		return 1
	default:
		return view.Dest.Height() / nonZero(vb.Height())
	}
}

func docToScreenX(vb, dst rect.Rectangle, scale, x float64) float64 {
	return dst.X1 + (x-vb.X1)*scale
}
func screenToDocX(vb, dst rect.Rectangle, scale, x float64) float64 {
	return vb.X1 + (x-dst.X1)/nonZero(scale)
}
func docToScreenY(vb, dst rect.Rectangle, scale, y float64) float64 {
	return dst.Y1 + (y-vb.Y1)*scale
}
func screenToDocY(vb, dst rect.Rectangle, scale, y float64) float64 {
	return vb.Y1 + (y-dst.Y1)/nonZero(scale)
}

// MoveTo recomputes pos.ViewBox from the current block (pos.TextArea's
// pos.BoxIndex-th rectangle), pads it to the minimum zoom, and clamps
// scroll. Called before rendering and before any scroll-affecting
// navigation takes effect. Grounded on moveto().
func MoveTo(pos *Position, view *View) {
	if pos.TextArea == nil || pos.BoxIndex < 0 || pos.BoxIndex >= pos.TextArea.Len() {
		return
	}
	pos.ViewBox = pos.TextArea.Items[pos.BoxIndex]
	adjustViewbox(pos, view)
	adjustScroll(pos, view)
}

// TopOfBlock scrolls to the top of the current block: scroll reset to
// zero, then, for FitNone only, offset so the block's upper-left
// corner maps to the viewport's upper-left (otherwise a smaller
// viewbox would show the block's middle). Grounded on toptextbox().
func TopOfBlock(pos *Position, view *View) {
	pos.ScrollX, pos.ScrollY = 0, 0
	MoveTo(pos, view)
	if view.Fit != FitNone {
		return
	}
	block := pos.TextArea.Items[pos.BoxIndex]
	pos.ScrollX = minf(0, block.X1-pos.ViewBox.X1)
	pos.ScrollY = minf(0, block.Y1-pos.ViewBox.Y1)
}

// BottomOfBlock scrolls to the bottom of the current block: symmetric
// to TopOfBlock, scrolling so the lower-right corner of
// max(viewbox,block) maps to the viewport's lower-right. Grounded on
// bottomtextbox().
func BottomOfBlock(pos *Position, view *View) {
	pos.ScrollX, pos.ScrollY = 0, 0
	MoveTo(pos, view)
	block := pos.TextArea.Items[pos.BoxIndex]
	scalex := scaleForAxisX(pos, view)
	scaley := scaleForAxisY(pos, view)
	pos.ScrollX = maxf(pos.ViewBox.X2, block.X2) - screenToDocX(pos.ViewBox, view.Dest, scalex, view.Dest.X2)
	pos.ScrollY = maxf(pos.ViewBox.Y2, block.Y2) - screenToDocY(pos.ViewBox, view.Dest, scaley, view.Dest.Y2)
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
