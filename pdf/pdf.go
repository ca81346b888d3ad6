// Package pdf is the backend interface the rest of the viewer is built
// against: a document exposes pages, per-character rectangles with font
// attributes, selected-text and find-text queries, annotations/links,
// and a raster render into a drawing context. spec.md specifies this
// backend only by interface (§1 "Out of scope"); pdf/native is the one
// concrete adapter shipped in this repo.
package pdf

import (
	"context"
	"errors"

	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/rect"
)

// ErrNoPages is returned by Document.Page when a document has no pages,
// the spec.md §7 "empty document" case.
var ErrNoPages = errors.New("pdf: document has no pages")

// ErrPageRange is returned when a page index is outside [0,PageCount).
var ErrPageRange = errors.New("pdf: page index out of range")

// ErrClosed is returned by any operation on a Document or Page after
// Document.Close has been called.
var ErrClosed = errors.New("pdf: document is closed")

// Document is an opened PDF, as the viewer's navigate/position/textarea
// packages need it. Implementations must be safe for use by a single
// goroutine at a time; the viewer's event loop never calls a Document
// concurrently with itself (see spec.md §5).
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// Page returns the page at the given 0-based index. Returns
	// ErrPageRange if index is out of bounds.
	Page(index int) (Page, error)

	// Metadata returns document-level metadata (title, language, …),
	// best-effort; implementations may return a zero Metadata.
	Metadata() Metadata

	// Close releases any resources (file handles, decoders) held by
	// the document. Subsequent calls are a no-op.
	Close() error
}

// Metadata is best-effort document-level information, supplementing
// spec.md with the data the original's tutorial/info window surfaces.
type Metadata struct {
	Title     string
	Author    string
	Lang      string
	PageCount int
}

// Page is a single page of an opened document.
type Page interface {
	// Index returns the page's 0-based position in the document.
	Index() int

	// MediaBox returns the page's untransformed boundary in PDF point
	// space, the outermost rectangle spec.md's text-area engine (4.B)
	// and recurring-block detector (4.C) operate within.
	MediaBox() rect.Rectangle

	// Chars returns every glyph on the page as a CharRect, in the
	// order the content stream draws them (not necessarily reading
	// order — sorting that is textarea/rect's job, per spec.md §4.B
	// Design Notes).
	Chars(ctx context.Context) ([]CharRect, error)

	// Text returns the page's characters concatenated in content-
	// stream order, the backend-level "selected text" primitive
	// pdftext.Extract and navigate's search build on.
	Text(ctx context.Context) (string, error)

	// Find returns every occurrence of needle on the page, matched
	// case-insensitively against Text's character sequence.
	Find(ctx context.Context, needle string) ([]Match, error)

	// Annotations returns the page's annotations and links.
	Annotations(ctx context.Context) ([]Annotation, error)

	// Render rasterizes the page, transformed by m, into dst. dst's
	// bounds fix the output size; the renderer clips to them.
	// Best-effort: spec.md treats the renderer as an external
	// collaborator specified only by this method.
	Render(ctx context.Context, m coords.Matrix, dst Canvas) error
}

// Canvas is the minimal raster surface Page.Render draws into. It is
// deliberately narrower than device.Device: a renderer never needs
// input or resize notifications, only pixels.
type Canvas interface {
	Bounds() (width, height int)
	Set(x, y int, r, g, b, a uint8)
}

// Attrs carries the font attributes spec.md §1 requires alongside each
// character rectangle: enough to tell a recurring page-number block
// (small, regular) from a heading (large, bold) without re-parsing the
// content stream.
type Attrs struct {
	FontName string
	FontSize float64
	Bold     bool
	Italic   bool
	Color    [3]float64 // display RGB, 0..1
}

// CharRect is one glyph: its rectangle in page space, the rune it
// represents (0 if undecodable), and its font attributes.
type CharRect struct {
	Rect  rect.Rectangle
	Rune  rune
	Attrs Attrs
}

// Match is one occurrence of a search needle: the rectangles of the
// matched characters (possibly spanning a line wrap) and the byte
// offset into Page.Text the match starts at.
type Match struct {
	Rects  []rect.Rectangle
	Offset int
}

// LinkKind distinguishes an internal (go-to-page) link from an
// external (URI) one.
type LinkKind int

const (
	LinkNone LinkKind = iota
	LinkGoTo
	LinkURI
)

// Link is a clickable region of a page: either a jump to another page
// or a URI to open externally.
type Link struct {
	Rect        rect.Rectangle
	Kind        LinkKind
	TargetPage  int
	TargetY     float64
	URI         string
}

// Annotation is a page annotation (note, highlight, link, …); Link is
// non-nil when Subtype denotes a clickable region (grounded on
// pdfannot.c, see SPEC_FULL.md "Per-page annotation/link summaries").
type Annotation struct {
	Rect     rect.Rectangle
	Subtype  string
	Contents string
	Link     *Link
}
