// Package pdftext extracts paragraph-aware text from a page's
// character stream, formatted through a pluggable set of escape/markup
// strings. Grounded on struct measure/struct format and showbox/face/
// showcharacter in _examples/original_source/pdftext.c (spec.md §4.F).
package pdftext

import (
	"context"
	"strings"

	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/rect"
	"github.com/wudi/hovacui/textarea"
)

// Measure holds the thresholds driving the paragraph/column heuristic.
// Percentages (RightReturn, NewColumnX, NewColumnY) are 0..100; the
// rest are document-space point deltas. Grounded on struct measure.
type Measure struct {
	NewLine     float64 // more Δy than this is a line break
	NewPar      float64 // more Δy than this is a new paragraph
	RightReturn float64 // line end before this %x of the block width is a paragraph break
	NewColumnX  float64 // more than this Δx% is a new column (and)
	NewColumnY  float64 // more than this -Δy% is a new column (and)
	Indent      float64 // more than this at start of line is an indent
	BlockDistance float64 // text-area space threshold, forwarded to textarea.Decompose
}

// DefaultMeasure mirrors the original's command-line defaults.
var DefaultMeasure = Measure{
	NewLine:       3,
	NewPar:        25,
	RightReturn:   90,
	NewColumnX:    50,
	NewColumnY:    50,
	Indent:        10,
	BlockDistance: -1, // adaptive
}

// Format names the markup strings and escape substitutions used to
// render a paragraph/face structure into a textual output language.
// Grounded on struct format.
type Format struct {
	ParStart, ParEnd string

	FontName string // printf-style format for the font name, or "" to omit

	Plain, Italic, Bold, BoldItalic             string
	ItalicBegin, ItalicEnd, BoldBegin, BoldEnd string

	Reset bool // reset and reopen all active faces at paragraph breaks

	Backslash, FirstDot, Less, Greater, And string
}

// FormatRoff, FormatHTML, FormatTeX and FormatPlain are the four
// builtin output formats carried over from the original's
// format_roff/format_html/format_tex/format_text. spec.md only
// requires a pluggable format; the four concrete ones are a
// supplemented feature the distillation simply didn't enumerate.
var (
	FormatRoff = Format{
		ParStart: ".ti 1\n", ParEnd: "\n",
		Plain: "\\fR", Italic: "\\fI", Bold: "\\fB", BoldItalic: "\\f[BI]",
		Backslash: "\\", FirstDot: "\\[char46]", Less: "<", Greater: ">", And: "&",
	}
	FormatHTML = Format{
		ParStart: "\n<p>", ParEnd: "</p>\n",
		ItalicBegin: "<i>", ItalicEnd: "</i>", BoldBegin: "<b>", BoldEnd: "</b>",
		Reset:     true,
		Backslash: "\\", FirstDot: ".", Less: "&lt;", Greater: "&gt;", And: "&amp;",
	}
	FormatTeX = Format{
		ParEnd: "\n\n",
		Plain:  "\\rm ", Italic: "\\it ", Bold: "\\bf ", BoldItalic: "\\bf ",
		Backslash: "\\backslash ", FirstDot: ".", Less: "<", Greater: ">", And: "\\& ",
	}
	FormatPlain = Format{
		ParEnd:    "\n",
		Backslash: "\\", FirstDot: ".", Less: "<", Greater: ">", And: "&",
	}
)

// Method selects which rectangles bound the text being extracted,
// matching the original's numeric "method" parameter.
type Method int

const (
	// MethodPage treats the whole page (its media box) as one block
	// and detects columns within it.
	MethodPage Method = iota
	// MethodBBox uses the page's tight text bounding box as one block.
	MethodBBox
	// MethodBlocks uses the full textarea.Decompose block list —
	// paragraph and column detection follow block boundaries instead.
	MethodBlocks
)

// prevMarker distinguishes the "nothing pending" and "start of stream"
// sentinels from an ordinary pending rune (a space or a suppressed
// hyphen), mirroring NONE/START in the original.
type prevMarker = rune

const (
	prevNone  prevMarker = 0
	prevStart prevMarker = 1
)

// state carries the running extraction state across characters,
// equivalent to the original's (newpar, prev) pair threaded by
// reference through showbox/showpage/enddocument.
type state struct {
	out     strings.Builder
	newPar  bool
	prev    prevMarker
	italic  bool
	bold    bool
	newFace bool
}

// Extract renders a page's characters as formatted text, per the
// Measure thresholds and into format's markup. A zero-length page
// returns "".
func Extract(ctx context.Context, page pdf.Page, method Method, measure Measure, format Format) (string, error) {
	chars, err := page.Chars(ctx)
	if err != nil {
		return "", err
	}
	if len(chars) == 0 {
		return "", nil
	}

	blocks, detectColumn, err := textAreaFor(ctx, page, method, measure)
	if err != nil {
		return "", err
	}

	st := &state{prev: prevStart, newFace: true}
	showChars(chars, blocks, detectColumn, measure, format, st)
	return st.out.String(), nil
}

func textAreaFor(ctx context.Context, page pdf.Page, method Method, measure Measure) (*rect.List, bool, error) {
	switch method {
	case MethodBBox:
		bbox, ok := textarea.BoundingBox(ctx, page)
		if !ok {
			bbox = page.MediaBox()
		}
		return rect.NewSequence(bbox), false, nil
	case MethodBlocks:
		return textarea.Decompose(ctx, page, measure.BlockDistance), false, nil
	default:
		return rect.NewSequence(page.MediaBox()), true, nil
	}
}

// showChars is the character-stream state machine: equivalent to
// showbox() minus the poppler-specific plumbing (PopplerRectangle*
// arrays, GList attribute runs) — pdf.CharRect already carries
// per-character rectangles and resolved Bold/Italic attributes.
func showChars(chars []pdf.CharRect, blocks *rect.List, detectColumn bool, measure Measure, format Format, st *state) {
	out := &st.out
	var tr rect.Rectangle
	haveBlock := false
	var left, yline float64
	shortLine := false
	startColumn := true

	for i, c := range chars {
		crect := c.Rect
		var newLine bool

		if haveBlock && rect.Contain(tr, crect) {
			newLine = false
		} else {
			idx := blocks.IndexContain(crect)
			if idx < 0 {
				idx = blocks.IndexOverlap(crect)
			}
			if idx >= 0 {
				tr = blocks.Items[idx]
				haveBlock = true
			} else if c.Rune == ' ' {
				tr = crect
				haveBlock = false
			} else {
				// character outside any known block: treat its own
				// rectangle as a one-character block rather than
				// aborting extraction (the original exits here).
				tr = crect
				haveBlock = false
			}
			left = tr.X1
			yline = tr.Y1 - measure.NewLine - 1
			newLine = true
		}

		if c.Rune == '\n' || newLine {
			if shortLine {
				st.newPar = true
			} else {
				if st.prev == '-' || st.prev == prevStart {
					st.prev = prevNone
				} else {
					st.prev = ' '
				}
			}
		}

		if c.Rune == '\n' {
			continue
		}

		if detectColumn && newColumn(yline, crect, left, tr, measure) {
			startColumn = true
		}
		if detectColumn && startColumn {
			left, yline = columnOrigin(chars, i, measure)
			startColumn = false
		}

		if crect.Y1-yline > measure.NewLine {
			if crect.Y1-yline > measure.NewPar {
				st.newPar = true
			}
			yline = crect.Y1
			if crect.X1-left > measure.Indent {
				st.newPar = true
			}
		}

		if st.newPar {
			face(out, false, true, st, c.Attrs, format)
			if st.prev != prevStart {
				out.WriteString(format.ParEnd)
			}
			out.WriteString(format.ParStart)
			face(out, true, true, st, c.Attrs, format)
		} else if st.prev > prevStart {
			out.WriteRune(st.prev)
		}

		if i > 0 && attrsDiffer(chars[i-1].Attrs, c.Attrs) {
			st.newFace = true
		}
		if st.newFace && c.Rune != ' ' {
			face(out, true, false, st, c.Attrs, format)
			st.newFace = false
		}

		var next rune = 0
		if i+1 < len(chars) {
			next = chars[i+1].Rune
		}
		showCharacter(out, c.Rune, next, st, format)

		shortLine = isShortLine(crect, left, tr.X2, measure)
		st.newPar = false
	}

	if shortLine {
		st.newPar = true
	}
	face(out, false, true, st, chars[len(chars)-1].Attrs, format)
}

// attrsDiffer reports a face-relevant change: font name (for
// Format.FontName), or bold/italic.
func attrsDiffer(a, b pdf.Attrs) bool {
	return a.FontName != b.FontName || a.Bold != b.Bold || a.Italic != b.Italic
}

// face opens or closes the current font face, per the original's
// face(): start/reset combinations choose which of Plain/Italic/Bold/
// BoldItalic or the *Begin/*End pair strings to emit.
func face(out *strings.Builder, start, reset bool, st *state, attrs pdf.Attrs, format Format) {
	if reset && !format.Reset {
		return
	}
	newItalic, newBold := attrs.Italic, attrs.Bold

	if start && !reset && format.FontName != "" {
		out.WriteString(strings.Replace(format.FontName, "%s", attrs.FontName, 1))
	}

	if start {
		switch {
		case !newItalic && !newBold:
			out.WriteString(format.Plain)
		case newItalic && !newBold:
			out.WriteString(format.Italic)
		case !newItalic && newBold:
			out.WriteString(format.Bold)
		}
		if newItalic && newBold {
			out.WriteString(format.BoldItalic)
		}
	}
	if !start && reset {
		out.WriteString(format.Plain)
	}

	if !start {
		if st.bold && newBold == reset {
			out.WriteString(format.BoldEnd)
		}
		if st.italic && newItalic == reset {
			out.WriteString(format.ItalicEnd)
		}
	} else {
		if st.italic == reset && newItalic {
			out.WriteString(format.ItalicBegin)
		}
		if st.bold == reset && newBold {
			out.WriteString(format.BoldBegin)
		}
	}

	if start && !reset {
		st.italic, st.bold = newItalic, newBold
	}
}

// showCharacter emits a single rune, substituting format's escapes and
// suppressing a hyphen that falls at end-of-line/end-of-input so the
// next character concatenates without a break. Grounded on
// showcharacter().
func showCharacter(out *strings.Builder, cur, next rune, st *state, format Format) {
	st.prev = prevNone
	switch {
	case cur == '\\':
		out.WriteString(format.Backslash)
	case st.newPar && cur == '.':
		out.WriteString(format.FirstDot)
	case cur == '<':
		out.WriteString(format.Less)
	case cur == '>':
		out.WriteString(format.Greater)
	case cur == '&':
		out.WriteString(format.And)
	case cur == '-' && (next == 0 || next == '\n'):
		st.prev = '-'
	default:
		out.WriteRune(cur)
	}
}

// isShortLine reports whether a line ended well short of the block's
// right edge, a signal (combined with an explicit newline) that the
// line was the end of a paragraph.
func isShortLine(crect rect.Rectangle, left, right float64, measure Measure) bool {
	return crect.X2-left < (right-left)*measure.RightReturn/100
}

// newColumn reports a horizontal jump combined with an upward jump —
// the signature of wrapping from the bottom of one column to the top
// of the next. Grounded on newcolumn().
func newColumn(y float64, crect rect.Rectangle, left float64, tr rect.Rectangle, measure Measure) bool {
	return crect.X1-left > (tr.X2-tr.X1)*measure.NewColumnX/100 &&
		y-crect.Y1 > (tr.Y2-tr.Y1)*measure.NewColumnY/100
}

// columnOrigin scans ahead for the leftmost/topmost character once a
// new column has been detected, matching the original's re-anchoring
// of (left, y) to the remaining character stream.
func columnOrigin(chars []pdf.CharRect, from int, measure Measure) (left, y float64) {
	left, y = 1e9, 1e9
	for _, c := range chars[from:] {
		if c.Rect.X1 < left {
			left = c.Rect.X1
		}
		if c.Rect.Y1 < y {
			y = c.Rect.Y1
		}
	}
	if left == 1e9 {
		return 0, 0
	}
	return left, y - measure.NewLine - 1
}
