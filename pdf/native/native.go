// Package native is the concrete pdf.Document/pdf.Page adapter over the
// parsing toolkit in ir/, parser/, xref/, scanner/, contentstream/ and
// fonts/: spec.md specifies the PDF backend only by interface (§1 "Out
// of scope"), so this package exists to give the rest of the viewer
// something real to run against. Grounded on ir/pipeline.go's
// Raw->Decoded->Semantic pipeline and extractor/'s whole-document
// walking style.
package native

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/wudi/hovacui/ir"
	"github.com/wudi/hovacui/ir/semantic"
	"github.com/wudi/hovacui/observability"
	"github.com/wudi/hovacui/pdf"
	pdfocr "github.com/wudi/hovacui/pdf/ocr"
	"github.com/wudi/hovacui/rect"
)

// Document wraps a parsed semantic.Document as a pdf.Document.
type Document struct {
	doc    *semantic.Document
	logger observability.Logger

	mu    sync.Mutex
	pages []*Page // lazily built, one per semantic page
}

// Open parses r into a Document. logger may be nil (observability.NopLogger is used).
func Open(ctx context.Context, r io.ReaderAt, password string, logger observability.Logger) (*Document, error) {
	if logger == nil {
		logger = observability.NopLogger{}
	}
	pipeline := ir.NewDefault().WithPassword(password)
	sem, err := pipeline.Parse(ctx, r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: sem, logger: logger, pages: make([]*Page, len(sem.Pages))}, nil
}

func (d *Document) PageCount() int { return len(d.doc.Pages) }

func (d *Document) Page(index int) (pdf.Page, error) {
	if index < 0 || index >= len(d.doc.Pages) {
		return nil, pdf.ErrPageRange
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pages[index] == nil {
		d.pages[index] = newPage(d, d.doc.Pages[index])
	}
	return d.pages[index], nil
}

func (d *Document) Metadata() pdf.Metadata {
	md := pdf.Metadata{PageCount: len(d.doc.Pages), Lang: d.doc.Lang}
	if d.doc.Info != nil {
		md.Title = d.doc.Info.Title
		md.Author = d.doc.Info.Author
	}
	return md
}

func (d *Document) Close() error { return nil }

// Page wraps one semantic.Page, caching the per-character layout the
// rest of its methods (Text/Find/Render) are all built on.
type Page struct {
	doc  *Document
	page *semantic.Page

	mu    sync.Mutex
	chars []pdf.CharRect // nil until first Chars() call
}

func newPage(d *Document, p *semantic.Page) *Page { return &Page{doc: d, page: p} }

func (p *Page) Index() int { return p.page.Index }

func (p *Page) MediaBox() rect.Rectangle {
	mb := p.page.MediaBox
	return rect.New(mb.LLX, mb.LLY, mb.URX, mb.URY)
}

func (p *Page) Chars(ctx context.Context) ([]pdf.CharRect, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.chars != nil {
		return p.chars, nil
	}
	chars, err := layoutChars(ctx, p.page)
	if err != nil {
		return nil, err
	}
	p.chars = chars
	return chars, nil
}

func (p *Page) Text(ctx context.Context) (string, error) {
	chars, err := p.Chars(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, c := range chars {
		if c.Rune == 0 {
			continue
		}
		b.WriteRune(c.Rune)
	}
	if b.Len() > 0 {
		return b.String(), nil
	}
	// A scanned page's content stream draws an image and nothing else,
	// so Chars comes back empty; fall back to recognizing the page
	// raster instead of reporting no text at all.
	text, ocrErr := pdfocr.FallbackTextDefault(ctx, p, 0)
	if ocrErr != nil {
		if p.doc != nil {
			p.doc.logger.Warn("ocr fallback failed", observability.Int("page", p.page.Index), observability.Error("error", ocrErr))
		}
		return "", nil
	}
	return text, nil
}

func (p *Page) Find(ctx context.Context, needle string) ([]pdf.Match, error) {
	if needle == "" {
		return nil, nil
	}
	chars, err := p.Chars(ctx)
	if err != nil {
		return nil, err
	}
	text, err := p.Text(ctx)
	if err != nil {
		return nil, err
	}
	lowerText, lowerNeedle := strings.ToLower(text), strings.ToLower(needle)
	var matches []pdf.Match
	runes := []rune(lowerText)
	needleRunes := []rune(lowerNeedle)
	for i := 0; i+len(needleRunes) <= len(runes); i++ {
		if !runesEqual(runes[i:i+len(needleRunes)], needleRunes) {
			continue
		}
		rects := make([]rect.Rectangle, 0, len(needleRunes))
		for j := 0; j < len(needleRunes); j++ {
			rects = append(rects, charRuneRect(chars, i+j))
		}
		matches = append(matches, pdf.Match{Rects: rects, Offset: byteOffsetOfRune(text, i)})
	}
	return matches, nil
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// charRuneRect maps a rune index in the page's rune-only text back to
// its CharRect, skipping the zero-rune entries Chars never emits for
// text but Text()/Find() must stay index-aligned with.
func charRuneRect(chars []pdf.CharRect, runeIndex int) rect.Rectangle {
	n := 0
	for _, c := range chars {
		if c.Rune == 0 {
			continue
		}
		if n == runeIndex {
			return c.Rect
		}
		n++
	}
	return rect.Rectangle{}
}

func byteOffsetOfRune(text string, runeIndex int) int {
	n := 0
	for i := range text {
		if n == runeIndex {
			return i
		}
		n++
	}
	return len(text)
}
