// Package ocr is the bridge between pdf.Page and the OCR engine
// interface in ocr/: a scanned page's content stream yields no
// character rectangles at all, so pdf/native's Page.Text falls back to
// rasterizing the page and recognizing it with ocr.DefaultEngine (the
// Tesseract engine once ocr/tesseract is imported, as cmd/hovacui does;
// otherwise a no-op engine that returns no text).
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/ocr"
	"github.com/wudi/hovacui/pdf"
)

// DefaultDPI is the rasterization resolution used when a caller does
// not override it, chosen as a reasonable middle ground between
// recognition accuracy and memory use on a small-screen device.
const DefaultDPI = 150

// rasterCanvas is a pdf.Canvas backed by an in-memory RGBA image, just
// big enough for Page.Render to paint into before it is handed to the
// OCR engine.
type rasterCanvas struct {
	img *image.RGBA
}

func newRasterCanvas(w, h int) *rasterCanvas {
	return &rasterCanvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (c *rasterCanvas) Bounds() (int, int) { return c.img.Rect.Dx(), c.img.Rect.Dy() }

func (c *rasterCanvas) Set(x, y int, r, g, b, a uint8) {
	c.img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
}

// FallbackText rasterizes page at dpi (DefaultDPI if dpi <= 0) and runs
// engine over the result, returning the recognized plain text.
func FallbackText(ctx context.Context, page pdf.Page, engine ocr.Engine, dpi int) (string, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	mb := page.MediaBox()
	scale := float64(dpi) / 72.0
	w := int(mb.Width() * scale)
	h := int(mb.Height() * scale)
	if w <= 0 || h <= 0 {
		return "", nil
	}

	canvas := newRasterCanvas(w, h)
	// PDF user space has its origin at the bottom-left with y increasing
	// upward; image space has its origin at the top-left with y
	// increasing downward, hence the vertical flip folded into the scale.
	m := coords.Matrix{scale, 0, 0, -scale, -mb.X1 * scale, mb.Y2 * scale}
	if err := page.Render(ctx, m, canvas); err != nil {
		return "", fmt.Errorf("rasterize page for ocr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas.img); err != nil {
		return "", fmt.Errorf("encode page raster: %w", err)
	}

	result, err := engine.Recognize(ctx, ocr.Input{
		ID:        fmt.Sprintf("page-%d", page.Index()),
		Image:     buf.Bytes(),
		Format:    ocr.ImageFormatPNG,
		PageIndex: page.Index(),
		DPI:       dpi,
	})
	if err != nil {
		return "", fmt.Errorf("recognize page: %w", err)
	}
	return result.PlainText, nil
}

// FallbackTextDefault is FallbackText against ocr.DefaultEngine(), so
// callers that only need the default engine don't also have to import
// package ocr themselves under an alias (both this package and the
// engine-interface package are named ocr).
func FallbackTextDefault(ctx context.Context, page pdf.Page, dpi int) (string, error) {
	return FallbackText(ctx, page, ocr.DefaultEngine(), dpi)
}
