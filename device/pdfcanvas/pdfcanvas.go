// Package pdfcanvas bridges pdf.Page.Render's pixel-oriented
// pdf.Canvas onto a device.Canvas, which only exposes the vector
// primitives cairoui.c's windows draw with (rectangle/fill/stroke/
// text). None of the three device backends expose a raw pixel blit —
// cairo's image-surface compositing was never ported, since
// spec.md §4.I only specifies device.Device by the operations the
// window/label runtime itself needs — so a rendered page is painted
// onto a device as a set of solid-color row runs instead of a single
// image blit.
package pdfcanvas

import (
	"image"
	"image/color"

	"github.com/wudi/hovacui/pdf"
)

// Image is a pdf.Canvas backed by an in-memory RGBA buffer, the
// target pdf.Page.Render paints into before Blit transfers it onto a
// device.Canvas.
type Image struct {
	img *image.RGBA
}

// NewImage returns a w-by-h Image, white-filled (the page background).
func NewImage(w, h int) *Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, white)
		}
	}
	return &Image{img: img}
}

func (i *Image) Bounds() (int, int) { return i.img.Rect.Dx(), i.img.Rect.Dy() }

func (i *Image) Set(x, y int, r, g, b, a uint8) {
	i.img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: a})
}

var _ pdf.Canvas = (*Image)(nil)

// canvasTarget is the subset of device.Canvas Blit needs; stated
// locally (like ui.Canvas) so this package doesn't have to import
// device just to name its parameter type, keeping pdf and device
// mutually independent.
type canvasTarget interface {
	Rectangle(x, y, w, h float64)
	Fill()
	SetSourceRGB(r, g, b float64)
}

// Blit paints i onto dst at offset (x0,y0), one filled rectangle per
// maximal horizontal run of identically-colored pixels — a page
// rendered by the coarse box-fill renderer in pdf/native consists
// mostly of large flat-colored regions, so this stays a small number
// of draw calls rather than one per pixel.
func Blit(dst canvasTarget, i *Image, x0, y0 float64) {
	w, h := i.Bounds()
	for y := 0; y < h; y++ {
		x := 0
		for x < w {
			start := i.img.RGBAAt(x, y)
			runEnd := x + 1
			for runEnd < w {
				c := i.img.RGBAAt(runEnd, y)
				if c.R != start.R || c.G != start.G || c.B != start.B {
					break
				}
				runEnd++
			}
			dst.SetSourceRGB(float64(start.R)/255, float64(start.G)/255, float64(start.B)/255)
			dst.Rectangle(x0+float64(x), y0+float64(y), float64(runEnd-x), 1)
			dst.Fill()
			x = runEnd
		}
	}
}
