package native

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/wudi/hovacui/contentstream"
	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/ir/semantic"
	"github.com/wudi/hovacui/pdf"
)

// Render is a deliberately coarse rasterizer: spec.md treats the PDF
// renderer as an external collaborator specified only by
// pdf.Page.Render, so this exists to give the rest of the viewer
// something real to paint rather than to reproduce hinted glyph
// outlines. Vector fills (re/f/S) are drawn as solid rectangles; text
// is drawn as one filled box per character, reusing the same
// CharRect geometry Chars already computes.
func (p *Page) Render(ctx context.Context, m coords.Matrix, dst pdf.Canvas) error {
	w, h := dst.Bounds()
	if w <= 0 || h <= 0 {
		return nil
	}

	if err := p.renderPaths(ctx, m, dst); err != nil {
		return err
	}

	chars, err := p.Chars(ctx)
	if err != nil {
		return err
	}
	for _, c := range chars {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if c.Rune == 0 || c.Rune == ' ' {
			continue
		}
		fillDeviceBox(dst, m, c.Rect.X1, c.Rect.Y1, c.Rect.X2, c.Rect.Y2, c.Attrs.Color)
	}
	return nil
}

// renderPaths fills the page's re/f and re/S rectangles, the one
// vector-graphics primitive simple enough to approximate without a
// real path-filling rasterizer.
func (p *Page) renderPaths(ctx context.Context, m coords.Matrix, dst pdf.Canvas) error {
	gs := &contentstream.GraphicsState{CTM: coords.Identity()}
	var pendingRect [4]float64
	var hasRect bool

	for _, cs := range p.page.Contents {
		for _, op := range cs.Operations {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			switch op.Operator {
			case "q":
				gs.Save()
			case "Q":
				if err := gs.Restore(); err != nil {
					return err
				}
			case "cm":
				if len(op.Operands) == 6 {
					gs.CTM = matrixOf(op.Operands).Multiply(gs.CTM)
				}
			case "re":
				if len(op.Operands) == 4 {
					pendingRect = [4]float64{
						floatOf(op.Operands[0]), floatOf(op.Operands[1]),
						floatOf(op.Operands[2]), floatOf(op.Operands[3]),
					}
					hasRect = true
				}
			case "f", "f*", "S", "B", "B*":
				if !hasRect {
					continue
				}
				x, y, w, h := pendingRect[0], pendingRect[1], pendingRect[2], pendingRect[3]
				full := gs.CTM.Multiply(m)
				p1 := full.Transform(coords.Point{X: x, Y: y})
				p2 := full.Transform(coords.Point{X: x + w, Y: y + h})
				fillDeviceCorners(dst, p1, p2, [3]float64{0.5, 0.5, 0.5})
				hasRect = false
			case "n":
				hasRect = false
			case "Do":
				if len(op.Operands) != 1 {
					continue
				}
				xname, ok := op.Operands[0].(semantic.NameOperand)
				if !ok || p.page.Resources == nil {
					continue
				}
				xobj, ok := p.page.Resources.XObjects[xname.Value]
				if !ok || xobj.Subtype != "Image" {
					continue
				}
				drawImageXObject(dst, gs.CTM.Multiply(m), xobj)
			}
		}
	}
	return nil
}

// drawImageXObject paints an Image XObject's unit square (the space Do
// always draws into, per PDF 32000-1 8.9.5.2) through full, the same
// nearest-neighbor sampling fillDeviceCorners uses for path fills —
// this renderer never claims sub-pixel-accurate resampling.
func drawImageXObject(dst pdf.Canvas, full coords.Matrix, xobj semantic.XObject) {
	img := decodeXObjectImage(xobj)
	if img == nil {
		return
	}
	p1 := full.Transform(coords.Point{X: 0, Y: 0})
	p2 := full.Transform(coords.Point{X: 1, Y: 1})
	w, h := dst.Bounds()
	x1, x2 := clampOrder(p1.X, p2.X, w)
	y1, y2 := clampOrder(p1.Y, p2.Y, h)
	if x2 <= x1 || y2 <= y1 {
		return
	}
	bounds := img.Bounds()
	for y := y1; y < y2; y++ {
		sy := bounds.Min.Y + (y-y1)*bounds.Dy()/(y2-y1)
		for x := x1; x < x2; x++ {
			sx := bounds.Min.X + (x-x1)*bounds.Dx()/(x2-x1)
			r, g, b, a := img.At(sx, sy).RGBA()
			dst.Set(x, y, uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
		}
	}
}

// decodeXObjectImage decodes the subset of image encodings this
// best-effort renderer understands: DCTDecode (a real JPEG stream, via
// the standard library) and raw, unfiltered 8-bit samples. Anything
// else (JPX, CCITT fax, indexed palettes) is left undrawn rather than
// guessed at.
func decodeXObjectImage(xobj semantic.XObject) image.Image {
	if xobj.Filter == "DCTDecode" {
		img, err := jpeg.Decode(bytes.NewReader(xobj.Data))
		if err != nil {
			return nil
		}
		return img
	}
	if xobj.BitsPerComponent != 8 || xobj.Width <= 0 || xobj.Height <= 0 {
		return nil
	}
	comps := 3
	if xobj.ColorSpace != nil {
		switch xobj.ColorSpaceName() {
		case "DeviceGray", "CalGray":
			comps = 1
		case "DeviceCMYK":
			comps = 4
		}
	}
	if len(xobj.Data) < xobj.Width*xobj.Height*comps {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, xobj.Width, xobj.Height))
	for y := 0; y < xobj.Height; y++ {
		for x := 0; x < xobj.Width; x++ {
			off := (y*xobj.Width + x) * comps
			var r, g, b uint8
			switch comps {
			case 1:
				r, g, b = xobj.Data[off], xobj.Data[off], xobj.Data[off]
			case 4:
				c, ma, ye, k := int(xobj.Data[off]), int(xobj.Data[off+1]), int(xobj.Data[off+2]), int(xobj.Data[off+3])
				r = uint8(255 - min(255, c+k))
				g = uint8(255 - min(255, ma+k))
				b = uint8(255 - min(255, ye+k))
			default:
				r, g, b = xobj.Data[off], xobj.Data[off+1], xobj.Data[off+2]
			}
			out.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

// fillDeviceBox transforms the page-space box (x1,y1)-(x2,y2) by m and
// fills the resulting device-space rectangle.
func fillDeviceBox(dst pdf.Canvas, m coords.Matrix, x1, y1, x2, y2 float64, rgb [3]float64) {
	p1 := m.Transform(coords.Point{X: x1, Y: y1})
	p2 := m.Transform(coords.Point{X: x2, Y: y2})
	fillDeviceCorners(dst, p1, p2, rgb)
}

func fillDeviceCorners(dst pdf.Canvas, p1, p2 coords.Point, rgb [3]float64) {
	w, h := dst.Bounds()
	x1, x2 := clampOrder(p1.X, p2.X, w)
	y1, y2 := clampOrder(p1.Y, p2.Y, h)
	r, g, b := byteOf(rgb[0]), byteOf(rgb[1]), byteOf(rgb[2])
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			dst.Set(x, y, r, g, b, 255)
		}
	}
}

func clampOrder(a, b float64, max int) (int, int) {
	lo, hi := int(a), int(b)
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi > max {
		hi = max
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

func byteOf(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
