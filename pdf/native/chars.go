package native

import (
	"context"
	"strings"

	"github.com/wudi/hovacui/contentstream"
	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/ir/semantic"
	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/rect"
)

// layoutChars walks a page's content streams the way
// contentstream.Tracer does (same GraphicsState/TextState bookkeeping,
// same cm/Tm/Td/Tf operators), but stops one level earlier: instead of
// one bounding box per Tj/TJ operation, it emits one pdf.CharRect per
// glyph, advancing the pen by that glyph's own width rather than the
// whole string's.
func layoutChars(ctx context.Context, page *semantic.Page) ([]pdf.CharRect, error) {
	var out []pdf.CharRect
	gs := &contentstream.GraphicsState{CTM: coords.Identity()}
	ts := &contentstream.TextState{
		TextMatrix:     coords.Identity(),
		TextLineMatrix: coords.Identity(),
	}

	for _, cs := range page.Contents {
		for _, op := range cs.Operations {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			default:
			}
			switch op.Operator {
			case "q":
				gs.Save()
			case "Q":
				if err := gs.Restore(); err != nil {
					return out, err
				}
			case "cm":
				if len(op.Operands) == 6 {
					gs.CTM = matrixOf(op.Operands).Multiply(gs.CTM)
				}
			case "BT":
				ts.TextMatrix = coords.Identity()
				ts.TextLineMatrix = coords.Identity()
			case "Tf":
				if len(op.Operands) == 2 {
					if name, ok := op.Operands[0].(semantic.NameOperand); ok {
						if font, ok := page.Resources.Fonts[name.Value]; ok {
							ts.Font = font
						}
					}
					if size, ok := op.Operands[1].(semantic.NumberOperand); ok {
						ts.FontSize = size.Value
					}
				}
			case "Tm":
				if len(op.Operands) == 6 {
					ts.TextLineMatrix = matrixOf(op.Operands)
					ts.TextMatrix = ts.TextLineMatrix
				}
			case "Td", "TD":
				if len(op.Operands) == 2 {
					tx := floatOf(op.Operands[0])
					ty := floatOf(op.Operands[1])
					m := coords.Translate(tx, ty)
					ts.TextLineMatrix = m.Multiply(ts.TextLineMatrix)
					ts.TextMatrix = ts.TextLineMatrix
				}
			case "T*":
				m := coords.Translate(0, 0)
				ts.TextLineMatrix = m.Multiply(ts.TextLineMatrix)
				ts.TextMatrix = ts.TextLineMatrix
			case "Tj", "'", "\"":
				if len(op.Operands) >= 1 {
					if str, ok := op.Operands[len(op.Operands)-1].(semantic.StringOperand); ok {
						out = appendGlyphs(out, str.Value, ts, gs)
					}
				}
			case "TJ":
				if len(op.Operands) == 1 {
					if arr, ok := op.Operands[0].(semantic.ArrayOperand); ok {
						for _, item := range arr.Values {
							switch v := item.(type) {
							case semantic.StringOperand:
								out = appendGlyphs(out, v.Value, ts, gs)
							case semantic.NumberOperand:
								advanceText(ts, -v.Value/1000*ts.FontSize)
							}
						}
					}
				}
			}
		}
	}
	return out, nil
}

func matrixOf(ops []semantic.Operand) coords.Matrix {
	var m coords.Matrix
	for i := range m {
		m[i] = floatOf(ops[i])
	}
	return m
}

func floatOf(op semantic.Operand) float64 {
	if n, ok := op.(semantic.NumberOperand); ok {
		return n.Value
	}
	return 0
}

// advanceText moves the text matrix dx text-space units along its own
// x axis, the effect Tj/TJ have on the pen after drawing (PDF spec
// 9.4.3): the matrix itself is never updated by Tj/TJ in the file, only
// the implicit "current point", so this package tracks that separately
// via a running translation composed into TextMatrix per glyph.
func advanceText(ts *contentstream.TextState, dx float64) {
	ts.TextMatrix = coords.Translate(dx, 0).Multiply(ts.TextMatrix)
}

func appendGlyphs(out []pdf.CharRect, text []byte, ts *contentstream.TextState, gs *contentstream.GraphicsState) []pdf.CharRect {
	if ts.Font == nil {
		return out
	}
	attrs := attrsOf(ts.Font, ts.FontSize)
	for _, b := range text {
		width := glyphWidth(ts.Font, b)
		r := glyphRect(width, ts, gs)
		out = append(out, pdf.CharRect{
			Rect:  r,
			Rune:  runeOf(ts.Font, b),
			Attrs: attrs,
		})
		advanceText(ts, width/1000*ts.FontSize)
	}
	return out
}

func glyphWidth(font *semantic.Font, code byte) float64 {
	if w, ok := font.Widths[int(code)]; ok {
		return float64(w)
	}
	return 500
}

func runeOf(font *semantic.Font, code byte) rune {
	if rs, ok := font.ToUnicode[int(code)]; ok && len(rs) > 0 {
		return rs[0]
	}
	if code >= 0x20 && code < 0x7f {
		return rune(code)
	}
	return 0
}

func glyphRect(width float64, ts *contentstream.TextState, gs *contentstream.GraphicsState) rect.Rectangle {
	w := width / 1000 * ts.FontSize
	h := ts.FontSize
	m := ts.TextMatrix.Multiply(gs.CTM)
	p1 := m.Transform(coords.Point{X: 0, Y: 0})
	p2 := m.Transform(coords.Point{X: w, Y: 0})
	p3 := m.Transform(coords.Point{X: 0, Y: h})
	p4 := m.Transform(coords.Point{X: w, Y: h})
	return boundsOf(p1, p2, p3, p4)
}

func boundsOf(points ...coords.Point) rect.Rectangle {
	r := rect.New(points[0].X, points[0].Y, points[0].X, points[0].Y)
	for _, p := range points[1:] {
		if p.X < r.X1 {
			r.X1 = p.X
		}
		if p.X > r.X2 {
			r.X2 = p.X
		}
		if p.Y < r.Y1 {
			r.Y1 = p.Y
		}
		if p.Y > r.Y2 {
			r.Y2 = p.Y
		}
	}
	return r
}

func attrsOf(font *semantic.Font, size float64) pdf.Attrs {
	name := font.BaseFont
	bold := strings.Contains(strings.ToLower(name), "bold")
	italic := strings.Contains(strings.ToLower(name), "italic") || strings.Contains(strings.ToLower(name), "oblique")
	if font.Descriptor != nil {
		const italicFlag = 1 << 6  // PDF 32000-1 Table 123, bit 7
		const forceBoldFlag = 1 << 18 // bit 19
		if font.Descriptor.Flags&italicFlag != 0 || font.Descriptor.ItalicAngle != 0 {
			italic = true
		}
		if font.Descriptor.Flags&forceBoldFlag != 0 {
			bold = true
		}
	}
	return pdf.Attrs{
		FontName: name,
		FontSize: size,
		Bold:     bold,
		Italic:   italic,
	}
}
