package ui

import "github.com/wudi/hovacui/rect"

// LineHeight is the vertical spacing between list/field rows, in
// multiples of the canvas's current font size — the ratio
// cairoui_list/cairoui_field draw their rows at.
const LineHeight = 1.4

// Canvas is the drawing surface a primitive paints itself onto,
// structurally identical to device.Canvas: ui sits below device in the
// dependency order (device.Event carries a ui.Input), so this package
// cannot import device without a cycle and instead states the same
// method set itself — any device.Canvas value already satisfies it.
type Canvas interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rectangle(x, y, w, h float64)
	Stroke()
	Fill()
	SetSourceRGB(r, g, b float64)
	SetFontSize(size float64)
	ShowText(s string)
	TextExtents(s string) (width, height float64)
}

// Draw paints the list inside dest: the title (if any) on the first
// row, then one row per visible item starting at Top, with the
// selected row (if any) highlighted by a filled rectangle behind its
// text. Grounded on cairoui_list's drawing half.
func (l *List) Draw(c Canvas, dest rect.Rectangle) {
	_, lineH := c.TextExtents("Mg")
	lineH *= LineHeight
	y := dest.Y1 + lineH

	if l.Title != "" {
		c.SetSourceRGB(0, 0, 0)
		c.MoveTo(dest.X1, y)
		c.ShowText(l.Title)
		y += lineH
	}

	top := l.Top
	for i := 0; i < l.Lines && top+i < len(l.Items); i++ {
		item := l.Items[top+i]
		row := y + float64(i)*lineH
		if l.Selected == top+i {
			c.SetSourceRGB(0.8, 0.85, 1)
			c.Rectangle(dest.X1, row-lineH*0.8, dest.X2-dest.X1, lineH)
			c.Fill()
		}
		c.SetSourceRGB(0, 0, 0)
		c.MoveTo(dest.X1, row)
		c.ShowText(item)
	}
}

// Draw paints the field's prompt, current value with a cursor mark at
// Pos, and — if Error is set — a trailing error badge. Grounded on
// cairoui_field's drawing half.
func (f *Field) Draw(c Canvas, dest rect.Rectangle) {
	_, lineH := c.TextExtents("Mg")
	y := dest.Y1 + lineH*LineHeight

	c.SetSourceRGB(0, 0, 0)
	c.MoveTo(dest.X1, y)
	c.ShowText(f.Prompt)

	before := string(f.Value[:f.Pos])
	w, _ := c.TextExtents(f.Prompt + " " + before)
	c.MoveTo(dest.X1, y)
	c.ShowText(f.Prompt + " " + string(f.Value))
	c.MoveTo(dest.X1+w, y+2)
	c.ShowText("_")

	if f.Error != "" {
		c.SetSourceRGB(0.7, 0, 0)
		ew, eh := c.TextExtents(f.Error)
		c.Rectangle(dest.X2-ew-4, y-eh, ew+4, eh+4)
		c.Fill()
		c.SetSourceRGB(1, 1, 1)
		c.MoveTo(dest.X2-ew-2, y)
		c.ShowText(f.Error)
	}
}

// Draw paints the number field the same way as an ordinary Field;
// NumberField embeds Field so it inherits rendering, nothing about the
// numeric constraint needs separate drawing.
func (nf *NumberField) Draw(c Canvas, dest rect.Rectangle) { nf.Field.Draw(c, dest) }

// Draw paints re's destination bounds plus the current rectangle, with
// the selected corner marked by a small square. Grounded on
// cairoui_rectangle.
func (re *RectEditor) Draw(c Canvas, dest rect.Rectangle) {
	c.SetSourceRGB(0.6, 0.6, 0.6)
	c.Rectangle(dest.X1, dest.Y1, dest.X2-dest.X1, dest.Y2-dest.Y1)
	c.Stroke()

	c.SetSourceRGB(0, 0, 1)
	c.Rectangle(re.X1, re.Y1, re.X2-re.X1, re.Y2-re.Y1)
	c.Stroke()

	cx, cy := re.X1, re.Y1
	if re.SecondCorner {
		cx, cy = re.X2, re.Y2
	}
	c.SetSourceRGB(1, 0, 0)
	c.Rectangle(cx-5, cy-5, 10, 10)
	c.Fill()
}

// Draw paints the label as a centered pill Bottom line-heights above
// dest's bottom edge. Grounded on cairoui_label.
func (l *Label) Draw(c Canvas, dest rect.Rectangle) {
	_, lineH := c.TextExtents("Mg")
	lineH *= LineHeight
	w, h := c.TextExtents(l.Text)

	cx := (dest.X1 + dest.X2) / 2
	y := dest.Y2 - lineH*float64(l.Bottom+1)

	c.SetSourceRGB(0.1, 0.1, 0.1)
	c.Rectangle(cx-w/2-6, y-h, w+12, h+8)
	c.Fill()
	c.SetSourceRGB(1, 1, 1)
	c.MoveTo(cx-w/2, y)
	c.ShowText(l.Text)
}
