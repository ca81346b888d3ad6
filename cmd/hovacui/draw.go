package main

import (
	"fmt"

	"github.com/wudi/hovacui/device/pdfcanvas"
	"github.com/wudi/hovacui/observability"
	"github.com/wudi/hovacui/position"
	"github.com/wudi/hovacui/uiloop"
)

// draw is uiloop.Runtime.Draw's implementation: render the current
// block's viewbox, rasterized through pdf.Page.Render, onto the
// device's drawing context via device/pdfcanvas. Grounded on
// showpage/showbox in _examples/original_source/hovacui.c.
func (v *viewer) draw(rt *uiloop.Runtime) {
	position.MoveTo(v.pos, v.view)

	dest := v.view.Dest
	w, h := int(dest.Width()), int(dest.Height())
	if w <= 0 || h <= 0 {
		return
	}

	m := position.Transform(v.pos, v.view)
	img := pdfcanvas.NewImage(w, h)
	if err := v.pos.Page.Render(v.ctx, m, img); err != nil {
		v.logger.Warn("render page failed", observability.Error("error", err))
		return
	}

	c := rt.Device.Context()
	pdfcanvas.Blit(c, img, dest.X1, dest.Y1)

	c.SetSourceRGB(0, 0, 1)
	c.Rectangle(dest.X1, dest.Y1, dest.Width(), dest.Height())
	c.Stroke()
}

func statusText(v *viewer) string {
	return fmt.Sprintf("page %d/%d block %d/%d", v.pos.PageIndex+1, v.pos.TotalPages, v.pos.BoxIndex+1, v.pos.TextArea.Len())
}
