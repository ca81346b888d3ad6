// Package swcanvas is the device.Canvas shared by the two raw-pixel
// backends, fbdev and drm: both ultimately hand libcairo a pointer into
// an mmap'd RGB24/RGB16_565 buffer (cairofb.c, cairodrm.c), and nothing
// in the retrieval pack offers a software path/text rasterizer to
// stand in for libcairo, so this package hand-rolls the two primitives
// device.Canvas needs — straight lines and filled rectangles — once,
// instead of once per backend.
package swcanvas

import (
	"math"

	"github.com/wudi/hovacui/device/textshape"
)

// Surface is the pixel sink a Canvas paints onto: a packed-pixel buffer
// of known size that can set one pixel's color.
type Surface interface {
	SetPixel(x, y int, r, g, b float64)
	PixelWidth() int
	PixelHeight() int
}

// Canvas is a device.Canvas painting onto a Surface.
type Canvas struct {
	surf Surface

	penX, penY float64
	r, g, b    float64
	fontSize   float64
	shaper     *textshape.Shaper

	hasRect                    bool
	rectX, rectY, rectW, rectH float64
}

// New returns a Canvas painting onto surf.
func New(surf Surface) *Canvas {
	return &Canvas{surf: surf, fontSize: 12, shaper: textshape.NewShaper()}
}

func (c *Canvas) MoveTo(x, y float64) { c.penX, c.penY = x, y }

func (c *Canvas) LineTo(x, y float64) {
	c.drawLine(c.penX, c.penY, x, y)
	c.penX, c.penY = x, y
}

// Rectangle records a pending rectangle, filled or stroked by the next
// Fill/Stroke call — the same one-shape-at-a-time contract the
// teacher's own cairo wrapper calls expect.
func (c *Canvas) Rectangle(x, y, w, h float64) {
	c.rectX, c.rectY, c.rectW, c.rectH = x, y, w, h
	c.hasRect = true
}

func (c *Canvas) Stroke() {
	if c.hasRect {
		c.strokeRect(c.rectX, c.rectY, c.rectW, c.rectH)
		c.hasRect = false
	}
}

func (c *Canvas) Fill() {
	if c.hasRect {
		c.fillRect(c.rectX, c.rectY, c.rectW, c.rectH)
		c.hasRect = false
	}
}

func (c *Canvas) SetSourceRGB(r, g, b float64) { c.r, c.g, c.b = r, g, b }
func (c *Canvas) SetFontSize(size float64)     { c.fontSize = size }

// ShowText draws s as a row of advance-width boxes: a legible-at-a-
// glance but not font-faithful stand-in for real glyph outlines, which
// nothing available in this stack rasterizes onto raw pixels.
func (c *Canvas) ShowText(s string) {
	run, err := c.shaper.Layout(s, nil, c.fontSize)
	x := c.penX
	if err != nil {
		for range s {
			c.fillRect(x, c.penY-c.fontSize, c.fontSize*0.6, c.fontSize)
			x += c.fontSize * 0.6
		}
		c.penX = x
		return
	}
	for _, gl := range run.Glyphs {
		c.fillRect(x+gl.XOffset, c.penY-c.fontSize+gl.YOffset, math.Max(gl.XAdvance-1, 1), c.fontSize)
		x += gl.XAdvance
	}
	c.penX = x
}

func (c *Canvas) TextExtents(s string) (float64, float64) {
	run, err := c.shaper.Layout(s, nil, c.fontSize)
	if err != nil {
		return float64(len([]rune(s))) * c.fontSize * 0.6, c.fontSize
	}
	return run.Width, c.fontSize
}

// ClearRGB fills the whole surface with a solid color, as cairofb_clear/
// cairodrm_clear do after resetting the cairo matrix.
func (c *Canvas) ClearRGB(r, g, b float64) {
	saveR, saveG, saveB := c.r, c.g, c.b
	c.SetSourceRGB(r, g, b)
	c.fillRect(0, 0, float64(c.surf.PixelWidth()), float64(c.surf.PixelHeight()))
	c.r, c.g, c.b = saveR, saveG, saveB
}

func (c *Canvas) fillRect(x, y, w, h float64) {
	width, height := c.surf.PixelWidth(), c.surf.PixelHeight()
	x0, y0 := clampInt(x, width), clampInt(y, height)
	x1, y1 := clampInt(x+w, width), clampInt(y+h, height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.surf.SetPixel(px, py, c.r, c.g, c.b)
		}
	}
}

func (c *Canvas) strokeRect(x, y, w, h float64) {
	c.drawLine(x, y, x+w, y)
	c.drawLine(x+w, y, x+w, y+h)
	c.drawLine(x+w, y+h, x, y+h)
	c.drawLine(x, y+h, x, y)
}

func (c *Canvas) drawLine(x0, y0, x1, y1 float64) {
	width, height := c.surf.PixelWidth(), c.surf.PixelHeight()
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0)))
	if steps == 0 {
		c.surf.SetPixel(clampInt(x0, width), clampInt(y0, height), c.r, c.g, c.b)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := clampInt(x0+(x1-x0)*t, width)
		py := clampInt(y0+(y1-y0)*t, height)
		c.surf.SetPixel(px, py, c.r, c.g, c.b)
	}
}

func clampInt(v float64, max int) int {
	i := int(v)
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
