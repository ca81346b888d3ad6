// Package x11 is a device.Device backed by a desktop window instead of
// a framebuffer — useful for developing and testing the rest of the
// module without real small-screen hardware. Grounded on
// _examples/original_source/cairoio-x11.c/.h (spec.md §4.I). Library:
// gioui.org, the one full windowing-system stack present anywhere in
// the retrieval pack
// (other_examples/16619e24_esimov-caire__vendor-gioui.org-app-window.go.go
// and its companion router.go show it vendored for exactly this kind of
// window/input/draw loop).
package x11

import (
	"image"
	"image/color"
	"time"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/wudi/hovacui/device"
	"github.com/wudi/hovacui/device/textshape"
	"github.com/wudi/hovacui/ui"
)

// Device drives one gioui.org window. Unlike fbdev/drm its Input never
// blocks the window's own event loop — events are forwarded over a
// channel from a goroutine that owns the *app.Window, the ownership
// rule gio requires.
type Device struct {
	win *app.Window

	events chan device.Event
	done   chan struct{}

	width, height float64

	pendingOps *op.Ops
	shaper     *textshape.Shaper

	active bool
}

// Open creates a window titled title and starts its event loop in a
// background goroutine. Call Finish to close it.
func Open(title string, width, height unit.Dp) *Device {
	d := &Device{
		win:    app.NewWindow(app.Title(title), app.Size(width, height)),
		events: make(chan device.Event, 16),
		done:   make(chan struct{}),
		shaper: textshape.NewShaper(),
		active: true,
	}
	go d.run()
	return d
}

func (d *Device) run() {
	var ops op.Ops
	for {
		select {
		case <-d.done:
			return
		case e := <-d.win.Events():
			switch e := e.(type) {
			case system.DestroyEvent:
				d.active = false
				d.events <- device.Event{Signal: device.SignalKey, Input: ui.Input{Key: ui.KeyEscape}}
				return
			case system.FrameEvent:
				d.width, d.height = float64(e.Size.X), float64(e.Size.Y)
				use := &ops
				if d.pendingOps != nil {
					use = d.pendingOps
					d.pendingOps = nil
				} else {
					ops.Reset()
				}
				e.Frame(use)
				d.events <- device.Event{Signal: device.SignalResize}
			case key.Event:
				if in, ok := keyToInput(e); ok {
					d.events <- device.Event{Signal: device.SignalKey, Input: in}
				}
			case pointer.Event:
				// pointer input has no counterpart in spec.md's
				// key-driven navigation model; tracked only so the
				// window stays responsive to focus/hover.
			}
		}
	}
}

func keyToInput(e key.Event) (ui.Input, bool) {
	if e.State != key.Press {
		return ui.Input{}, false
	}
	switch e.Name {
	case key.NameReturn, key.NameEnter:
		return ui.Input{Key: ui.KeyEnter}, true
	case key.NameEscape:
		return ui.Input{Key: ui.KeyEscape}, true
	case key.NameDeleteBackward:
		return ui.Input{Key: ui.KeyBackspace}, true
	case key.NameUpArrow:
		return ui.Input{Key: ui.KeyUp}, true
	case key.NameDownArrow:
		return ui.Input{Key: ui.KeyDown}, true
	case key.NameLeftArrow:
		return ui.Input{Key: ui.KeyLeft}, true
	case key.NameRightArrow:
		return ui.Input{Key: ui.KeyRight}, true
	default:
		if len([]rune(e.Name)) == 1 {
			return ui.Input{Key: ui.KeyRune, Rune: []rune(e.Name)[0]}, true
		}
		return ui.Input{}, false
	}
}

func (d *Device) Finish() { close(d.done) }

func (d *Device) Context() device.Canvas { return newCanvas(d) }
func (d *Device) Width() float64         { return d.width }
func (d *Device) Height() float64        { return d.height }
func (d *Device) ScreenWidth() float64   { return d.width }
func (d *Device) ScreenHeight() float64  { return d.height }
func (d *Device) DoubleBuffering() bool  { return true }
func (d *Device) IsActive() bool         { return d.active }

func (d *Device) Clear() { d.pendingOps = &op.Ops{} }
func (d *Device) Blank() { d.Clear() }

// Flush hands the accumulated draw ops to the window's event loop and
// asks it to repaint, the same "defer the real paint to the next
// FrameEvent" shape the loop's Draw/Flush split already assumes.
func (d *Device) Flush() { d.win.Invalidate() }

// Input waits for the next key or resize event, or until timeout elapses.
func (d *Device) Input(timeout time.Duration) (device.Event, error) {
	if timeout < 0 {
		return <-d.events, nil
	}
	select {
	case ev := <-d.events:
		return ev, nil
	case <-time.After(timeout):
		return device.Event{Signal: device.SignalTimeout}, nil
	}
}

// canvas appends draw ops directly to the Device's current frame
// buffer; MoveTo/LineTo/Rectangle/Fill/Stroke translate straight into
// gio clip+paint ops instead of the hand-rolled pixel rasterizer
// device/swcanvas needs for the raw-framebuffer backends, since gio
// already provides real vector path filling.
type canvas struct {
	dev *Device
	ops *op.Ops

	penX, penY float64
	col        color.NRGBA
	fontSize   float64

	hasRect                    bool
	rectX, rectY, rectW, rectH float64
}

func newCanvas(d *Device) *canvas {
	if d.pendingOps == nil {
		d.pendingOps = &op.Ops{}
	}
	return &canvas{dev: d, ops: d.pendingOps, col: color.NRGBA{A: 255}, fontSize: 12}
}

func (c *canvas) MoveTo(x, y float64) { c.penX, c.penY = x, y }

func (c *canvas) LineTo(x, y float64) {
	var path clip.Path
	path.Begin(c.ops)
	path.MoveTo(f32.Pt(float32(c.penX), float32(c.penY)))
	path.LineTo(f32.Pt(float32(x), float32(y)))
	spec := path.End()
	paint.FillShape(c.ops, c.col, clip.Stroke{Path: spec, Width: 1}.Op())
	c.penX, c.penY = x, y
}

func (c *canvas) Rectangle(x, y, w, h float64) {
	c.rectX, c.rectY, c.rectW, c.rectH = x, y, w, h
	c.hasRect = true
}

func (c *canvas) Fill() {
	if !c.hasRect {
		return
	}
	r := image.Rect(int(c.rectX), int(c.rectY), int(c.rectX+c.rectW), int(c.rectY+c.rectH))
	paint.FillShape(c.ops, c.col, clip.Rect(r).Op())
	c.hasRect = false
}

func (c *canvas) Stroke() {
	if !c.hasRect {
		return
	}
	r := image.Rect(int(c.rectX), int(c.rectY), int(c.rectX+c.rectW), int(c.rectY+c.rectH))
	paint.FillShape(c.ops, c.col, clip.Stroke{Path: clip.Rect(r).Path(), Width: 1}.Op())
	c.hasRect = false
}

func (c *canvas) SetSourceRGB(r, g, b float64) {
	c.col = color.NRGBA{R: byteOf(r), G: byteOf(g), B: byteOf(b), A: 255}
}

func (c *canvas) SetFontSize(size float64) { c.fontSize = size }

// ShowText draws s as a row of advance-width boxes, the same
// not-quite-real-glyphs stand-in device/swcanvas uses, kept consistent
// across every backend rather than wiring gio's separate text-shaper
// stack just for this one device.
func (c *canvas) ShowText(s string) {
	run, err := c.dev.shaper.Layout(s, nil, c.fontSize)
	x := c.penX
	if err != nil {
		for range s {
			c.fillBox(x, c.penY-c.fontSize, c.fontSize*0.6, c.fontSize)
			x += c.fontSize * 0.6
		}
		c.penX = x
		return
	}
	for _, gl := range run.Glyphs {
		w := gl.XAdvance - 1
		if w < 1 {
			w = 1
		}
		c.fillBox(x+gl.XOffset, c.penY-c.fontSize+gl.YOffset, w, c.fontSize)
		x += gl.XAdvance
	}
	c.penX = x
}

func (c *canvas) fillBox(x, y, w, h float64) {
	r := image.Rect(int(x), int(y), int(x+w), int(y+h))
	paint.FillShape(c.ops, c.col, clip.Rect(r).Op())
}

func (c *canvas) TextExtents(s string) (float64, float64) {
	run, err := c.dev.shaper.Layout(s, nil, c.fontSize)
	if err != nil {
		return float64(len([]rune(s))) * c.fontSize * 0.6, c.fontSize
	}
	return run.Width, c.fontSize
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
