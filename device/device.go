// Package device abstracts the raw drawing surface and input source the
// UI runtime draws onto and reads from. Grounded on struct cairodevice
// in _examples/original_source/cairoio.h and the KEY_* imaginary-key
// constants it defines (spec.md §4.I).
package device

import (
	"time"

	"github.com/wudi/hovacui/ui"
)

// Signal distinguishes a real keystroke (carried in Event.Input) from
// the imaginary keys cairoio.h defines: KEY_NONE/KEY_REDRAW/KEY_RESIZE/
// KEY_TIMEOUT/KEY_SUSPEND/KEY_SIGNAL/KEY_EXTERNAL. None of those name
// editable-field input, so they live outside ui.Key and are handled by
// uiloop itself.
type Signal int

const (
	SignalNone Signal = iota
	SignalKey         // a real key; see Event.Input
	SignalRedraw
	SignalResize
	SignalTimeout
	SignalSuspend
	SignalOSSignal // an OS signal interrupted the read, e.g. SIGWINCH's KEY_SIGNAL
	SignalExternal
)

// Event is one input event read from a Device.
type Event struct {
	Signal  Signal
	Input   ui.Input
	Command string // populated when Signal == SignalExternal
}

// NoTimeout requests Input block indefinitely, mirroring NO_TIMEOUT.
const NoTimeout = -1 * time.Millisecond

// Canvas is the 2D drawing surface a window draws through: enough
// vocabulary for rectangle/line primitives and shaped text, deliberately
// narrower than a general-purpose cairo binding. Grounded on the
// cairo_t operations cairoui.c actually calls (move_to/line_to/
// rectangle/stroke/fill/select_font_face/set_font_size/show_text).
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

// Device is the backend-independent surface uiloop.Runtime drives.
// Grounded on struct cairodevice: Init/Finish/Context/Width/Height/
// ScreenWidth/ScreenHeight/Clear/Blank/Flush/IsActive/Input/
// DoubleBuffering.
type Device interface {
	// Finish releases any resources acquired by the backend.
	Finish()

	// Context returns the drawing surface for the current frame.
	Context() Canvas

	// Width and Height are the destination area's size in points;
	// ScreenWidth/ScreenHeight are the full physical screen, used to
	// size the default font (spec.md §4.I, fontsize = screenheight/25).
	Width() float64
	Height() float64
	ScreenWidth() float64
	ScreenHeight() float64

	// DoubleBuffering reports whether Flush is required to make Clear
	// visible, matching cairoio's doublebuffering().
	DoubleBuffering() bool

	Clear()
	Blank()
	Flush()

	// IsActive reports whether output should be drawn at all — false
	// while e.g. a framebuffer's VT is switched away.
	IsActive() bool

	// Input blocks for at most timeout (NoTimeout means forever) and
	// returns the next event.
	Input(timeout time.Duration) (Event, error)
}
