// Package uiloop implements the window/label runtime that drives a
// device.Device: a draw/input/dispatch cycle that hands every input
// event to the currently active window and switches windows on its
// return value. Grounded on struct cairoui and cairoui_main in
// _examples/original_source/cairoui.c/.h (spec.md §4.H), with hovacui.c's
// WINDOW_* enum as the model for WindowID.
package uiloop

import (
	"time"

	"github.com/wudi/hovacui/device"
	"github.com/wudi/hovacui/ui"
)

// WindowID names one modal window (the document view, or one of its
// dialogs), mirroring hovacui.c's WINDOW_DOCUMENT/WINDOW_HELP/etc. A
// window function "stays" by returning Goto(itsOwnID) — there is no
// separate "unchanged" sentinel at this layer, matching the original
// where a window function simply returns its own WINDOW_* constant.
type WindowID int

// Next is what a window function returns to Runtime.Run, mirroring the
// handful of non-window-id sentinels cairoui.h defines alongside a
// plain WINDOW_* value: CAIROUI_REFRESH and CAIROUI_EXIT. Built with
// Goto, Refresh or Exit.
type Next struct {
	window  WindowID
	refresh bool
	exit    bool
}

// Goto switches to (or stays in, if w is the caller's own id) window w.
func Goto(w WindowID) Next { return Next{window: w} }

// Refresh requests CAIROUI_REFRESH: redraw the document and, for every
// window but the document itself, re-enter with KeyRefresh once
// redrawn.
func Refresh() Next { return Next{refresh: true} }

// Exit ends Run, equivalent to CAIROUI_EXIT.
func Exit() Next { return Next{exit: true} }

// FromOutcome is the small translation hovacui.c's own window functions
// each perform by hand after calling a cairoui_field/cairoui_list/etc.
// primitive: Done/Leave return to doc, Refresh requests Refresh, and
// anything else (Invalid/Unchanged/Changed) stays in self.
func FromOutcome(self, doc WindowID, outcome ui.Outcome) Next {
	switch outcome {
	case ui.Done, ui.Leave:
		return Goto(doc)
	case ui.Refresh:
		return Refresh()
	default:
		return Goto(self)
	}
}

// WindowFunc is one window's input handler.
type WindowFunc func(rt *Runtime, in ui.Input) Next

// LabelFunc draws one transient label for the current frame.
type LabelFunc func(rt *Runtime)

// SignalState is an explicit, atomic stand-in for the original's
// file-scope `int sig_reload` flipped by a SIGHUP handler — spec.md's
// Design Note "Global state → explicit viewer object" rules out a
// package-level variable, so the flag lives on Runtime and is set by
// whatever installs the signal handler (see signals_unix.go).
type SignalState struct {
	reload chan struct{}
}

// NewSignalState returns a SignalState with no pending reload.
func NewSignalState() *SignalState {
	return &SignalState{reload: make(chan struct{}, 1)}
}

// Raise marks a reload pending; safe to call from a signal handler.
func (s *SignalState) Raise() {
	select {
	case s.reload <- struct{}{}:
	default:
	}
}

// Consume reports and clears a pending reload.
func (s *SignalState) Consume() bool {
	select {
	case <-s.reload:
		return true
	default:
		return false
	}
}

// Runtime holds everything cairoui_main threads through struct cairoui:
// the device, the window dispatch table, the label list, and the
// draw/resize/update callbacks a concrete viewer supplies.
type Runtime struct {
	Device device.Device

	Windows   map[WindowID]WindowFunc
	DocWindow WindowID

	Labels []LabelFunc

	// Draw renders the document window's content; Resize is called
	// after every geometry change; Update reloads the document (e.g.
	// after a SIGHUP) and calls RequestRedraw if the reload changed
	// content.
	Draw   func(rt *Runtime)
	Resize func(rt *Runtime)
	Update func(rt *Runtime)

	// External runs an out-of-band command (device.SignalExternal) and
	// returns the window to switch to.
	External func(rt *Runtime, window WindowID, command string) Next

	Paste string

	Signals *SignalState

	redraw  bool
	flush   bool
	reload  bool
	timeout time.Duration
}

// NewRuntime returns a Runtime with an empty dispatch table, ready for
// window registration before Run is called.
func NewRuntime(d device.Device, doc WindowID) *Runtime {
	return &Runtime{
		Device:    d,
		Windows:   map[WindowID]WindowFunc{},
		DocWindow: doc,
		Signals:   NewSignalState(),
		redraw:    true,
		flush:     true,
		timeout:   device.NoTimeout,
	}
}

// RequestRedraw marks the document dirty, equivalent to setting
// cairoui->redraw = TRUE from outside the loop (e.g. after a resize or
// a page navigation).
func (rt *Runtime) RequestRedraw() { rt.redraw = true }

// RequestReload marks the document as needing Update on the next
// iteration (e.g. the file changed on disk).
func (rt *Runtime) RequestReload() { rt.reload = true }

// SetTimeout arranges for the next Input call to give up after d and
// synthesize a device.SignalTimeout event (device.NoTimeout cancels
// this).
func (rt *Runtime) SetTimeout(d time.Duration) { rt.timeout = d }

func (rt *Runtime) drawLabels() {
	for _, l := range rt.Labels {
		l(rt)
	}
}

// Run is the three-phase draw/input/dispatch cycle, equivalent to
// cairoui_main. first is the window shown at startup (normally
// DocWindow, in which case no KeyInit is synthesized for it).
func (rt *Runtime) Run(first WindowID) {
	window := first
	c := ui.Input{Key: ui.KeyNone}
	if first != rt.DocWindow {
		c = ui.Input{Key: ui.KeyInit}
	}

	for {
		// draw phase
		if rt.reload || rt.Signals.Consume() {
			rt.reload = false
			if rt.Update != nil {
				rt.Update(rt)
			}
			if rt.redraw {
				c = ui.Input{Key: ui.KeyRefresh}
			} else {
				c = ui.Input{Key: ui.KeyNone}
			}
		}
		if !rt.Device.IsActive() {
			c = ui.Input{Key: ui.KeyNone}
		} else if c.Key != ui.KeyInit || rt.redraw {
			if rt.redraw && c.Key != ui.KeyRefresh {
				rt.Device.Clear()
				rt.redraw = false
				if rt.Draw != nil {
					rt.Draw(rt)
				}
			}
			rt.drawLabels()
			if rt.flush {
				rt.Device.Flush()
				rt.flush = false
			}
			if rt.reload {
				continue
			}
		}

		// input phase: c != KeyNone means a synthetic input (Init,
		// Refresh, or a leftover real key) is already queued and the
		// device is not polled this iteration.
		sig := device.SignalKey
		extCommand := ""
		if c.Key == ui.KeyNone {
			pendingTimeout := rt.timeout != device.NoTimeout
			ev, err := rt.Device.Input(rt.timeout)
			if err != nil {
				ev = device.Event{Signal: device.SignalNone}
			}
			sig, c, extCommand = ev.Signal, ev.Input, ev.Command
			if sig != device.SignalTimeout {
				rt.timeout = device.NoTimeout
			}

			if sig == device.SignalSuspend || sig == device.SignalOSSignal || sig == device.SignalNone {
				c = ui.Input{Key: ui.KeyNone}
				continue
			}
			if sig == device.SignalRedraw && rt.Device.DoubleBuffering() && !rt.redraw {
				rt.flush = true
				c = ui.Input{Key: ui.KeyNone}
				continue
			}
			if sig == device.SignalResize || sig == device.SignalRedraw || pendingTimeout {
				if sig == device.SignalResize && rt.Resize != nil {
					rt.Resize(rt)
				}
				rt.redraw = true
				rt.flush = false
				if pendingTimeout && sig == device.SignalTimeout {
					rt.timeout = device.NoTimeout
					c = ui.Input{Key: ui.KeyRefresh}
					continue
				}
				if sig == device.SignalResize || sig == device.SignalRedraw {
					c = ui.Input{Key: ui.KeyRefresh}
					continue
				}
			}
		}

		// dispatch phase
		var next Next
		if sig == device.SignalExternal && rt.External != nil {
			next = rt.External(rt, window, extCommand)
		} else {
			next = rt.dispatch(window, c)
		}
		c = ui.Input{Key: ui.KeyNone}

		if next.exit {
			return
		}
		if !next.refresh && next.window == window {
			continue
		}
		if next.refresh {
			rt.redraw = true
			if window == rt.DocWindow {
				rt.flush = true
			} else {
				rt.flush = false
				c = ui.Input{Key: ui.KeyRefresh}
			}
			continue
		}

		rt.dispatch(window, ui.Input{Key: ui.KeyFinish})
		if next.window == rt.DocWindow {
			rt.redraw = true
			rt.flush = true
			window = next.window
			continue
		}
		if window != rt.DocWindow {
			rt.redraw = true
		}
		window = next.window
		c = ui.Input{Key: ui.KeyInit}
	}
}

func (rt *Runtime) dispatch(window WindowID, in ui.Input) Next {
	fn, ok := rt.Windows[window]
	if !ok {
		return Goto(rt.DocWindow)
	}
	return fn(rt, in)
}
