package main

import (
	"time"

	"github.com/wudi/hovacui/device"
	"github.com/wudi/hovacui/navigate"
	"github.com/wudi/hovacui/position"
	"github.com/wudi/hovacui/ui"
	"github.com/wudi/hovacui/uiloop"
)

// Window ids, mirroring hovacui.c's WINDOW_* enum (spec.md §6).
const (
	winDocument uiloop.WindowID = iota
	winTutorial
	winHelp
	winMenu
	winGoto
	winSearch
	winWidth
	winDistance
)

// Readline-style control characters stand in for the Home/End/PageUp/
// PageDown keys spec.md §6 lists: none of device/fbdev's or
// device/x11's key decoders (the only two that read real keyboards)
// translate those VT sequences into a distinct ui.Key, only the arrow
// keys — so the four extra document-window motions are reachable on
// the rune channel at points no printable character ever produces,
// the terminal-friendly convention those four readline bindings
// already are.
const (
	runeHome     = '\x01' // Ctrl-A
	runeEnd      = '\x05' // Ctrl-E
	runePageUp   = '\x15' // Ctrl-U
	runePageDown = '\x04' // Ctrl-D
)

func buildRuntime(v *viewer, dev device.Device) *uiloop.Runtime {
	rt := uiloop.NewRuntime(dev, winDocument)
	rt.Draw = v.draw
	rt.Labels = []uiloop.LabelFunc{v.drawStatusLabel}

	rt.Windows[winDocument] = v.windowDocument()
	rt.Windows[winTutorial] = uiloop.NewWindowTutorial(winTutorial, winDocument, winHelp, func() position.Fit { return v.view.Fit })
	rt.Windows[winHelp] = v.windowHelp()
	rt.Windows[winMenu] = v.windowMenu()
	rt.Windows[winGoto] = v.windowGoto()
	rt.Windows[winSearch] = v.windowSearch()
	rt.Windows[winWidth] = v.windowWidth()
	rt.Windows[winDistance] = v.windowDistance()
	return rt
}

// windowDocument is the document window: every keybinding of spec.md
// §6's "Keybindings (document window)" list. Grounded on readkey's
// main switch in hovacui.c.
func (v *viewer) windowDocument() uiloop.WindowFunc {
	return func(rt *uiloop.Runtime, in ui.Input) uiloop.Next {
		switch in.Key {
		case ui.KeyRune:
			switch in.Rune {
			case 'q':
				return uiloop.Exit()
			case 'h':
				return uiloop.Goto(winHelp)
			case 'm':
				return uiloop.Goto(winMenu)
			case 'g':
				return uiloop.Goto(winGoto)
			case '/':
				v.forward = true
				return uiloop.Goto(winSearch)
			case '?':
				v.forward = false
				return uiloop.Goto(winSearch)
			case 'n':
				navigate.NextMatch(v.ctx, v.pos, v.view, v.lastSearch, true, v.cfg.Distance)
				rt.RequestRedraw()
			case 'p':
				navigate.NextMatch(v.ctx, v.pos, v.view, v.lastSearch, false, v.cfg.Distance)
				rt.RequestRedraw()
			case ' ':
				v.smartAdvance()
				rt.RequestRedraw()
			case 'v':
				v.cycleMode()
				rt.RequestRedraw()
			case 'f':
				v.cycleFit()
				rt.RequestRedraw()
			case 'w':
				return uiloop.Goto(winWidth)
			case 'z':
				v.decrementMinWidth()
				rt.RequestRedraw()
			case 'Z':
				v.incrementMinWidth()
				rt.RequestRedraw()
			case 't':
				return uiloop.Goto(winDistance)
			case 'o':
				v.cycleOrder()
				rt.RequestRedraw()
			case 's':
				v.showStatus = !v.showStatus
				rt.RequestRedraw()
			case 'r':
				rt.RequestReload()
			case runeHome:
				v.firstBlock()
				rt.RequestRedraw()
			case runeEnd:
				v.lastBlock()
				rt.RequestRedraw()
			case runePageUp:
				navigate.PrevPage(v.ctx, v.pos, v.view, v.cfg.Distance)
				rt.RequestRedraw()
			case runePageDown:
				navigate.NextPage(v.ctx, v.pos, v.view, v.cfg.Distance)
				rt.RequestRedraw()
			}
		case ui.KeyUp:
			navigate.ScrollUp(v.ctx, v.pos, v.view, v.cfg.Distance)
			rt.RequestRedraw()
		case ui.KeyDown:
			navigate.ScrollDown(v.ctx, v.pos, v.view, v.cfg.Distance)
			rt.RequestRedraw()
		case ui.KeyLeft:
			navigate.ScrollLeft(v.ctx, v.pos, v.view, v.cfg.Distance)
			rt.RequestRedraw()
		case ui.KeyRight:
			navigate.ScrollRight(v.ctx, v.pos, v.view, v.cfg.Distance)
			rt.RequestRedraw()
		}
		return uiloop.Goto(winDocument)
	}
}

// smartAdvance implements spec.md §6's space-bar rule: scroll-down if
// fit=h, scroll-right if fit=v, next-block otherwise.
func (v *viewer) smartAdvance() {
	switch v.view.Fit {
	case position.FitH:
		navigate.ScrollDown(v.ctx, v.pos, v.view, v.cfg.Distance)
	case position.FitV:
		navigate.ScrollRight(v.ctx, v.pos, v.view, v.cfg.Distance)
	default:
		navigate.NextBlock(v.ctx, v.pos, v.view, v.cfg.Distance)
	}
}

func helpText() []string {
	return []string{
		"q quit    h help     m menu",
		"g go to page         / ? search fwd/back",
		"n p next/prev match  space advance",
		"arrows scroll        v view mode   f fit",
		"w/z/Z width          t distance    o order",
		"s status labels      r reload",
	}
}

func (v *viewer) windowHelp() uiloop.WindowFunc {
	var list *ui.List
	return func(rt *uiloop.Runtime, in ui.Input) uiloop.Next {
		if in.Key == ui.KeyInit {
			list = ui.NewList("help", helpText(), false)
			return uiloop.Refresh()
		}
		return uiloop.FromOutcome(winHelp, winDocument, list.Handle(in))
	}
}

func (v *viewer) menuEntries() []string {
	return []string{
		"go to page",
		"search",
		"view mode",
		"fit",
		"minimum width",
		"distance",
		"ordering",
		"help",
		"reload",
		"quit",
	}
}

func (v *viewer) windowMenu() uiloop.WindowFunc {
	var list *ui.List
	targets := []uiloop.WindowID{winGoto, winSearch, winDocument, winDocument, winWidth, winDistance, winDocument, winHelp, winDocument, winDocument}
	return func(rt *uiloop.Runtime, in ui.Input) uiloop.Next {
		switch in.Key {
		case ui.KeyInit:
			list = ui.NewList("menu", v.menuEntries(), true)
			return uiloop.Refresh()
		case ui.KeyEnter:
			switch list.Selected {
			case 2:
				v.cycleMode()
			case 3:
				v.cycleFit()
			case 6:
				v.cycleOrder()
			case 8:
				rt.RequestReload()
			case 9:
				return uiloop.Exit()
			}
			if list.Selected >= 0 && list.Selected < len(targets) {
				return uiloop.Goto(targets[list.Selected])
			}
			return uiloop.Goto(winDocument)
		}
		return uiloop.FromOutcome(winMenu, winDocument, list.Handle(in))
	}
}

func (v *viewer) windowGoto() uiloop.WindowFunc {
	var field *ui.NumberField
	var page float64
	return func(rt *uiloop.Runtime, in ui.Input) uiloop.Next {
		if in.Key == ui.KeyInit {
			page = float64(v.pos.PageIndex + 1)
			field = ui.NewNumberField("go to page:", &page, 1, float64(v.pos.TotalPages))
			field.Handle(ui.Input{Key: ui.KeyInit}, "")
			return uiloop.Refresh()
		}
		outcome := field.Handle(in, "")
		if outcome == ui.Done {
			navigate.LoadPage(v.ctx, v.pos, int(page)-1, v.cfg.Distance)
			v.firstBlock()
		}
		return uiloop.FromOutcome(winGoto, winDocument, outcome)
	}
}

func (v *viewer) windowSearch() uiloop.WindowFunc {
	var field *ui.Field
	return func(rt *uiloop.Runtime, in ui.Input) uiloop.Next {
		if in.Key == ui.KeyInit {
			field = ui.NewField("search:")
			return uiloop.Refresh()
		}
		outcome := field.Handle(in, rt.Paste)
		if outcome == ui.Done {
			v.lastSearch = field.String()
			navigate.FirstMatch(v.ctx, v.pos, v.view, v.lastSearch, v.forward, v.cfg.Distance)
		}
		return uiloop.FromOutcome(winSearch, winDocument, outcome)
	}
}

func (v *viewer) windowWidth() uiloop.WindowFunc {
	var field *ui.NumberField
	return func(rt *uiloop.Runtime, in ui.Input) uiloop.Next {
		if in.Key == ui.KeyInit {
			w := v.view.MinWidth
			field = ui.NewNumberField("minimum width:", &w, 0, 1e6)
			field.Handle(ui.Input{Key: ui.KeyInit}, "")
			return uiloop.Refresh()
		}
		outcome := field.Handle(in, "")
		if outcome == ui.Done {
			v.setMinWidth(*field.Destination)
		}
		return uiloop.FromOutcome(winWidth, winDocument, outcome)
	}
}

func (v *viewer) windowDistance() uiloop.WindowFunc {
	var field *ui.NumberField
	return func(rt *uiloop.Runtime, in ui.Input) uiloop.Next {
		if in.Key == ui.KeyInit {
			d := v.cfg.Distance
			field = ui.NewNumberField("distance:", &d, -1, 1000)
			field.Handle(ui.Input{Key: ui.KeyInit}, "")
			return uiloop.Refresh()
		}
		outcome := field.Handle(in, "")
		if outcome == ui.Done {
			v.setDistance(*field.Destination)
		}
		return uiloop.FromOutcome(winDistance, winDocument, outcome)
	}
}

// drawStatusLabel shows the current page and block as a transient
// label while v.showStatus is set (the 's' toggle), grounded on the
// original's printstatus()/WINDOW_STATUS label.
func (v *viewer) drawStatusLabel(rt *uiloop.Runtime) {
	if !v.showStatus {
		return
	}
	v.label.Set(statusText(v), 0)
	if !v.label.Visible(statusNow()) {
		return
	}
	c := rt.Device.Context()
	c.SetFontSize(v.fontSize)
	v.label.Draw(c, v.view.Dest)
}

func statusNow() time.Time { return time.Now() }
