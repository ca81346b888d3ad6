package uiloop

import (
	"fmt"

	"github.com/wudi/hovacui/position"
	"github.com/wudi/hovacui/ui"
)

// tutorialText mirrors hovacui.c's static tutorialtext[], with the
// move-by-cursor line's fit-direction hint filled in at Init time
// instead of sprintf'd into a static buffer.
func tutorialText(fit position.Fit) []string {
	hint := ""
	switch fit {
	case position.FitH:
		hint = " Up/Down"
	case position.FitV:
		hint = " Left/Right"
	}
	return []string{
		"hovacui - pdf viewer with autozoom to text",
		"hovacui displays a block of text at a time",
		"the current block is bordered in blue",
		"",
		"zoom is automatic",
		fmt.Sprintf("move by cursor%s and PageUp/PageDown", hint),
		"",
		"key h for help",
		"key m for menu",
		"key v for whole page view",
		"",
		"space bar to view document",
	}
}

// NewWindowTutorial returns the startup tutorial window: a plain
// (unselected) scrolling list shown once before the document, closed by
// any key other than 'h' (which instead opens the help window). self
// and doc are the tutorial's own id and the document window's id, the
// two targets its transitions need. Supplemented from hovacui.c's
// tutorial()/WINDOW_TUTORIAL — spec.md's distillation dropped the
// onboarding screen along with the rest of the modal-window surface
// it's part of.
func NewWindowTutorial(self, doc, help WindowID, fit func() position.Fit) WindowFunc {
	var list *ui.List
	return func(rt *Runtime, in ui.Input) Next {
		switch in.Key {
		case ui.KeyInit:
			list = ui.NewList("", tutorialText(fit()), false)
			return Refresh()
		case ui.KeyRune:
			if in.Rune == 'h' {
				return Goto(help)
			}
		}
		if list.Handle(in) == ui.Leave {
			return Goto(doc)
		}
		return Refresh()
	}
}
