// Package ui implements the small set of input-handling primitives
// shared by every modal window of the viewer: a text field, a numeric
// field, a rectangle editor, a scrollable list and a transient label.
// All of them speak the same return-code protocol. Grounded on
// cairoui_field/cairoui_number/cairoui_list/cairoui_label and the
// CAIROUI_* constants in _examples/original_source/cairoui.h/.c
// (spec.md §4.G). Drawing is left to the window/label runtime — this
// package only tracks state and decides what input does to it.
package ui

import (
	"strconv"
	"time"
)

// Outcome is the return-code protocol every primitive shares, mirroring
// CAIROUI_DONE/LEAVE/INVALID/UNCHANGED/CHANGED/REFRESH.
type Outcome int

const (
	Done Outcome = iota
	Leave
	Invalid
	Unchanged
	Changed
	Refresh
)

// Key names an abstract input event. Printable input is carried in
// Input.Rune alongside KeyRune; everything else is a named control key.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPaste
	KeyInit
	KeyRefresh
	KeyFinish
)

// Input is one input event delivered to a primitive's Handle method.
type Input struct {
	Key  Key
	Rune rune // valid when Key == KeyRune
}

// DefaultFieldLen is the default maximum string length of a Field,
// matching the original's hardcoded 30.
const DefaultFieldLen = 30

// Field renders a prompt plus an editable string with a cursor
// position and an optional right-aligned error badge. Grounded on
// cairoui_field.
type Field struct {
	Prompt string
	Value  []rune
	Pos    int
	Error  string
	MaxLen int // 0 means DefaultFieldLen
}

// NewField returns a Field ready for input, with an empty value.
func NewField(prompt string) *Field {
	return &Field{Prompt: prompt, MaxLen: DefaultFieldLen}
}

func (f *Field) maxLen() int {
	if f.MaxLen <= 0 {
		return DefaultFieldLen
	}
	return f.MaxLen
}

// Handle applies one input event to the field. paste is the viewer's
// paste buffer, consulted only for Key == KeyPaste.
func (f *Field) Handle(in Input, paste string) Outcome {
	switch in.Key {
	case KeyEscape, KeyFinish:
		return Leave
	case KeyEnter:
		return Done
	case KeyBackspace, KeyDelete:
		if f.Pos <= 0 {
			return Unchanged
		}
		f.Value = append(f.Value[:f.Pos-1], f.Value[f.Pos:]...)
		f.Pos--
	case KeyLeft:
		if f.Pos <= 0 {
			return Unchanged
		}
		f.Pos--
	case KeyRight:
		if f.Pos >= f.maxLen() || f.Pos >= len(f.Value) {
			return Unchanged
		}
		f.Pos++
	case KeyPaste:
		inserted := []rune(paste)
		if len(f.Value)+len(inserted) > f.maxLen() {
			return Unchanged
		}
		f.Value = insertAt(f.Value, f.Pos, inserted)
		f.Pos += len(inserted)
	case KeyRune:
		if len(f.Value) >= f.maxLen() {
			return Unchanged
		}
		f.Value = insertAt(f.Value, f.Pos, []rune{in.Rune})
		f.Pos++
	default:
		return Unchanged
	}
	return Changed
}

// String returns the field's current value.
func (f *Field) String() string { return string(f.Value) }

func insertAt(dst []rune, pos int, ins []rune) []rune {
	out := make([]rune, 0, len(dst)+len(ins))
	out = append(out, dst[:pos]...)
	out = append(out, ins...)
	out = append(out, dst[pos:]...)
	return out
}

// NumberField wraps a Field with numeric validation, up/down stepping
// and a clamped [Min,Max] range. Grounded on cairoui_number.
type NumberField struct {
	Field
	Destination *float64
	Min, Max    float64
}

// NewNumberField returns a NumberField seeded from *dest's current value.
func NewNumberField(prompt string, dest *float64, min, max float64) *NumberField {
	nf := &NumberField{Destination: dest, Min: min, Max: max}
	nf.Prompt = prompt
	nf.MaxLen = DefaultFieldLen
	return nf
}

// Handle applies one input event: Up/Down step the value by 1 within
// [Min,Max] (saturating at the far end instead of wrapping); digits and
// a leading '-' (only when Min<0) pass through to the embedded Field;
// Enter parses and, if in range, writes to *Destination.
func (nf *NumberField) Handle(in Input, paste string) Outcome {
	switch in.Key {
	case KeyInit:
		nf.Value = []rune(formatNumber(*nf.Destination))
		return Refresh
	case KeyUp, KeyDown:
		n := *nf.Destination
		if len(nf.Value) > 0 {
			n = parseNumber(string(nf.Value))
		}
		if in.Key == KeyDown {
			n++
		} else {
			n--
		}
		if n < nf.Min {
			if in.Key == KeyDown {
				n = nf.Min
			} else {
				return Unchanged
			}
		}
		if n > nf.Max {
			if in.Key == KeyUp {
				n = nf.Max
			} else {
				return Unchanged
			}
		}
		nf.Value = []rune(formatNumber(n))
		return Refresh
	case KeyRune:
		if !isNumericRune(in.Rune) && !(in.Rune == '-' && nf.Pos == 0 && nf.Min < 0) {
			return Unchanged
		}
	}

	res := nf.Field.Handle(in, paste)
	if res != Done {
		return res
	}
	if len(nf.Value) == 0 {
		return Leave
	}
	n := parseNumber(string(nf.Value))
	if n < nf.Min || n > nf.Max {
		return Invalid
	}
	*nf.Destination = n
	return Done
}

func isNumericRune(r rune) bool { return r >= '0' && r <= '9' }

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func parseNumber(s string) float64 {
	n, _ := strconv.ParseFloat(s, 64)
	return n
}

// RectEditor edits a movable rectangle, one of whose two corners is
// selected, nudged by arrow keys. Not directly modeled in the
// original's cairoui windows (which only ever edit strings/numbers);
// built in the same Handle/Outcome idiom as Field/NumberField, clamped
// against Dest instead of a hardcoded margin.
type RectEditor struct {
	X1, Y1, X2, Y2 float64
	Dest           struct{ X1, Y1, X2, Y2 float64 }
	SecondCorner   bool // false selects (X1,Y1), true selects (X2,Y2)

	lastKey  Key
	lastTime time.Time
	now      func() time.Time
}

// NewRectEditor returns an editor over r clamped to dest.
func NewRectEditor(x1, y1, x2, y2, destX1, destY1, destX2, destY2 float64) *RectEditor {
	re := &RectEditor{X1: x1, Y1: y1, X2: x2, Y2: y2}
	re.Dest.X1, re.Dest.Y1, re.Dest.X2, re.Dest.Y2 = destX1, destY1, destX2, destY2
	re.now = time.Now
	return re
}

// stepShort/stepLong are the nudge distances: 10pt normally, 25pt if
// the same arrow key repeats within repeatWindow.
const (
	stepShort    = 10.0
	stepLong     = 25.0
	repeatWindow = 200 * time.Millisecond
)

// Handle applies one input event: Tab toggles the selected corner,
// arrow keys nudge it (clamped to Dest), Enter/Escape finish editing.
func (re *RectEditor) Handle(in Input) Outcome {
	switch in.Key {
	case KeyEnter:
		return Done
	case KeyEscape, KeyFinish:
		return Leave
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		step := stepShort
		now := re.now
		if now == nil {
			now = time.Now
		}
		t := now()
		if re.lastKey == in.Key && t.Sub(re.lastTime) < repeatWindow {
			step = stepLong
		}
		re.lastKey, re.lastTime = in.Key, t
		re.nudge(in.Key, step)
		return Changed
	default:
		return Unchanged
	}
}

func (re *RectEditor) nudge(k Key, step float64) {
	dx, dy := 0.0, 0.0
	switch k {
	case KeyLeft:
		dx = -step
	case KeyRight:
		dx = step
	case KeyUp:
		dy = -step
	case KeyDown:
		dy = step
	}
	if re.SecondCorner {
		re.X2 = clamp(re.X2+dx, re.Dest.X1, re.Dest.X2)
		re.Y2 = clamp(re.Y2+dy, re.Dest.Y1, re.Dest.Y2)
	} else {
		re.X1 = clamp(re.X1+dx, re.Dest.X1, re.Dest.X2)
		re.Y1 = clamp(re.Y1+dy, re.Dest.Y1, re.Dest.Y2)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// List is a titled vertical list of strings, possibly with a selected
// line; scrolling state is (Top, Selected). Grounded on cairoui_list.
type List struct {
	Title    string
	Items    []string
	Top      int
	Selected int  // -1 when the list has no selection (plain mode)
	Lines    int  // visible rows; callers size this from window geometry
}

// NewList returns a List over items, starting unselected if selected
// is false, else selected at row 0.
func NewList(title string, items []string, selected bool) *List {
	l := &List{Title: title, Items: items, Lines: len(items)}
	if selected {
		l.Selected = 0
	} else {
		l.Selected = -1
	}
	return l
}

// Handle applies one input event: Up/Down move the selection, skipping
// empty rows, or scroll the list in plain mode; Enter returns Done when
// selected, Leave otherwise.
func (l *List) Handle(in Input) Outcome {
	switch in.Key {
	case KeyDown:
		return l.move(1)
	case KeyUp:
		return l.move(-1)
	case KeyEnter:
		if l.Selected >= 0 {
			return Done
		}
		return Leave
	case KeyEscape, KeyFinish:
		return Leave
	default:
		return Unchanged
	}
}

func (l *List) move(dir int) Outcome {
	if l.Selected >= 0 {
		next := l.Selected
		for {
			next += dir
			if next < 0 || next >= len(l.Items) {
				return Unchanged
			}
			if l.Items[next] != "" {
				break
			}
		}
		l.Selected = next
		if dir > 0 && l.Selected >= l.Top+l.Lines {
			l.Top = l.Selected - l.Lines + 1
		}
		if dir < 0 && l.Selected <= l.Top {
			l.Top = l.Selected
		}
		return Changed
	}
	next := l.Top + dir
	if next < 0 || next > len(l.Items)-l.Lines {
		return Unchanged
	}
	l.Top = next
	return Changed
}

// Label is a transient centered pill shown at vertical slot Bottom
// from the bottom edge; its own handler decides, each frame, whether
// it still has something to show. Grounded on cairoui_label/
// cairoui_printlabel.
type Label struct {
	Bottom    int
	Text      string
	ExpiresAt time.Time // zero means no timeout
	lastShown string
}

// Set replaces the label's text, with an optional expiry (zero
// duration means it never times out on its own).
func (l *Label) Set(text string, ttl time.Duration) {
	l.Text = text
	if ttl > 0 {
		l.ExpiresAt = time.Now().Add(ttl)
	} else {
		l.ExpiresAt = time.Time{}
	}
}

// Visible reports whether the label still has something to draw at
// now, and records it as shown so repeated calls within the same frame
// are idempotent.
func (l *Label) Visible(now time.Time) bool {
	if l.Text == "" {
		return false
	}
	if !l.ExpiresAt.IsZero() && now.After(l.ExpiresAt) {
		return false
	}
	l.lastShown = l.Text
	return true
}
