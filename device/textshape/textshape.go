// Package textshape lays out label/UI text into positioned glyphs,
// shared by the ui primitives (ui.Field/ui.List et al., whose drawing
// is delegated to a device.Canvas) and the pdf/native best-effort
// renderer's glyph fallback path. Grounded on fonts/shaper.go's use of
// github.com/go-text/typesetting, the teacher's own shaping library —
// there the consumer is PDF-authoring glyph subsetting, here it is
// on-screen layout, but the shaping call itself is identical.
package textshape

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Glyph is one shaped glyph, positioned in em-relative units (multiply
// by the point size to get device units, as fonts.ShapedGlyph does).
type Glyph struct {
	ID       int
	Cluster  int
	XAdvance float64
	YAdvance float64
	XOffset  float64
	YOffset  float64
}

// Run is a line of shaped glyphs plus its total advance width, in the
// same em-relative units as Glyph.
type Run struct {
	Glyphs []Glyph
	Width  float64
}

// Shaper shapes UTF-8 text against one loaded font face. Faces are
// expensive to parse, so a Shaper caches them by the font bytes'
// identity (the pointer), not by content.
type Shaper struct {
	mu    sync.Mutex
	faces map[*byte]gofont.Face
}

// NewShaper returns an empty Shaper.
func NewShaper() *Shaper { return &Shaper{faces: map[*byte]gofont.Face{}} }

func (s *Shaper) face(fontData []byte) (gofont.Face, error) {
	if len(fontData) == 0 {
		return nil, errEmptyFont
	}
	key := &fontData[0]
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	f, err := gofont.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, err
	}
	s.faces[key] = f
	return f, nil
}

type shapeError string

func (e shapeError) Error() string { return string(e) }

const errEmptyFont = shapeError("textshape: empty font data")

// Layout shapes text against fontData at a nominal 1000-unit em,
// returning glyph positions scaled by fontSize/1000 to land in device
// points directly — the same fixed.Int26_6-to-float conversion
// fonts.ShapeText performs.
func (s *Shaper) Layout(text string, fontData []byte, fontSize float64) (Run, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return Run{}, nil
	}
	face, err := s.face(fontData)
	if err != nil {
		return Run{}, err
	}

	shaper := &shaping.HarfbuzzShaper{}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      fixed.Int26_6(1000 * 64),
		Script:    language.Latin,
		Language:  language.DefaultLanguage(),
	}
	output := shaper.Shape(input)

	scale := fontSize / 1000
	run := Run{Glyphs: make([]Glyph, 0, len(output.Glyphs))}
	for _, g := range output.Glyphs {
		gl := Glyph{
			ID:       int(g.GlyphID),
			Cluster:  int(g.ClusterIndex),
			XAdvance: float64(g.XAdvance) / 64 * scale,
			YAdvance: float64(g.YAdvance) / 64 * scale,
			XOffset:  float64(g.XOffset) / 64 * scale,
			YOffset:  float64(g.YOffset) / 64 * scale,
		}
		run.Glyphs = append(run.Glyphs, gl)
		run.Width += gl.XAdvance
	}
	return run, nil
}
