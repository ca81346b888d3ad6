package pdftext

import (
	"context"
	"strings"
	"testing"

	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/rect"
)

type fakePage struct {
	mediaBox rect.Rectangle
	chars    []pdf.CharRect
}

func (p *fakePage) Index() int              { return 0 }
func (p *fakePage) MediaBox() rect.Rectangle { return p.mediaBox }
func (p *fakePage) Chars(ctx context.Context) ([]pdf.CharRect, error) {
	return p.chars, nil
}
func (p *fakePage) Text(ctx context.Context) (string, error) { return "", nil }
func (p *fakePage) Find(ctx context.Context, needle string) ([]pdf.Match, error) {
	return nil, nil
}
func (p *fakePage) Annotations(ctx context.Context) ([]pdf.Annotation, error) { return nil, nil }
func (p *fakePage) Render(ctx context.Context, m coords.Matrix, dst pdf.Canvas) error {
	return nil
}

func ch(x1, y1, x2, y2 float64, r rune, attrs pdf.Attrs) pdf.CharRect {
	return pdf.CharRect{Rect: rect.New(x1, y1, x2, y2), Rune: r, Attrs: attrs}
}

func plainWord(word string, x, y float64) []pdf.CharRect {
	var out []pdf.CharRect
	for _, r := range word {
		out = append(out, ch(x, y, x+8, y+10, r, pdf.Attrs{}))
		x += 8
	}
	return out
}

func TestExtractEmptyPageReturnsEmptyString(t *testing.T) {
	page := &fakePage{mediaBox: rect.New(0, 0, 400, 500)}
	got, err := Extract(context.Background(), page, MethodPage, DefaultMeasure, FormatPlain)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestExtractPlainWordRoundTrips(t *testing.T) {
	chars := plainWord("hello", 10, 100)
	page := &fakePage{mediaBox: rect.New(0, 0, 400, 500), chars: chars}
	got, err := Extract(context.Background(), page, MethodPage, DefaultMeasure, FormatPlain)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "hello") {
		t.Fatalf("expected output to contain the word, got %q", got)
	}
}

func TestShowCharacterSuppressesHyphenBeforeNewline(t *testing.T) {
	st := &state{}
	var out strings.Builder
	showCharacter(&out, '-', '\n', st, FormatPlain)
	if out.Len() != 0 {
		t.Fatalf("expected nothing written for a suppressed hyphen, got %q", out.String())
	}
	if st.prev != '-' {
		t.Fatalf("expected prev marker set to '-', got %q", st.prev)
	}
}

func TestShowCharacterSuppressesHyphenAtEndOfInput(t *testing.T) {
	st := &state{}
	var out strings.Builder
	showCharacter(&out, '-', 0, st, FormatPlain)
	if st.prev != '-' {
		t.Fatalf("expected prev marker set to '-' at end of input, got %q", st.prev)
	}
}

func TestShowCharacterKeepsHyphenMidWord(t *testing.T) {
	st := &state{}
	var out strings.Builder
	showCharacter(&out, '-', 'g', st, FormatPlain)
	if out.String() != "-" {
		t.Fatalf("expected the hyphen written literally mid-word, got %q", out.String())
	}
	if st.prev != prevNone {
		t.Fatalf("expected no pending marker, got %q", st.prev)
	}
}

func TestPendingHyphenResolvesToNoneNotSpace(t *testing.T) {
	// Mirrors the else-branch of showbox()'s explicit-newline handling:
	// a pending '-' collapses to NONE (word continues), anything else
	// becomes a space.
	prev := prevMarker('-')
	resolved := prevMarker(' ')
	if prev == '-' || prev == prevStart {
		resolved = prevNone
	}
	if resolved != prevNone {
		t.Fatalf("expected a pending hyphen to resolve to no separator, got %q", resolved)
	}
}

func TestExtractEscapesBackslashAndAngleBrackets(t *testing.T) {
	chars := []pdf.CharRect{
		ch(10, 100, 18, 110, '\\', pdf.Attrs{}),
		ch(18, 100, 26, 110, '<', pdf.Attrs{}),
		ch(26, 100, 34, 110, '>', pdf.Attrs{}),
		ch(34, 100, 42, 110, '&', pdf.Attrs{}),
	}
	page := &fakePage{mediaBox: rect.New(0, 0, 400, 500), chars: chars}
	got, err := Extract(context.Background(), page, MethodPage, DefaultMeasure, FormatHTML)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"&lt;", "&gt;", "&amp;"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got %q", want, got)
		}
	}
}

func TestExtractFaceChangeEmitsBoldMarkers(t *testing.T) {
	chars := []pdf.CharRect{
		ch(10, 100, 18, 110, 'a', pdf.Attrs{FontName: "Regular"}),
		ch(18, 100, 26, 110, 'b', pdf.Attrs{FontName: "Bold", Bold: true}),
	}
	page := &fakePage{mediaBox: rect.New(0, 0, 400, 500), chars: chars}
	got, err := Extract(context.Background(), page, MethodPage, DefaultMeasure, FormatHTML)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<b>") {
		t.Fatalf("expected a bold-begin marker in output, got %q", got)
	}
}

func TestNewColumnRequiresBothAxes(t *testing.T) {
	tr := rect.New(0, 0, 100, 100)
	measure := Measure{NewColumnX: 50, NewColumnY: 50}
	// big rightward jump, no upward jump: not a new column
	if newColumn(50, rect.New(80, 40, 90, 50), 0, tr, measure) {
		t.Fatal("expected no column change without an upward jump")
	}
	// both axes satisfied
	if !newColumn(90, rect.New(80, 10, 90, 20), 0, tr, measure) {
		t.Fatal("expected a column change when both axes jump")
	}
}

func TestIsShortLine(t *testing.T) {
	measure := Measure{RightReturn: 90}
	short := rect.New(0, 0, 50, 10)
	if !isShortLine(short, 0, 100, measure) {
		t.Fatal("expected a line ending at 50% of the block width to be short")
	}
	long := rect.New(0, 0, 95, 10)
	if isShortLine(long, 0, 100, measure) {
		t.Fatal("expected a line ending at 95% of the block width not to be short")
	}
}
