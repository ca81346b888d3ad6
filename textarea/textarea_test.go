package textarea

import (
	"context"
	"testing"

	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/rect"
)

// fakePage is a minimal pdf.Page backed by a fixed character list, used
// to exercise the decomposition pipeline without a real PDF backend.
type fakePage struct {
	mediaBox rect.Rectangle
	chars    []pdf.CharRect
	charsErr error
}

func (p *fakePage) Index() int                  { return 0 }
func (p *fakePage) MediaBox() rect.Rectangle     { return p.mediaBox }
func (p *fakePage) Chars(ctx context.Context) ([]pdf.CharRect, error) {
	return p.chars, p.charsErr
}
func (p *fakePage) Text(ctx context.Context) (string, error) { return "", nil }
func (p *fakePage) Find(ctx context.Context, needle string) ([]pdf.Match, error) {
	return nil, nil
}
func (p *fakePage) Annotations(ctx context.Context) ([]pdf.Annotation, error) { return nil, nil }
func (p *fakePage) Render(ctx context.Context, m coords.Matrix, dst pdf.Canvas) error {
	return nil
}

func charAt(x1, y1, x2, y2 float64, ru rune) pdf.CharRect {
	return pdf.CharRect{Rect: rect.New(x1, y1, x2, y2), Rune: ru}
}

// twoColumnChars builds two columns of "words" on an otherwise blank
// 200x200 page, separated by a wide gutter, each column several lines
// tall so the white-list subtraction has room to find the gutter.
func twoColumnChars() []pdf.CharRect {
	var chars []pdf.CharRect
	for row := 0; row < 5; row++ {
		y1 := 10 + float64(row)*20
		y2 := y1 + 10
		// left column: a run of ink from x=10 to x=80
		for x := 10.0; x < 80; x += 10 {
			chars = append(chars, charAt(x, y1, x+8, y2, 'x'))
		}
		// right column: a run of ink from x=120 to x=190
		for x := 120.0; x < 190; x += 10 {
			chars = append(chars, charAt(x, y1, x+8, y2, 'x'))
		}
	}
	return chars
}

func TestDecomposeEmptyPageFallsBackToPageRect(t *testing.T) {
	page := &fakePage{mediaBox: rect.New(0, 0, 200, 200)}
	got := Decompose(context.Background(), page, -1)
	if got.Len() != 1 || !rect.Equal(got.Items[0], page.mediaBox) {
		t.Fatalf("expected single page-rect fallback, got %v", got.Items)
	}
}

func TestDecomposeTwoColumns(t *testing.T) {
	page := &fakePage{mediaBox: rect.New(0, 0, 200, 200), chars: twoColumnChars()}
	got := Decompose(context.Background(), page, 15)
	if got.Len() == 0 {
		t.Fatal("expected a non-empty decomposition")
	}
	// Every produced block must be contained in the page rectangle.
	for _, b := range got.Items {
		if !rect.Contain(page.mediaBox, b) {
			t.Fatalf("block %v not contained in page %v", b, page.mediaBox)
		}
	}
}

func TestNullifySpacesZeroesWidth(t *testing.T) {
	chars := []pdf.CharRect{charAt(0, 0, 10, 10, ' ')}
	out := nullifySpaces(chars)
	if out[0].Width() != 0 {
		t.Fatalf("expected zero width for space glyph, got %v", out[0])
	}
}

func TestMergeConsecutiveJoinsTouching(t *testing.T) {
	chars := []rect.Rectangle{
		rect.New(0, 0, 10, 10),
		rect.New(10, 0, 20, 10),
		rect.New(20, 0, 30, 10),
	}
	out := mergeConsecutive(chars)
	if len(out) != 1 {
		t.Fatalf("expected touching runs to merge into one rectangle, got %v", out)
	}
	if !rect.Equal(out[0], rect.New(0, 0, 30, 10)) {
		t.Fatalf("unexpected merged rectangle: %v", out[0])
	}
}

func TestBoundingBoxIgnoresSpaces(t *testing.T) {
	page := &fakePage{
		mediaBox: rect.New(0, 0, 100, 100),
		chars: []pdf.CharRect{
			charAt(10, 10, 20, 20, 'a'),
			charAt(20, 10, 40, 20, ' '),
			charAt(40, 10, 50, 20, 'b'),
		},
	}
	box, ok := BoundingBox(context.Background(), page)
	if !ok {
		t.Fatal("expected a bounding box")
	}
	if !rect.Equal(box, rect.New(10, 10, 50, 20)) {
		t.Fatalf("unexpected bounding box: %v", box)
	}
}

func TestViewModePage(t *testing.T) {
	pageRect := rect.New(0, 0, 100, 100)
	got := View(ViewPage, nil, rect.Rectangle{}, false, pageRect)
	if got.Len() != 1 || !rect.Equal(got.Items[0], pageRect) {
		t.Fatalf("ViewPage should return the page rect, got %v", got.Items)
	}
}

func TestViewModeBBoxFallsBackWithoutBBox(t *testing.T) {
	got := View(ViewBBox, nil, rect.Rectangle{}, false, rect.New(0, 0, 1, 1))
	if got.Len() != 0 {
		t.Fatalf("expected empty list when no bounding box is available, got %v", got.Items)
	}
}

func TestInterOverlapIndexSingleColumnIsLow(t *testing.T) {
	bbox := rect.New(0, 0, 100, 100)
	// Two blocks stacked vertically (touch horizontally) should not
	// contribute to the index at all.
	decomp := rect.NewSequence(rect.New(0, 0, 100, 50), rect.New(0, 50, 100, 100))
	idx := InterOverlapIndex(decomp, bbox)
	if idx != 0 {
		t.Fatalf("expected zero index for a single stacked column, got %v", idx)
	}
}

func TestInterOverlapIndexMultiColumnIsPositive(t *testing.T) {
	bbox := rect.New(0, 0, 100, 100)
	decomp := rect.NewSequence(rect.New(0, 0, 40, 100), rect.New(60, 0, 100, 100))
	idx := InterOverlapIndex(decomp, bbox)
	if idx <= 0 {
		t.Fatalf("expected positive index for side-by-side columns, got %v", idx)
	}
}

func TestRowsGroupsByVerticalGap(t *testing.T) {
	chars := []rect.Rectangle{
		rect.New(0, 0, 10, 10),
		rect.New(12, 0, 22, 10),  // same row, touches
		rect.New(0, 30, 10, 40), // far below: new row
	}
	rows := Rows(chars, 5)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(rows), rows)
	}
}

func TestAdaptiveDistanceClampedRange(t *testing.T) {
	narrow := []rect.Rectangle{rect.New(0, 0, 1, 10)}
	if d := adaptiveDistance(narrow); d != 9 {
		t.Fatalf("expected adaptive distance floor of 9, got %v", d)
	}
	wide := []rect.Rectangle{rect.New(0, 0, 100, 10)}
	if d := adaptiveDistance(wide); d != 15 {
		t.Fatalf("expected adaptive distance ceiling of 15, got %v", d)
	}
}
