package recur

import (
	"context"
	"testing"

	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/rect"
)

// fakePage returns a fixed character list: a page number at the bottom
// (varying digit count across pages) plus a body paragraph.
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

type fakeDoc struct {
	pages []*fakePage
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }
func (d *fakeDoc) Page(i int) (pdf.Page, error) {
	return d.pages[i], nil
}
func (d *fakeDoc) Metadata() pdf.Metadata { return pdf.Metadata{} }
func (d *fakeDoc) Close() error           { return nil }

func charAt(x1, y1, x2, y2 float64, ru rune) pdf.CharRect {
	return pdf.CharRect{Rect: rect.New(x1, y1, x2, y2), Rune: ru}
}

func bodyParagraph() []pdf.CharRect {
	var chars []pdf.CharRect
	for row := 0; row < 8; row++ {
		y1 := 100 + float64(row)*20
		for x := 50.0; x < 300; x += 10 {
			chars = append(chars, charAt(x, y1, x+8, y1+10, 'x'))
		}
	}
	return chars
}

func pageNumber(x2 float64) []pdf.CharRect {
	return []pdf.CharRect{charAt(290, 20, x2, 32, '1')}
}

func buildDoc(n int) *fakeDoc {
	d := &fakeDoc{}
	for i := 0; i < n; i++ {
		chars := append(bodyParagraph(), pageNumber(300+float64(i%3))...)
		d.pages = append(d.pages, &fakePage{
			mediaBox: rect.New(0, 0, 400, 500),
			chars:    chars,
		})
	}
	return d
}

func TestSampleRateThresholds(t *testing.T) {
	cases := []struct {
		pages int
		want  int
	}{
		{10, 100}, {39, 100}, {40, 50}, {99, 50}, {100, 25}, {5000, 25},
	}
	for _, c := range cases {
		if got := sampleRate(c.pages); got != c.want {
			t.Errorf("sampleRate(%d) = %d, want %d", c.pages, got, c.want)
		}
	}
}

func TestDetectFindsRecurringPageNumber(t *testing.T) {
	doc := buildDoc(10)
	got := Detect(context.Background(), doc, -1, -1)
	if got.Len() == 0 {
		t.Fatal("expected at least one recurring rectangle")
	}
	// The recurring rectangle should sit near the bottom-right page
	// number region, not overlap the body paragraph.
	for _, r := range got.Items {
		if r.Y1 < 15 || r.Y2 > 40 {
			t.Errorf("unexpected recurring rectangle outside page-number band: %v", r)
		}
	}
}

func TestMainRegionExcludesRecurring(t *testing.T) {
	doc := buildDoc(10)
	main, ok := MainRegion(context.Background(), doc, nil, -1, -1)
	if !ok {
		t.Fatal("expected a main region")
	}
	if main.Area() <= 0 {
		t.Fatalf("expected a non-degenerate main region, got %v", main)
	}
}

func TestClipExcludesBlocksContainingRecurring(t *testing.T) {
	decomp := rect.NewSequence(
		rect.New(50, 100, 300, 260), // body block
		rect.New(290, 20, 303, 32),  // page-number block
	)
	recurring := rect.NewSequence(rect.New(290, 20, 303, 32))

	clipped := Clip(decomp, recurring)
	if clipped.Len() != 1 {
		t.Fatalf("expected exactly one surviving block, got %d: %v", clipped.Len(), clipped.Items)
	}
	if !rect.Equal(clipped.Items[0], rect.New(50, 100, 300, 260)) {
		t.Fatalf("unexpected surviving block: %v", clipped.Items[0])
	}
}

func TestDetectEmptyDocument(t *testing.T) {
	doc := &fakeDoc{}
	got := Detect(context.Background(), doc, -1, -1)
	if got.Len() != 0 {
		t.Fatalf("expected empty result for empty document, got %v", got.Items)
	}
}
