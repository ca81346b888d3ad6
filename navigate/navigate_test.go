package navigate

import (
	"context"
	"testing"

	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/position"
	"github.com/wudi/hovacui/rect"
)

type fakePage struct {
	idx      int
	mediaBox rect.Rectangle
	chars    []pdf.CharRect
	matches  []pdf.Match
}

func (p *fakePage) Index() int              { return p.idx }
func (p *fakePage) MediaBox() rect.Rectangle { return p.mediaBox }
func (p *fakePage) Chars(ctx context.Context) ([]pdf.CharRect, error) {
	return p.chars, nil
}
func (p *fakePage) Text(ctx context.Context) (string, error) { return "", nil }
func (p *fakePage) Find(ctx context.Context, needle string) ([]pdf.Match, error) {
	return p.matches, nil
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

func twoBlockChars() []pdf.CharRect {
	var chars []pdf.CharRect
	for row := 0; row < 4; row++ {
		y1 := 10 + float64(row)*20
		for x := 10.0; x < 200; x += 10 {
			chars = append(chars, charAt(x, y1, x+8, y1+10, 'a'))
		}
	}
	for row := 0; row < 4; row++ {
		y1 := 300 + float64(row)*20
		for x := 10.0; x < 200; x += 10 {
			chars = append(chars, charAt(x, y1, x+8, y1+10, 'b'))
		}
	}
	return chars
}

func buildDoc(n int) *fakeDoc {
	d := &fakeDoc{}
	for i := 0; i < n; i++ {
		d.pages = append(d.pages, &fakePage{
			idx:      i,
			mediaBox: rect.New(0, 0, 400, 500),
			chars:    twoBlockChars(),
		})
	}
	return d
}

func basicView() *position.View {
	return &position.View{
		Dest:         rect.New(0, 0, 800, 600),
		ScreenWidth:  800,
		ScreenHeight: 600,
		Aspect:       1,
		MinWidth:     400,
		Fit:          position.FitH,
		ScrollFrac:   0.8,
	}
}

func newPos(t *testing.T, doc *fakeDoc) *position.Position {
	t.Helper()
	pos := &position.Position{Document: doc, TotalPages: doc.PageCount()}
	if err := LoadPage(context.Background(), pos, 0, -1); err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	return pos
}

func TestLoadPageClampsIndex(t *testing.T) {
	doc := buildDoc(3)
	pos := newPos(t, doc)
	if err := LoadPage(context.Background(), pos, 99, -1); err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if pos.PageIndex != 2 {
		t.Fatalf("expected clamp to last page, got %d", pos.PageIndex)
	}
}

func TestNextBlockThenNextPage(t *testing.T) {
	doc := buildDoc(2)
	pos := newPos(t, doc)
	view := basicView()
	position.TopOfBlock(pos, view)

	if !NextBlock(context.Background(), pos, view, -1) {
		t.Fatal("expected second block on page 0")
	}
	if pos.PageIndex != 0 || pos.BoxIndex != 1 {
		t.Fatalf("expected page 0 block 1, got page %d block %d", pos.PageIndex, pos.BoxIndex)
	}

	if !NextBlock(context.Background(), pos, view, -1) {
		t.Fatal("expected rollover to page 1")
	}
	if pos.PageIndex != 1 || pos.BoxIndex != 0 {
		t.Fatalf("expected page 1 block 0, got page %d block %d", pos.PageIndex, pos.BoxIndex)
	}
}

func TestNextBlockStopsAtLastPage(t *testing.T) {
	doc := buildDoc(1)
	pos := newPos(t, doc)
	view := basicView()
	pos.BoxIndex = pos.TextArea.Len() - 1

	if NextBlock(context.Background(), pos, view, -1) {
		t.Fatal("expected no further block past the last page")
	}
}

func TestNextBlockSuppressedUnderFitNone(t *testing.T) {
	doc := buildDoc(2)
	pos := newPos(t, doc)
	view := basicView()
	view.Fit = position.FitNone
	pos.BoxIndex = pos.TextArea.Len() - 1

	if NextBlock(context.Background(), pos, view, -1) {
		t.Fatal("expected block-skip suppressed under FitNone at page boundary")
	}
	if pos.PageIndex != 0 {
		t.Fatal("expected to remain on the same page")
	}
}

func TestPrevBlockCrossesToPreviousPage(t *testing.T) {
	doc := buildDoc(2)
	pos := newPos(t, doc)
	view := basicView()
	if err := LoadPage(context.Background(), pos, 1, -1); err != nil {
		t.Fatal(err)
	}
	pos.BoxIndex = 0

	if !PrevBlock(context.Background(), pos, view, -1) {
		t.Fatal("expected crossing back to page 0")
	}
	if pos.PageIndex != 0 {
		t.Fatalf("expected page 0, got %d", pos.PageIndex)
	}
}

func TestLoadPageAppliesTheReshapeHook(t *testing.T) {
	doc := buildDoc(1)
	pos := newPos(t, doc)

	var sawHaveBBox bool
	Reshape = func(ctx context.Context, page pdf.Page, decomp *rect.List, bbox rect.Rectangle, haveBBox bool) *rect.List {
		sawHaveBBox = haveBBox
		return rect.NewSequence(rect.New(0, 0, 1, 1))
	}
	defer func() { Reshape = nil }()

	if err := LoadPage(context.Background(), pos, 0, -1); err != nil {
		t.Fatal(err)
	}
	if !sawHaveBBox {
		t.Fatal("expected Reshape to be called with haveBBox true")
	}
	if pos.TextArea.Len() != 1 || pos.TextArea.Items[0] != rect.New(0, 0, 1, 1) {
		t.Fatalf("expected pos.TextArea to be the Reshape hook's output, got %v", pos.TextArea.Items)
	}
}

func TestScrollDownAdvancesWithinBlock(t *testing.T) {
	doc := buildDoc(1)
	pos := newPos(t, doc)
	view := basicView()
	view.Fit = position.FitNone
	position.TopOfBlock(pos, view)

	before := pos.ScrollY
	moved := ScrollDown(context.Background(), pos, view, -1)
	if !moved {
		t.Fatal("expected scroll to succeed")
	}
	if pos.ScrollY <= before && pos.BoxIndex == 0 {
		t.Fatalf("expected scroll or block change, scrollY stayed %v", pos.ScrollY)
	}
}

func TestScrollUpRetreatsWithinBlockThenCrossesBlocks(t *testing.T) {
	doc := buildDoc(1)
	pos := newPos(t, doc)
	view := basicView()
	view.Fit = position.FitNone
	if err := LoadPage(context.Background(), pos, 0, -1); err != nil {
		t.Fatal(err)
	}
	pos.BoxIndex = pos.TextArea.Len() - 1
	position.BottomOfBlock(pos, view)

	if !ScrollUp(context.Background(), pos, view, -1) {
		t.Fatal("expected scroll to succeed")
	}

	for i := 0; i < 50 && pos.BoxIndex == pos.TextArea.Len()-1; i++ {
		ScrollUp(context.Background(), pos, view, -1)
	}
	if pos.BoxIndex >= pos.TextArea.Len()-1 {
		t.Fatal("expected repeated ScrollUp to eventually cross to a previous block")
	}
}

func TestScrollLeftRetreatsWithinBlockThenCrossesBlocks(t *testing.T) {
	doc := buildDoc(1)
	pos := newPos(t, doc)
	view := basicView()
	view.Fit = position.FitNone
	if err := LoadPage(context.Background(), pos, 0, -1); err != nil {
		t.Fatal(err)
	}
	pos.BoxIndex = pos.TextArea.Len() - 1
	position.BottomOfBlock(pos, view)

	for i := 0; i < 50 && pos.BoxIndex == pos.TextArea.Len()-1; i++ {
		ScrollLeft(context.Background(), pos, view, -1)
	}
	if pos.BoxIndex >= pos.TextArea.Len()-1 {
		t.Fatal("expected repeated ScrollLeft to eventually cross to a previous block")
	}
}

func TestOrderMatchesForward(t *testing.T) {
	ta := rect.NewSequence(
		rect.New(10, 10, 200, 90),
		rect.New(10, 300, 200, 380),
	)
	matches := []pdf.Match{
		{Rects: []rect.Rectangle{rect.New(10, 310, 20, 320)}, Offset: 5},
		{Rects: []rect.Rectangle{rect.New(10, 15, 20, 25)}, Offset: 1},
	}
	ordered := orderMatches(matches, ta, true)
	if len(ordered) != 2 {
		t.Fatalf("expected 2 ordered matches, got %d", len(ordered))
	}
	if ordered[0].block != 0 || ordered[1].block != 1 {
		t.Fatalf("expected block order [0,1], got [%d,%d]", ordered[0].block, ordered[1].block)
	}
}

func TestOrderMatchesBackwardReverses(t *testing.T) {
	ta := rect.NewSequence(
		rect.New(10, 10, 200, 90),
		rect.New(10, 300, 200, 380),
	)
	matches := []pdf.Match{
		{Rects: []rect.Rectangle{rect.New(10, 310, 20, 320)}, Offset: 5},
		{Rects: []rect.Rectangle{rect.New(10, 15, 20, 25)}, Offset: 1},
	}
	ordered := orderMatches(matches, ta, false)
	if ordered[0].block != 1 || ordered[1].block != 0 {
		t.Fatalf("expected reversed block order [1,0], got [%d,%d]", ordered[0].block, ordered[1].block)
	}
}

func TestFirstMatchJumpsToContainingBlock(t *testing.T) {
	doc := buildDoc(1)
	doc.pages[0].matches = []pdf.Match{
		{Rects: []rect.Rectangle{rect.New(10, 310, 20, 320)}, Offset: 0},
	}
	pos := newPos(t, doc)
	view := basicView()
	position.TopOfBlock(pos, view)

	if !FirstMatch(context.Background(), pos, view, "x", true, -1) {
		t.Fatal("expected match found")
	}
	if pos.BoxIndex != 1 {
		t.Fatalf("expected jump to block 1, got %d", pos.BoxIndex)
	}
}

func TestFirstMatchReturnsFalseWhenAbsent(t *testing.T) {
	doc := buildDoc(2)
	pos := newPos(t, doc)
	view := basicView()

	if FirstMatch(context.Background(), pos, view, "nowhere", true, -1) {
		t.Fatal("expected no match across the whole document")
	}
	if pos.PageIndex != 0 {
		t.Fatalf("expected wrap back to the starting page, got %d", pos.PageIndex)
	}
}

func TestFirstMatchWrapsAcrossPages(t *testing.T) {
	doc := buildDoc(2)
	doc.pages[1].matches = []pdf.Match{
		{Rects: []rect.Rectangle{rect.New(10, 15, 20, 25)}, Offset: 0},
	}
	pos := newPos(t, doc)
	view := basicView()
	// start on page 0, which has no matches; search should land on page 1.
	if !FirstMatch(context.Background(), pos, view, "x", true, -1) {
		t.Fatal("expected match found on page 1")
	}
	if pos.PageIndex != 1 {
		t.Fatalf("expected to land on page 1, got %d", pos.PageIndex)
	}
}

func TestNormalizeMatchYFlipsOrigin(t *testing.T) {
	r := rect.New(10, 100, 20, 110)
	got := NormalizeMatchY(r, 500)
	want := rect.New(10, 390, 20, 400)
	if !rect.Equal(got, want) {
		t.Fatalf("NormalizeMatchY(%v, 500) = %v, want %v", r, got, want)
	}
}

func TestAcceptsInBlockStrictFiltersStartingBlock(t *testing.T) {
	viewbox := rect.New(0, 0, 200, 90)
	insideMatch := pdf.Match{Rects: []rect.Rectangle{rect.New(10, 20, 20, 30)}}
	if acceptsInBlock(insideMatch, viewbox, true, false) {
		t.Fatal("expected strict forward search to reject a match inside the current viewbox")
	}
	if !acceptsInBlock(insideMatch, viewbox, true, true) {
		t.Fatal("expected first-match (in_screen) to accept a match inside the current viewbox")
	}
}
