package native

import (
	"context"
	"testing"

	"github.com/wudi/hovacui/ir/semantic"
)

func testFont() *semantic.Font {
	return &semantic.Font{
		BaseFont: "Helvetica-Bold",
		Widths:   map[int]int{'A': 600, 'B': 700},
	}
}

func testPage(ops []semantic.Operation) *semantic.Page {
	return &semantic.Page{
		Resources: &semantic.Resources{Fonts: map[string]*semantic.Font{"F1": testFont()}},
		Contents:  []semantic.ContentStream{{Operations: ops}},
	}
}

func name(s string) semantic.Operand { return semantic.NameOperand{Value: s} }
func num(v float64) semantic.Operand { return semantic.NumberOperand{Value: v} }
func str(s string) semantic.Operand  { return semantic.StringOperand{Value: []byte(s)} }

func TestLayoutCharsPlacesGlyphsAtTheTextOrigin(t *testing.T) {
	page := testPage([]semantic.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []semantic.Operand{name("F1"), num(10)}},
		{Operator: "Td", Operands: []semantic.Operand{num(0), num(0)}},
		{Operator: "Tj", Operands: []semantic.Operand{str("AB")}},
		{Operator: "ET"},
	})

	chars, err := layoutChars(context.Background(), page)
	if err != nil {
		t.Fatalf("layoutChars: %v", err)
	}
	if len(chars) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(chars))
	}

	a := chars[0]
	if a.Rune != 'A' {
		t.Fatalf("expected 'A', got %q", a.Rune)
	}
	if a.Rect.X1 != 0 || a.Rect.Y1 != 0 {
		t.Fatalf("expected A at the text origin, got %+v", a.Rect)
	}
	wantAWidth := 600.0 / 1000 * 10
	if a.Rect.X2 != wantAWidth {
		t.Fatalf("expected A width %v, got %v", wantAWidth, a.Rect.X2)
	}
	if a.Rect.Y2 != 10 {
		t.Fatalf("expected A height 10 (font size), got %v", a.Rect.Y2)
	}
	if !a.Attrs.Bold {
		t.Fatal("expected Helvetica-Bold to be detected as bold")
	}

	b := chars[1]
	if b.Rune != 'B' {
		t.Fatalf("expected 'B', got %q", b.Rune)
	}
	if b.Rect.X1 != wantAWidth {
		t.Fatalf("expected B to start where A ended (%v), got %v", wantAWidth, b.Rect.X1)
	}
}

func TestLayoutCharsAppliesTheCTM(t *testing.T) {
	page := testPage([]semantic.Operation{
		{Operator: "cm", Operands: []semantic.Operand{num(1), num(0), num(0), num(1), num(100), num(200)}},
		{Operator: "BT"},
		{Operator: "Tf", Operands: []semantic.Operand{name("F1"), num(10)}},
		{Operator: "Tj", Operands: []semantic.Operand{str("A")}},
		{Operator: "ET"},
	})

	chars, err := layoutChars(context.Background(), page)
	if err != nil {
		t.Fatalf("layoutChars: %v", err)
	}
	if len(chars) != 1 {
		t.Fatalf("expected 1 char, got %d", len(chars))
	}
	if chars[0].Rect.X1 != 100 || chars[0].Rect.Y1 != 200 {
		t.Fatalf("expected the cm translation to carry through, got %+v", chars[0].Rect)
	}
}

func TestLayoutCharsSkipsTextBeforeASelectedFont(t *testing.T) {
	page := testPage([]semantic.Operation{
		{Operator: "BT"},
		{Operator: "Tj", Operands: []semantic.Operand{str("A")}},
		{Operator: "ET"},
	})

	chars, err := layoutChars(context.Background(), page)
	if err != nil {
		t.Fatalf("layoutChars: %v", err)
	}
	if len(chars) != 0 {
		t.Fatalf("expected no chars without a selected font, got %d", len(chars))
	}
}

func TestLayoutCharsHonorsTJKerning(t *testing.T) {
	page := testPage([]semantic.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []semantic.Operand{name("F1"), num(10)}},
		{Operator: "TJ", Operands: []semantic.Operand{
			semantic.ArrayOperand{Values: []semantic.Operand{str("A"), num(-1000), str("B")}},
		}},
		{Operator: "ET"},
	})

	chars, err := layoutChars(context.Background(), page)
	if err != nil {
		t.Fatalf("layoutChars: %v", err)
	}
	if len(chars) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(chars))
	}
	// A's own advance is 600/1000*10 = 6; the TJ kern of -1000 (thousandths
	// of an em, at FontSize 10) adds a further 10 units, so B starts at 16.
	wantBStart := 600.0/1000*10 + 1000.0/1000*10
	if chars[1].Rect.X1 != wantBStart {
		t.Fatalf("expected B to start at %v after the kern, got %v", wantBStart, chars[1].Rect.X1)
	}
}
