package native

import (
	"context"
	"testing"

	"github.com/wudi/hovacui/coords"
	"github.com/wudi/hovacui/ir/semantic"
)

type fakeCanvas struct {
	w, h  int
	pixel map[[2]int][4]uint8
}

func newFakeCanvas(w, h int) *fakeCanvas {
	return &fakeCanvas{w: w, h: h, pixel: make(map[[2]int][4]uint8)}
}

func (c *fakeCanvas) Bounds() (int, int) { return c.w, c.h }

func (c *fakeCanvas) Set(x, y int, r, g, b, a uint8) {
	c.pixel[[2]int{x, y}] = [4]uint8{r, g, b, a}
}

func TestRenderFillsARectanglePath(t *testing.T) {
	page := testPage([]semantic.Operation{
		{Operator: "re", Operands: []semantic.Operand{num(0), num(0), num(10), num(10)}},
		{Operator: "f"},
	})
	p := &Page{page: page}
	dst := newFakeCanvas(20, 20)

	if err := p.Render(context.Background(), coords.Identity(), dst); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, ok := dst.pixel[[2]int{5, 5}]; !ok {
		t.Fatal("expected the rectangle interior to be painted")
	}
	if _, ok := dst.pixel[[2]int{15, 15}]; ok {
		t.Fatal("expected outside the rectangle to be untouched")
	}
}

func TestRenderSkipsWithAZeroSizedCanvas(t *testing.T) {
	page := testPage(nil)
	p := &Page{page: page}
	dst := newFakeCanvas(0, 0)
	if err := p.Render(context.Background(), coords.Identity(), dst); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(dst.pixel) != 0 {
		t.Fatal("expected no pixels painted on a zero-sized canvas")
	}
}

func TestRenderDrawsARawImageXObject(t *testing.T) {
	// A 2x1 DeviceRGB image: one red pixel, one blue pixel.
	data := []byte{255, 0, 0, 0, 0, 255}
	page := &semantic.Page{
		Resources: &semantic.Resources{
			XObjects: map[string]semantic.XObject{
				"Im1": {
					Subtype:          "Image",
					Width:            2,
					Height:           1,
					BitsPerComponent: 8,
					ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceRGB"},
					Data:             data,
				},
			},
		},
		Contents: []semantic.ContentStream{{Operations: []semantic.Operation{
			{Operator: "cm", Operands: []semantic.Operand{num(10), num(0), num(0), num(10), num(0), num(0)}},
			{Operator: "Do", Operands: []semantic.Operand{name("Im1")}},
		}}},
	}
	p := &Page{page: page}
	dst := newFakeCanvas(10, 10)

	if err := p.Render(context.Background(), coords.Identity(), dst); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(dst.pixel) == 0 {
		t.Fatal("expected the image xobject to paint some pixels")
	}
}

func TestRenderPaintsCharacterBoxes(t *testing.T) {
	page := testPage([]semantic.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []semantic.Operand{name("F1"), num(10)}},
		{Operator: "Tj", Operands: []semantic.Operand{str("A")}},
		{Operator: "ET"},
	})
	p := &Page{page: page}
	dst := newFakeCanvas(20, 20)

	if err := p.Render(context.Background(), coords.Identity(), dst); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, ok := dst.pixel[[2]int{2, 2}]; !ok {
		t.Fatal("expected the glyph box at the text origin to be painted")
	}
}
