package x11

import (
	"testing"

	"gioui.org/io/key"

	"github.com/wudi/hovacui/device/textshape"
	"github.com/wudi/hovacui/ui"
)

func TestKeyToInputTranslatesNamedKeys(t *testing.T) {
	cases := []struct {
		name key.Name
		want ui.Key
	}{
		{key.NameReturn, ui.KeyEnter},
		{key.NameEscape, ui.KeyEscape},
		{key.NameDeleteBackward, ui.KeyBackspace},
		{key.NameUpArrow, ui.KeyUp},
		{key.NameDownArrow, ui.KeyDown},
		{key.NameLeftArrow, ui.KeyLeft},
		{key.NameRightArrow, ui.KeyRight},
	}
	for _, c := range cases {
		in, ok := keyToInput(key.Event{Name: c.name, State: key.Press})
		if !ok || in.Key != c.want {
			t.Fatalf("%v: expected %v, got %v (ok=%v)", c.name, c.want, in.Key, ok)
		}
	}
}

func TestKeyToInputTranslatesPlainRune(t *testing.T) {
	in, ok := keyToInput(key.Event{Name: "Q", State: key.Press})
	if !ok || in.Key != ui.KeyRune || in.Rune != 'Q' {
		t.Fatalf("expected a rune key event, got %+v (ok=%v)", in, ok)
	}
}

func TestKeyToInputIgnoresRelease(t *testing.T) {
	if _, ok := keyToInput(key.Event{Name: "Q", State: key.Release}); ok {
		t.Fatal("expected key releases to be ignored")
	}
}

func TestByteOfClampsToUnitRange(t *testing.T) {
	if byteOf(-1) != 0 {
		t.Fatal("expected byteOf(-1) == 0")
	}
	if byteOf(2) != 255 {
		t.Fatal("expected byteOf(2) == 255")
	}
	if byteOf(1) != 255 {
		t.Fatal("expected byteOf(1) == 255")
	}
}

func TestTextExtentsFallsBackWithoutAnEmbeddedFont(t *testing.T) {
	c := &canvas{dev: &Device{shaper: textshape.NewShaper()}, fontSize: 10}
	w, h := c.TextExtents("abc")
	if h != 10 {
		t.Fatalf("expected the fallback height to equal the font size, got %v", h)
	}
	if w != 3*10*0.6 {
		t.Fatalf("expected the fallback width formula len*size*0.6, got %v", w)
	}
}
