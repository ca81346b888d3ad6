package textshape

import "testing"

func TestLayoutEmptyTextReturnsZeroRunWithoutParsingFont(t *testing.T) {
	s := NewShaper()
	run, err := s.Layout("", []byte{1, 2, 3}, 12)
	if err != nil {
		t.Fatalf("expected no error for empty text, got %v", err)
	}
	if len(run.Glyphs) != 0 || run.Width != 0 {
		t.Fatalf("expected a zero Run, got %+v", run)
	}
}

func TestLayoutEmptyFontDataErrors(t *testing.T) {
	s := NewShaper()
	if _, err := s.Layout("hi", nil, 12); err == nil {
		t.Fatal("expected an error for empty font data")
	}
}
