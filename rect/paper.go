package rect

import "strings"

// paperSizes maps common paper names to their size in PDF points (72/in).
// Grounded on get_papersize in _examples/original_source/pdfrects.c.
var paperSizes = map[string]struct{ w, h float64 }{
	"a3":     {841.89, 1190.55},
	"a4":     {595.28, 841.89},
	"a5":     {419.53, 595.28},
	"letter": {612, 792},
	"legal":  {612, 1008},
	"tabloid": {792, 1224},
}

// PaperSize looks up a named paper size and returns the page rectangle
// with its origin at (0,0), or false if the name is not known.
func PaperSize(name string) (Rectangle, bool) {
	size, ok := paperSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Rectangle{}, false
	}
	return Rectangle{0, 0, size.w, size.h}, true
}

// DefaultPaperSize returns the A4 page rectangle with its origin at (0,0).
// Nothing in this module calls it.
func DefaultPaperSize() Rectangle {
	r, _ := PaperSize("a4")
	return r
}
