package native

import (
	"context"
	"testing"

	"github.com/wudi/hovacui/ir/semantic"
	"github.com/wudi/hovacui/pdf"
)

func TestAnnotationsMapsAURILink(t *testing.T) {
	link := &semantic.LinkAnnotation{
		BaseAnnotation: semantic.BaseAnnotation{
			Subtype:  "Link",
			RectVal:  semantic.Rectangle{LLX: 1, LLY: 2, URX: 3, URY: 4},
			Contents: "a link",
		},
		Action: semantic.URIAction{URI: "https://example.com"},
	}
	page := &semantic.Page{Annotations: []semantic.Annotation{link}}
	p := &Page{page: page}

	anns, err := p.Annotations(context.Background())
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	if len(anns) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(anns))
	}
	a := anns[0]
	if a.Subtype != "Link" || a.Contents != "a link" {
		t.Fatalf("unexpected base fields: %+v", a)
	}
	if a.Rect.X1 != 1 || a.Rect.Y1 != 2 || a.Rect.X2 != 3 || a.Rect.Y2 != 4 {
		t.Fatalf("unexpected rect: %+v", a.Rect)
	}
	if a.Link == nil || a.Link.Kind != pdf.LinkURI || a.Link.URI != "https://example.com" {
		t.Fatalf("unexpected link: %+v", a.Link)
	}
}

func TestAnnotationsMapsAGoToLink(t *testing.T) {
	y := 50.0
	link := &semantic.LinkAnnotation{
		BaseAnnotation: semantic.BaseAnnotation{Subtype: "Link"},
		Action:         semantic.GoToAction{PageIndex: 2, Dest: &semantic.OutlineDestination{Y: &y}},
	}
	page := &semantic.Page{Annotations: []semantic.Annotation{link}}
	p := &Page{page: page}

	anns, err := p.Annotations(context.Background())
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	a := anns[0]
	if a.Link == nil || a.Link.Kind != pdf.LinkGoTo || a.Link.TargetPage != 2 || a.Link.TargetY != 50 {
		t.Fatalf("unexpected link: %+v", a.Link)
	}
}

func TestAnnotationsNonLinkHasNoLink(t *testing.T) {
	note := &semantic.TextAnnotation{
		BaseAnnotation: semantic.BaseAnnotation{Subtype: "Text", Contents: "note"},
	}
	page := &semantic.Page{Annotations: []semantic.Annotation{note}}
	p := &Page{page: page}

	anns, err := p.Annotations(context.Background())
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	if len(anns) != 1 || anns[0].Link != nil {
		t.Fatalf("expected a linkless annotation, got %+v", anns)
	}
}
