package native

import (
	"context"

	"github.com/wudi/hovacui/ir/semantic"
	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/rect"
)

// Annotations maps the page's semantic.Annotation list to pdf's flat
// Annotation/Link shape: a page-number sticky note and a clickable
// cross-reference link are both spec.md "annotation summary" concerns,
// but only the latter carries a Link.
func (p *Page) Annotations(ctx context.Context) ([]pdf.Annotation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	out := make([]pdf.Annotation, 0, len(p.page.Annotations))
	for _, a := range p.page.Annotations {
		base := a.Base()
		ann := pdf.Annotation{
			Rect:     rectOf(a.Rect()),
			Subtype:  base.Subtype,
			Contents: base.Contents,
		}
		if link, ok := a.(*semantic.LinkAnnotation); ok {
			ann.Link = linkOf(link)
		}
		out = append(out, ann)
	}
	return out, nil
}

func rectOf(r semantic.Rectangle) rect.Rectangle {
	return rect.New(r.LLX, r.LLY, r.URX, r.URY)
}

func linkOf(link *semantic.LinkAnnotation) *pdf.Link {
	l := &pdf.Link{Rect: rectOf(link.Rect())}
	switch action := link.Action.(type) {
	case semantic.URIAction:
		l.Kind = pdf.LinkURI
		l.URI = action.URI
	case semantic.GoToAction:
		l.Kind = pdf.LinkGoTo
		l.TargetPage = action.PageIndex
		if action.Dest != nil && action.Dest.Y != nil {
			l.TargetY = *action.Dest.Y
		}
	default:
		if link.URI != "" {
			l.Kind = pdf.LinkURI
			l.URI = link.URI
		} else {
			return nil
		}
	}
	return l
}
