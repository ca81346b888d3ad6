package main

import (
	"context"

	"github.com/wudi/hovacui/config"
	"github.com/wudi/hovacui/device"
	"github.com/wudi/hovacui/navigate"
	"github.com/wudi/hovacui/observability"
	"github.com/wudi/hovacui/pdf"
	"github.com/wudi/hovacui/position"
	"github.com/wudi/hovacui/rect"
	"github.com/wudi/hovacui/textarea"
	"github.com/wudi/hovacui/ui"
)

// viewer holds the state every window function and the document draw
// callback share: the open document, the current position/view, the
// live configuration (mutable at runtime via the w/z/Z/t/o/v/f/s keys)
// and the small bits of transient UI state (last search term, status
// label visibility). One instance is constructed per run() call and
// captured by the closures uiloop.Runtime dispatches into — the
// explicit "viewer context" spec.md §9's Design Notes calls for, in
// place of the original's module-level globals.
type viewer struct {
	ctx    context.Context
	doc    pdf.Document
	logger observability.Logger

	pos  *position.Position
	view *position.View
	cfg  config.Config

	lastSearch string
	forward    bool
	showStatus bool

	fontSize float64
	label    *ui.Label
}

func newViewer(ctx context.Context, doc pdf.Document, dev device.Device, cfg config.Config, logger observability.Logger) (*viewer, error) {
	v := &viewer{
		ctx:        ctx,
		doc:        doc,
		logger:     logger,
		cfg:        cfg,
		forward:    true,
		showStatus: !cfg.NoInitLabels,
		label:      &ui.Label{Bottom: 0},
	}

	aspect := cfg.Aspect
	if aspect < 0 {
		aspect = 1
	}
	margin := cfg.Margin
	v.view = &position.View{
		Dest:         rect.New(margin, margin, dev.Width()-margin, dev.Height()-margin),
		ScreenWidth:  dev.ScreenWidth(),
		ScreenHeight: dev.ScreenHeight(),
		Aspect:       aspect,
		MinWidth:     cfg.MinWidth,
		Fit:          cfg.Fit,
		ScrollFrac:   cfg.Scroll,
	}

	v.fontSize = cfg.FontSize
	if v.fontSize < 0 {
		v.fontSize = dev.ScreenHeight() / 25
	}

	navigate.Reshape = v.reshape

	v.pos = &position.Position{Document: doc, TotalPages: doc.PageCount()}
	if err := navigate.LoadPage(ctx, v.pos, 0, cfg.Distance); err != nil {
		return nil, err
	}
	v.pos.BoxIndex = 0
	position.TopOfBlock(v.pos, v.view)
	return v, nil
}

// reshape is navigate.Reshape's installed implementation: it narrows
// decomp to the view mode currently configured (spec.md §4.B "View-mode
// outputs") then reorders the result per the configured reading order
// (spec.md's Open Question on rectangle_vcompare vs rectangle_compare).
func (v *viewer) reshape(ctx context.Context, page pdf.Page, decomp *rect.List, bbox rect.Rectangle, haveBBox bool) *rect.List {
	viewed := textarea.View(v.cfg.Mode, decomp, bbox, haveBBox, page.MediaBox())
	items := append([]rect.Rectangle(nil), viewed.Items...)

	switch v.cfg.Order {
	case config.OrderQuick:
		items = rect.SortQuick(items)
	case config.OrderTwoStep:
		items = rect.SortTwoStep(items)
	case config.OrderChar:
		chars, _ := page.Chars(ctx)
		charRects := make([]rect.Rectangle, len(chars))
		for i, c := range chars {
			charRects[i] = c.Rect
		}
		items = rect.SortChar(items, charRects)
	}
	return &rect.List{Kind: viewed.Kind, Items: items}
}

// reloadCurrentPage re-derives pos.TextArea for the page already
// loaded, honoring the viewer's current mode/order/distance — used
// whenever a key changes one of those settings rather than the page
// itself.
func (v *viewer) reloadCurrentPage() error {
	box := v.pos.BoxIndex
	if err := navigate.LoadPage(v.ctx, v.pos, v.pos.PageIndex, v.cfg.Distance); err != nil {
		return err
	}
	if box >= v.pos.TextArea.Len() {
		box = v.pos.TextArea.Len() - 1
	}
	if box < 0 {
		box = 0
	}
	v.pos.BoxIndex = box
	position.TopOfBlock(v.pos, v.view)
	return nil
}

func (v *viewer) cycleMode() {
	v.cfg.Mode = (v.cfg.Mode + 1) % 4
	v.reloadCurrentPage()
}

func (v *viewer) cycleFit() {
	v.view.Fit = (v.view.Fit + 1) % 4
	v.cfg.Fit = v.view.Fit
	position.TopOfBlock(v.pos, v.view)
}

func (v *viewer) cycleOrder() {
	v.cfg.Order = (v.cfg.Order + 1) % 3
	v.reloadCurrentPage()
}

const minWidthStep = 10.0

func (v *viewer) decrementMinWidth() {
	if v.view.MinWidth > minWidthStep {
		v.view.MinWidth -= minWidthStep
	}
	v.cfg.MinWidth = v.view.MinWidth
}

func (v *viewer) incrementMinWidth() {
	v.view.MinWidth += minWidthStep
	v.cfg.MinWidth = v.view.MinWidth
}

func (v *viewer) setMinWidth(w float64) {
	v.view.MinWidth = w
	v.cfg.MinWidth = w
}

func (v *viewer) setDistance(d float64) {
	v.cfg.Distance = d
	v.reloadCurrentPage()
}

func (v *viewer) firstBlock() {
	v.pos.BoxIndex = 0
	position.TopOfBlock(v.pos, v.view)
}

func (v *viewer) lastBlock() {
	v.pos.BoxIndex = v.pos.TextArea.Len() - 1
	position.BottomOfBlock(v.pos, v.view)
}
