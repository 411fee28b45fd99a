package intercept

import (
	"fmt"
	"math"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/editor"
)

// DefaultToolbarMargin keeps the toolbar this far above the viewport bottom.
const DefaultToolbarMargin = 12

// ToolbarPositioner moves the rich-text toolbar up when it would render below
// the viewport.
type ToolbarPositioner struct {
	frame  *editor.Frame
	margin float64
	id     editor.ObserverID
	logger *zap.Logger
}

func NewToolbarPositioner(frame *editor.Frame, margin float64, logger *zap.Logger) *ToolbarPositioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if margin < 0 {
		margin = DefaultToolbarMargin
	}

	p := &ToolbarPositioner{frame: frame, margin: margin, logger: logger}
	p.id = frame.Observe(frame.Body(), p.onMutations)

	frame.Find("[" + editor.AttrToolbar + "]").Each(func(_ int, s *goquery.Selection) {
		p.Correct(s.Nodes[0])
	})

	return p
}

func (p *ToolbarPositioner) onMutations(recs []editor.MutationRecord) {
	seen := make(map[*html.Node]bool)
	for _, rec := range recs {
		for _, n := range rec.Added {
			if isToolbar(n) && !seen[n] {
				seen[n] = true
				p.Correct(n)
			}
		}

		if rec.Type == editor.MutationAttributes && rec.AttributeName == "style" && isToolbar(rec.Target) && !seen[rec.Target] {
			seen[rec.Target] = true
			p.Correct(rec.Target)
		}
	}
}

func isToolbar(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}

	_, ok := editor.Attr(n, editor.AttrToolbar)
	return ok
}

// Correct applies or clears the upward nudge of a toolbar. The layout box is
// the untransformed one, so repeated corrections converge.
func (p *ToolbarPositioner) Correct(n *html.Node) {
	box, ok := p.frame.Box(n)
	if !ok {
		return
	}

	overflow := box.Bottom() - (p.frame.Viewport().H - p.margin)
	shift := math.Min(math.Ceil(overflow), math.Max(box.Y, 0))

	if shift <= 0 {
		p.frame.SetStyleProperty(n, "transform", "")
		return
	}

	p.logger.Debug("nudging toolbar into view", zap.Float64("shift", shift))
	p.frame.SetStyleProperty(n, "transform", fmt.Sprintf("translateY(-%gpx)", shift))
}

func (p *ToolbarPositioner) Stop() {
	p.frame.Disconnect(p.id)
}
