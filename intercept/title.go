package intercept

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/component"
	"github.com/bgraf/baukasten/editor"
)

// TitleInvariant maintains: no anchor in the observed subtree carries a title
// attribute. Titles are moved to data-bk-title, where serialization picks them
// up again, so the canvas shows no native tooltips while the saved page keeps
// them.
type TitleInvariant struct {
	frame  *editor.Frame
	root   *html.Node
	id     editor.ObserverID
	logger *zap.Logger
}

// NewTitleInvariant enforces the invariant on root once and keeps it enforced
// as anchors are added or retitled.
func NewTitleInvariant(frame *editor.Frame, root *html.Node, logger *zap.Logger) *TitleInvariant {
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &TitleInvariant{frame: frame, root: root, logger: logger}
	t.Enforce(root)
	t.id = frame.Observe(root, t.onMutations)

	return t
}

// Enforce relocates the titles of all anchors below n.
func (t *TitleInvariant) Enforce(n *html.Node) int {
	moved := 0
	editor.Walk(n, func(e *html.Node) bool {
		if e.Type == html.ElementNode && e.Data == "a" && t.relocate(e) {
			moved++
		}
		return true
	})

	if moved > 0 {
		t.logger.Debug("relocated anchor titles", zap.Int("count", moved))
	}

	return moved
}

func (t *TitleInvariant) relocate(a *html.Node) bool {
	title, ok := editor.Attr(a, "title")
	if !ok {
		return false
	}

	t.frame.Batch(func() {
		t.frame.SetAttr(a, component.AttrTitle, title)
		t.frame.RemoveAttr(a, "title")
	})

	return true
}

func (t *TitleInvariant) onMutations(recs []editor.MutationRecord) {
	for _, rec := range recs {
		switch rec.Type {
		case editor.MutationChildList:
			for _, n := range rec.Added {
				t.Enforce(n)
			}
		case editor.MutationAttributes:
			if rec.AttributeName == "title" && rec.Target.Data == "a" {
				t.relocate(rec.Target)
			}
		}
	}
}

// Holds reports whether the invariant currently holds.
func (t *TitleInvariant) Holds() bool {
	holds := true
	editor.Walk(t.root, func(e *html.Node) bool {
		if e.Type == html.ElementNode && e.Data == "a" {
			if _, ok := editor.Attr(e, "title"); ok {
				holds = false
			}
		}
		return holds
	})

	return holds
}

// Stop disconnects the observer.
func (t *TitleInvariant) Stop() {
	t.frame.Disconnect(t.id)
}
