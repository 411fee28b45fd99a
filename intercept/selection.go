package intercept

import (
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/component"
	"github.com/bgraf/baukasten/editor"
)

// Selector is what the selection correction needs from the editor.
type Selector interface {
	ComponentForNode(n *html.Node) (*editor.Component, bool)
	Select(c *editor.Component)
	Selected() *editor.Component
	Defer(fn func())
}

var _ Selector = (*editor.Editor)(nil)

var textTags = map[string]bool{
	"p": true, "span": true, "li": true, "blockquote": true, "figcaption": true, "label": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"strong": true, "em": true, "b": true, "i": true, "u": true, "small": true,
	"a": true,
}

// CorrectSelection returns a click handler that selects the text or link
// component under the click once the editor's own selection has run. Clicks
// on anything but text-like or link elements are left to the editor.
func CorrectSelection(sel Selector) editor.Handler {
	return func(ev *editor.Event) {
		target := ev.Target
		if target != nil && target.Type == html.TextNode {
			target = target.Parent
		}
		if target == nil || target.Type != html.ElementNode || !textTags[target.Data] {
			return
		}

		c := nearestTextComponent(sel, target)
		if c == nil {
			return
		}

		sel.Defer(func() {
			if sel.Selected() != c {
				sel.Select(c)
			}
		})
	}
}

func nearestTextComponent(sel Selector, n *html.Node) *editor.Component {
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if _, ok := editor.Attr(n, component.AttrID); !ok {
			continue
		}

		c, ok := sel.ComponentForNode(n)
		if !ok {
			continue
		}

		switch {
		case c.Type == editor.TypeText, c.Type == editor.TypeLink:
			return c
		case c.Kind == component.TextLink, c.Kind == component.LinkButton:
			return c
		default:
			// The nearest component is a container; the editor's choice stands.
			return nil
		}
	}

	return nil
}
