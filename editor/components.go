package editor

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/component"
)

// Built-in component types the host creates for plain markup.
const (
	TypeText      = "text"
	TypeLink      = "link"
	TypeImage     = "image"
	TypeContainer = "container"
)

// AttrToolbar marks the floating rich-text toolbar, which is not document content.
const AttrToolbar = "data-bk-toolbar"

// Component is one editable unit of the document tree. Custom components
// carry a Kind and typed Props; built-ins only a Type.
type Component struct {
	ID    string
	Type  string
	Kind  component.Kind
	Props component.Props
	View  component.View

	// Attrs mirrors the DOM attributes of the rendered element; serialization
	// reads them.
	Attrs map[string]string

	Node     *html.Node
	Parent   *Component
	Children []*Component
}

func (c *Component) IsCustom() bool {
	return c.Kind != 0
}

func builtinType(tag string) string {
	switch tag {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "span", "li", "blockquote", "figcaption", "label":
		return TypeText
	case "a":
		return TypeLink
	case "img":
		return TypeImage
	case "div", "section", "header", "footer", "main", "article", "nav", "ul", "ol", "figure", "aside", "form":
		return TypeContainer
	}

	return ""
}

func attrMap(n *html.Node) map[string]string {
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		if a.Key == component.AttrID {
			continue
		}
		m[a.Key] = a.Val
	}

	return m
}

// setRawAttr writes a live-only attribute without recording a mutation.
func setRawAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}

	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// index rebuilds the component maps from the frame body. Components whose
// element still carries their id keep their model.
func (e *Editor) index() []*Component {
	old := e.byID

	e.byID = make(map[string]*Component)
	e.byNode = make(map[*html.Node]*Component)
	e.roots = nil

	var added []*Component
	e.indexSubtree(e.frame.Body(), nil, old, &added)

	if e.selected != nil {
		if _, ok := e.byID[e.selected.ID]; !ok {
			e.selected = nil
		}
	}

	return added
}

func (e *Editor) indexSubtree(n *html.Node, parent *Component, old map[string]*Component, added *[]*Component) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if _, ok := Attr(child, AttrToolbar); ok {
			continue
		}

		next := parent
		if c := e.adopt(child, parent, old, added); c != nil {
			next = c
		}

		e.indexSubtree(child, next, old, added)
	}
}

func (e *Editor) adopt(n *html.Node, parent *Component, old map[string]*Component, added *[]*Component) *Component {
	kind, custom := e.registry.Recognize(n)

	typ := builtinType(n.Data)
	if custom {
		typ = kind.Tag()
	}
	if len(typ) == 0 {
		return nil
	}

	id, _ := Attr(n, component.AttrID)
	_, claimed := e.byID[id]

	var c *Component
	if prev, ok := old[id]; ok && !claimed && prev.Type == typ {
		c = prev
		c.Children = nil
	} else {
		if len(id) == 0 || claimed {
			id = uuid.NewString()
		}

		c = &Component{ID: id, Type: typ}
		if custom {
			c.Kind = kind
			props, err := e.registry.Parse(n)
			if err != nil {
				e.logger.Warn("could not parse component, using defaults",
					zap.String("type", typ), zap.Error(err))
				props = component.Defaults(kind)
			}
			c.Props = props
		}

		*added = append(*added, c)
	}

	setRawAttr(n, component.AttrID, c.ID)
	c.Node = n
	c.Parent = parent
	c.Attrs = attrMap(n)

	e.byID[c.ID] = c
	e.byNode[n] = c

	if parent != nil {
		parent.Children = append(parent.Children, c)
	} else {
		e.roots = append(e.roots, c)
	}

	return c
}

func (e *Editor) unindex(c *Component) {
	for _, ch := range c.Children {
		e.unindex(ch)
	}

	delete(e.byID, c.ID)
	delete(e.byNode, c.Node)

	if e.selected == c {
		e.selected = nil
	}
	if e.rte == c {
		e.disableRTE()
	}
}

func (e *Editor) Component(id string) (*Component, bool) {
	c, ok := e.byID[id]
	return c, ok
}

// ComponentForNode returns the component whose element is exactly n.
func (e *Editor) ComponentForNode(n *html.Node) (*Component, bool) {
	c, ok := e.byNode[n]
	return c, ok
}

// Components lists every component in document order.
func (e *Editor) Components() []*Component {
	var all []*Component

	var visit func(cs []*Component)
	visit = func(cs []*Component) {
		for _, c := range cs {
			all = append(all, c)
			visit(c.Children)
		}
	}
	visit(e.roots)

	return all
}

// CustomComponents lists the components of registered custom types.
func (e *Editor) CustomComponents() []*Component {
	var custom []*Component
	for _, c := range e.Components() {
		if c.IsCustom() {
			custom = append(custom, c)
		}
	}

	return custom
}

// ReplaceNode swaps the rendered element of c, re-indexing its descendants.
func (e *Editor) ReplaceNode(c *Component, repl *html.Node) {
	if e.frame == nil || c.Node == nil || c.Node.Parent == nil {
		return
	}

	for _, ch := range c.Children {
		e.unindex(ch)
	}
	c.Children = nil

	var added []*Component

	e.frame.Batch(func() {
		old := c.Node
		delete(e.byNode, old)

		setRawAttr(repl, component.AttrID, c.ID)
		e.frame.ReplaceNode(old, repl)

		c.Node = repl
		c.Attrs = attrMap(repl)
		e.byNode[repl] = c

		e.indexSubtree(repl, c, nil, &added)
	})

	for _, a := range added {
		e.emit(HookComponentAdd, a)
	}
}

// AddBlock inserts markup, typically a catalog block, below the component
// parentID or at the end of the body when parentID is empty.
func (e *Editor) AddBlock(markup, parentID string) ([]*Component, error) {
	if e.frame == nil {
		return nil, ErrFrameNotReady
	}

	target := e.frame.Body()
	var parent *Component
	if len(parentID) > 0 {
		p, ok := e.byID[parentID]
		if !ok {
			return nil, fmt.Errorf("add block below %q: %w", parentID, ErrNoSuchComponent)
		}
		parent = p
		target = p.Node
	}

	var (
		added []*Component
		err   error
	)

	e.frame.Batch(func() {
		var nodes []*html.Node
		nodes, err = e.frame.InsertHTML(target, markup)
		if err != nil {
			return
		}

		for _, n := range nodes {
			if n.Type != html.ElementNode {
				continue
			}

			next := parent
			if c := e.adopt(n, parent, nil, &added); c != nil {
				next = c
			}
			e.indexSubtree(n, next, nil, &added)
		}
	})
	if err != nil {
		return nil, err
	}

	for _, c := range added {
		e.emit(HookComponentAdd, c)
	}
	e.NotifyContentChanged()

	return added, nil
}

// RemoveComponent deletes a component and its element.
func (e *Editor) RemoveComponent(id string) error {
	c, ok := e.byID[id]
	if !ok {
		return fmt.Errorf("remove %q: %w", id, ErrNoSuchComponent)
	}

	e.unindex(c)
	e.frame.RemoveNode(c.Node)

	siblings := &e.roots
	if c.Parent != nil {
		siblings = &c.Parent.Children
	}
	for i, s := range *siblings {
		if s == c {
			*siblings = append((*siblings)[:i], (*siblings)[i+1:]...)
			break
		}
	}

	e.NotifyContentChanged()

	return nil
}

// Select makes c the selected component. Selecting the current selection
// again does nothing.
func (e *Editor) Select(c *Component) {
	if e.selected == c {
		return
	}

	e.selected = c
	e.emit(HookComponentSelected, c)
}

func (e *Editor) SelectByID(id string) error {
	c, ok := e.byID[id]
	if !ok {
		return fmt.Errorf("select %q: %w", id, ErrNoSuchComponent)
	}

	e.Select(c)
	return nil
}

func (e *Editor) Selected() *Component {
	return e.selected
}

// SetBox records the layout box of a component's element.
func (e *Editor) SetBox(id string, r Rect) error {
	c, ok := e.byID[id]
	if !ok {
		return fmt.Errorf("set box of %q: %w", id, ErrNoSuchComponent)
	}

	e.frame.SetBox(c.Node, r)
	return nil
}
