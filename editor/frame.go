package editor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Rect is a layout box in canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Frame is the isolated document the page is previewed in. A frame lives from
// one load of the canvas to the next; nothing attached to it survives a reload.
type Frame struct {
	doc        *goquery.Document
	generation int
	logger     *zap.Logger

	listeners      []*listener
	nextListenerID ListenerID

	observers      []*observer
	nextObserverID ObserverID
	pending        []MutationRecord
	delivering     bool
	batchDepth     int

	boxes    map[*html.Node]Rect
	viewport Rect

	destroyed bool
}

func newFrame(markup string, generation int, viewport Rect, logger *zap.Logger) (*Frame, error) {
	src := "<!DOCTYPE html><html><head></head><body>" + markup + "</body></html>"

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse frame document: %w", err)
	}

	f := &Frame{
		doc:        doc,
		generation: generation,
		logger:     logger,
		boxes:      make(map[*html.Node]Rect),
		viewport:   viewport,
	}

	if f.Head() == nil || f.Body() == nil {
		return nil, fmt.Errorf("frame document lacks head or body")
	}

	return f, nil
}

// NewFrame builds a standalone frame around body markup.
func NewFrame(markup string, viewport Rect, logger *zap.Logger) (*Frame, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	return newFrame(markup, 1, viewport, logger)
}

func (f *Frame) Document() *goquery.Document {
	return f.doc
}

// Generation increases with every reload of the canvas.
func (f *Frame) Generation() int {
	return f.generation
}

func (f *Frame) Destroyed() bool {
	return f.destroyed
}

func (f *Frame) Head() *html.Node {
	if s := f.doc.Find("head"); s.Length() > 0 {
		return s.Nodes[0]
	}
	return nil
}

func (f *Frame) Body() *html.Node {
	if s := f.doc.Find("body"); s.Length() > 0 {
		return s.Nodes[0]
	}
	return nil
}

// Find runs a selector against the whole frame document.
func (f *Frame) Find(selector string) *goquery.Selection {
	return f.doc.Find(selector)
}

func (f *Frame) Viewport() Rect {
	return f.viewport
}

func (f *Frame) SetBox(n *html.Node, r Rect) {
	f.boxes[n] = r
}

// Box returns the layout box of a node without any transform applied.
func (f *Frame) Box(n *html.Node) (Rect, bool) {
	r, ok := f.boxes[n]
	return r, ok
}

func (f *Frame) destroy() {
	f.destroyed = true
	f.listeners = nil
	f.observers = nil
	f.pending = nil
	f.boxes = nil
}

// SetAttr sets an attribute and records the mutation. Writing the current
// value is a no-op and records nothing.
func (f *Frame) SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			if a.Val == val {
				return
			}
			n.Attr[i].Val = val
			f.record(MutationRecord{Type: MutationAttributes, Target: n, AttributeName: key})
			return
		}
	}

	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	f.record(MutationRecord{Type: MutationAttributes, Target: n, AttributeName: key})
}

func (f *Frame) RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			f.record(MutationRecord{Type: MutationAttributes, Target: n, AttributeName: key})
			return
		}
	}
}

func (f *Frame) AppendChild(parent, child *html.Node) {
	parent.AppendChild(child)
	f.record(MutationRecord{Type: MutationChildList, Target: parent, Added: []*html.Node{child}})
}

func (f *Frame) RemoveNode(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}

	parent.RemoveChild(n)
	delete(f.boxes, n)
	f.record(MutationRecord{Type: MutationChildList, Target: parent, Removed: []*html.Node{n}})
}

// ReplaceNode swaps old for repl in place.
func (f *Frame) ReplaceNode(old, repl *html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}

	parent.InsertBefore(repl, old)
	parent.RemoveChild(old)

	if r, ok := f.boxes[old]; ok {
		f.boxes[repl] = r
		delete(f.boxes, old)
	}

	f.record(MutationRecord{
		Type:    MutationChildList,
		Target:  parent,
		Added:   []*html.Node{repl},
		Removed: []*html.Node{old},
	})
}

// InsertHTML parses markup in the context of parent and appends the result.
func (f *Frame) InsertHTML(parent *html.Node, markup string) ([]*html.Node, error) {
	nodes, err := ParseFragment(markup, parent)
	if err != nil {
		return nil, err
	}

	for _, n := range nodes {
		parent.AppendChild(n)
	}

	if len(nodes) > 0 {
		f.record(MutationRecord{Type: MutationChildList, Target: parent, Added: nodes})
	}

	return nodes, nil
}

// ParseFragment parses markup as children of context.
func ParseFragment(markup string, context *html.Node) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	return nodes, nil
}

// Batch defers mutation delivery until fn returns.
func (f *Frame) Batch(fn func()) {
	f.batchDepth++
	defer func() {
		f.batchDepth--
		f.deliver()
	}()

	fn()
}

// HTML renders the full frame document.
func (f *Frame) HTML() (string, error) {
	return goquery.OuterHtml(f.doc.Selection)
}
