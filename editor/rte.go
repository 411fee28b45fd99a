package editor

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// ToolbarAction is a button of the rich-text toolbar.
type ToolbarAction struct {
	Name  string
	Label string
}

var defaultToolbarActions = []ToolbarAction{
	{Name: "bold", Label: "B"},
	{Name: "italic", Label: "I"},
	{Name: "underline", Label: "U"},
}

const (
	toolbarWidth  = 280
	toolbarHeight = 40
	toolbarGap    = 8
)

// HasToolbarAction reports whether an action is registered.
func (e *Editor) HasToolbarAction(name string) bool {
	for _, a := range e.toolbarActions() {
		if a.Name == name {
			return true
		}
	}

	return false
}

// AddToolbarAction registers an action. Registering a name twice is rejected.
func (e *Editor) AddToolbarAction(a ToolbarAction) error {
	if e.HasToolbarAction(a.Name) {
		return fmt.Errorf("toolbar action %q already registered", a.Name)
	}

	e.actions = append(e.toolbarActions(), a)
	return nil
}

func (e *Editor) toolbarActions() []ToolbarAction {
	if e.actions == nil {
		e.actions = append([]ToolbarAction(nil), defaultToolbarActions...)
	}

	return e.actions
}

// Toolbar returns the floating rich-text toolbar while editing, else nil.
func (e *Editor) Toolbar() *html.Node {
	return e.toolbar
}

// Editing returns the component in rich-text editing.
func (e *Editor) Editing() *Component {
	return e.rte
}

// EnableRTE starts rich-text editing of a component and shows the toolbar
// below it.
func (e *Editor) EnableRTE(id string) error {
	c, ok := e.byID[id]
	if !ok {
		return fmt.Errorf("edit %q: %w", id, ErrNoSuchComponent)
	}

	e.disableRTE()

	var buf bytes.Buffer
	_, _ = buf.WriteString(`<div class="bk-rte-toolbar" ` + AttrToolbar + `="true">`)
	for _, a := range e.toolbarActions() {
		_, _ = buf.WriteString(fmt.Sprintf(`<button type="button" data-bk-action="%s">%s</button>`,
			html.EscapeString(a.Name), html.EscapeString(a.Label)))
	}
	_, _ = buf.WriteString(`</div>`)

	body := e.frame.Body()
	nodes, err := ParseFragment(buf.String(), body)
	if err != nil || len(nodes) == 0 {
		return fmt.Errorf("build toolbar: %v", err)
	}
	toolbar := nodes[0]

	anchor, _ := e.frame.Box(c.Node)
	box := Rect{X: anchor.X, Y: anchor.Bottom() + toolbarGap, W: toolbarWidth, H: toolbarHeight}

	setRawAttr(toolbar, "style", fmt.Sprintf("position:absolute;top:%gpx;left:%gpx", box.Y, box.X))
	e.frame.SetBox(toolbar, box)
	e.frame.AppendChild(body, toolbar)

	e.toolbar = toolbar
	e.rte = c

	e.emit(HookRTEEnable, c)

	return nil
}

func (e *Editor) DisableRTE() {
	e.disableRTE()
}

func (e *Editor) disableRTE() {
	if e.toolbar != nil && e.frame != nil {
		e.frame.RemoveNode(e.toolbar)
	}

	e.toolbar = nil
	e.rte = nil
}
