package intercept

import (
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/component"
	"github.com/bgraf/baukasten/editor"
)

const page = `<section class="features">` +
	`<h2>Features</h2>` +
	`<p>See <a href="https://example.com" title="Example site">the <strong>docs</strong></a>.</p>` +
	`<a href="#" title="Nowhere">placeholder</a>` +
	`<a data-bk-type="link-button" class="bk-link-button" href="/signup" target="_self" data-bk-color="#2563eb">Sign up</a>` +
	`</section>`

func attached(t *testing.T) (*editor.Editor, *Interceptor) {
	t.Helper()

	ed := editor.New(editor.Options{ReadyTimeout: 50 * time.Millisecond})
	require.NoError(t, ed.Load(page))

	i := New(Options{})
	i.Attach(ed, ed.Frame())

	return ed, i
}

func find(t *testing.T, ed *editor.Editor, selector string) *html.Node {
	t.Helper()

	s := ed.Frame().Find(selector)
	require.Greater(t, s.Length(), 0, selector)

	return s.Nodes[0]
}

func TestLinkNavigationSuppressed(t *testing.T) {
	ed, _ := attached(t)

	hostSaw := false
	ed.Frame().AddEventListener(editor.EventClick, false, "selection", func(ev *editor.Event) {
		hostSaw = true
	})

	a := find(t, ed, `a[href="https://example.com"]`)
	res := ed.Click(a.FirstChild)

	assert.False(t, res.Navigated)
	assert.True(t, hostSaw)
	assert.Empty(t, ed.Navigations())
}

func TestPlaceholderLinkNotPrevented(t *testing.T) {
	ev := editor.NewEvent(editor.EventClick, nil)
	GuardLinks(ev)
	assert.False(t, ev.DefaultPrevented())

	f, err := editor.NewFrame(`<a href="#">x</a><a href="javascript:void(0)">y</a>`, editor.Rect{}, nil)
	require.NoError(t, err)

	f.Find("a").Each(func(_ int, s *goquery.Selection) {
		ev := editor.NewEvent(editor.EventClick, s.Nodes[0])
		GuardLinks(ev)
		assert.False(t, ev.DefaultPrevented())
	})
}

func TestListenerIdempotence(t *testing.T) {
	ed, i := attached(t)

	for n := 0; n < 5; n++ {
		require.NoError(t, ed.Reload())
		i.Attach(ed, ed.Frame())
	}

	var ours int
	for _, l := range ed.Frame().Listeners(editor.EventClick) {
		if l.Owner == owner {
			ours++
		}
	}
	assert.Equal(t, 2, ours)
	assert.Equal(t, 2, ed.Frame().ObserverCount())

	i.Attach(ed, ed.Frame())
	assert.Equal(t, 2, ed.Frame().ObserverCount())

	i.Detach()
	assert.Equal(t, 0, ed.Frame().ObserverCount())
	assert.Len(t, ed.Frame().Listeners(editor.EventClick), 1)
}

func TestTitleInvariant(t *testing.T) {
	ed, i := attached(t)
	f := ed.Frame()

	assert.True(t, i.Titles().Holds())
	a := find(t, ed, `a[href="https://example.com"]`)
	v, _ := editor.Attr(a, component.AttrTitle)
	assert.Equal(t, "Example site", v)

	_, err := ed.AddBlock(`<p><a href="/x" title="Pasted">pasted</a></p>`, "")
	require.NoError(t, err)
	assert.True(t, i.Titles().Holds())

	f.SetAttr(a, "title", "Again")
	assert.True(t, i.Titles().Holds())
	v, _ = editor.Attr(a, component.AttrTitle)
	assert.Equal(t, "Again", v)

	out, err := ed.Serialize()
	require.NoError(t, err)
	assert.Contains(t, out, `title="Pasted"`)
	assert.Contains(t, out, `title="Again"`)
	assert.NotContains(t, out, component.AttrTitle)
}

func TestTitleInvariantKeepsEmptyTitle(t *testing.T) {
	ed, i := attached(t)

	_, err := ed.AddBlock(`<p><a href="/y" title="">blank</a></p>`, "")
	require.NoError(t, err)
	assert.True(t, i.Titles().Holds())

	a := find(t, ed, `a[href="/y"]`)
	_, ok := editor.Attr(a, "title")
	assert.False(t, ok)
	v, ok := editor.Attr(a, component.AttrTitle)
	require.True(t, ok)
	assert.Empty(t, v)

	out, err := ed.Serialize()
	require.NoError(t, err)
	assert.Contains(t, out, `title="">blank</a>`)
}

func TestSelectionCorrection(t *testing.T) {
	ed, _ := attached(t)

	strong := find(t, ed, "strong")
	res := ed.Click(strong.FirstChild)
	require.NotNil(t, res.Selected)
	assert.Equal(t, editor.TypeLink, res.Selected.Type)

	h2 := find(t, ed, "h2")
	res = ed.Click(h2)
	assert.Same(t, h2, res.Selected.Node)

	button := find(t, ed, "a.bk-link-button")
	res = ed.Click(button.FirstChild)
	assert.Equal(t, component.LinkButton, res.Selected.Kind)
}

func TestSelectionLeavesContainers(t *testing.T) {
	ed, _ := attached(t)

	section := find(t, ed, "section")
	res := ed.Click(section)
	require.NotNil(t, res.Selected)
	assert.Same(t, section, res.Selected.Node)
}

func TestSelectionCorrectionIsIdempotent(t *testing.T) {
	ed, _ := attached(t)

	h2 := find(t, ed, "h2")
	c, ok := ed.ComponentForNode(h2)
	require.True(t, ok)

	selections := 0
	ed.On(editor.HookComponentSelected, func(*editor.Editor, *editor.Component) { selections++ })

	correct := CorrectSelection(ed)
	correct(editor.NewEvent(editor.EventClick, h2))
	correct(editor.NewEvent(editor.EventClick, h2.FirstChild))

	assert.Same(t, c, ed.Selected())
	assert.Equal(t, 1, selections)
}

func TestToolbarNudgedIntoView(t *testing.T) {
	ed, _ := attached(t)
	f := ed.Frame()

	h2 := find(t, ed, "h2")
	c, ok := ed.ComponentForNode(h2)
	require.True(t, ok)

	// Desktop viewport is 800 high; the toolbar would end at 770+8+40.
	require.NoError(t, ed.SetBox(c.ID, editor.Rect{X: 20, Y: 740, W: 400, H: 30}))
	require.NoError(t, ed.EnableRTE(c.ID))

	v, ok := editor.StyleProperty(ed.Toolbar(), "transform")
	require.True(t, ok)
	assert.Equal(t, "translateY(-30px)", v)

	require.NoError(t, ed.SetBox(c.ID, editor.Rect{X: 20, Y: 100, W: 400, H: 30}))
	require.NoError(t, ed.EnableRTE(c.ID))
	_, ok = editor.StyleProperty(ed.Toolbar(), "transform")
	assert.False(t, ok)

	box, _ := f.Box(ed.Toolbar())
	f.SetBox(ed.Toolbar(), editor.Rect{X: box.X, Y: 790, W: box.W, H: box.H})
	f.SetStyleProperty(ed.Toolbar(), "left", "21px")
	v, _ = editor.StyleProperty(ed.Toolbar(), "transform")
	assert.Equal(t, "translateY(-42px)", v)
}
