package editor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/component"
)

const page = `<section class="hero">` +
	`<h1>Welcome</h1>` +
	`<p>Read the <a href="/about" title="About page">story</a>.</p>` +
	`<div data-bk-type="faq-item" class="bk-faq-item"><button type="button" class="bk-faq-item__question">Why?</button><div class="bk-faq-item__answer"><p>Because.</p></div></div>` +
	`</section>`

func loaded(t *testing.T, markup string) *Editor {
	t.Helper()

	ed := New(Options{ReadyTimeout: 50 * time.Millisecond})
	require.NoError(t, ed.Load(markup))

	return ed
}

func find(t *testing.T, ed *Editor, selector string) *html.Node {
	t.Helper()

	s := ed.Frame().Find(selector)
	require.Greater(t, s.Length(), 0, selector)

	return s.Nodes[0]
}

func TestLoadIndexesComponents(t *testing.T) {
	ed := loaded(t, page)

	var types []string
	for _, c := range ed.Components() {
		types = append(types, c.Type)
	}
	assert.Equal(t, []string{"container", "text", "text", "link", "faq-item", "container", "text"}, types[:7])

	custom := ed.CustomComponents()
	require.Len(t, custom, 1)
	assert.Equal(t, component.FAQItem, custom[0].Kind)

	faq := custom[0].Props.(component.FAQProps)
	assert.Equal(t, "Why?", faq.Question)
	assert.False(t, faq.Open)
}

func TestReloadKeepsModels(t *testing.T) {
	ed := loaded(t, page)

	before := ed.CustomComponents()[0]
	gen := ed.Frame().Generation()

	require.NoError(t, ed.Reload())

	after := ed.CustomComponents()[0]
	assert.Same(t, before, after)
	assert.Equal(t, gen+1, ed.Frame().Generation())
}

func TestReadyTimesOutBeforeLoad(t *testing.T) {
	ed := New(Options{ReadyTimeout: 10 * time.Millisecond})

	_, err := ed.Ready(context.Background())
	require.ErrorIs(t, err, ErrFrameNotReady)

	require.NoError(t, ed.Load("<p>x</p>"))
	frame, err := ed.Ready(context.Background())
	require.NoError(t, err)
	assert.Same(t, ed.Frame(), frame)
}

func TestDispatchOrder(t *testing.T) {
	f, err := NewFrame("<p>x</p>", Rect{W: 100, H: 100}, nil)
	require.NoError(t, err)

	var order []string
	f.AddEventListener(EventClick, false, "b", func(ev *Event) { order = append(order, "bubble") })
	id := f.AddEventListener(EventClick, true, "c", func(ev *Event) { order = append(order, "capture") })

	assert.True(t, f.Dispatch(NewEvent(EventClick, f.Body())))
	assert.Equal(t, []string{"capture", "bubble"}, order)

	require.True(t, f.RemoveEventListener(id))
	assert.False(t, f.RemoveEventListener(id))
	assert.Len(t, f.Listeners(EventClick), 1)
}

func TestDispatchStopPropagation(t *testing.T) {
	f, err := NewFrame("<p>x</p>", Rect{}, nil)
	require.NoError(t, err)

	bubbled := false
	f.AddEventListener(EventClick, true, "c", func(ev *Event) {
		ev.PreventDefault()
		ev.StopPropagation()
	})
	f.AddEventListener(EventClick, false, "b", func(ev *Event) { bubbled = true })

	assert.False(t, f.Dispatch(NewEvent(EventClick, f.Body())))
	assert.False(t, bubbled)
}

func TestClickNavigatesUnlessPrevented(t *testing.T) {
	ed := loaded(t, page)
	a := find(t, ed, "a")

	res := ed.Click(a.FirstChild)
	assert.True(t, res.Navigated)
	assert.Equal(t, "/about", res.URL)

	ed.Frame().AddEventListener(EventClick, true, "guard", func(ev *Event) { ev.PreventDefault() })

	res = ed.Click(a.FirstChild)
	assert.False(t, res.Navigated)
	assert.Len(t, ed.Navigations(), 1)
}

func TestHostHitTestSkipsText(t *testing.T) {
	ed := loaded(t, page)

	res := ed.Click(find(t, ed, "h1"))
	require.NotNil(t, res.Selected)
	assert.Equal(t, TypeContainer, res.Selected.Type)
	assert.Equal(t, "section", res.Selected.Node.Data)
}

func TestDeferRunsAfterDispatch(t *testing.T) {
	ed := loaded(t, page)
	h1 := find(t, ed, "h1")
	text, ok := ed.ComponentForNode(h1)
	require.True(t, ok)

	ed.Frame().AddEventListener(EventClick, true, "late", func(ev *Event) {
		ed.Defer(func() { ed.Select(text) })
	})

	res := ed.Click(h1)
	assert.Same(t, text, res.Selected)
}

func TestObserverDelivery(t *testing.T) {
	ed := loaded(t, page)
	f := ed.Frame()

	var got []MutationRecord
	id := f.Observe(f.Body(), func(recs []MutationRecord) { got = append(got, recs...) })

	h1 := find(t, ed, "h1")
	f.SetAttr(h1, "class", "big")
	f.SetAttr(h1, "class", "big")
	require.Len(t, got, 1)
	assert.Equal(t, MutationAttributes, got[0].Type)
	assert.Equal(t, "class", got[0].AttributeName)

	got = nil
	f.Batch(func() {
		f.SetAttr(h1, "id", "a")
		f.RemoveAttr(h1, "id")
		assert.Empty(t, got)
	})
	assert.Len(t, got, 2)

	require.True(t, f.Disconnect(id))
	got = nil
	f.SetAttr(h1, "class", "small")
	assert.Empty(t, got)
}

func TestObserverFeedbackIsBounded(t *testing.T) {
	f, err := NewFrame("<p>x</p>", Rect{}, nil)
	require.NoError(t, err)

	p := f.Find("p").Nodes[0]
	n := 0
	f.Observe(f.Body(), func(recs []MutationRecord) {
		n++
		f.SetAttr(p, "data-n", strings.Repeat("x", n))
	})

	f.SetAttr(p, "data-n", "start")
	assert.Equal(t, maxDeliveryRounds, n)
}

func TestSetStyleProperty(t *testing.T) {
	f, err := NewFrame(`<div style="position:absolute; top: 10px">x</div>`, Rect{}, nil)
	require.NoError(t, err)
	div := f.Find("div").Nodes[0]

	f.SetStyleProperty(div, "transform", "translateY(-4px)")
	v, ok := StyleProperty(div, "transform")
	require.True(t, ok)
	assert.Equal(t, "translateY(-4px)", v)

	top, _ := StyleProperty(div, "top")
	assert.Equal(t, "10px", top)

	f.SetStyleProperty(div, "transform", "")
	_, ok = StyleProperty(div, "transform")
	assert.False(t, ok)
}

func TestSerializeDropsLiveMarkers(t *testing.T) {
	ed := loaded(t, page)

	a := find(t, ed, "a")
	ed.Frame().SetAttr(a, component.AttrTitle, "About page")
	ed.Frame().RemoveAttr(a, "title")

	require.NoError(t, ed.EnableRTE(ed.CustomComponents()[0].ID))
	require.NotNil(t, ed.Toolbar())

	out, err := ed.Serialize()
	require.NoError(t, err)

	assert.NotContains(t, out, component.AttrID)
	assert.NotContains(t, out, AttrToolbar)
	assert.NotContains(t, out, component.AttrTitle)
	assert.Contains(t, out, `title="About page"`)
	assert.Contains(t, out, `data-bk-type="faq-item"`)
}

func TestSerializeUsesComponentProps(t *testing.T) {
	ed := loaded(t, page)

	c := ed.CustomComponents()[0]
	faq := c.Props.(component.FAQProps)
	faq.Open = true
	c.Props = faq

	out, err := ed.Serialize()
	require.NoError(t, err)
	assert.Contains(t, out, `data-bk-open="true"`)
}

func TestAddAndRemoveBlock(t *testing.T) {
	ed := loaded(t, "<main></main>")

	var added []*Component
	ed.On(HookComponentAdd, func(_ *Editor, c *Component) { added = append(added, c) })
	changed := 0
	ed.On(HookContentChanged, func(*Editor, *Component) { changed++ })

	root := ed.Components()[0]
	cs, err := ed.AddBlock(component.Serialize(component.Defaults(component.LinkButton), component.View{}), root.ID)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, component.LinkButton, cs[0].Kind)
	assert.Equal(t, added, cs)
	assert.Same(t, root, cs[0].Parent)
	assert.Equal(t, 1, changed)

	_, err = ed.AddBlock("<p>x</p>", "missing")
	require.ErrorIs(t, err, ErrNoSuchComponent)

	require.NoError(t, ed.RemoveComponent(cs[0].ID))
	assert.Empty(t, root.Children)
	assert.Empty(t, ed.CustomComponents())
}

func TestSetDevice(t *testing.T) {
	ed := loaded(t, page)

	require.NoError(t, ed.SetDevice("mobile"))
	assert.Equal(t, 375.0, ed.Frame().Viewport().W)

	require.ErrorIs(t, ed.SetDevice("watch"), ErrUnknownDevice)
}

func TestToolbarActions(t *testing.T) {
	ed := loaded(t, page)

	require.NoError(t, ed.AddToolbarAction(ToolbarAction{Name: "link", Label: "Link"}))
	require.Error(t, ed.AddToolbarAction(ToolbarAction{Name: "link", Label: "Link"}))
	assert.True(t, ed.HasToolbarAction("bold"))

	require.NoError(t, ed.SetBox(ed.CustomComponents()[0].ID, Rect{X: 10, Y: 100, W: 300, H: 50}))
	require.NoError(t, ed.EnableRTE(ed.CustomComponents()[0].ID))

	box, ok := ed.Frame().Box(ed.Toolbar())
	require.True(t, ok)
	assert.Equal(t, 158.0, box.Y)
	assert.Equal(t, 1, ed.Frame().Find(`[data-bk-action="link"]`).Length())

	ed.DisableRTE()
	assert.Nil(t, ed.Toolbar())
	assert.Equal(t, 0, ed.Frame().Find("["+AttrToolbar+"]").Length())
}

func TestAsyncContinuationWaitsForLoop(t *testing.T) {
	ed := loaded(t, page)

	var (
		worked = make(chan struct{})
		ran    bool
		seen   bool
	)
	ed.Do(func() {
		ed.Async(func() func() {
			close(worked)
			return func() { ran = true }
		})

		<-worked
		time.Sleep(5 * time.Millisecond)
		seen = ran
	})
	ed.Wait()

	assert.False(t, seen)
	assert.True(t, ran)
}
