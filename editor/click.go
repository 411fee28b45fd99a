package editor

import (
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/component"
)

// ClickResult reports what a simulated click did.
type ClickResult struct {
	// Navigated is set when no listener prevented the default action of a
	// click on a link; the frame would have left the page.
	Navigated bool
	URL       string
	Selected  *Component
}

// Click dispatches a click on target through the frame. Listeners run first,
// then the default action, then work deferred by listeners.
func (e *Editor) Click(target *html.Node) ClickResult {
	var res ClickResult
	if e.frame == nil || target == nil {
		return res
	}

	ev := NewEvent(EventClick, target)

	e.dispatching = true
	proceed := e.frame.Dispatch(ev)
	e.dispatching = false

	if proceed {
		if a := ClosestTag(target, "a"); a != nil {
			href, _ := Attr(a, "href")
			if component.IsResolvableHref(href) {
				res.Navigated = true
				res.URL = href
				e.navigations = append(e.navigations, href)
			}
		}
	}

	e.runDeferred()

	res.Selected = e.selected
	return res
}

// Navigations lists the destinations the canvas navigated to.
func (e *Editor) Navigations() []string {
	return e.navigations
}

// Defer schedules fn to run once the event being dispatched has finished. Out
// of dispatch, fn runs immediately.
func (e *Editor) Defer(fn func()) {
	if !e.dispatching {
		fn()
		return
	}

	e.deferred = append(e.deferred, fn)
}

func (e *Editor) runDeferred() {
	for len(e.deferred) > 0 {
		fns := e.deferred
		e.deferred = nil
		for _, fn := range fns {
			fn()
		}
	}
}

// onCanvasClick is the host's own selection handling: it selects the nearest
// block-level component around the click target.
func (e *Editor) onCanvasClick(ev *Event) {
	if c := e.hitTest(ev.Target); c != nil {
		e.Select(c)
	}
}

func (e *Editor) hitTest(n *html.Node) *Component {
	for ; n != nil; n = n.Parent {
		c, ok := e.byNode[n]
		if !ok {
			continue
		}

		if c.Type == TypeText || c.Type == TypeLink || c.Node.Data == "a" {
			continue
		}

		return c
	}

	return nil
}
