package intercept

import (
	"github.com/bgraf/baukasten/component"
	"github.com/bgraf/baukasten/editor"
)

// GuardLinks keeps clicks on links from navigating the canvas away. The event
// keeps propagating so the editor can still select the link.
func GuardLinks(ev *editor.Event) {
	a := editor.ClosestTag(ev.Target, "a")
	if a == nil {
		return
	}

	href, _ := editor.Attr(a, "href")
	if component.IsResolvableHref(href) {
		ev.PreventDefault()
	}
}
