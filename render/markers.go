package render

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/bgraf/baukasten/component"
	"github.com/bgraf/baukasten/editor"
)

const attrType = component.AttrType

// StripEditorMarkers removes everything the canvas adds for editing: live ids,
// toolbars and relocated link titles.
func StripEditorMarkers(doc *goquery.Document) {
	doc.Find("[" + editor.AttrToolbar + "]").Remove()
	doc.Find("[" + component.AttrID + "]").RemoveAttr(component.AttrID)

	doc.Find("[" + component.AttrTitle + "]").Each(func(i int, s *goquery.Selection) {
		title := s.AttrOr(component.AttrTitle, "")
		s.RemoveAttr(component.AttrTitle)

		if _, ok := s.Attr("title"); !ok {
			s.SetAttr("title", title)
		}
	})
}
