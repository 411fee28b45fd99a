package render

import (
	"fmt"
	"html"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/component"
)

var registry = component.NewDefaultRegistry()

// EmplaceImages drops image placeholders that have no source and captions the
// rest with their alternative text. Placeholders that kept a source while it
// was still verified, or failed to load in the editor, publish their image.
func EmplaceImages(doc *goquery.Document, logger *zap.Logger) {
	doc.Find(selector(component.ImagePlaceholder.Tag())).Each(func(i int, s *goquery.Selection) {
		img := s.ChildrenFiltered("img")
		if img.Length() == 0 {
			var ok bool
			if s, ok = restoreImage(s, logger); !ok {
				return
			}
			img = s.ChildrenFiltered("img")
		}

		removeAll(s, component.AttrPlaceholder, component.AttrSrc)

		alt := img.AttrOr("alt", "")
		if len(alt) == 0 {
			return
		}

		img.WrapHtml("<figure></figure>")
		img.AfterHtml(fmt.Sprintf("<figcaption>%s</figcaption>", html.EscapeString(alt)))
	})
}

// restoreImage replaces a placeholder that retained its source with the
// populated rendering. Placeholders without a source are removed.
func restoreImage(s *goquery.Selection, logger *zap.Logger) (*goquery.Selection, bool) {
	props, err := registry.Parse(s.Nodes[0])
	if err != nil {
		logger.Warn("unreadable image placeholder", zap.Error(err))
		s.Remove()
		return nil, false
	}

	p := props.(component.ImageProps)
	if p.Src.IsNone() {
		logger.Debug("dropping image placeholder without image")
		s.Remove()
		return nil, false
	}

	node, err := component.Render(p, component.View{})
	if err != nil {
		logger.Warn("render retained image", zap.String("src", p.Src.Get()), zap.Error(err))
		s.Remove()
		return nil, false
	}

	logger.Debug("publishing retained image source", zap.String("src", p.Src.Get()))
	s.ReplaceWithNodes(node)

	return goquery.NewDocumentFromNode(node).Selection, true
}
