package editor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/component"
)

// Serialize produces the persisted markup of the document. Custom components
// are written by their serializer; live-only markers are dropped and titles
// moved aside while editing are restored.
func (e *Editor) Serialize() (string, error) {
	doc, err := e.copyBody()
	if err != nil {
		return "", err
	}

	doc.Find("[" + component.AttrID + "]").Each(func(i int, s *goquery.Selection) {
		c, ok := e.byID[s.AttrOr(component.AttrID, "")]
		if !ok || !c.IsCustom() {
			return
		}

		node, err := component.Render(c.Props, c.View)
		if err != nil {
			e.logger.Warn("serialize component", zap.String("id", c.ID), zap.Error(err))
			return
		}

		s.ReplaceWithNodes(node)
	})

	doc.Find("[" + component.AttrID + "]").RemoveAttr(component.AttrID)

	doc.Find("[" + component.AttrTitle + "]").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("title", s.AttrOr(component.AttrTitle, ""))
		s.RemoveAttr(component.AttrTitle)
	})

	return doc.Find("body").Html()
}

// liveMarkup is the body as currently rendered, component ids included, used
// to rebuild the frame on reload.
func (e *Editor) liveMarkup() (string, error) {
	doc, err := e.copyBody()
	if err != nil {
		return "", err
	}

	return doc.Find("body").Html()
}

func (e *Editor) copyBody() (*goquery.Document, error) {
	if e.frame == nil {
		return nil, ErrFrameNotReady
	}

	body, err := goquery.NewDocumentFromNode(e.frame.Body()).Html()
	if err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		return nil, fmt.Errorf("copy body: %w", err)
	}

	doc.Find("[" + AttrToolbar + "]").Remove()

	return doc, nil
}
