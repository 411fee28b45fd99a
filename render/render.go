// Package render turns stored pages into published site pages.
package render

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/document"
)

type Options struct {
	// MediaURL maps relative sources and links to their published location.
	MediaURL MapToURLFunc
	Logger   *zap.Logger
}

// Publish returns the body of page as it appears on the published site.
// Editor-only markers are stripped and widgets without content are dropped.
func Publish(page *document.Page, opts Options) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("render").With(zap.String("page", page.Slug))

	doc, err := page.HTML()
	if err != nil {
		return "", err
	}

	StripEditorMarkers(doc)

	// Images first, so figures pick up the recoded sources.
	EmplaceImages(doc, logger)
	EmplaceVideos(doc, logger)

	if opts.MediaURL != nil {
		RecodePaths(doc, opts.MediaURL, logger)
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("render body of %s: %w", page.Slug, err)
	}

	return body, nil
}

// selector matches the root element of a component kind.
func selector(tag string) string {
	return fmt.Sprintf(`[%s="%s"]`, attrType, tag)
}

func removeAll(s *goquery.Selection, attrs ...string) {
	for _, a := range attrs {
		s.RemoveAttr(a)
	}
}
