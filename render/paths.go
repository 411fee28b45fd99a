package render

import (
	"net/url"
	"path"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

type MapToURLFunc func(original string) (string, bool)

// RecodePaths rewrites relative media sources through toURL. Links are left
// alone, relative hrefs point at other pages.
func RecodePaths(doc *goquery.Document, toURL MapToURLFunc, logger *zap.Logger) {
	doc.Find("img,source").Each(func(i int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || len(src) == 0 {
			return
		}

		uri, err := url.Parse(src)
		if err != nil {
			logger.Warn("cannot parse uri, leaving it", zap.String("uri", src), zap.Error(err))
			return
		}

		if uri.IsAbs() || len(uri.Host) > 0 || len(uri.Path) == 0 || path.IsAbs(uri.Path) {
			// Absolute, protocol relative or fragment only.
			return
		}

		if target, ok := toURL(src); ok {
			s.SetAttr("src", target)
		}
	})
}

// MediaPrefix maps relative paths below prefix.
func MediaPrefix(prefix string) MapToURLFunc {
	return func(original string) (string, bool) {
		return path.Join(prefix, original), true
	}
}
