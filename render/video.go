package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/component"
)

// EmplaceVideos drops embeds without a video and puts captioned ones into a
// figure.
func EmplaceVideos(doc *goquery.Document, logger *zap.Logger) {
	doc.Find(selector(component.YouTubeEmbed.Tag())).Each(func(i int, s *goquery.Selection) {
		if s.Find("iframe").Length() == 0 {
			logger.Debug("dropping video embed without video")
			s.Remove()
			return
		}

		caption := strings.TrimSpace(s.AttrOr(component.AttrCaption, ""))
		if len(caption) == 0 {
			return
		}

		s.WrapHtml(`<figure class="bk-youtube-figure"></figure>`)
		s.AfterHtml(fmt.Sprintf("<figcaption>%s</figcaption>", html.EscapeString(caption)))
	})
}
