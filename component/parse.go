package component

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/option"
)

// Parse recovers the properties of an instance from its DOM subtree, as loaded
// from persisted markup.
func (r *Registry) Parse(node *html.Node) (Props, error) {
	kind, ok := r.Recognize(node)
	if !ok {
		return nil, ErrUnknownType
	}

	s := goquery.NewDocumentFromNode(node).Selection

	switch kind {
	case ImagePlaceholder:
		return parseImage(s), nil
	case FAQItem:
		return parseFAQ(s)
	case LinkButton:
		return parseButton(s), nil
	case TextLink:
		return parseTextLink(s), nil
	case YouTubeEmbed:
		return parseYouTube(s), nil
	}

	return nil, fmt.Errorf("parse %v: %w", kind, ErrUnknownType)
}

func parseImage(s *goquery.Selection) ImageProps {
	p := Defaults(ImagePlaceholder).(ImageProps)

	if fit, ok := s.Attr(AttrFit); ok && isObjectFit(fit) {
		p.ObjectFit = ObjectFit(fit)
	}

	if text, ok := s.Attr(AttrPlaceholder); ok {
		p.PlaceholderText = text
	} else if hint := s.Find(".bk-image-placeholder__hint").First(); hint.Length() > 0 {
		p.PlaceholderText = strings.TrimSpace(hint.Text())
	}

	p.Alt = s.AttrOr(AttrAlt, "")

	p.Src = FindImageSource(s)

	if img := s.Find("img").First(); img.Length() > 0 && len(p.Alt) == 0 {
		p.Alt = img.AttrOr("alt", "")
	}

	return p
}

// FindImageSource searches a rendered image subtree for its source: a nested
// <img src>, then the src retained on a broken placeholder.
func FindImageSource(s *goquery.Selection) option.Option[string] {
	img := s.Find("img[src]").First()
	if img.Length() > 0 {
		if src := strings.TrimSpace(img.AttrOr("src", "")); len(src) > 0 {
			return option.Some(src)
		}
	}

	return option.NonEmpty(strings.TrimSpace(s.AttrOr(AttrSrc, "")))
}

func isObjectFit(s string) bool {
	for _, f := range ObjectFits {
		if string(f) == s {
			return true
		}
	}

	return false
}

func parseFAQ(s *goquery.Selection) (FAQProps, error) {
	p := FAQProps{}

	open, ok := s.Attr(AttrOpen)
	p.Open = ok && open != "false"

	p.Question = strings.TrimSpace(s.Find(".bk-faq-item__question").First().Text())

	answer := s.Find(".bk-faq-item__answer").First()
	if answer.Length() > 0 {
		inner, err := answer.Html()
		if err != nil {
			return p, fmt.Errorf("read faq answer: %w", err)
		}
		p.Answer = SanitizeAnswer(inner)
	}

	return p, nil
}

func parseTarget(s *goquery.Selection) Target {
	if s.AttrOr("target", "") == string(TargetBlank) {
		return TargetBlank
	}

	return TargetSelf
}

func parseButton(s *goquery.Selection) ButtonProps {
	p := Defaults(LinkButton).(ButtonProps)

	p.Href = normalizeHref(s.AttrOr("href", PlaceholderHref))
	p.Target = parseTarget(s)
	p.Label = strings.TrimSpace(s.Text())
	if color, ok := s.Attr(AttrColor); ok && isHexColor(color) {
		p.Color = strings.ToLower(strings.TrimSpace(color))
	}

	return p
}

func parseTextLink(s *goquery.Selection) TextLinkProps {
	return TextLinkProps{
		Href:   normalizeHref(s.AttrOr("href", PlaceholderHref)),
		Text:   strings.TrimSpace(s.Text()),
		Target: parseTarget(s),
	}
}

func parseYouTube(s *goquery.Selection) YouTubeProps {
	p := YouTubeProps{}

	iframe := s.Find("iframe").First()

	if id, ok := s.Attr(AttrVideoID); ok {
		p.VideoID = option.NonEmpty(strings.TrimSpace(id))
	}

	// Older markup only carries the embed URL.
	if p.VideoID.IsNone() && iframe.Length() > 0 {
		if id, ok := ExtractVideoID(iframe.AttrOr("src", "")); ok {
			p.VideoID = option.Some(id)
		}
	}

	if caption, ok := s.Attr(AttrCaption); ok {
		p.Title = strings.TrimSpace(caption)
	} else if iframe.Length() > 0 {
		p.Title = strings.TrimSpace(iframe.AttrOr("title", ""))
	}

	if autoplay, ok := s.Attr(AttrAutoplay); ok {
		p.Autoplay = autoplay == "true"
	} else if iframe.Length() > 0 {
		if u, err := url.Parse(iframe.AttrOr("src", "")); err == nil {
			p.Autoplay = u.Query().Get("autoplay") == "1"
		}
	}

	return p
}
