// Package component declares the custom component types of the page builder:
// how they are recognized in persisted markup, how they serialize and which
// properties the trait panel may edit.
package component

import "fmt"

// Kind identifies one of the custom component types.
type Kind int

const (
	ImagePlaceholder Kind = iota + 1
	FAQItem
	LinkButton
	TextLink
	YouTubeEmbed
)

// Kinds lists every custom kind in registration order.
var Kinds = []Kind{
	ImagePlaceholder,
	FAQItem,
	LinkButton,
	TextLink,
	YouTubeEmbed,
}

// Tag returns the type tag persisted in the marker attribute.
func (k Kind) Tag() string {
	switch k {
	case ImagePlaceholder:
		return "image-placeholder"
	case FAQItem:
		return "faq-item"
	case LinkButton:
		return "link-button"
	case TextLink:
		return "text-link"
	case YouTubeEmbed:
		return "youtube-embed"
	}

	panic(fmt.Sprintf("component: unknown kind %d", int(k)))
}

func (k Kind) String() string {
	return k.Tag()
}

// KindFromTag maps a marker attribute value back to its kind.
func KindFromTag(tag string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Tag() == tag {
			return k, true
		}
	}

	return 0, false
}

// Marker and auxiliary attributes of the persisted markup format.
const (
	AttrType        = "data-bk-type"
	AttrID          = "data-bk-id"
	AttrOpen        = "data-bk-open"
	AttrVideoID     = "data-bk-video-id"
	AttrAutoplay    = "data-bk-autoplay"
	AttrCaption     = "data-bk-caption"
	AttrSrc         = "data-bk-src"
	AttrFit         = "data-bk-fit"
	AttrAlt         = "data-bk-alt"
	AttrPlaceholder = "data-bk-placeholder"
	AttrColor       = "data-bk-color"
	AttrTitle       = "data-bk-title"
)

// Root classes of the rendered widgets.
const (
	ClassImage    = "bk-image-placeholder"
	ClassFAQ      = "bk-faq-item"
	ClassButton   = "bk-link-button"
	ClassTextLink = "bk-text-link"
	ClassYouTube  = "bk-youtube"
)

func rootClass(k Kind) string {
	switch k {
	case ImagePlaceholder:
		return ClassImage
	case FAQItem:
		return ClassFAQ
	case LinkButton:
		return ClassButton
	case TextLink:
		return ClassTextLink
	case YouTubeEmbed:
		return ClassYouTube
	}

	panic(fmt.Sprintf("component: unknown kind %d", int(k)))
}
