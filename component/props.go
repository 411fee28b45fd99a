package component

import (
	"strings"

	"github.com/bgraf/baukasten/option"
)

// Props is the typed property record of a custom component instance. The set
// of implementations is closed: one record per Kind.
type Props interface {
	Kind() Kind
	isProps()
}

type ObjectFit string

const (
	FitCover     ObjectFit = "cover"
	FitContain   ObjectFit = "contain"
	FitFill      ObjectFit = "fill"
	FitNone      ObjectFit = "none"
	FitScaleDown ObjectFit = "scale-down"
)

var ObjectFits = []ObjectFit{FitCover, FitContain, FitFill, FitNone, FitScaleDown}

type Target string

const (
	TargetSelf  Target = "_self"
	TargetBlank Target = "_blank"
)

var Targets = []Target{TargetSelf, TargetBlank}

// PlaceholderHref is the destination of a link that has not been set yet.
const PlaceholderHref = "#"

type ImageProps struct {
	Src             option.Option[string] `json:"src"`
	PlaceholderText string                `json:"placeholderText" validate:"max=200"`
	ObjectFit       ObjectFit             `json:"objectFit" validate:"oneof=cover contain fill none scale-down"`
	Alt             string                `json:"alt" validate:"max=300"`
}

type FAQProps struct {
	Question string `json:"question" validate:"max=500"`
	Answer   string `json:"answer"`
	Open     bool   `json:"isOpen"`
}

type ButtonProps struct {
	Href   string `json:"href" validate:"href"`
	Label  string `json:"label" validate:"max=200"`
	Target Target `json:"target" validate:"oneof=_self _blank"`
	Color  string `json:"color" validate:"hexcolor"`
}

type TextLinkProps struct {
	Href   string `json:"href" validate:"href"`
	Text   string `json:"text" validate:"max=500"`
	Target Target `json:"target" validate:"oneof=_self _blank"`
}

type YouTubeProps struct {
	VideoID  option.Option[string] `json:"videoId"`
	Title    string                `json:"title" validate:"max=300"`
	Autoplay bool                  `json:"autoplay"`
}

func (ImageProps) Kind() Kind    { return ImagePlaceholder }
func (FAQProps) Kind() Kind      { return FAQItem }
func (ButtonProps) Kind() Kind   { return LinkButton }
func (TextLinkProps) Kind() Kind { return TextLink }
func (YouTubeProps) Kind() Kind  { return YouTubeEmbed }

func (ImageProps) isProps()    {}
func (FAQProps) isProps()      {}
func (ButtonProps) isProps()   {}
func (TextLinkProps) isProps() {}
func (YouTubeProps) isProps()  {}

// Defaults returns the property values of a freshly created instance.
func Defaults(k Kind) Props {
	switch k {
	case ImagePlaceholder:
		return ImageProps{
			PlaceholderText: "Click to add an image",
			ObjectFit:       FitCover,
		}
	case FAQItem:
		return FAQProps{
			Question: "Question",
			Answer:   "<p>Answer</p>",
		}
	case LinkButton:
		return ButtonProps{
			Href:   PlaceholderHref,
			Label:  "Button",
			Target: TargetSelf,
			Color:  "#2563eb",
		}
	case TextLink:
		return TextLinkProps{
			Href:   PlaceholderHref,
			Text:   "Link",
			Target: TargetSelf,
		}
	case YouTubeEmbed:
		return YouTubeProps{}
	}

	panic("component: defaults for unknown kind")
}

// Populated reports whether the instance carries its media or destination.
func Populated(p Props) bool {
	switch p := p.(type) {
	case ImageProps:
		return p.Src.IsSome()
	case FAQProps:
		return true
	case ButtonProps:
		return isResolvableHref(p.Href)
	case TextLinkProps:
		return isResolvableHref(p.Href)
	case YouTubeProps:
		return p.VideoID.IsSome()
	}

	return false
}

// Normalize brings a record into the canonical form the serializer emits, so
// that parsing the serialized markup yields an equal record.
func Normalize(p Props) Props {
	switch p := p.(type) {
	case ImageProps:
		if p.Src.IsSome() {
			p.Src = option.NonEmpty(strings.TrimSpace(p.Src.Get()))
		}
		if len(p.ObjectFit) == 0 {
			p.ObjectFit = FitCover
		}
		return p
	case FAQProps:
		p.Question = strings.TrimSpace(p.Question)
		p.Answer = SanitizeAnswer(p.Answer)
		return p
	case ButtonProps:
		p.Href = normalizeHref(p.Href)
		p.Label = strings.TrimSpace(p.Label)
		if len(p.Target) == 0 {
			p.Target = TargetSelf
		}
		if len(p.Color) == 0 {
			p.Color = "#2563eb"
		}
		p.Color = strings.ToLower(p.Color)
		return p
	case TextLinkProps:
		p.Href = normalizeHref(p.Href)
		p.Text = strings.TrimSpace(p.Text)
		if len(p.Target) == 0 {
			p.Target = TargetSelf
		}
		return p
	case YouTubeProps:
		if p.VideoID.IsSome() {
			p.VideoID = option.NonEmpty(strings.TrimSpace(p.VideoID.Get()))
		}
		p.Title = strings.TrimSpace(p.Title)
		return p
	}

	return p
}

func normalizeHref(href string) string {
	href = strings.TrimSpace(href)
	if len(href) == 0 {
		return PlaceholderHref
	}

	return href
}

// isResolvableHref reports whether following href would navigate somewhere.
func isResolvableHref(href string) bool {
	href = strings.TrimSpace(href)
	if len(href) == 0 || href == PlaceholderHref {
		return false
	}

	return !strings.HasPrefix(strings.ToLower(href), "javascript:")
}

// IsResolvableHref is exported for the interceptors, which apply the same rule
// to arbitrary anchors in the canvas.
func IsResolvableHref(href string) bool {
	return isResolvableHref(href)
}
