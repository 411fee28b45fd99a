package component

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bgraf/baukasten/option"
)

var ErrInvalidTrait = errors.New("invalid trait value")

type TraitEditor string

const (
	EditorText     TraitEditor = "text"
	EditorSelect   TraitEditor = "select"
	EditorCheckbox TraitEditor = "checkbox"
)

// Trait describes one property as shown in the trait panel.
type Trait struct {
	Name    string      `json:"name"`
	Label   string      `json:"label"`
	Editor  TraitEditor `json:"editor"`
	Default string      `json:"default"`
	Options []string    `json:"options,omitempty"`
}

func targetOptions() []string {
	opts := make([]string, len(Targets))
	for i, t := range Targets {
		opts[i] = string(t)
	}
	return opts
}

func fitOptions() []string {
	opts := make([]string, len(ObjectFits))
	for i, f := range ObjectFits {
		opts[i] = string(f)
	}
	return opts
}

// Traits lists the editable properties of a kind.
func Traits(k Kind) []Trait {
	switch k {
	case ImagePlaceholder:
		return []Trait{
			{Name: "src", Label: "Image URL", Editor: EditorText},
			{Name: "placeholder-text", Label: "Placeholder text", Editor: EditorText, Default: "Click to add an image"},
			{Name: "object-fit", Label: "Fit", Editor: EditorSelect, Default: string(FitCover), Options: fitOptions()},
			{Name: "alt", Label: "Alternative text", Editor: EditorText},
		}
	case FAQItem:
		return []Trait{
			{Name: "question", Label: "Question", Editor: EditorText, Default: "Question"},
			{Name: "answer", Label: "Answer", Editor: EditorText, Default: "<p>Answer</p>"},
			{Name: "is-open", Label: "Open by default", Editor: EditorCheckbox, Default: "false"},
		}
	case LinkButton:
		return []Trait{
			{Name: "href", Label: "Link", Editor: EditorText, Default: PlaceholderHref},
			{Name: "label", Label: "Label", Editor: EditorText, Default: "Button"},
			{Name: "target", Label: "Open in", Editor: EditorSelect, Default: string(TargetSelf), Options: targetOptions()},
			{Name: "color", Label: "Color", Editor: EditorText, Default: "#2563eb"},
		}
	case TextLink:
		return []Trait{
			{Name: "href", Label: "Link", Editor: EditorText, Default: PlaceholderHref},
			{Name: "text", Label: "Text", Editor: EditorText, Default: "Link"},
			{Name: "target", Label: "Open in", Editor: EditorSelect, Default: string(TargetSelf), Options: targetOptions()},
		}
	case YouTubeEmbed:
		return []Trait{
			{Name: "video-id", Label: "YouTube link or id", Editor: EditorText},
			{Name: "title", Label: "Title", Editor: EditorText},
			{Name: "autoplay", Label: "Autoplay", Editor: EditorCheckbox, Default: "false"},
		}
	}

	panic(fmt.Sprintf("component: traits for unknown kind %d", int(k)))
}

func parseBool(name, value string) (bool, error) {
	if len(strings.TrimSpace(value)) == 0 {
		return false, nil
	}

	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, ErrInvalidTrait)
	}

	return b, nil
}

func unknownTrait(k Kind, name string) error {
	return fmt.Errorf("%s has no trait %q: %w", k, name, ErrInvalidTrait)
}

// SetTrait applies a trait panel edit to a record and returns the updated,
// normalized and validated record. The input record is left untouched.
func SetTrait(p Props, name, value string) (Props, error) {
	var (
		out Props
		err error
	)

	switch p := p.(type) {
	case ImageProps:
		out, err = setImageTrait(p, name, value)
	case FAQProps:
		out, err = setFAQTrait(p, name, value)
	case ButtonProps:
		out, err = setButtonTrait(p, name, value)
	case TextLinkProps:
		out, err = setTextLinkTrait(p, name, value)
	case YouTubeProps:
		out, err = setYouTubeTrait(p, name, value)
	default:
		return nil, fmt.Errorf("set trait on %T: %w", p, ErrUnknownType)
	}

	if err != nil {
		return nil, err
	}

	out = Normalize(out)
	if err := Validate(out); err != nil {
		return nil, err
	}

	return out, nil
}

func setImageTrait(p ImageProps, name, value string) (Props, error) {
	switch name {
	case "src":
		src := strings.TrimSpace(value)
		if len(src) > 0 && !IsImageSource(src) {
			return nil, fmt.Errorf("src %q: %w", src, ErrInvalidTrait)
		}
		p.Src = option.NonEmpty(src)
	case "placeholder-text":
		p.PlaceholderText = value
	case "object-fit":
		p.ObjectFit = ObjectFit(strings.TrimSpace(value))
	case "alt":
		p.Alt = value
	default:
		return nil, unknownTrait(ImagePlaceholder, name)
	}

	return p, nil
}

func setFAQTrait(p FAQProps, name, value string) (Props, error) {
	switch name {
	case "question":
		p.Question = value
	case "answer":
		p.Answer = value
	case "is-open":
		open, err := parseBool(name, value)
		if err != nil {
			return nil, err
		}
		p.Open = open
	default:
		return nil, unknownTrait(FAQItem, name)
	}

	return p, nil
}

func setButtonTrait(p ButtonProps, name, value string) (Props, error) {
	switch name {
	case "href":
		p.Href = value
	case "label":
		p.Label = value
	case "target":
		p.Target = Target(strings.TrimSpace(value))
	case "color":
		p.Color = strings.TrimSpace(value)
	default:
		return nil, unknownTrait(LinkButton, name)
	}

	return p, nil
}

func setTextLinkTrait(p TextLinkProps, name, value string) (Props, error) {
	switch name {
	case "href":
		p.Href = value
	case "text":
		p.Text = value
	case "target":
		p.Target = Target(strings.TrimSpace(value))
	default:
		return nil, unknownTrait(TextLink, name)
	}

	return p, nil
}

func setYouTubeTrait(p YouTubeProps, name, value string) (Props, error) {
	switch name {
	case "video-id":
		value = strings.TrimSpace(value)
		if len(value) == 0 {
			p.VideoID = option.None[string]()
			break
		}

		id, ok := ExtractVideoID(value)
		if !ok {
			return nil, fmt.Errorf("video %q: %w", value, ErrInvalidTrait)
		}
		p.VideoID = option.Some(id)
	case "title":
		p.Title = value
	case "autoplay":
		autoplay, err := parseBool(name, value)
		if err != nil {
			return nil, err
		}
		p.Autoplay = autoplay
	default:
		return nil, unknownTrait(YouTubeEmbed, name)
	}

	return p, nil
}

// TraitValues flattens a record into the string values the trait panel shows.
func TraitValues(p Props) map[string]string {
	switch p := p.(type) {
	case ImageProps:
		return map[string]string{
			"src":              p.Src.GetOr(""),
			"placeholder-text": p.PlaceholderText,
			"object-fit":       string(p.ObjectFit),
			"alt":              p.Alt,
		}
	case FAQProps:
		return map[string]string{
			"question": p.Question,
			"answer":   p.Answer,
			"is-open":  strconv.FormatBool(p.Open),
		}
	case ButtonProps:
		return map[string]string{
			"href":   p.Href,
			"label":  p.Label,
			"target": string(p.Target),
			"color":  p.Color,
		}
	case TextLinkProps:
		return map[string]string{
			"href":   p.Href,
			"text":   p.Text,
			"target": string(p.Target),
		}
	case YouTubeProps:
		return map[string]string{
			"video-id": p.VideoID.GetOr(""),
			"title":    p.Title,
			"autoplay": strconv.FormatBool(p.Autoplay),
		}
	}

	return nil
}
