package component

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// View carries the visual state that is not part of the properties.
type View struct {
	// Loading marks an image whose source is still being verified.
	Loading bool
	// Broken marks an image whose source failed to load.
	Broken bool
}

// BrokenImageHint is shown instead of the placeholder text of a broken image.
const BrokenImageHint = "The image could not be loaded. Check the address or pick another image."

const loadingImageHint = "Loading image…"

const youtubeEmbedBase = "https://www.youtube.com/embed/"

// Serialize produces the persisted markup of an instance. It is the single
// template per kind: the live canvas is rendered by parsing its output.
func Serialize(p Props, v View) string {
	var buf bytes.Buffer

	switch p := p.(type) {
	case ImageProps:
		serializeImage(&buf, p, v)
	case FAQProps:
		serializeFAQ(&buf, p)
	case ButtonProps:
		serializeButton(&buf, p)
	case TextLinkProps:
		serializeTextLink(&buf, p)
	case YouTubeProps:
		serializeYouTube(&buf, p)
	default:
		panic(fmt.Sprintf("component: cannot serialize %T", p))
	}

	return buf.String()
}

// Render turns the serialized markup into a detached live element.
func Render(p Props, v View) (*html.Node, error) {
	markup := Serialize(p, v)

	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("parse rendered %v: %w", p.Kind(), err)
	}

	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return n, nil
		}
	}

	return nil, fmt.Errorf("render %v: no element produced", p.Kind())
}

func esc(s string) string {
	return html.EscapeString(s)
}

func writeAttr(buf *bytes.Buffer, key, val string) {
	_, _ = buf.WriteString(fmt.Sprintf(` %s="%s"`, key, esc(val)))
}

func serializeImage(buf *bytes.Buffer, p ImageProps, v View) {
	fit := p.ObjectFit
	if len(fit) == 0 {
		fit = FitCover
	}

	filled := p.Src.IsSome() && !v.Broken && !v.Loading
	broken := p.Src.IsSome() && v.Broken
	loading := p.Src.IsSome() && v.Loading && !v.Broken

	classes := ClassImage
	if filled {
		classes += " " + ClassImage + "--filled"
	}
	if broken {
		classes += " " + ClassImage + "--error"
	}
	if loading {
		classes += " " + ClassImage + "--loading"
	}

	_, _ = buf.WriteString("<div")
	writeAttr(buf, AttrType, ImagePlaceholder.Tag())
	writeAttr(buf, "class", classes)
	writeAttr(buf, AttrFit, string(fit))
	writeAttr(buf, AttrPlaceholder, p.PlaceholderText)
	if len(p.Alt) > 0 {
		writeAttr(buf, AttrAlt, p.Alt)
	}
	if broken || loading {
		writeAttr(buf, AttrSrc, p.Src.Get())
	}
	_, _ = buf.WriteString(">")

	if filled {
		_, _ = buf.WriteString("<img")
		writeAttr(buf, "src", p.Src.Get())
		writeAttr(buf, "alt", p.Alt)
		writeAttr(buf, "style", fmt.Sprintf("object-fit:%s;width:100%%;height:100%%", fit))
		_, _ = buf.WriteString(">")
	} else {
		hint := p.PlaceholderText
		switch {
		case broken:
			hint = BrokenImageHint
		case loading:
			hint = loadingImageHint
		}

		_, _ = buf.WriteString(`<div class="bk-image-placeholder__inner">`)
		_, _ = buf.WriteString(`<button type="button" class="bk-image-placeholder__button">Add image</button>`)
		_, _ = buf.WriteString(fmt.Sprintf(`<span class="bk-image-placeholder__hint">%s</span>`, esc(hint)))
		_, _ = buf.WriteString("</div>")
	}

	_, _ = buf.WriteString("</div>")
}

func serializeFAQ(buf *bytes.Buffer, p FAQProps) {
	classes := ClassFAQ
	display := "none"
	expanded := "false"
	if p.Open {
		classes += " " + ClassFAQ + "--open"
		display = "block"
		expanded = "true"
	}

	_, _ = buf.WriteString("<div")
	writeAttr(buf, AttrType, FAQItem.Tag())
	writeAttr(buf, "class", classes)
	if p.Open {
		writeAttr(buf, AttrOpen, "true")
	}
	_, _ = buf.WriteString(">")

	_, _ = buf.WriteString(`<button type="button" class="bk-faq-item__question"`)
	writeAttr(buf, "aria-expanded", expanded)
	_, _ = buf.WriteString(">")
	_, _ = buf.WriteString(esc(p.Question))
	_, _ = buf.WriteString("</button>")

	_, _ = buf.WriteString(`<div class="bk-faq-item__answer"`)
	writeAttr(buf, "style", "display:"+display)
	_, _ = buf.WriteString(">")
	// Answer is sanitized HTML.
	_, _ = buf.WriteString(p.Answer)
	_, _ = buf.WriteString("</div>")

	_, _ = buf.WriteString("</div>")
}

func writeTarget(buf *bytes.Buffer, t Target) {
	if len(t) == 0 {
		t = TargetSelf
	}

	writeAttr(buf, "target", string(t))
	if t == TargetBlank {
		writeAttr(buf, "rel", "noopener noreferrer")
	}
}

func serializeButton(buf *bytes.Buffer, p ButtonProps) {
	color := strings.ToLower(p.Color)

	_, _ = buf.WriteString("<a")
	writeAttr(buf, AttrType, LinkButton.Tag())
	writeAttr(buf, "class", ClassButton)
	writeAttr(buf, "href", p.Href)
	writeTarget(buf, p.Target)
	writeAttr(buf, AttrColor, color)
	writeAttr(buf, "style", fmt.Sprintf("background-color:%s;color:%s", color, TextColorFor(color)))
	_, _ = buf.WriteString(">")
	_, _ = buf.WriteString(esc(p.Label))
	_, _ = buf.WriteString("</a>")
}

func serializeTextLink(buf *bytes.Buffer, p TextLinkProps) {
	_, _ = buf.WriteString("<a")
	writeAttr(buf, AttrType, TextLink.Tag())
	writeAttr(buf, "class", ClassTextLink)
	writeAttr(buf, "href", p.Href)
	writeTarget(buf, p.Target)
	_, _ = buf.WriteString(">")
	_, _ = buf.WriteString(esc(p.Text))
	_, _ = buf.WriteString("</a>")
}

func serializeYouTube(buf *bytes.Buffer, p YouTubeProps) {
	classes := ClassYouTube
	if p.VideoID.IsNone() {
		classes += " " + ClassYouTube + "--empty"
	}

	_, _ = buf.WriteString("<div")
	writeAttr(buf, AttrType, YouTubeEmbed.Tag())
	writeAttr(buf, "class", classes)
	if p.VideoID.IsSome() {
		writeAttr(buf, AttrVideoID, p.VideoID.Get())
	}
	if p.Autoplay {
		writeAttr(buf, AttrAutoplay, "true")
	}
	if len(p.Title) > 0 {
		writeAttr(buf, AttrCaption, p.Title)
	}
	_, _ = buf.WriteString(">")

	if p.VideoID.IsSome() {
		_, _ = buf.WriteString("<iframe")
		writeAttr(buf, "src", EmbedURL(p.VideoID.Get(), p.Autoplay))
		writeAttr(buf, "title", p.Title)
		writeAttr(buf, "frameborder", "0")
		writeAttr(buf, "allow", "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture")
		_, _ = buf.WriteString(" allowfullscreen></iframe>")
	} else {
		_, _ = buf.WriteString(`<span class="bk-youtube__hint">Paste a YouTube link</span>`)
	}

	_, _ = buf.WriteString("</div>")
}
