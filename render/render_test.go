package render

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/goodsign/monday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgraf/baukasten/component"
	"github.com/bgraf/baukasten/document"
	"github.com/bgraf/baukasten/option"
)

func pageWith(body string) *document.Page {
	return &document.Page{
		Title:   "Landing",
		Slug:    "landing",
		Updated: time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
		Body:    body,
	}
}

func TestPublishStripsEditorMarkers(t *testing.T) {
	body := `<section data-bk-id="a1">` +
		`<a href="/about" data-bk-id="a2" data-bk-title="About">story</a>` +
		`<a href="/x" title="Kept" data-bk-title="Other">x</a>` +
		`<div data-bk-toolbar="true"><button>B</button></div>` +
		`</section>`

	out, err := Publish(pageWith(body), Options{})
	require.NoError(t, err)

	assert.NotContains(t, out, component.AttrID)
	assert.NotContains(t, out, component.AttrTitle)
	assert.NotContains(t, out, "data-bk-toolbar")
	assert.Contains(t, out, `title="About"`)
	assert.Contains(t, out, `title="Kept"`)
}

func TestPublishEmptyAndBrokenWidgets(t *testing.T) {
	empty := component.Serialize(component.Defaults(component.ImagePlaceholder), component.View{})
	img := component.Defaults(component.ImagePlaceholder).(component.ImageProps)
	img.Src = option.Some("https://ok.example/a.png")
	broken := component.Serialize(img, component.View{Broken: true})
	video := component.Serialize(component.Defaults(component.YouTubeEmbed), component.View{})

	out, err := Publish(pageWith("<main>"+empty+video+"<p>kept</p></main>"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "<main><p>kept</p></main>", out)

	out, err = Publish(pageWith("<main>"+broken+"</main>"), Options{})
	require.NoError(t, err)
	assert.Contains(t, out, `<img src="https://ok.example/a.png"`)
	assert.NotContains(t, out, component.ClassImage+"--error")
	assert.NotContains(t, out, component.AttrSrc)
}

func TestPublishRetainedImageSources(t *testing.T) {
	img := component.Defaults(component.ImagePlaceholder).(component.ImageProps)
	img.Src = option.Some("photos/b.webp")
	img.Alt = "Team"
	loading := component.Serialize(img, component.View{Loading: true})

	out, err := Publish(pageWith(loading), Options{MediaURL: MediaPrefix("media")})
	require.NoError(t, err)

	assert.Contains(t, out, `<figure><img src="media/photos/b.webp" alt="Team"`)
	assert.Contains(t, out, "<figcaption>Team</figcaption>")
	assert.Contains(t, out, component.ClassImage+"--filled")
	assert.NotContains(t, out, "bk-image-placeholder__hint")
}

func TestPublishFigures(t *testing.T) {
	img := component.Defaults(component.ImagePlaceholder).(component.ImageProps)
	img.Src = option.Some("photos/a.png")
	img.Alt = "A <b>cat</b>"

	yt := component.Defaults(component.YouTubeEmbed).(component.YouTubeProps)
	yt.VideoID = option.Some("dQw4w9WgXcQ")
	yt.Title = "Launch video"

	body := component.Serialize(img, component.View{}) + component.Serialize(yt, component.View{})

	out, err := Publish(pageWith(body), Options{MediaURL: MediaPrefix("media")})
	require.NoError(t, err)

	assert.Contains(t, out, `<figure><img src="media/photos/a.png"`)
	assert.Contains(t, out, "<figcaption>A &lt;b&gt;cat&lt;/b&gt;</figcaption>")
	assert.Contains(t, out, `<figure class="bk-youtube-figure"><div data-bk-type="youtube-embed"`)
	assert.Contains(t, out, "<figcaption>Launch video</figcaption></figure>")
	assert.NotContains(t, out, component.AttrPlaceholder)
}

func TestRecodePathsKeepsAbsolute(t *testing.T) {
	body := `<img src="https://cdn.example/a.png"><img src="/media/b.png"><img src="c.png"><a href="other">x</a>`

	out, err := Publish(pageWith(body), Options{MediaURL: MediaPrefix("media")})
	require.NoError(t, err)

	assert.Contains(t, out, `src="https://cdn.example/a.png"`)
	assert.Contains(t, out, `src="/media/b.png"`)
	assert.Contains(t, out, `src="media/c.png"`)
	assert.Contains(t, out, `href="other"`)
}

func TestMakePageGroups(t *testing.T) {
	at := func(y int, m time.Month, d int) *document.Page {
		return &document.Page{Updated: time.Date(y, m, d, 12, 0, 0, 0, time.Local)}
	}

	pages := []*document.Page{at(2024, 3, 20), at(2024, 3, 2), at(2024, 1, 5), at(2023, 12, 31)}

	groups := MakePageGroups(pages)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0].Pages, 2)
	assert.Equal(t, time.March, groups[0].Date.Month())
	assert.Equal(t, 2023, groups[2].Date.Year())

	assert.Nil(t, MakePageGroups(nil))
}

type filenamer struct{}

func (filenamer) PageFile(page *document.Page) string { return page.FileName() }
func (filenamer) TagFile(tag document.Tag) string   { return "tag-" + tag.Normalize() + ".html" }

func TestReadTemplates(t *testing.T) {
	templates, err := ReadTemplates(filenamer{}, monday.LocaleDeDE)
	require.NoError(t, err)

	page := pageWith("")
	page.Tags = []document.Tag{{Raw: "spring"}}
	next := pageWith("")
	next.Title = "Next"
	next.Slug = "next"

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "page.html", PagePayload{
		Page:       page,
		Body:       template.HTML("<p>Hello</p>"),
		Next:       next,
		Stylesheet: "res/baukasten.css",
		Script:     "res/baukasten.js",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<html lang="de">`)
	assert.Contains(t, out, "<p>Hello</p>")
	assert.Contains(t, out, "März 2024")
	assert.Contains(t, out, `href="./tag-spring.html"`)
	assert.Contains(t, out, `href="./next.html">Next</a>`)
	assert.False(t, strings.Contains(out, "bk-page-nav__prev"))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, monday.LocaleDeDE, ParseLocale("de_DE"))
	assert.Equal(t, DefaultLocale, ParseLocale("xx_XX"))
	assert.Equal(t, "de", Language(monday.LocaleDeDE))
}

func TestTagSetStableColors(t *testing.T) {
	ts := NewTagSet()
	a := ts.HexColor("Spring")
	assert.Equal(t, a, ts.HexColor(" spring "))
	assert.Len(t, ts.Tags(), 1)
	assert.Len(t, ts.HexColors("x", "y"), 2)
}
