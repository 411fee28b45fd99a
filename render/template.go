package render

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/goodsign/monday"

	"github.com/bgraf/baukasten/document"
)

//go:embed templates/*.html
var templates embed.FS

// Static holds the scripts published next to every site.
//
//go:embed static
var Static embed.FS

type Filenamer interface {
	PageFile(page *document.Page) string
	TagFile(tag document.Tag) string
}

func ReadTemplates(f Filenamer, locale monday.Locale) (*template.Template, error) {
	funcMap := MakeTemplateFuncmap(locale)

	funcMap["pageURL"] = func(page *document.Page) template.URL {
		return template.URL("./" + f.PageFile(page))
	}

	funcMap["tagURL"] = func(tag document.Tag) template.URL {
		return template.URL("./" + f.TagFile(tag))
	}

	funcMap["lang"] = func() string {
		return Language(locale)
	}

	t, err := template.New("").Funcs(funcMap).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return t, nil
}
