package render

import (
	"html/template"
	"time"

	"github.com/bgraf/baukasten/document"
	"github.com/bgraf/baukasten/util/dates"
)

// PagePayload is handed to page.html.
type PagePayload struct {
	Page       *document.Page
	Body       template.HTML
	Prev, Next *document.Page
	Stylesheet string
	Script     string
}

// PageGroup collects the pages updated in one month.
type PageGroup struct {
	Pages []*document.Page
	Date  time.Time
}

// MakePageGroups groups pages ordered by update date by month.
func MakePageGroups(pages []*document.Page) []PageGroup {
	if len(pages) == 0 {
		return nil
	}

	groups := []PageGroup{
		{
			Date: dates.FirstDayOfMonth(pages[0].Updated),
		},
	}

	ci := 0
	for _, page := range pages {
		ym := dates.FirstDayOfMonth(page.Updated)
		if !ym.Equal(groups[ci].Date) {
			groups = append(
				groups,
				PageGroup{
					Date: ym,
				},
			)
			ci++
		}

		groups[ci].Pages = append(groups[ci].Pages, page)
	}

	return groups
}

// IndexPayload is handed to index.html.
type IndexPayload struct {
	Title      string
	Groups     []PageGroup
	Tags       []document.Tag
	Stylesheet string
}

// TagPayload is handed to tag.html.
type TagPayload struct {
	Tag        document.Tag
	Pages      []*document.Page
	Stylesheet string
}
