package render

import (
	"html/template"
	"net/url"
	"time"

	"github.com/goodsign/monday"

	"github.com/bgraf/baukasten/document"
	"github.com/bgraf/baukasten/util/dates"
)

// DefaultLocale is used for dates when no known locale is configured.
const DefaultLocale = monday.LocaleEnUS

func MakeTemplateFuncmap(locale monday.Locale) template.FuncMap {
	tagSet := NewTagSet()

	return template.FuncMap{
		"tagColor": func(tag document.Tag) template.CSS {
			return template.CSS(tagSet.HexColor(tag.String()))
		},
		"tagDisplay": func(tag document.Tag) string {
			if tag.HasCategory() {
				return tag.Category + ": " + tag.String()
			}

			return tag.String()
		},
		"dateDisplay": func(t time.Time) string {
			return monday.Format(t, dateLayout(locale), locale)
		},
		"yearMonthDisplay": func(t time.Time) string {
			return monday.Format(t, "January 2006", locale)
		},
		"today":      time.Now,
		"equalMonth": dates.EqualMonth,
	}
}

func dateLayout(locale monday.Locale) string {
	if layout, ok := monday.LongFormatsByLocale[locale]; ok {
		return layout
	}

	return monday.DefaultFormatEnUSLong
}

// ParseLocale returns the locale named s, or DefaultLocale.
func ParseLocale(s string) monday.Locale {
	for _, l := range monday.ListLocales() {
		if string(l) == s {
			return l
		}
	}

	return DefaultLocale
}

// Language is the primary language subtag of a locale.
func Language(locale monday.Locale) string {
	s := string(locale)
	if len(s) >= 2 {
		return s[:2]
	}

	return "en"
}

func TagIdentifier(tag string) string {
	tag = document.NormalizeTagName(tag)
	return tag
}

func TagIdentifierEscaped(tag string) string {
	return url.PathEscape(TagIdentifier(tag))
}
