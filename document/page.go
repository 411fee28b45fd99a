package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Page is one editable page: front matter plus the persisted body markup.
type Page struct {
	Path    string // File system path
	GUID    uuid.UUID
	Title   string
	Slug    string
	Updated time.Time
	Tags    []Tag
	Body    string
}

// HTML parses the body for querying.
func (p *Page) HTML() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + p.Body + "</body></html>"))
	if err != nil {
		return nil, fmt.Errorf("parse body of %s: %w", p.Path, err)
	}

	return doc, nil
}

func (p *Page) HasTag(name string) bool {
	name = NormalizeTagName(name)
	for _, t := range p.Tags {
		if t.Normalize() == name {
			return true
		}
	}

	return false
}

// FileName is the name of the published file.
func (p *Page) FileName() string {
	return p.Slug + ".html"
}

// Slugify derives a file-system and URL friendly slug from a title.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == 'ä':
			b.WriteString("ae")
			dash = false
		case r == 'ö':
			b.WriteString("oe")
			dash = false
		case r == 'ü':
			b.WriteString("ue")
			dash = false
		case r == 'ß':
			b.WriteString("ss")
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
