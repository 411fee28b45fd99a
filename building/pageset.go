package building

import (
	"sort"

	"github.com/bgraf/baukasten/document"
)

// PageSet collects the pages that need rendering, once each.
type PageSet struct {
	byPath map[string]*document.Page
}

func NewPageSet() *PageSet {
	return &PageSet{
		byPath: make(map[string]*document.Page),
	}
}

func (s *PageSet) Add(p *document.Page) {
	s.byPath[p.Path] = p
}

func (s *PageSet) Has(p *document.Page) bool {
	_, ok := s.byPath[p.Path]
	return ok
}

// Pages lists the set ordered by path.
func (s *PageSet) Pages() []*document.Page {
	pages := make([]*document.Page, 0, len(s.byPath))
	for _, p := range s.byPath {
		pages = append(pages, p)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Path < pages[j].Path
	})

	return pages
}

func (s *PageSet) Len() int {
	return len(s.byPath)
}
