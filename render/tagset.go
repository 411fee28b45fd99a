package render

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/bgraf/baukasten/document"
)

// TagSet hands out one stable color per tag. It is safe for concurrent use.
type TagSet struct {
	mu     sync.Mutex
	colors map[string]colorful.Color
	tags   []document.Tag
}

func NewTagSet() *TagSet {
	return &TagSet{
		colors: make(map[string]colorful.Color),
	}
}

func (ts *TagSet) HexColor(tag string) string {
	var (
		c  colorful.Color
		ok bool
	)

	ts.mu.Lock()
	defer ts.mu.Unlock()

	normTag := document.NormalizeTagName(tag)
	if c, ok = ts.colors[normTag]; !ok {
		c = colorful.HappyColor()
		ts.colors[normTag] = c
		ts.tags = append(ts.tags, document.Tag{Raw: tag})
	}

	return c.Hex()
}

func (ts *TagSet) HexColors(tags ...string) []string {
	colors := make([]string, len(tags))

	for i, tag := range tags {
		colors[i] = ts.HexColor(tag)
	}

	return colors
}

func (ts *TagSet) Tags() []document.Tag {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	return ts.tags
}
