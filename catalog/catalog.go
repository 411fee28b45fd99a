// Package catalog holds the blocks offered in the drag-and-drop palette.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

//go:embed blocks/*.md
var blocks embed.FS

var ErrNoSuchBlock = errors.New("no such block")

// Block is a reusable markup fragment.
type Block struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
	Order    int    `json:"order"`
	// Content is the markup inserted into the page.
	Content string `json:"content"`
	// Description is the palette help text, rendered from markdown.
	Description string `json:"description"`
}

type Catalog struct {
	blocks []*Block
	byID   map[string]*Block
}

// Default is the catalog built from the embedded blocks.
func Default() (*Catalog, error) {
	return Load(blocks)
}

// Load reads every blocks/*.md file of fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "blocks/*.md")
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	c := &Catalog{byID: make(map[string]*Block)}
	for _, name := range names {
		source, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read block %s: %w", name, err)
		}

		b, err := parseBlock(md, source)
		if err != nil {
			return nil, fmt.Errorf("parse block %s: %w", name, err)
		}
		if len(b.ID) == 0 {
			b.ID = strings.TrimSuffix(path.Base(name), ".md")
		}

		if _, ok := c.byID[b.ID]; ok {
			return nil, fmt.Errorf("block %q defined twice", b.ID)
		}

		c.byID[b.ID] = b
		c.blocks = append(c.blocks, b)
	}

	sort.SliceStable(c.blocks, func(i, j int) bool {
		if c.blocks[i].Category != c.blocks[j].Category {
			return c.blocks[i].Category < c.blocks[j].Category
		}
		return c.blocks[i].Order < c.blocks[j].Order
	})

	return c, nil
}

func parseBlock(md goldmark.Markdown, source []byte) (*Block, error) {
	var buf bytes.Buffer
	pc := parser.NewContext()
	if err := md.Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return nil, err
	}

	fields, err := meta.TryGet(pc)
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}

	b := &Block{
		ID:          stringField(fields, "id"),
		Label:       stringField(fields, "label"),
		Category:    stringField(fields, "category"),
		Content:     strings.TrimSpace(stringField(fields, "content")),
		Description: strings.TrimSpace(buf.String()),
	}
	if order, ok := fields["order"].(int); ok {
		b.Order = order
	}

	if len(b.Content) == 0 {
		return nil, errors.New("block has no content")
	}
	if len(b.Label) == 0 {
		b.Label = b.ID
	}

	return b, nil
}

func stringField(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}

	return ""
}

// Blocks lists all blocks ordered by category, then palette order.
func (c *Catalog) Blocks() []*Block {
	return c.blocks
}

func (c *Catalog) Block(id string) (*Block, error) {
	b, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchBlock, id)
	}

	return b, nil
}

// Categories lists the distinct categories in palette order.
func (c *Catalog) Categories() []string {
	var cats []string
	seen := make(map[string]bool)
	for _, b := range c.blocks {
		if !seen[b.Category] {
			seen[b.Category] = true
			cats = append(cats, b.Category)
		}
	}

	return cats
}
