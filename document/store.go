package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoSuchPage = errors.New("no such page")
	ErrSlugTaken  = errors.New("slug already taken")
)

const pageExt = ".html"

type Store struct {
	RootDirectory       string
	Pages               []*Page
	tagByNormalizedName map[string]Tag
	tags                []Tag
	logger              *zap.Logger
}

func NewStore(rootDirectory string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := &Store{
		RootDirectory: rootDirectory,
		logger:        logger.Named("store"),
	}

	var err error
	store.Pages, err = store.LoadPages(rootDirectory)
	if err != nil {
		return nil, fmt.Errorf("load pages failed: %w", err)
	}

	store.indexTags()
	store.OrderPagesByUpdated()

	return store, nil
}

func (s *Store) indexTags() {
	s.tagByNormalizedName = make(map[string]Tag)
	s.tags = nil

	for _, page := range s.Pages {
		for _, tag := range page.Tags {
			name := tag.Normalize()
			if _, ok := s.tagByNormalizedName[name]; !ok {
				s.tagByNormalizedName[name] = tag
				s.tags = append(s.tags, tag)
			}
		}
	}
}

// OrderPagesByUpdated puts the most recently updated pages first.
func (s *Store) OrderPagesByUpdated() {
	sort.SliceStable(s.Pages, func(i, j int) bool {
		return s.Pages[i].Updated.After(s.Pages[j].Updated)
	})
}

func (s *Store) PageByGUID(guid uuid.UUID) (*Page, error) {
	for _, page := range s.Pages {
		if page.GUID == guid {
			return page, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoSuchPage, guid)
}

func (s *Store) PageBySlug(slug string) (*Page, error) {
	for _, page := range s.Pages {
		if page.Slug == slug {
			return page, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNoSuchPage, slug)
}

// ReloadByGUID reads a page from disk again, keeping its GUID.
func (s *Store) ReloadByGUID(guid uuid.UUID) (*Page, error) {
	page, err := s.PageByGUID(guid)
	if err != nil {
		return nil, err
	}

	newPage, err := s.LoadPage(page.Path)
	if err != nil {
		return nil, fmt.Errorf("reload page: %w", err)
	}

	newPage.GUID = page.GUID
	for i, p := range s.Pages {
		if p.GUID == newPage.GUID {
			s.Pages[i] = newPage
		}
	}
	s.indexTags()

	return newPage, nil
}

func (s *Store) PagesByTagName(name string) []*Page {
	var result []*Page
	for _, page := range s.Pages {
		if page.HasTag(name) {
			result = append(result, page)
		}
	}

	return result
}

func (s *Store) TagByName(name string) (Tag, bool) {
	if tag, ok := s.tagByNormalizedName[NormalizeTagName(name)]; ok {
		return tag, true
	}

	return Tag{}, false
}

func (s *Store) Tags() []Tag {
	return s.tags
}

func (s *Store) OrderTags() {
	sort.Slice(
		s.tags,
		func(i, j int) bool {
			return s.tags[i].Normalize() < s.tags[j].Normalize()
		},
	)
}

func (s *Store) LoadPages(rootDirectory string) ([]*Page, error) {
	var pages []*Page

	err := filepath.WalkDir(rootDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if strings.ToLower(filepath.Ext(path)) != pageExt {
			return nil
		}

		page, err := s.LoadPage(path)
		if err != nil {
			return err
		}

		pages = append(pages, page)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("could not load pages: %w", err)
	}

	return pages, nil
}

func (s *Store) LoadPage(path string) (*Page, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read page file: %w", err)
	}

	page := &Page{Path: path}
	if err := readFrontMatter(page, source); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if len(page.Slug) == 0 {
		page.Slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if len(page.Title) == 0 {
		doc, err := page.HTML()
		if err != nil {
			return nil, err
		}
		page.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	if page.Updated.IsZero() {
		if fi, err := os.Stat(path); err == nil {
			page.Updated = fi.ModTime()
		}
	}

	s.logger.Debug("loaded page", zap.String("path", path), zap.Stringer("guid", page.GUID))

	return page, nil
}

// Save writes the body of a page, stamping the update date.
func (s *Store) Save(page *Page, body string) error {
	if _, err := s.PageByGUID(page.GUID); err != nil {
		return err
	}

	page.Body = strings.TrimSpace(body)
	page.Updated = time.Now()

	return s.write(page)
}

func (s *Store) write(page *Page) error {
	data, err := encode(page)
	if err != nil {
		return err
	}

	tmp := page.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0666); err != nil {
		return fmt.Errorf("could not write page file: %w", err)
	}
	if err := os.Rename(tmp, page.Path); err != nil {
		return fmt.Errorf("could not replace page file: %w", err)
	}

	s.logger.Info("saved page", zap.String("path", page.Path))

	return nil
}

// Create adds a new page with the given body.
func (s *Store) Create(title, slug string, tags []Tag, body string) (*Page, error) {
	if len(slug) == 0 {
		slug = Slugify(title)
	}
	if len(slug) == 0 {
		return nil, fmt.Errorf("page %q needs a slug", title)
	}

	if _, err := s.PageBySlug(slug); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	}

	if err := os.MkdirAll(s.RootDirectory, 0777); err != nil {
		return nil, fmt.Errorf("create page directory: %w", err)
	}

	page := &Page{
		Path:    filepath.Join(s.RootDirectory, slug+pageExt),
		GUID:    uuid.New(),
		Title:   title,
		Slug:    slug,
		Updated: time.Now(),
		Tags:    tags,
		Body:    strings.TrimSpace(body),
	}

	if _, err := os.Stat(page.Path); err == nil {
		return nil, fmt.Errorf("%w: %s exists", ErrSlugTaken, page.Path)
	}

	if err := s.write(page); err != nil {
		return nil, err
	}

	s.Pages = append(s.Pages, page)
	s.indexTags()
	s.OrderPagesByUpdated()

	return page, nil
}
