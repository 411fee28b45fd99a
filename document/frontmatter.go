package document

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v2"
)

const dateLayout = "2006-01-02"

type FrontMatter struct {
	Title   string        `yaml:"title"`
	Slug    string        `yaml:"slug,omitempty"`
	GUID    string        `yaml:"guid,omitempty"`
	Updated YamlDate      `yaml:"updated,omitempty"`
	Tags    []interface{} `yaml:"tags,omitempty"`
}

func readFrontMatter(page *Page, source []byte) error {
	fmSource, body, err := findFrontMatterSource(source)
	if err != nil {
		return fmt.Errorf("read front matter: %w", err)
	}

	fm := FrontMatter{}
	if err := yaml.Unmarshal(fmSource, &fm); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}

	page.Title = fm.Title
	page.Slug = fm.Slug
	page.Updated = time.Time(fm.Updated)
	page.Body = string(bytes.TrimSpace(body))
	page.Tags = readTags(fm.Tags)

	page.GUID, err = uuid.Parse(fm.GUID)
	if err != nil {
		page.GUID = uuid.New()
	}

	return nil
}

// readTags accepts plain tags and category maps:
//
//	tags: [landing, {campaign: [spring]}]
func readTags(raw []interface{}) []Tag {
	var tags []Tag

	plain, remaining := splitStrings(raw)
	for _, name := range plain {
		tags = append(tags, Tag{Raw: name})
	}

	for _, r := range remaining {
		m, ok := r.(map[interface{}]interface{})
		if !ok {
			continue
		}

		for k, v := range m {
			category, ok := k.(string)
			if !ok {
				continue
			}

			items, ok := v.([]interface{})
			if !ok {
				continue
			}

			names, _ := splitStrings(items)
			for _, name := range names {
				tags = append(tags, Tag{Raw: name, Category: category})
			}
		}
	}

	return tags
}

// splitStrings separates the string items of a YAML sequence from the rest.
func splitStrings(items []interface{}) (names []string, rest []interface{}) {
	for _, item := range items {
		if name, ok := item.(string); ok {
			names = append(names, name)
		} else {
			rest = append(rest, item)
		}
	}

	return names, rest
}

func writeTags(tags []Tag) []interface{} {
	var (
		out        []interface{}
		byCategory = make(map[string][]string)
		categories []string
	)

	for _, t := range tags {
		if !t.HasCategory() {
			out = append(out, t.Raw)
			continue
		}

		if _, ok := byCategory[t.Category]; !ok {
			categories = append(categories, t.Category)
		}
		byCategory[t.Category] = append(byCategory[t.Category], t.Raw)
	}

	sort.Strings(categories)
	for _, c := range categories {
		out = append(out, map[string][]string{c: byCategory[c]})
	}

	return out
}

// encode writes the page file: front matter block, then body.
func encode(page *Page) ([]byte, error) {
	fm := FrontMatter{
		Title:   page.Title,
		Slug:    page.Slug,
		GUID:    page.GUID.String(),
		Updated: YamlDate(page.Updated),
		Tags:    writeTags(page.Tags),
	}

	header, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n")
	buf.WriteString(page.Body)
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

type YamlDate time.Time

func (t *YamlDate) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var txt string
	err := unmarshal(&txt)
	if err != nil {
		return err
	}

	if len(txt) == 0 {
		*t = YamlDate(time.Time{})
		return nil
	}

	date, err := time.ParseInLocation(dateLayout, txt, time.Local)
	if err != nil {
		return err
	}

	*t = YamlDate(date)
	return nil
}

func (t YamlDate) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t YamlDate) MarshalYAML() (interface{}, error) {
	return time.Time(t).Format(dateLayout), nil
}

func findFrontMatterSource(source []byte) ([]byte, []byte, error) {
	nSkipWhite := util.FirstNonSpacePosition(source)
	if nSkipWhite < 0 || !startsWithFrontMatterMarker(source[nSkipWhite:]) {
		// No front matter, the whole file is body.
		return nil, source, nil
	}

	startPos := nSkipWhite + 3
	endPos, ok := findEndPos(source[startPos:])
	if !ok {
		return nil, source, fmt.Errorf("no front matter ending indicator")
	}
	endPos += startPos

	return source[startPos:endPos], source[endPos+3:], nil
}

// findEndPos finds the closing marker at the start of a line.
func findEndPos(source []byte) (int, bool) {
	for i := 0; i+3 <= len(source); i++ {
		if (i == 0 || source[i-1] == '\n') && startsWithFrontMatterMarker(source[i:]) {
			return i, true
		}
	}

	return 0, false
}

func startsWithFrontMatterMarker(source []byte) bool {
	return bytes.HasPrefix(source, []byte{'-', '-', '-'})
}
