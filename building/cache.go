package building

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/bgraf/baukasten/document"
)

const cacheFileName = "cache.json"

type buildCache struct {
	Pages []cachePage `json:"pages"`
}

type cachePage struct {
	Title      string         `json:"title"`
	Tags       []document.Tag `json:"tags"`
	Updated    jsonDate       `json:"updated"`
	Path       string         `json:"path"`
	OutputPath string         `json:"outputPath"`
}

type jsonDate time.Time

func (j jsonDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(j).Format("2006-01-02"))
}

func (j *jsonDate) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}

	*j = jsonDate(t)
	return nil
}

func readBuildCache(buildDirectory string) (cache buildCache, err error) {
	payloadBytes, err := os.ReadFile(filepath.Join(buildDirectory, cacheFileName))
	if err != nil {
		return
	}

	err = json.Unmarshal(payloadBytes, &cache)
	return
}

func makeBuildCache(state *buildState) buildCache {
	cache := buildCache{}

	for _, page := range state.store.Pages {
		cache.Pages = append(cache.Pages, cachePage{
			Title:      page.Title,
			Tags:       page.Tags,
			Updated:    jsonDate(page.Updated),
			Path:       page.Path,
			OutputPath: state.filenamer.PageFile(page),
		})
	}

	return cache
}

func writeBuildCache(state *buildState) error {
	cache := makeBuildCache(state)

	jsonBytes, err := json.Marshal(cache)
	if err != nil {
		return err
	}

	return state.WriteFile(cacheFileName, jsonBytes)
}

// neighborsChanged lists the pages whose predecessor or successor differs
// between two builds. Their navigation links need rerendering.
func neighborsChanged(current, next buildCache) []string {
	var paths []string

	for i, entry := range next.Pages {
		iOld := -1
		for j, e := range current.Pages {
			if e.Path == entry.Path {
				iOld = j
				break
			}
		}

		if iOld < 0 {
			paths = append(paths, entry.Path)
			continue
		}

		if neighborAt(next, i-1) != neighborAt(current, iOld-1) ||
			neighborAt(next, i+1) != neighborAt(current, iOld+1) {
			paths = append(paths, entry.Path)
		}
	}

	return paths
}

// neighborAt identifies the link a page shows for the page at i.
func neighborAt(cache buildCache, i int) string {
	if i < 0 || i >= len(cache.Pages) {
		return ""
	}

	return cache.Pages[i].OutputPath + "\x00" + cache.Pages[i].Title
}
