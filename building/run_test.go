package building

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgraf/baukasten/document"
)

func writePage(t *testing.T, dir, slug, updated, body string) string {
	t.Helper()

	path := filepath.Join(dir, slug+".html")
	content := "---\ntitle: " + slug + "\nslug: " + slug + "\nupdated: " + updated + "\ntags: [news]\n---\n" + body
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))

	return path
}

func setup(t *testing.T) Options {
	t.Helper()

	root := t.TempDir()
	pages := filepath.Join(root, "pages")
	require.NoError(t, os.MkdirAll(pages, 0777))

	media := filepath.Join(root, "media")
	require.NoError(t, os.MkdirAll(media, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(media, "cat.png"), []byte("png"), 0666))

	writePage(t, pages, "older", "2024-01-01", `<p data-bk-id="x">old</p>`)
	writePage(t, pages, "newer", "2024-02-01", `<div data-bk-type="image-placeholder" class="bk-image-placeholder"></div><p>new</p>`)

	return Options{
		PagesDirectory: pages,
		BuildDirectory: filepath.Join(root, "build"),
		MediaDirectory: media,
		SiteTitle:      "Site",
		Locale:         "en_US",
	}
}

func TestBuild(t *testing.T) {
	opts := setup(t)
	require.NoError(t, Build(opts))

	for _, name := range []string{"older.html", "newer.html", "index.html", "tag-news.html", cacheFileName, "res/baukasten.css", "res/baukasten.js", "media/cat.png"} {
		assert.FileExists(t, filepath.Join(opts.BuildDirectory, name))
	}

	out, err := os.ReadFile(filepath.Join(opts.BuildDirectory, "newer.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "image-placeholder")
	assert.Contains(t, string(out), `href="./older.html"`)

	older, err := os.ReadFile(filepath.Join(opts.BuildDirectory, "older.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(older), "data-bk-id")
	assert.Contains(t, string(older), `href="./newer.html"`)
}

func TestBuildSkipsUnchangedPages(t *testing.T) {
	opts := setup(t)
	require.NoError(t, Build(opts))

	older := filepath.Join(opts.BuildDirectory, "older.html")
	stamp := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(older, stamp, stamp))

	require.NoError(t, Build(opts))

	fi, err := os.Stat(older)
	require.NoError(t, err)
	assert.True(t, fi.ModTime().Equal(stamp))

	opts.Clean = true
	require.NoError(t, Build(opts))

	fi, err = os.Stat(older)
	require.NoError(t, err)
	assert.False(t, fi.ModTime().Equal(stamp))
}

func TestNeighborsChanged(t *testing.T) {
	current := buildCache{Pages: []cachePage{
		{Path: "b", OutputPath: "b.html", Title: "B"},
		{Path: "a", OutputPath: "a.html", Title: "A"},
	}}
	next := buildCache{Pages: []cachePage{
		{Path: "c", OutputPath: "c.html", Title: "C"},
		{Path: "b", OutputPath: "b.html", Title: "B"},
		{Path: "a", OutputPath: "a.html", Title: "A"},
	}}

	assert.Equal(t, []string{"c", "b"}, neighborsChanged(current, next))
	assert.Empty(t, neighborsChanged(next, next))
}

func TestTagFile(t *testing.T) {
	assert.Equal(t, "tag-open_day.html", Filenamer{}.TagFile(tagNamed("Open Day")))
}

func tagNamed(name string) document.Tag {
	return document.Tag{Raw: name}
}
