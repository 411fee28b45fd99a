// Package building publishes the page store as a static site.
package building

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bgraf/baukasten/document"
	"github.com/bgraf/baukasten/filesystem"
	"github.com/bgraf/baukasten/inject"
	"github.com/bgraf/baukasten/render"
)

const (
	resDirectory   = "res"
	mediaDirectory = "media"
	stylesheetFile = "baukasten.css"
	scriptFile     = "baukasten.js"
)

var mediaExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

var fileNameNormalizationPattern = regexp.MustCompile("[^a-z0-9]")

func normalizeFileName(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return fileNameNormalizationPattern.ReplaceAllString(s, "_")
}

type Filenamer struct {
}

func (f Filenamer) PageFile(page *document.Page) string {
	return page.FileName()
}

func (f Filenamer) TagFile(tag document.Tag) string {
	return fmt.Sprintf("tag-%s.html", normalizeFileName(tag.Normalize()))
}

type Options struct {
	Clean          bool
	PagesDirectory string
	BuildDirectory string
	MediaDirectory string
	SiteTitle      string
	Locale         string
	Logger         *zap.Logger
}

func Build(opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("build")

	if err := filesystem.CreateDirectoryIfNotExists(opts.BuildDirectory); err != nil {
		return fmt.Errorf("could not ensure build directory: %w", err)
	}

	templates, err := render.ReadTemplates(Filenamer{}, render.ParseLocale(opts.Locale))
	if err != nil {
		return err
	}

	store, err := document.NewStore(opts.PagesDirectory, logger)
	if err != nil {
		return err
	}

	state := &buildState{
		Options:   opts,
		logger:    logger,
		templates: templates,
		store:     store,
		filenamer: Filenamer{},
	}
	state.Initialize()

	changedPages, err := collectPrimaryChangePages(state)
	if err != nil {
		return err
	}

	// Pages whose neighbors changed need new navigation links although they
	// were not modified themselves.
	currentCache, err := readBuildCache(state.BuildDirectory)
	if err != nil {
		logger.Debug("could not read cache", zap.Error(err))
	}

	nextCache := makeBuildCache(state)
	for _, path := range neighborsChanged(currentCache, nextCache) {
		if i, ok := state.indexByPath[path]; ok {
			changedPages.Add(store.Pages[i])
		}
	}

	_, indexErr := filesystem.FileModifiedTime(filepath.Join(state.BuildDirectory, "index.html"))
	if changedPages.Len() == 0 && len(currentCache.Pages) == len(nextCache.Pages) && indexErr == nil {
		logger.Info("nothing to do")
		return nil
	}

	if err := processPageFiles(state, changedPages); err != nil {
		return err
	}

	if err := writeIndexFile(state); err != nil {
		return err
	}

	if err := writeTagFiles(state); err != nil {
		return err
	}

	if err := installAssets(state); err != nil {
		return err
	}

	if err := copyMedia(state); err != nil {
		return err
	}

	if err := writeBuildCache(state); err != nil {
		return fmt.Errorf("write build cache: %w", err)
	}

	logger.Info("done", zap.Int("pages", changedPages.Len()))

	return nil
}

type buildState struct {
	Options
	logger      *zap.Logger
	templates   *template.Template
	store       *document.Store
	indexByPath map[string]int
	filenamer   Filenamer
}

func (state *buildState) Initialize() {
	indexByPath := make(map[string]int)
	for i, p := range state.store.Pages {
		indexByPath[p.Path] = i
	}

	state.indexByPath = indexByPath
}

func (state *buildState) Index(p *document.Page) int {
	if idx, ok := state.indexByPath[p.Path]; ok {
		return idx
	}

	panic("no index")
}

// WriteFile writes a file at the given path interpreted relative to the build directory.
func (state *buildState) WriteFile(path string, content []byte) error {
	if filepath.IsAbs(path) {
		return fmt.Errorf("absolute path")
	}

	p := filepath.Join(state.BuildDirectory, path)
	if err := filesystem.CreateDirectoryIfNotExists(filepath.Dir(p)); err != nil {
		return err
	}

	return os.WriteFile(p, content, 0o666)
}

func collectPrimaryChangePages(state *buildState) (*PageSet, error) {
	s := NewPageSet()

	for _, page := range state.store.Pages {
		performUpdate := true

		if !state.Clean {
			pageModTime, err := filesystem.FileModifiedTime(page.Path)
			if err != nil {
				return nil, err
			}

			outputFile := filepath.Join(state.BuildDirectory, state.filenamer.PageFile(page))
			resultModTime, err := filesystem.FileModifiedTime(outputFile)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return nil, err
				}
			} else {
				performUpdate = resultModTime.Before(pageModTime)
			}
		}

		if performUpdate {
			s.Add(page)
		}
	}

	return s, nil
}

func processPageFiles(state *buildState, ps *PageSet) error {
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, page := range ps.Pages() {
		page := page
		g.Go(func() error {
			i := state.Index(page)

			// Pages are ordered newest first.
			var next *document.Page
			if i > 0 {
				next = state.store.Pages[i-1]
			}

			var prev *document.Page
			if i+1 < len(state.store.Pages) {
				prev = state.store.Pages[i+1]
			}

			return writePageFile(state, page, prev, next)
		})
	}

	return g.Wait()
}

func writePageFile(state *buildState, page, prev, next *document.Page) error {
	body, err := render.Publish(page, render.Options{
		MediaURL: render.MediaPrefix(mediaDirectory),
		Logger:   state.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to publish page: %w", err)
	}

	var buf bytes.Buffer

	err = state.templates.ExecuteTemplate(&buf, "page.html", render.PagePayload{
		Page:       page,
		Body:       template.HTML(body),
		Prev:       prev,
		Next:       next,
		Stylesheet: resDirectory + "/" + stylesheetFile,
		Script:     resDirectory + "/" + scriptFile,
	})
	if err != nil {
		return fmt.Errorf("could not execute template: %w", err)
	}

	fileName := state.filenamer.PageFile(page)

	if err := state.WriteFile(fileName, buf.Bytes()); err != nil {
		return fmt.Errorf("could not write page file: %w", err)
	}

	state.logger.Info("rendered page", zap.String("file", fileName))

	return nil
}

func writeIndexFile(state *buildState) error {
	state.store.OrderTags()

	var buf bytes.Buffer
	err := state.templates.ExecuteTemplate(&buf, "index.html", render.IndexPayload{
		Title:      state.SiteTitle,
		Groups:     render.MakePageGroups(state.store.Pages),
		Tags:       state.store.Tags(),
		Stylesheet: resDirectory + "/" + stylesheetFile,
	})
	if err != nil {
		return fmt.Errorf("could not execute template: %w", err)
	}

	if err := state.WriteFile("index.html", buf.Bytes()); err != nil {
		return fmt.Errorf("could not write index file: %w", err)
	}

	return nil
}

func writeTagFiles(state *buildState) error {
	store := state.store

	for _, tag := range store.Tags() {
		var buf bytes.Buffer
		err := state.templates.ExecuteTemplate(&buf, "tag.html", render.TagPayload{
			Tag:        tag,
			Pages:      store.PagesByTagName(tag.Raw),
			Stylesheet: resDirectory + "/" + stylesheetFile,
		})
		if err != nil {
			return fmt.Errorf("could not execute template: %w", err)
		}

		fileName := state.filenamer.TagFile(tag)

		if err := state.WriteFile(fileName, buf.Bytes()); err != nil {
			return fmt.Errorf("could not write tag file: %w", err)
		}

		state.logger.Debug("written tag file", zap.String("file", fileName))
	}

	return nil
}

func installAssets(state *buildState) error {
	static, err := fs.Sub(render.Static, "static")
	if err != nil {
		return err
	}

	if err := filesystem.InstallFS(static, filepath.Join(state.BuildDirectory, resDirectory), state.logger); err != nil {
		return fmt.Errorf("installation of static files failed: %w", err)
	}

	css := inject.New(state.logger).Published()
	if err := state.WriteFile(filepath.Join(resDirectory, stylesheetFile), []byte(css)); err != nil {
		return fmt.Errorf("could not write stylesheet: %w", err)
	}

	return nil
}

// copyMedia copies the images of the media directory that changed since the
// last build.
func copyMedia(state *buildState) error {
	if len(state.MediaDirectory) == 0 || !filesystem.IsDirectory(state.MediaDirectory) {
		return nil
	}

	files, err := filesystem.GatherMedia(state.MediaDirectory, mediaExtensions)
	if err != nil {
		return err
	}

	target := filepath.Join(state.BuildDirectory, mediaDirectory)

	for _, rel := range files {
		src := filepath.Join(state.MediaDirectory, rel)
		dst := filepath.Join(target, rel)

		if !state.Clean {
			srcMod, err := filesystem.FileModifiedTime(src)
			if err != nil {
				return err
			}
			if dstMod, err := filesystem.FileModifiedTime(dst); err == nil && !dstMod.Before(srcMod) {
				continue
			}
		}

		if err := filesystem.CreateDirectoryIfNotExists(filepath.Dir(dst)); err != nil {
			return err
		}

		if err := filesystem.Copy(src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}

		state.logger.Debug("copied media", zap.String("file", dst))
	}

	return nil
}
