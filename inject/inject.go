// Package inject puts the component stylesheets into the canvas frame.
package inject

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bgraf/baukasten/editor"
)

//go:embed styles/*.css
var styles embed.FS

// StyleID identifies the injected style element.
const StyleID = "bk-canvas-styles"

// editingSheet holds the canvas-only rules left out of published pages.
const editingSheet = "30-editing.css"

var ErrNoHead = errors.New("frame has no head")

// Injector holds the minified stylesheets, built once.
type Injector struct {
	canvas    string
	published string
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Injector {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("inject")

	canvas, published, err := load(styles)
	if err != nil {
		logger.Warn("could not load stylesheets, canvas stays unstyled", zap.Error(err))
	}

	return &Injector{
		canvas:    minifyCSS(logger, canvas),
		published: minifyCSS(logger, published),
		logger:    logger,
	}
}

func load(fsys fs.FS) (canvas, published string, err error) {
	names, err := fs.Glob(fsys, "styles/*.css")
	if err != nil {
		return "", "", err
	}
	sort.Strings(names)

	var all, public strings.Builder
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", name, err)
		}

		all.Write(data)
		all.WriteByte('\n')
		if !strings.HasSuffix(name, editingSheet) {
			public.Write(data)
			public.WriteByte('\n')
		}
	}

	return all.String(), public.String(), nil
}

func minifyCSS(logger *zap.Logger, src string) string {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)

	out, err := m.String("text/css", src)
	if err != nil {
		logger.Warn("could not minify stylesheet, using it as is", zap.Error(err))
		return src
	}

	return out
}

// CSS is the full stylesheet for the canvas.
func (in *Injector) CSS() string {
	return in.canvas
}

// Published is the stylesheet for published pages, without editing
// affordances.
func (in *Injector) Published() string {
	return in.published
}

// Inject replaces the injected style element of the frame with a fresh one.
// Errors are logged and returned; callers carry on unstyled.
func (in *Injector) Inject(frame *editor.Frame) error {
	if frame == nil || frame.Destroyed() {
		in.logger.Warn("no frame to inject into")
		return editor.ErrFrameNotReady
	}

	head := frame.Head()
	if head == nil {
		in.logger.Warn("frame has no head, skipping styles")
		return ErrNoHead
	}

	frame.Batch(func() {
		for _, old := range frame.Find("style#" + StyleID).Nodes {
			frame.RemoveNode(old)
		}

		style := &html.Node{
			Type:     html.ElementNode,
			Data:     "style",
			DataAtom: atom.Style,
			Attr:     []html.Attribute{{Key: "id", Val: StyleID}},
		}
		style.AppendChild(&html.Node{Type: html.TextNode, Data: in.canvas})

		frame.AppendChild(head, style)
	})

	in.logger.Debug("styles injected", zap.Int("generation", frame.Generation()), zap.Int("bytes", len(in.canvas)))

	return nil
}
