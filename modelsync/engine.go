// Package modelsync keeps the typed properties of a custom component and its
// rendered element consistent in both directions.
package modelsync

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/component"
	"github.com/bgraf/baukasten/editor"
	"github.com/bgraf/baukasten/option"
)

type State int

const (
	// Empty instances carry no media or destination yet.
	Empty State = iota
	// Pending instances wait for their image to be verified.
	Pending
	Populated
	// Broken instances show the error variant of Empty, keeping the source.
	Broken
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Pending:
		return "pending"
	case Populated:
		return "populated"
	case Broken:
		return "broken"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Host is the part of the editor an engine talks to.
type Host interface {
	Frame() *editor.Frame
	ReplaceNode(c *editor.Component, repl *html.Node)
	Changed(c *editor.Component)
	Async(work func() func())
}

var _ Host = (*editor.Editor)(nil)

// Verifier proves that an image source can be loaded.
type Verifier interface {
	Verify(ctx context.Context, src string) error
}

const (
	DefaultMaxAttempts   = 3
	DefaultVerifyTimeout = 10 * time.Second
)

type Options struct {
	// Verifier checks image sources; without one every source is trusted.
	Verifier      Verifier
	MaxAttempts   int
	VerifyTimeout time.Duration
	Logger        *zap.Logger
}

// Engine synchronizes one custom component.
type Engine struct {
	host   Host
	comp   *editor.Component
	logger *zap.Logger

	verifier      Verifier
	verifyTimeout time.Duration
	maxAttempts   int

	state      State
	recovering bool
	attempts   int

	// verification increments with every started verification; results of
	// superseded ones are dropped.
	verification int
}

func New(host Host, c *editor.Component, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.VerifyTimeout <= 0 {
		opts.VerifyTimeout = DefaultVerifyTimeout
	}

	return &Engine{
		host:          host,
		comp:          c,
		logger:        opts.Logger.Named("sync").With(zap.String("component", c.ID), zap.Stringer("kind", c.Kind)),
		verifier:      opts.Verifier,
		verifyTimeout: opts.VerifyTimeout,
		maxAttempts:   opts.MaxAttempts,
	}
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Component() *editor.Component {
	return e.comp
}

// Recovering reports whether the engine still waits for the instance to be
// attached so its markup can be inspected.
func (e *Engine) Recovering() bool {
	return e.recovering
}

// Mount establishes the initial state from the loaded markup.
func (e *Engine) Mount() {
	e.attempts = 0
	e.recovering = false
	e.sync("mount")
}

// Retry repeats a failed recovery on a lifecycle event, up to the configured
// number of attempts.
func (e *Engine) Retry(reason string) {
	if !e.recovering {
		return
	}

	if e.attempts >= e.maxAttempts {
		e.logger.Warn("giving up markup recovery",
			zap.String("event", reason), zap.Int("attempts", e.attempts))
		e.recovering = false
		return
	}

	e.attempts++
	e.sync(reason)
}

// Rerender is the explicit re-render lifecycle event.
func (e *Engine) Rerender() {
	if e.recovering {
		e.Retry("rerender")
		return
	}

	e.render()
}

func (e *Engine) attached() bool {
	f := e.host.Frame()
	if f == nil || f.Destroyed() || e.comp.Node == nil {
		return false
	}

	return editor.IsAncestorOrSelf(f.Body(), e.comp.Node)
}

func (e *Engine) sync(reason string) {
	if !e.attached() {
		e.logger.Debug("instance not attached, deferring recovery", zap.String("event", reason))
		e.recovering = true
		return
	}
	e.recovering = false

	props := e.comp.Props
	found, fromDOM := e.recoverValue()

	if !component.Populated(props) && found.IsSome() {
		next, err := withRecovered(props, found.Get())
		if err != nil {
			e.logger.Warn("recovered value rejected", zap.String("value", found.Get()), zap.Error(err))
		} else {
			e.logger.Debug("recovered value from markup", zap.String("value", found.Get()))
			e.comp.Props = next
			props = next
			e.render()
			e.host.Changed(e.comp)
		}
	}

	switch p := props.(type) {
	case component.ImageProps:
		switch {
		case p.Src.IsNone():
			e.setState(Empty, component.View{})
		case fromDOM && found.GetOr("") == p.Src.Get():
			// A rendered <img> is already showing this source.
			e.setState(Populated, component.View{})
		default:
			e.verify(p.Src.Get())
			e.render()
		}
	default:
		e.state = stateOf(props)
	}

	if !e.canonical() {
		e.render()
	}
}

// canonical reports whether the element is exactly what the serializer
// produces for the current properties.
func (e *Engine) canonical() bool {
	want, err := component.Render(e.comp.Props, e.comp.View)
	if err != nil {
		return true
	}

	var have, rendered bytes.Buffer
	if err := html.Render(&have, e.comp.Node); err != nil {
		return true
	}
	if err := html.Render(&rendered, want); err != nil {
		return true
	}

	return liveIDs.ReplaceAllString(have.String(), "") == rendered.String()
}

var liveIDs = regexp.MustCompile(` ` + component.AttrID + `="[^"]*"`)

// recoverValue searches the rendered subtree for the populated form, then the
// child component models. fromDOM is set when the value came from a rendered
// child rather than a retained attribute or a model.
func (e *Engine) recoverValue() (found option.Option[string], fromDOM bool) {
	s := goquery.NewDocumentFromNode(e.comp.Node).Selection

	switch e.comp.Kind {
	case component.ImagePlaceholder:
		img := s.Find("img[src]").First()
		if img.Length() > 0 {
			if v := option.NonEmpty(img.AttrOr("src", "")); v.IsSome() {
				return v, true
			}
		}
		if v := component.FindImageSource(s); v.IsSome() {
			return v, false
		}
		return childAttr(e.comp, editor.TypeImage, "src"), false
	case component.YouTubeEmbed:
		if v := option.NonEmpty(s.AttrOr(component.AttrVideoID, "")); v.IsSome() {
			return v, true
		}
		if src, ok := s.Find("iframe[src]").First().Attr("src"); ok {
			if id, ok := component.ExtractVideoID(src); ok {
				return option.Some(id), true
			}
		}
		return option.None[string](), false
	case component.LinkButton, component.TextLink:
		if href := s.AttrOr("href", ""); component.IsResolvableHref(href) {
			return option.Some(href), true
		}
		return childAttr(e.comp, editor.TypeLink, "href"), false
	}

	return option.None[string](), false
}

func childAttr(c *editor.Component, typ, key string) option.Option[string] {
	for _, ch := range c.Children {
		if ch.Type == typ {
			if v := option.NonEmpty(ch.Attrs[key]); v.IsSome() {
				return v
			}
		}
		if v := childAttr(ch, typ, key); v.IsSome() {
			return v
		}
	}

	return option.None[string]()
}

func withRecovered(p component.Props, value string) (component.Props, error) {
	switch p.(type) {
	case component.ImageProps:
		return component.SetTrait(p, "src", value)
	case component.YouTubeProps:
		return component.SetTrait(p, "video-id", value)
	case component.ButtonProps, component.TextLinkProps:
		return component.SetTrait(p, "href", value)
	}

	return p, nil
}

func (e *Engine) setState(s State, v component.View) {
	e.state = s
	if e.comp.View == v {
		return
	}

	e.comp.View = v
	e.render()
}

// render replaces the element with the serializer's output and refreshes the
// attribute mirror of the component.
func (e *Engine) render() {
	node, err := component.Render(e.comp.Props, e.comp.View)
	if err != nil {
		e.logger.Warn("render failed", zap.Error(err))
		return
	}

	attrs := make(map[string]string, len(node.Attr))
	for _, a := range node.Attr {
		attrs[a.Key] = a.Val
	}
	e.comp.Attrs = attrs

	if !e.attached() {
		e.logger.Debug("instance not attached, render skipped")
		return
	}

	e.host.ReplaceNode(e.comp, node)
}
