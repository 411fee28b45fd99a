// Package extension installs the custom components, the style injector and
// the interceptors into an editor.
package extension

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bgraf/baukasten/component"
	"github.com/bgraf/baukasten/editor"
	"github.com/bgraf/baukasten/inject"
	"github.com/bgraf/baukasten/intercept"
	"github.com/bgraf/baukasten/modelsync"
)

// LinkAction is the toolbar action for turning a selection into a link.
var LinkAction = editor.ToolbarAction{Name: "link", Label: "Link"}

type Options struct {
	Verifier      modelsync.Verifier
	MaxAttempts   int
	VerifyTimeout time.Duration
	ToolbarMargin float64
	Logger        *zap.Logger
}

// Extension is the installed extension of one editor.
type Extension struct {
	ed     *editor.Editor
	opts   Options
	logger *zap.Logger

	injector    *inject.Injector
	interceptor *intercept.Interceptor
	engines     map[string]*modelsync.Engine
}

// Install waits until the editor's frame is ready, then hooks the extension
// into the editor and sets up the current frame and its components.
func Install(ctx context.Context, ed *editor.Editor, opts Options) (*Extension, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	frame, err := ed.Ready(ctx)
	if err != nil {
		return nil, fmt.Errorf("install extension: %w", err)
	}

	x := &Extension{
		ed:          ed,
		opts:        opts,
		logger:      opts.Logger.Named("extension"),
		injector:    inject.New(opts.Logger),
		interceptor: intercept.New(intercept.Options{ToolbarMargin: opts.ToolbarMargin, Logger: opts.Logger}),
		engines:     make(map[string]*modelsync.Engine),
	}

	x.registerTypes(ed.Registry())

	if ed.HasToolbarAction(LinkAction.Name) {
		x.logger.Warn("toolbar action already registered", zap.String("action", LinkAction.Name))
	} else if err := ed.AddToolbarAction(LinkAction); err != nil {
		x.logger.Warn("could not register toolbar action", zap.Error(err))
	}

	ed.On(editor.HookFrameLoad, x.onFrameLoad)
	ed.On(editor.HookComponentAdd, x.onComponentAdd)
	ed.On(editor.HookContentChanged, x.onContentChanged)

	x.setupFrame(ed, frame)
	for _, c := range ed.CustomComponents() {
		x.onComponentAdd(ed, c)
	}

	return x, nil
}

func (x *Extension) registerTypes(r *component.Registry) {
	for _, k := range component.Kinds {
		if r.Has(k.Tag()) {
			continue
		}

		if err := r.Register(component.DefinitionFor(k)); err != nil {
			x.logger.Warn("could not register component type", zap.Stringer("kind", k), zap.Error(err))
		}
	}
}

func (x *Extension) setupFrame(ed *editor.Editor, frame *editor.Frame) {
	if err := x.injector.Inject(frame); err != nil {
		x.logger.Warn("style injection failed", zap.Error(err))
	}

	x.interceptor.Attach(ed, frame)
}

func (x *Extension) onFrameLoad(ed *editor.Editor, _ *editor.Component) {
	x.setupFrame(ed, ed.Frame())

	for id, e := range x.engines {
		if _, ok := ed.Component(id); !ok {
			delete(x.engines, id)
			continue
		}
		e.Retry("frame-load")
	}
}

func (x *Extension) onComponentAdd(ed *editor.Editor, c *editor.Component) {
	if !c.IsCustom() {
		return
	}

	if _, ok := x.engines[c.ID]; ok {
		return
	}

	e := modelsync.New(ed, c, modelsync.Options{
		Verifier:      x.opts.Verifier,
		MaxAttempts:   x.opts.MaxAttempts,
		VerifyTimeout: x.opts.VerifyTimeout,
		Logger:        x.opts.Logger,
	})
	x.engines[c.ID] = e
	e.Mount()
}

func (x *Extension) onContentChanged(ed *editor.Editor, _ *editor.Component) {
	for id, e := range x.engines {
		if _, ok := ed.Component(id); !ok {
			delete(x.engines, id)
			continue
		}
		e.Retry("content-changed")
	}
}

// Engine returns the sync engine of a custom component.
func (x *Extension) Engine(id string) (*modelsync.Engine, bool) {
	e, ok := x.engines[id]
	return e, ok
}

// SetTrait applies a trait panel edit to a custom component.
func (x *Extension) SetTrait(id, name, value string) ([]modelsync.Change, error) {
	e, ok := x.engines[id]
	if !ok {
		return nil, fmt.Errorf("set trait of %q: %w", id, editor.ErrNoSuchComponent)
	}

	return e.SetTrait(name, value)
}

// Rerender re-renders every custom component.
func (x *Extension) Rerender() {
	for _, e := range x.engines {
		e.Rerender()
	}
}

func (x *Extension) Injector() *inject.Injector {
	return x.injector
}

func (x *Extension) Interceptor() *intercept.Interceptor {
	return x.interceptor
}
