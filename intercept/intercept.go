// Package intercept changes how the canvas reacts to clicks and mutations:
// links do not navigate, anchors show no tooltips, clicks on text select the
// text and the rich-text toolbar stays inside the viewport.
package intercept

import (
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/editor"
)

const owner = "intercept"

type Options struct {
	// ToolbarMargin is the distance kept between toolbar and viewport bottom.
	// Zero uses DefaultToolbarMargin.
	ToolbarMargin float64
	Logger        *zap.Logger
}

// Interceptor owns every listener and observer it attaches to a frame.
// Attaching again first removes what the previous attach left.
type Interceptor struct {
	opts   Options
	logger *zap.Logger

	frame     *editor.Frame
	listeners []editor.ListenerID
	titles    *TitleInvariant
	toolbar   *ToolbarPositioner
}

func New(opts Options) *Interceptor {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ToolbarMargin == 0 {
		opts.ToolbarMargin = DefaultToolbarMargin
	}

	return &Interceptor{opts: opts, logger: opts.Logger.Named("intercept")}
}

// Attach installs the interceptors on the current frame of ed.
func (i *Interceptor) Attach(ed *editor.Editor, frame *editor.Frame) {
	i.Detach()

	if frame == nil || frame.Destroyed() || frame.Body() == nil {
		i.logger.Warn("no frame to attach to")
		return
	}

	i.frame = frame
	i.listeners = []editor.ListenerID{
		frame.AddEventListener(editor.EventClick, true, owner, GuardLinks),
		frame.AddEventListener(editor.EventClick, true, owner, CorrectSelection(ed)),
	}
	i.titles = NewTitleInvariant(frame, frame.Body(), i.logger)
	i.toolbar = NewToolbarPositioner(frame, i.opts.ToolbarMargin, i.logger)

	i.logger.Debug("attached", zap.Int("generation", frame.Generation()))
}

// Detach removes everything the last Attach installed.
func (i *Interceptor) Detach() {
	if i.frame == nil {
		return
	}

	for _, id := range i.listeners {
		i.frame.RemoveEventListener(id)
	}
	if i.titles != nil {
		i.titles.Stop()
	}
	if i.toolbar != nil {
		i.toolbar.Stop()
	}

	i.frame = nil
	i.listeners = nil
	i.titles = nil
	i.toolbar = nil
}

// Frame is the frame the interceptors are attached to, if any.
func (i *Interceptor) Frame() *editor.Frame {
	return i.frame
}

func (i *Interceptor) Titles() *TitleInvariant {
	return i.titles
}

func (i *Interceptor) Toolbar() *ToolbarPositioner {
	return i.toolbar
}
