// Package editor models the host side of the page builder: the canvas frame,
// the component tree, selection and the lifecycle hooks extensions subscribe to.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/bgraf/baukasten/component"
)

var (
	ErrFrameNotReady   = errors.New("canvas frame not ready")
	ErrNoSuchComponent = errors.New("no such component")
	ErrUnknownDevice   = errors.New("unknown device")
)

type Hook int

const (
	HookFrameLoad Hook = iota + 1
	HookRTEEnable
	HookComponentAdd
	HookComponentSelected
	HookComponentUpdate
	HookContentChanged
)

// HookFunc receives the editor and, where the hook concerns one, the component.
type HookFunc func(ed *Editor, c *Component)

type Device struct {
	Name   string
	Width  float64
	Height float64
}

var Devices = map[string]Device{
	"desktop": {Name: "desktop", Width: 1280, Height: 800},
	"tablet":  {Name: "tablet", Width: 768, Height: 1024},
	"mobile":  {Name: "mobile", Width: 375, Height: 667},
}

type Options struct {
	Registry     *component.Registry
	Logger       *zap.Logger
	ReadyTimeout time.Duration
	Device       string
}

// Editor owns the canvas frame and the component tree. All access happens on
// the editor loop, that is inside Do. Async continuations run there as well, so
// while Async work is in flight no caller may touch the editor outside Do. A
// single goroutine may skip Do only when nothing is in flight, for example
// after Wait.
type Editor struct {
	mu sync.Mutex

	registry *component.Registry
	logger   *zap.Logger
	timeout  time.Duration

	frame      *Frame
	generation int
	device     Device

	roots  []*Component
	byID   map[string]*Component
	byNode map[*html.Node]*Component

	selected *Component
	rte      *Component
	toolbar  *html.Node
	actions  []ToolbarAction

	hooks map[Hook][]HookFunc

	changes     int
	savedAt     int
	dispatching bool
	deferred    []func()
	navigations []string

	readyMu sync.Mutex
	readyCh chan struct{}

	wg sync.WaitGroup
}

func New(opts Options) *Editor {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = component.NewDefaultRegistry()
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 5 * time.Second
	}

	device, ok := Devices[opts.Device]
	if !ok {
		device = Devices["desktop"]
	}

	return &Editor{
		registry: opts.Registry,
		logger:   opts.Logger.Named("editor"),
		timeout:  opts.ReadyTimeout,
		device:   device,
		byID:     make(map[string]*Component),
		byNode:   make(map[*html.Node]*Component),
		hooks:    make(map[Hook][]HookFunc),
		readyCh:  make(chan struct{}),
	}
}

func (e *Editor) Registry() *component.Registry {
	return e.registry
}

func (e *Editor) Logger() *zap.Logger {
	return e.logger
}

// Frame returns the current canvas frame, nil before the first load.
func (e *Editor) Frame() *Frame {
	return e.frame
}

func (e *Editor) Device() Device {
	return e.device
}

// On subscribes fn to a lifecycle hook.
func (e *Editor) On(h Hook, fn HookFunc) {
	e.hooks[h] = append(e.hooks[h], fn)
}

func (e *Editor) emit(h Hook, c *Component) {
	for _, fn := range e.hooks[h] {
		fn(e, c)
	}
}

// Do runs fn on the editor loop.
func (e *Editor) Do(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn()
}

// Async runs work on its own goroutine, outside the editor loop. The
// continuation work returns, if any, runs inside Do afterwards, so it never
// overlaps with a caller that holds the loop.
func (e *Editor) Async(work func() func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		if cont := work(); cont != nil {
			e.Do(cont)
		}
	}()
}

// Wait blocks until all Async work and its continuations finished. It must not
// be called from inside Do.
func (e *Editor) Wait() {
	e.wg.Wait()
}

// Ready resolves once the current frame's document and head are attachable.
func (e *Editor) Ready(ctx context.Context) (*Frame, error) {
	e.readyMu.Lock()
	ch := e.readyCh
	e.readyMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	select {
	case <-ch:
		e.readyMu.Lock()
		defer e.readyMu.Unlock()
		return e.frame, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrFrameNotReady, ctx.Err())
	}
}

func (e *Editor) markReady() {
	e.readyMu.Lock()
	defer e.readyMu.Unlock()

	select {
	case <-e.readyCh:
		// Already resolved by an earlier frame.
	default:
		close(e.readyCh)
	}
}

// Load replaces the document with markup and loads a fresh frame.
func (e *Editor) Load(markup string) error {
	e.clearModel()
	return e.loadFrame(markup)
}

// Reload recreates the frame from the live document, keeping component models.
func (e *Editor) Reload() error {
	if e.frame == nil {
		return ErrFrameNotReady
	}

	markup, err := e.liveMarkup()
	if err != nil {
		return err
	}

	return e.loadFrame(markup)
}

// SetDevice switches the viewport, which reloads the frame.
func (e *Editor) SetDevice(name string) error {
	device, ok := Devices[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}

	e.device = device
	if e.frame == nil {
		return nil
	}

	return e.Reload()
}

func (e *Editor) clearModel() {
	e.roots = nil
	e.byID = make(map[string]*Component)
	e.byNode = make(map[*html.Node]*Component)
	e.selected = nil
	e.rte = nil
	e.toolbar = nil
}

func (e *Editor) loadFrame(markup string) error {
	e.readyMu.Lock()
	e.generation++
	frame, err := newFrame(markup, e.generation, Rect{W: e.device.Width, H: e.device.Height}, e.logger)
	if err != nil {
		e.readyMu.Unlock()
		return err
	}

	if e.frame != nil {
		e.frame.destroy()
	}
	e.frame = frame
	e.readyMu.Unlock()

	e.rte = nil
	e.toolbar = nil

	added := e.index()

	e.frame.AddEventListener(EventClick, false, "editor", e.onCanvasClick)

	e.markReady()

	e.logger.Debug("frame loaded",
		zap.Int("generation", frame.generation),
		zap.String("device", e.device.Name),
		zap.Int("components", len(e.byID)))

	e.emit(HookFrameLoad, nil)
	for _, c := range added {
		e.emit(HookComponentAdd, c)
	}

	return nil
}

// Changed records a document change for autosave and undo tracking.
func (e *Editor) Changed(c *Component) {
	e.changes++
	e.emit(HookComponentUpdate, c)
}

func (e *Editor) ChangeCount() int {
	return e.changes
}

func (e *Editor) Dirty() bool {
	return e.changes != e.savedAt
}

func (e *Editor) MarkSaved() {
	e.savedAt = e.changes
}

// NotifyContentChanged tells subscribers that the document content changed in
// a way not tied to a single component.
func (e *Editor) NotifyContentChanged() {
	e.changes++
	e.emit(HookContentChanged, nil)
}
