package serve

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/document"
	"github.com/bgraf/baukasten/editor"
	"github.com/bgraf/baukasten/extension"
)

// session is one page opened in an editor. All access to ed goes through
// ed.Do.
type session struct {
	page *document.Page
	ed   *editor.Editor
	ext  *extension.Extension

	watchMu  sync.Mutex
	watchers map[chan struct{}]struct{}
}

// watch returns a channel that receives a signal after each change of the
// session. Signals coalesce while the watcher is busy.
func (sess *session) watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	sess.watchMu.Lock()
	sess.watchers[ch] = struct{}{}
	sess.watchMu.Unlock()

	return ch, func() {
		sess.watchMu.Lock()
		delete(sess.watchers, ch)
		sess.watchMu.Unlock()
	}
}

func (sess *session) notify(*editor.Editor, *editor.Component) {
	sess.watchMu.Lock()
	defer sess.watchMu.Unlock()

	for ch := range sess.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

type sessionOptions struct {
	Editor    editor.Options
	Extension extension.Options
}

type sessions struct {
	mu     sync.Mutex
	byGUID map[uuid.UUID]*session
	opts   sessionOptions
	logger *zap.Logger
}

func newSessions(opts sessionOptions, logger *zap.Logger) *sessions {
	return &sessions{
		byGUID: make(map[uuid.UUID]*session),
		opts:   opts,
		logger: logger,
	}
}

// open returns the session of page, loading it into a new editor on first use.
func (s *sessions) open(ctx context.Context, page *document.Page) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.byGUID[page.GUID]; ok {
		return sess, nil
	}

	edOpts := s.opts.Editor
	edOpts.Logger = s.logger.With(zap.Stringer("page", page.GUID))
	ed := editor.New(edOpts)

	extOpts := s.opts.Extension
	extOpts.Logger = edOpts.Logger

	sess := &session{
		page:     page,
		ed:       ed,
		watchers: make(map[chan struct{}]struct{}),
	}

	var err error
	ed.Do(func() {
		if err = ed.Load(page.Body); err != nil {
			return
		}
		if sess.ext, err = extension.Install(ctx, ed, extOpts); err != nil {
			return
		}

		for _, h := range []editor.Hook{
			editor.HookFrameLoad,
			editor.HookComponentSelected,
			editor.HookComponentUpdate,
			editor.HookContentChanged,
		} {
			ed.On(h, sess.notify)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open editor for %s: %w", page.Slug, err)
	}

	s.byGUID[page.GUID] = sess

	s.logger.Info("opened page", zap.String("slug", page.Slug))

	return sess, nil
}

func (s *sessions) get(guid uuid.UUID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byGUID[guid]
	return sess, ok
}
