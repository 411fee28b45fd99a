package inject

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bgraf/baukasten/editor"
)

func TestInjectIsIdempotent(t *testing.T) {
	f, err := editor.NewFrame("<p>x</p>", editor.Rect{W: 800, H: 600}, nil)
	require.NoError(t, err)

	in := New(nil)
	require.NoError(t, in.Inject(f))
	require.NoError(t, in.Inject(f))

	styles := f.Find("style#" + StyleID)
	require.Equal(t, 1, styles.Length())
	assert.Equal(t, in.CSS(), styles.Text())
	assert.Equal(t, 1, f.Find("head style").Length())
}

func TestInjectReplacesStaleContent(t *testing.T) {
	f, err := editor.NewFrame("<p>x</p>", editor.Rect{}, nil)
	require.NoError(t, err)

	stale := &Injector{canvas: ".old{}", logger: zap.NewNop()}
	require.NoError(t, stale.Inject(f))

	in := New(nil)
	require.NoError(t, in.Inject(f))

	assert.NotContains(t, f.Find("style#"+StyleID).Text(), ".old")
}

func TestInjectWithoutFrame(t *testing.T) {
	require.ErrorIs(t, New(nil).Inject(nil), editor.ErrFrameNotReady)
}

func TestStylesheets(t *testing.T) {
	in := New(nil)

	assert.Contains(t, in.CSS(), ".bk-image-placeholder--error")
	assert.Contains(t, in.CSS(), ".bk-rte-toolbar")
	assert.NotContains(t, in.CSS(), "/*")

	assert.Contains(t, in.Published(), ".bk-faq-item")
	assert.NotContains(t, in.Published(), ".bk-rte-toolbar")
	assert.Less(t, len(in.Published()), len(in.CSS()))
}

func TestLoadOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"styles/20-b.css":       {Data: []byte("b{}")},
		"styles/10-a.css":       {Data: []byte("a{}")},
		"styles/" + editingSheet: {Data: []byte("e{}")},
	}

	canvas, published, err := load(fsys)
	require.NoError(t, err)
	assert.Equal(t, "a{}\nb{}\ne{}\n", canvas)
	assert.Equal(t, "a{}\nb{}\n", published)
}
