package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgraf/baukasten/catalog"
	"github.com/bgraf/baukasten/document"
	"github.com/bgraf/baukasten/editor"
	"github.com/bgraf/baukasten/extension"
)

const landingGUID = "0b9a3c4e-6f7d-4c1e-9a55-0d2f1e3b4c5a"

const landing = `---
title: Landing
slug: landing
guid: ` + landingGUID + `
updated: 2024-03-01
tags: [spring]
---
<section><h1>Welcome</h1><div data-bk-type="faq-item" class="bk-faq-item"><button type="button" class="bk-faq-item__question">Why?</button><div class="bk-faq-item__answer"><p>Because.</p></div></div></section>
`

type okVerifier struct{}

func (okVerifier) Verify(ctx context.Context, src string) error { return nil }

func newTestAPI(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "landing.html"), []byte(landing), 0666))

	store, err := document.NewStore(dir, nil)
	require.NoError(t, err)

	blocks, err := catalog.Default()
	require.NoError(t, err)

	api := newServeAPI(store, blocks, sessionOptions{
		Editor:    editor.Options{ReadyTimeout: time.Second},
		Extension: extension.Options{Verifier: okVerifier{}},
	}, nil)

	return newRouter(api), dir
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) pageView {
	t.Helper()

	var v struct {
		Page       pageSummary `json:"page"`
		Components []struct {
			ID    string          `json:"id"`
			Type  string          `json:"type"`
			Props json.RawMessage `json:"props"`
			State string          `json:"state"`
		} `json:"components"`
		Selected string `json:"selected"`
		Dirty    bool   `json:"dirty"`
		Device   string `json:"device"`
		HTML     string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	out := pageView{Page: v.Page, Selected: v.Selected, Dirty: v.Dirty, Device: v.Device, HTML: v.HTML}
	for _, c := range v.Components {
		out.Components = append(out.Components, componentView{ID: c.ID, Type: c.Type, State: c.State})
	}

	return out
}

func componentID(t *testing.T, v pageView, typ string) string {
	t.Helper()

	for _, c := range v.Components {
		if c.Type == typ {
			return c.ID
		}
	}
	require.Failf(t, "component not found", "type %s", typ)

	return ""
}

func TestListPages(t *testing.T) {
	r, _ := newTestAPI(t)

	w := do(t, r, http.MethodGet, "/api/pages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pages []pageSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pages))
	require.Len(t, pages, 1)
	assert.Equal(t, "landing", pages[0].Slug)
	assert.Equal(t, []string{"spring"}, pages[0].Tags)

	w = do(t, r, http.MethodGet, "/api/pages?tag=autumn", nil)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestServePage(t *testing.T) {
	r, _ := newTestAPI(t)

	w := do(t, r, http.MethodGet, "/api/pages/"+landingGUID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	v := decodeView(t, w)
	assert.Equal(t, "Landing", v.Page.Title)
	assert.Equal(t, "desktop", v.Device)
	assert.False(t, v.Dirty)
	assert.Contains(t, v.HTML, `data-bk-type="faq-item"`)
	assert.NotContains(t, v.HTML, "data-bk-id")

	w = do(t, r, http.MethodGet, "/api/pages/not-a-guid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, "/api/pages/7c0f0e0e-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditAndSave(t *testing.T) {
	r, dir := newTestAPI(t)
	base := "/api/pages/" + landingGUID

	v := decodeView(t, do(t, r, http.MethodGet, base, nil))
	faq := componentID(t, v, "faq-item")

	w := do(t, r, http.MethodPost, base+"/traits", traitRequest{ID: faq, Name: "question", Value: "Why not?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	v = decodeView(t, w)
	assert.True(t, v.Dirty)
	assert.Contains(t, v.HTML, "Why not?")

	w = do(t, r, http.MethodPost, base+"/traits", traitRequest{ID: "missing", Name: "question", Value: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, base+"/select", selectRequest{ID: faq})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, faq, decodeView(t, w).Selected)

	w = do(t, r, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decodeView(t, w).Dirty)

	saved, err := os.ReadFile(filepath.Join(dir, "landing.html"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "Why not?")
	assert.Contains(t, string(saved), landingGUID)
	assert.NotContains(t, string(saved), "data-bk-id")
}

func TestAddBlockAndDevice(t *testing.T) {
	r, _ := newTestAPI(t)
	base := "/api/pages/" + landingGUID

	w := do(t, r, http.MethodPost, base+"/blocks", blockRequest{Block: "button"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	v := decodeView(t, w)
	componentID(t, v, "link-button")

	w = do(t, r, http.MethodPost, base+"/blocks", blockRequest{Block: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, base+"/device", deviceRequest{Device: "mobile"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mobile", decodeView(t, w).Device)

	w = do(t, r, http.MethodPost, base+"/device", deviceRequest{Device: "watch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCanvasHasStyles(t *testing.T) {
	r, _ := newTestAPI(t)

	w := do(t, r, http.MethodGet, "/canvas/"+landingGUID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<style id="bk-canvas-styles">`)
	assert.Contains(t, w.Body.String(), "data-bk-id")
}

func TestCatalogAndCreate(t *testing.T) {
	r, dir := newTestAPI(t)

	w := do(t, r, http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"faq"`)

	w = do(t, r, http.MethodPost, "/api/pages", createRequest{Title: "About us", Block: "hero"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.FileExists(t, filepath.Join(dir, "about-us.html"))

	w = do(t, r, http.MethodPost, "/api/pages", createRequest{Title: "About us"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/pages", createRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLivePushesChanges(t *testing.T) {
	r, _ := newTestAPI(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	base := "/api/pages/" + landingGUID
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + base + "/live"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first struct {
		Page       pageSummary `json:"page"`
		Components []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"components"`
	}
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "Landing", first.Page.Title)

	var faq string
	for _, c := range first.Components {
		if c.Type == "faq-item" {
			faq = c.ID
		}
	}
	require.NotEmpty(t, faq)

	w := do(t, r, http.MethodPost, base+"/traits", traitRequest{ID: faq, Name: "question", Value: "Live?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for {
		var next struct {
			Dirty bool   `json:"dirty"`
			HTML  string `json:"html"`
		}
		require.NoError(t, conn.ReadJSON(&next))
		if strings.Contains(next.HTML, "Live?") {
			assert.True(t, next.Dirty)
			break
		}
	}
}
