// Package images checks that image sources given to placeholders can actually
// be loaded before the canvas shows them.
package images

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var ErrNotLoadable = errors.New("image not loadable")

// DefaultMaxBytes caps how much of a remote image is read while decoding.
const DefaultMaxBytes = 20 << 20

// Loader resolves image sources over HTTP, or from a media directory for
// root-relative paths, and decodes them.
type Loader struct {
	Client   *http.Client
	MaxBytes int64

	// MediaDir serves sources below MediaPrefix from disk when set.
	MediaDir string
	// MediaPrefix is the URL path MediaDir is published under, "/" when empty.
	MediaPrefix string
	// BaseURL resolves relative sources when MediaDir is not set.
	BaseURL string
}

func NewLoader(timeout time.Duration) *Loader {
	return &Loader{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: DefaultMaxBytes,
	}
}

const svgType = "image/svg+xml"

// Verify checks that src is an image a browser can show and fails with
// ErrNotLoadable if it is not. SVG documents are accepted by their content
// type or markup; raster formats only need a readable header.
func (l *Loader) Verify(ctx context.Context, src string) error {
	r, contentType, err := l.open(ctx, src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotLoadable, src, err)
	}
	defer r.Close()

	br := bufio.NewReader(io.LimitReader(r, l.limit()))

	if isSVG(contentType) {
		return nil
	}

	head, _ := br.Peek(512)
	if looksLikeSVG(head) {
		return nil
	}

	if _, _, err := image.DecodeConfig(br); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotLoadable, src, err)
	}

	return nil
}

func (l *Loader) limit() int64 {
	if l.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return l.MaxBytes
}

func isSVG(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == svgType
}

// looksLikeSVG reports whether head starts an XML document with an svg root.
func looksLikeSVG(head []byte) bool {
	head = bytes.TrimLeft(head, "\ufeff \t\r\n")
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	lower := bytes.ToLower(head)
	return bytes.Contains(lower, []byte("<svg")) && !bytes.Contains(lower, []byte("<html"))
}

// Load fetches and decodes the raster image behind src, applying its EXIF
// orientation.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	r, _, err := l.open(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotLoadable, src, err)
	}
	defer r.Close()

	img, err := imaging.Decode(io.LimitReader(r, l.limit()), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotLoadable, src, err)
	}

	return img, nil
}

// open returns the body behind src and its declared content type, guessed
// from the extension for files in MediaDir.
func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, string, error) {
	if strings.HasPrefix(src, "data:") {
		return nil, "", errors.New("data URLs are not supported")
	}

	prefix := l.MediaPrefix
	if len(prefix) == 0 {
		prefix = "/"
	}

	if len(l.MediaDir) > 0 && strings.HasPrefix(src, prefix) && !strings.HasPrefix(src, "//") {
		clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(src, prefix)))
		if strings.HasPrefix(clean, "..") {
			return nil, "", errors.New("path escapes media directory")
		}
		f, err := os.Open(filepath.Join(l.MediaDir, clean))
		if err != nil {
			return nil, "", err
		}
		return f, mime.TypeByExtension(filepath.Ext(clean)), nil
	}

	u, err := l.resolve(src)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (l *Loader) resolve(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return u.String(), nil
	}

	if len(l.BaseURL) == 0 {
		return "", errors.New("relative source without base URL")
	}

	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}

	return base.ResolveReference(u).String(), nil
}
