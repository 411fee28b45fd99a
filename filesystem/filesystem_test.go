package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallFS(t *testing.T) {
	fsys := fstest.MapFS{
		"app.js":       {Data: []byte("js")},
		"fonts/a.woff": {Data: []byte("font")},
	}

	root := filepath.Join(t.TempDir(), "res")
	require.NoError(t, InstallFS(fsys, root, nil))

	data, err := os.ReadFile(filepath.Join(root, "fonts", "a.woff"))
	require.NoError(t, err)
	assert.Equal(t, "font", string(data))
	assert.FileExists(t, filepath.Join(root, "app.js"))
}

func TestCopyKeepsModTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0666))

	mod := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mod, mod))

	dst := filepath.Join(dir, "b.png")
	require.NoError(t, Copy(src, dst))

	got, err := FileModifiedTime(dst)
	require.NoError(t, err)
	assert.True(t, got.Equal(mod))

	require.Error(t, Copy(dir, dst))
}

func TestGatherMedia(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "team"), 0777))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".thumbs"), 0777))
	for _, name := range []string{"a.JPG", "team/b.png", "c.txt", ".thumbs/d.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0666))
	}

	files, err := GatherMedia(dir, []string{".jpg", ".png"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.JPG", filepath.Join("team", "b.png")}, files)

	assert.True(t, IsDirectory(dir))
	assert.False(t, IsDirectory(filepath.Join(dir, files[0])))

	_, err = GatherMedia(filepath.Join(dir, "missing"), []string{".jpg"})
	require.Error(t, err)
}

func TestDirectoryErrorsWrapCause(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.html")
	_, err := FileModifiedTime(missing)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), missing)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0666))

	err = CreateDirectoryIfNotExists(filepath.Join(file, "sub"))
	require.Error(t, err)
	var pathErr *os.PathError
	assert.True(t, errors.As(err, &pathErr))

	require.NoError(t, CreateDirectoryIfNotExists(filepath.Join(dir, "a", "b")))
	assert.True(t, IsDirectory(filepath.Join(dir, "a", "b")))

	abs, err := Abs("site")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
}
