package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Abs returns the absolute form of p.
func Abs(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("absolute path of %s: %w", p, err)
	}

	return abs, nil
}

func CreateDirectoryIfNotExists(path string) error {
	if err := os.MkdirAll(path, 0777); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

func IsDirectory(path string) bool {
	fs, err := os.Stat(path)
	if err != nil {
		return false
	}

	return fs.IsDir()
}

// FileModifiedTime returns the modification time of path. Errors wrap the
// underlying os error, so errors.Is(err, os.ErrNotExist) holds for missing files.
func FileModifiedTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("modification time of %s: %w", path, err)
	}

	return fi.ModTime(), nil
}
