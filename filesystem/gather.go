package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// GatherMedia walks root and returns the files with one of the given
// extensions, relative to root. Hidden directories are skipped.
func GatherMedia(root string, extensions []string) ([]string, error) {
	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !wanted[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}
		paths = append(paths, rel)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gather media in %s: %w", root, err)
	}

	return paths, nil
}
