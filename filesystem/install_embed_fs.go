package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// InstallFS writes every file of fsys below root.
func InstallFS(fsys fs.FS, root string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	return installFSDirectory(fsys, ".", root, logger)
}

func installFSDirectory(fsys fs.FS, fsDirectory string, targetDirectory string, logger *zap.Logger) error {
	if err := CreateDirectoryIfNotExists(targetDirectory); err != nil {
		return fmt.Errorf("creating root directory '%s' failed: %w", targetDirectory, err)
	}

	entries, err := fs.ReadDir(fsys, fsDirectory)
	if err != nil {
		return fmt.Errorf("could not read embedded FS: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			// Descent into subdirectory
			subDirectory := path.Join(fsDirectory, entry.Name())
			subTargetDirectory := filepath.Join(targetDirectory, entry.Name())
			if err = installFSDirectory(fsys, subDirectory, subTargetDirectory, logger); err != nil {
				return fmt.Errorf("could not install subdirectory: %w", err)
			}
		} else {
			// Install file
			fsFile := path.Join(fsDirectory, entry.Name())
			targetFile := filepath.Join(targetDirectory, entry.Name())

			logger.Debug("installing", zap.String("file", fsFile))

			content, err := fs.ReadFile(fsys, fsFile)
			if err != nil {
				return fmt.Errorf("could not read embedded file '%s': %w", fsFile, err)
			}

			if err := os.WriteFile(targetFile, content, 0666); err != nil {
				return fmt.Errorf("could not write file '%s': %w", targetFile, err)
			}
		}
	}

	return nil
}
