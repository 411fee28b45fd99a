package filesystem

import (
	"fmt"
	"io"
	"os"
)

// Copy copies a regular file, keeping its modification time.
func Copy(src, dst string) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("path '%s' does not denote a file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	mod := sourceFileStat.ModTime()
	return os.Chtimes(dst, mod, mod)
}
