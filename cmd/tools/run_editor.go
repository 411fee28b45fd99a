package tools

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/viper"
)

var ErrNoEditor = errors.New("no editor configured")

// RunEditor runs a user configured editor on the given path.
// User editor is retrieved via configuration `tools.editor`. If the configuration
// is not set, the environment variable EDITOR is used.
func RunEditor(file string) error {
	editorName, err := LookupEditor()
	if err != nil {
		return err
	}

	cmd := exec.Command(editorName, file)

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", editorName, err)
	}

	return nil
}

const keyEditorConfig = "tools.editor"

// LookupEditor resolves the configured editor to an executable.
func LookupEditor() (string, error) {
	if viper.IsSet(keyEditorConfig) {
		return exec.LookPath(viper.GetString(keyEditorConfig))
	}

	editor, ok := os.LookupEnv("EDITOR")
	if !ok || len(editor) == 0 {
		return "", fmt.Errorf("%w: set tools.editor or EDITOR", ErrNoEditor)
	}

	return exec.LookPath(editor)
}
