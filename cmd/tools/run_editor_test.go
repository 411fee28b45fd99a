package tools

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEditor(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("EDITOR", "")
	_, err := LookupEditor()
	require.ErrorIs(t, err, ErrNoEditor)

	viper.Set(keyEditorConfig, "definitely-not-an-editor-binary")
	_, err = LookupEditor()
	assert.Error(t, err)
}
