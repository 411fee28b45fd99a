package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()

	assert.False(t, HasPagesDirectory())
	assert.Equal(t, "media", MediaDirectory())
	assert.Equal(t, 10*time.Second, VerifyTimeout())
	assert.Equal(t, 3, MaxAttempts())
	assert.Equal(t, 12.0, ToolbarMargin())
}

func TestInvalidValuesFallBack(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set(KeyReadyTimeout, "-1s")
	viper.Set(KeyMaxAttempts, 0)
	viper.Set(KeyToolbarMargin, -3)
	viper.Set(KeyPagesDirectory, "pages")

	assert.Equal(t, DefaultReadyTimeout(), ReadyTimeout())
	assert.Equal(t, DefaultMaxAttempts(), MaxAttempts())
	assert.Equal(t, DefaultToolbarMargin(), ToolbarMargin())
	assert.True(t, HasPagesDirectory())
	assert.Equal(t, "pages", PagesDirectory())
}
