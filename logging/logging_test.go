package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New("warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = New("loud")
	require.Error(t, err)
}

func TestContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	logger, err := New("info")
	require.NoError(t, err)

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
