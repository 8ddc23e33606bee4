package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewParsesLevel(t *testing.T) {
	l, err := New("DEBUG")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("bogus")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestHelpersPanicWithoutInit(t *testing.T) {
	InfoLogger = nil
	assert.Panics(t, func() { Info("x") })

	Init(zap.NewNop())
	assert.NotPanics(t, func() {
		Debug("a %d", 1)
		Info("b")
		Warn("c")
		Error("d")
	})
}
