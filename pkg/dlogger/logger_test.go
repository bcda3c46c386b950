package dlogger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetLogger(t *testing.T) {
	l, err := GetLogger(LogLevelInfo)
	require.NoError(t, err)
	require.NotNil(t, l)

	l, err = GetLogger(LogLevelNone)
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = GetLogger("bogus")
	assert.Error(t, err)
}

func TestGetLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := GetLoggerWithWriter(LogLevelDebug, &buf)
	require.NoError(t, err)

	l.Debug("captured entry", zap.String("key", "value"))
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.Contains(t, out, `"captured entry"`)
	assert.Contains(t, out, `"key":"value"`)
	assert.Contains(t, out, `"debug"`)

	_, err = GetLoggerWithWriter("bogus", &buf)
	assert.Error(t, err)
}

func TestMustGetLogger(t *testing.T) {
	assert.NotNil(t, MustGetLogger(LogLevelInfo))
	assert.Panics(t, func() {
		_ = MustGetLogger("bogus")
	})
}
