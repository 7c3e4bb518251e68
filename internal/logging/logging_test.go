package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fishcrypt/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	log, err := logging.New(logging.DefaultConfig(), false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = logging.New(logging.DefaultConfig(), true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_Errors(t *testing.T) {
	_, err := logging.New(logging.Config{Level: "loud"}, false)
	assert.Error(t, err)
	_, err = logging.New(logging.Config{Format: "xml"}, false)
	assert.Error(t, err)
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fish.log")
	log, err := logging.New(logging.Config{Level: "info", Format: "json", File: path}, false)
	require.NoError(t, err)

	log.Info("key set", zap.String("target", "#chan"))
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(b))
	assert.Contains(t, line, `"msg":"key set"`)
	assert.Contains(t, line, `"target":"#chan"`)
}
