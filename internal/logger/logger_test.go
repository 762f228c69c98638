package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_BeforeInitialize(t *testing.T) {
	log = nil
	l := Get()
	require.NotNil(t, l)
	l.Info("dropped")
	assert.NoError(t, Sync())
}

func TestInitialize_FileOutput(t *testing.T) {
	t.Cleanup(func() { log = nil })

	path := filepath.Join(t.TempDir(), "logs", "syncrate.log")
	require.NoError(t, Initialize(Config{Level: "debug", Env: "production", Output: path}))

	Get().Debug("hello from test")
	_ = Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"hello from test"`), "log file: %s", data)
}

func TestInitialize_LevelFilters(t *testing.T) {
	t.Cleanup(func() { log = nil })

	path := filepath.Join(t.TempDir(), "warn.log")
	require.NoError(t, Initialize(Config{Level: "warn", Env: "production", Output: path}))

	Get().Info("quiet")
	Get().Warn("loud")
	_ = Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}
