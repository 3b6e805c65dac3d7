package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("world", &buf, INFO)

	logger.Debug("скрыто %d", 1)
	logger.Info("чанк %d загружен", 7)
	logger.Error("ошибка")

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[INFO] [world] чанк 7 загружен")
	assert.Contains(t, out, "[ERROR] [world] ошибка")
	assert.True(t, logger.Enabled(WARN))
	assert.False(t, logger.Enabled(TRACE))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"trace":   TRACE,
		"DEBUG":   DEBUG,
		"":        INFO,
		"warning": WARN,
		" error ": ERROR,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestNewLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitLogger(dir, ERROR, DEBUG))
	defer func() {
		_ = InitLogger("", INFO, DEBUG)
	}()

	logger, err := NewLogger("engine")
	require.NoError(t, err)
	logger.Debug("в файл")
	logger.Trace("никуда")
	require.NoError(t, logger.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "engine_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "[DEBUG] [engine] в файл"))
	assert.False(t, strings.Contains(string(data), "никуда"))
}

func TestLoggerManager(t *testing.T) {
	lm := &LoggerManager{loggers: make(map[string]*Logger)}
	lm.MustGetLogger(ComponentAPI)

	a, err := lm.GetLogger(ComponentWorld)
	require.NoError(t, err)
	b := lm.MustGetLogger(ComponentWorld)
	assert.Same(t, a, b, "логгер компонента кешируется")
	assert.Equal(t, []string{"api", "world"}, lm.Components())

	require.NoError(t, lm.SetLevel(ComponentWorld, ERROR, ERROR))
	assert.False(t, a.Enabled(WARN))
	assert.Error(t, lm.SetLevel("missing", INFO, INFO))

	lm.SetLevels(TRACE, ERROR)
	assert.True(t, a.Enabled(TRACE))

	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.Components())
}
