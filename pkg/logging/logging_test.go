package logging

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	require.Equal(t, logrus.PanicLevel, ParseLevel("silent"))
	require.Equal(t, logrus.ErrorLevel, ParseLevel("nonsense"))
}

func TestFileLogger_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	closer, logger, err := FileLogger(logrus.InfoLevel, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	require.Equal(t, logrus.InfoLevel, logger.GetLevel())
	logger.Info("hello")
	require.FileExists(t, path)
}
