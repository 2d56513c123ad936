package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestInitWritesDatedFile(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Init("debug", "production", dir))
	require.Equal(t, logrus.DebugLevel, Logger.GetLevel())
	_, isJSON := Logger.Formatter.(*logrus.JSONFormatter)
	require.True(t, isJSON)

	Logger.Info("hello")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ".log", filepath.Ext(entries[0].Name()))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, logrus.WarnLevel, parseLevel("WARNING"))
	require.Equal(t, logrus.ErrorLevel, parseLevel("error"))
	require.Equal(t, logrus.InfoLevel, parseLevel("verbose"))
}
