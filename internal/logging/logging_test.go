package logging

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPathUsesXDGStateHome(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG layout only applies on linux and friends")
	}
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "dualscope", "dualscope.log"), LogPath())
}

func TestNewWithLevelWritesFile(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG layout only applies on linux and friends")
	}
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	log := NewWithLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	data, err := os.ReadFile(LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept")
	assert.NotContains(t, string(data), "dropped")
}

func TestNewWithLevelUnknownFallsBackToInfo(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOCALAPPDATA", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	log := NewWithLevel("loud")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
