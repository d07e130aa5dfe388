package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	workingDirectory, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(workingDirectory)
	t.Setenv("HOME", t.TempDir())

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "localhost", config.MopidyHost)
	assert.Equal(t, "6680", config.MopidyPort)
	assert.True(t, config.MopidyDiscover)
	assert.Equal(t, "INFO", config.LogLevel)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "mopify.toml")
	contents := `
[server]
port = 9090

[mopidy]
host = "music.local"
port = "6681"
`
	require.NoError(t, os.WriteFile(configFile, []byte(contents), 0600))
	t.Setenv("MOPIFY_SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("MOPIFY_MOPIDY_PORT", "7000")

	config, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Port)
	assert.Equal(t, "music.local", config.MopidyHost)
	assert.Equal(t, "7000", config.MopidyPort)
	assert.Equal(t, "client-id", config.SpotifyClientID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
