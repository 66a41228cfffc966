package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int    `json:"port"`
	Token    string `json:"token"`
	Matching struct {
		ReviewThreshold float64 `json:"review_threshold"`
		Culture         string  `json:"culture"`
	} `json:"matching"`
}

func write(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "config.json5"), `{
		// comments are allowed
		port: 8222,
		token: "base",
		matching: { culture: "ghanaian" },
	}`)
	write(t, filepath.Join(dir, "config.local.json5"), `{ token: "local" }`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, 8222, config.Port)
	require.Equal(t, "local", config.Token)
	require.Equal(t, "ghanaian", config.Matching.Culture)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigWithDefaults(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "config.json5"), `{ port: 9000 }`)

	var defaults testConfig
	defaults.Port = 8222
	defaults.Matching.ReviewThreshold = 0.6
	defaults.Matching.Culture = "ghanaian"

	config, err := ReadConfigWithDefaults(filepath.Join(dir, "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, 9000, config.Port)
	require.Equal(t, 0.6, config.Matching.ReviewThreshold)
	require.Equal(t, "ghanaian", config.Matching.Culture)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.json5")
	write(t, path, `[{name: "Mensah Kofi", position: 1}]`)

	type entry struct {
		Name     string `json:"name"`
		Position int    `json:"position"`
	}
	entries, err := ReadFile[[]entry](path)
	require.NoError(t, err)
	require.Equal(t, []entry{{Name: "Mensah Kofi", Position: 1}}, entries)
}
