package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := `
stub "Greeting" {
  domain  = "demo"
  content = "hello"
}

template "Letter" {
  domain   = "demo"
  requires = ["Greeting"]
  content  = "${units.Greeting} world"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.hcl"), []byte(manifest), 0o644))
	return dir
}

func TestAppRunWritesUnits(t *testing.T) {
	manifestDir := writeTestManifest(t)
	outDir := t.TempDir()

	cfg, err := NewConfig(Config{
		ManifestPath: manifestDir,
		Targets:      []string{"Letter"},
		OutputDir:    outDir,
		LogFormat:    "text",
		LogLevel:     "error",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	a := New(&out, cfg)
	require.NoError(t, a.Run(context.Background()))

	greeting, err := os.ReadFile(filepath.Join(outDir, "Greeting"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(greeting))

	letter, err := os.ReadFile(filepath.Join(outDir, "Letter"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(letter))
}

func TestAppRunPrintsToWriter(t *testing.T) {
	manifestDir := writeTestManifest(t)

	cfg, err := NewConfig(Config{
		ManifestPath: manifestDir,
		LogFormat:    "text",
		LogLevel:     "error",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	a := New(&out, cfg)
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "hello world")
	assert.Contains(t, out.String(), "--- Greeting")
}

func TestAppDefaultsToAllKeys(t *testing.T) {
	manifestDir := writeTestManifest(t)

	cfg, err := NewConfig(Config{
		ManifestPath: manifestDir,
		LogFormat:    "text",
		LogLevel:     "error",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	a := New(&out, cfg)
	require.NoError(t, a.Run(context.Background()))

	_, cached := a.Engine().Unit("Letter")
	assert.True(t, cached)
	_, cached = a.Engine().Unit("Greeting")
	assert.True(t, cached)
}

func TestNewPanicsOnMissingManifests(t *testing.T) {
	cfg, err := NewConfig(Config{
		ManifestPath: t.TempDir(),
		LogLevel:     "error",
	})
	require.NoError(t, err)

	assert.Panics(t, func() { New(&bytes.Buffer{}, cfg) })
}

func TestNewConfigValidation(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.Error(t, err)
}
