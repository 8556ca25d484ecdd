package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genforge/genforge/internal/engine"
	"github.com/genforge/genforge/internal/unit"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads stubs and templates from a directory", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "stubs.hcl", `
stub "Greeting" {
  domain  = "demo"
  mode    = "snippet"
  content = "hello"
}
`)
		writeManifest(t, dir, "templates.hcl", `
template "Letter" {
  domain   = "demo"
  requires = ["Greeting"]
  content  = "${units.Greeting} world"
}
`)

		reg, err := NewLoader().Load(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"Greeting", "Letter"}, reg.Keys())

		stub, err := reg.Stub("Greeting")
		require.NoError(t, err)
		assert.Equal(t, "demo", stub.Domain)
		assert.Equal(t, "snippet", stub.Mode)

		tmpl, err := reg.Template("Letter")
		require.NoError(t, err)
		assert.Equal(t, []string{"Greeting"}, tmpl.Requires)
	})

	t.Run("loaded registry builds end to end", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "all.hcl", `
stub "Greeting" {
  content = "hello"
}

template "Letter" {
  requires = ["Greeting"]
  content  = "${units.Greeting} world"
}
`)

		reg, err := NewLoader().Load(ctx, dir)
		require.NoError(t, err)

		units, err := engine.New(reg).Build(ctx, []string{"Letter"}, true)
		require.NoError(t, err)
		require.Len(t, units, 2)
		assert.Equal(t, "hello", units[0].Content)
		assert.Equal(t, "hello world", units[1].Content)
		assert.Equal(t, unit.KindTemplate, units[1].Provenance.Kind)
	})

	t.Run("contents tuple follows declared requires order", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "all.hcl", `
stub "First" {
  content = "1"
}

stub "Second" {
  content = "2"
}

template "Joined" {
  requires = ["Second", "First"]
  content  = "${contents[0]}-${contents[1]}"
}
`)

		reg, err := NewLoader().Load(ctx, dir)
		require.NoError(t, err)

		units, err := engine.New(reg).Build(ctx, []string{"Joined"}, true)
		require.NoError(t, err)
		assert.Equal(t, "2-1", units[len(units)-1].Content)
	})

	t.Run("accepts a single file path", func(t *testing.T) {
		dir := t.TempDir()
		path := writeManifest(t, dir, "one.hcl", `
stub "Solo" {
  content = "alone"
}
`)

		reg, err := NewLoader().Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Solo"}, reg.Keys())
	})

	t.Run("rejects duplicate keys across files", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "a.hcl", `
stub "Dup" {
  content = "a"
}
`)
		writeManifest(t, dir, "b.hcl", `
template "Dup" {
  requires = []
  content  = "b"
}
`)

		_, err := NewLoader().Load(ctx, dir)
		require.Error(t, err)
		assert.ErrorContains(t, err, `duplicate key "Dup"`)
	})

	t.Run("rejects stub content that is not self-contained", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "bad.hcl", `
stub "Bad" {
  content = "${units.Other}"
}
`)

		_, err := NewLoader().Load(ctx, dir)
		require.Error(t, err)
		assert.ErrorContains(t, err, "self-contained")
	})

	t.Run("fails when no manifests exist", func(t *testing.T) {
		_, err := NewLoader().Load(ctx, t.TempDir())
		require.Error(t, err)
		assert.ErrorContains(t, err, "no .hcl manifest files")
	})

	t.Run("fails on malformed HCL", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "broken.hcl", `stub "X" {`)

		_, err := NewLoader().Load(ctx, dir)
		require.Error(t, err)
	})
}
