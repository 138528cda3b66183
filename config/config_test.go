package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(writeConfig(t, ""), "snake-ai.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	dir := writeConfig(t, `
window:
  width: 200
headless: true
seed: 99
checkpoint:
  load_on_start: true
`)

	cfg, err := Load(filepath.Join(dir, "snake-ai.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height, "unset keys keep defaults")
	assert.True(t, cfg.Headless)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.True(t, cfg.Checkpoint.LoadOnStart)
	assert.True(t, cfg.Checkpoint.SaveOnImprovement)
	assert.Equal(t, "model/model.gob", cfg.Checkpoint.Path)
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	dir := writeConfig(t, "window: [")
	_, err := Load(filepath.Join(dir, "snake-ai.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Window.Width = 650
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Window.Width = 60
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Stats.PlotEvery = -1
	assert.Error(t, cfg.Validate())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "snake-ai.yaml"), []byte(body), 0644))
	return dir
}
