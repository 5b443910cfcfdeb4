package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veloverify.yml")
	require.NoError(t, os.WriteFile(path, []byte("filter:\n  preset: home_signups\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, PresetHomeSignups, cfg.Filter.Preset)
	// unnamed fields keep their defaults
	assert.Equal(t, "weekly", cfg.Grouping.Mode)
	assert.Equal(t, "Pole Number", cfg.Columns.PoleNumber)
	assert.True(t, cfg.Validation.EmailCheck)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestEnsureUserConfigSeedsFromDefault(t *testing.T) {
	dataDir := t.TempDir()
	seed := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(seed, []byte("grouping:\n  mode: monthly\n"), 0o644))

	path, err := EnsureUserConfig(dataDir, seed)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "veloverify.yml"), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "monthly", cfg.Grouping.Mode)
}

func TestEnsureUserConfigWritesDefaultsWithoutSeed(t *testing.T) {
	dataDir := t.TempDir()

	path, err := EnsureUserConfig(dataDir, filepath.Join(dataDir, "no-such-seed.yml"))
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	_, err = Resolve(cfg)
	assert.NoError(t, err)
}

func TestEnsureUserConfigKeepsExisting(t *testing.T) {
	dataDir := t.TempDir()
	existing := filepath.Join(dataDir, "veloverify.yml")
	require.NoError(t, os.WriteFile(existing, []byte("grouping:\n  mode: none\n"), 0o644))

	path, err := EnsureUserConfig(dataDir, "ignored.yml")
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Grouping.Mode)
}

func TestSaveAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veloverify.yml")

	cfg := Default()
	cfg.Grouping.Mode = "monthly"
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "monthly", loaded.Grouping.Mode)

	// second save keeps the previous file as .bak
	cfg.Grouping.Mode = "none"
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestSaveAtomicRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veloverify.yml")

	cfg := Default()
	cfg.Grouping.Mode = "fortnightly"
	err := SaveAtomic(path, cfg)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "invalid config must not reach disk")
}
