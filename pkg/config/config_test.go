package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.StorageRoot)
	assert.Empty(t, cfg.Family)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homekeep.toml")
	require.NoError(t, os.WriteFile(path, []byte("storage_root = \"/srv/dotfiles\"\nfamily = \"arch\"\n"), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/dotfiles", cfg.StorageRoot)
	assert.Equal(t, "arch", cfg.Family)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homekeep.toml")
	require.NoError(t, os.WriteFile(path, []byte("family = \"arch\"\n"), 0644))

	t.Setenv("HOMEKEEP_FAMILY", "ubuntu")
	t.Setenv("HOMEKEEP_STORAGE_ROOT", "/env/root")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "ubuntu", cfg.Family)
	assert.Equal(t, "/env/root", cfg.StorageRoot)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homekeep.toml")
	require.NoError(t, os.WriteFile(path, []byte("storage_root = [broken"), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestResolveStorageRoot_Explicit(t *testing.T) {
	cfg := &Config{StorageRoot: "/srv/dotfiles"}

	root, usedFallback, err := cfg.ResolveStorageRoot()
	require.NoError(t, err)
	assert.Equal(t, "/srv/dotfiles", root)
	assert.False(t, usedFallback)
}

func TestResolveStorageRoot_ExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := &Config{StorageRoot: "~/dotfiles"}
	root, _, err := cfg.ResolveStorageRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "dotfiles"), root)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "x"), expandHome("~/x"))
	assert.Equal(t, "/abs", expandHome("/abs"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
	assert.Equal(t, "", expandHome(""))
}
