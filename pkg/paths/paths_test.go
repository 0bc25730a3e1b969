package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homekeep/homekeep/pkg/types"
)

func newTestPaths(t *testing.T) *Paths {
	t.Helper()
	p, err := New("/home/testuser", "/storage")
	require.NoError(t, err)
	return p
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		home        string
		storageRoot string
		wantErr     bool
	}{
		{name: "valid", home: "/home/u", storageRoot: "/s", wantErr: false},
		{name: "empty home", home: "", storageRoot: "/s", wantErr: true},
		{name: "relative home", home: "home/u", storageRoot: "/s", wantErr: true},
		{name: "empty storage root", home: "/home/u", storageRoot: "", wantErr: true},
		{name: "relative storage root", home: "/home/u", storageRoot: "s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.home, tt.storageRoot)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	p := newTestPaths(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "tilde with path", input: "~/.bashrc", want: "/home/testuser/.bashrc"},
		{name: "bare tilde", input: "~", want: "/home/testuser"},
		{name: "placeholder with path", input: Placeholder + "/.vimrc", want: "/home/testuser/.vimrc"},
		{name: "bare placeholder", input: Placeholder, want: "/home/testuser"},
		{name: "absolute passes through", input: "/etc/hosts", want: "/etc/hosts"},
		{name: "nested path", input: "~/.config/Code/User/settings.json", want: "/home/testuser/.config/Code/User/settings.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Expand(tt.input))
		})
	}
}

func TestDisplay(t *testing.T) {
	p := newTestPaths(t)

	assert.Equal(t, Placeholder+"/.bashrc", p.Display("/home/testuser/.bashrc"))
	assert.Equal(t, Placeholder, p.Display("/home/testuser"))
	assert.Equal(t, "/etc/hosts", p.Display("/etc/hosts"))
	// A sibling user's home must not be rewritten
	assert.Equal(t, "/home/testuser2/.bashrc", p.Display("/home/testuser2/.bashrc"))
}

func TestExpandDisplay_Inverse(t *testing.T) {
	p := newTestPaths(t)

	// For every live path under home, Expand(Display(p)) == p
	for _, live := range []string{
		"/home/testuser/.bashrc",
		"/home/testuser/.config/nvim/init.lua",
		"/home/testuser/.vim",
		"/home/testuser",
	} {
		assert.Equal(t, live, p.Expand(p.Display(live)), "round trip for %s", live)
	}
}

func TestStoragePath(t *testing.T) {
	p := newTestPaths(t)

	dir := "/storage/terminal/bash"
	assert.Equal(t,
		filepath.Join(dir, Placeholder, ".bashrc"),
		p.StoragePath("/home/testuser/.bashrc", dir))
	assert.Equal(t,
		filepath.Join(dir, Placeholder, ".config/fish/config.fish"),
		p.StoragePath("/home/testuser/.config/fish/config.fish", dir))
	// Non-home absolute paths are mirrored verbatim
	assert.Equal(t,
		filepath.Join(dir, "etc/hosts"),
		p.StoragePath("/etc/hosts", dir))
}

func TestStoragePath_Injective(t *testing.T) {
	p := newTestPaths(t)

	lives := []string{
		"/home/testuser/.bashrc",
		"/home/testuser/.bash_profile",
		"/home/testuser/.config/nvim/init.lua",
		"/home/testuser",
		"/etc/hosts",
		"/etc/profile",
		"/opt/tool/config",
	}

	seen := make(map[string]string)
	for _, live := range lives {
		storage := p.StoragePath(live, "/storage/x")
		prev, dup := seen[storage]
		require.False(t, dup, "storage path %s produced by both %s and %s", storage, prev, live)
		seen[storage] = live
	}
}

func TestDomainStorageDir(t *testing.T) {
	p := newTestPaths(t)

	tests := []struct {
		domain types.Domain
		want   string
	}{
		{types.Domain{Name: "arch", Kind: types.KindOS}, "/storage/os/arch"},
		{types.Domain{Name: "vscode", Kind: types.KindIDE}, "/storage/ide/vscode"},
		{types.Domain{Name: "bash", Kind: types.KindTerminal}, "/storage/terminal/bash"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.DomainStorageDir(tt.domain))
	}
}

func TestListPath(t *testing.T) {
	p := newTestPaths(t)

	assert.Equal(t, "/storage/os/arch/pacman.txt",
		p.ListPath(types.PackageManagerConfig{ConfigPath: "os/arch/pacman.txt"}))
	assert.Equal(t, "/abs/list.txt",
		p.ListPath(types.PackageManagerConfig{ConfigPath: "/abs/list.txt"}))
}
