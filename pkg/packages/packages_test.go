package packages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/filesystem"
	"github.com/homekeep/homekeep/pkg/paths"
	"github.com/homekeep/homekeep/pkg/types"
)

// stubRunner records invocations and plays back canned outcomes keyed
// by the full rendered command line
type stubRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	s.calls = append(s.calls, cmdline)
	if err, ok := s.errs[cmdline]; ok {
		return nil, err
	}
	return []byte(s.outputs[cmdline]), nil
}

func testManager() types.PackageManagerConfig {
	return types.PackageManagerConfig{
		Name:           "pkgdb",
		ConfigPath:     "os/test/pkgdb.txt",
		Install:        "pkgdb add %s",
		Remove:         "pkgdb del %s",
		Status:         "pkgdb info %s",
		DefaultContent: "# managed packages\n",
	}
}

func newTestReconciler(t *testing.T, runner Runner) (*Reconciler, *paths.Paths) {
	t.Helper()
	tmp := t.TempDir()
	p, err := paths.New(filepath.Join(tmp, "home"), filepath.Join(tmp, "storage"))
	require.NoError(t, err)
	return New(filesystem.NewOS(), p, runner), p
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "comments and blanks dropped",
			content: "git\n# comment\n\nsnap\n",
			want:    []string{"git", "snap"},
		},
		{
			name:    "whitespace trimmed",
			content: "  git  \n\tsnap\n",
			want:    []string{"git", "snap"},
		},
		{
			name:    "duplicates kept in order",
			content: "git\nsnap\ngit\n",
			want:    []string{"git", "snap", "git"},
		},
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
		{
			name:    "only comments",
			content: "# one\n# two\n",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList([]byte(tt.content)))
		})
	}
}

func TestEnsureList(t *testing.T) {
	r, p := newTestReconciler(t, &stubRunner{})
	cfg := testManager()

	require.NoError(t, r.EnsureList(cfg))

	path := p.ListPath(cfg)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultContent, string(data))

	// An existing list is left alone
	require.NoError(t, os.WriteFile(path, []byte("git\n"), 0644))
	require.NoError(t, r.EnsureList(cfg))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "git\n", string(data))
}

func TestLoadDeclared_Missing(t *testing.T) {
	r, _ := newTestReconciler(t, &stubRunner{})

	_, err := r.LoadDeclared(testManager())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageListMissing))
}

func TestLoadDeclared(t *testing.T) {
	r, p := newTestReconciler(t, &stubRunner{})
	cfg := testManager()

	path := p.ListPath(cfg)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("git\n# tooling\nripgrep\n"), 0644))

	declared, err := r.LoadDeclared(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "ripgrep"}, declared)
}

func TestIsInstalled(t *testing.T) {
	runner := &stubRunner{
		outputs: map[string]string{
			"pkgdb info git": "git 2.43.0\n",
			// whitespace-only output does not count as installed
			"pkgdb info snap": "  \n",
		},
		errs: map[string]error{
			"pkgdb info curl": fmt.Errorf("exit status 1"),
		},
	}
	r, _ := newTestReconciler(t, runner)
	cfg := testManager()
	ctx := context.Background()

	assert.True(t, r.IsInstalled(ctx, "git", cfg))
	assert.False(t, r.IsInstalled(ctx, "snap", cfg))
	// Execution failure degrades to "not installed"
	assert.False(t, r.IsInstalled(ctx, "curl", cfg))
}

func TestPartition(t *testing.T) {
	runner := &stubRunner{
		outputs: map[string]string{
			"pkgdb info git": "git 2.43.0\n",
		},
	}
	r, _ := newTestReconciler(t, runner)

	part := r.Partition(context.Background(), []string{"git", "snap"}, testManager())
	assert.Equal(t, []string{"git"}, part.Installed)
	assert.Equal(t, []string{"snap"}, part.NotInstalled)
}

func TestPartition_PreservesOrder(t *testing.T) {
	runner := &stubRunner{
		outputs: map[string]string{
			"pkgdb info b": "b 1\n",
			"pkgdb info d": "d 1\n",
		},
	}
	r, _ := newTestReconciler(t, runner)

	part := r.Partition(context.Background(), []string{"a", "b", "c", "d"}, testManager())
	assert.Equal(t, []string{"b", "d"}, part.Installed)
	assert.Equal(t, []string{"a", "c"}, part.NotInstalled)
}

func TestInstall_PerItemFailure(t *testing.T) {
	runner := &stubRunner{
		errs: map[string]error{
			"pkgdb add foo": fmt.Errorf("exit status 1"),
		},
	}
	r, _ := newTestReconciler(t, runner)

	results := r.Install(context.Background(), []string{"foo", "bar"}, testManager())
	require.Len(t, results, 2)

	require.Error(t, results[0].Err)
	assert.True(t, errors.IsErrorCode(results[0].Err, errors.ErrCommandRun))
	assert.Equal(t, "foo", results[0].Package)

	// The failure of foo does not prevent bar
	assert.NoError(t, results[1].Err)
	assert.Contains(t, runner.calls, "pkgdb add bar")
}

func TestRemove(t *testing.T) {
	runner := &stubRunner{}
	r, _ := newTestReconciler(t, runner)

	results := r.Remove(context.Background(), []string{"git"}, testManager())
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, []string{"pkgdb del git"}, runner.calls)
}

func TestSync(t *testing.T) {
	runner := &stubRunner{
		outputs: map[string]string{
			"pkgdb info git": "git 2.43.0\n",
		},
	}
	r, p := newTestReconciler(t, runner)
	cfg := testManager()

	path := p.ListPath(cfg)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("git\nsnap\n"), 0644))

	part, results, err := r.Sync(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"git"}, part.Installed)
	assert.Equal(t, []string{"snap"}, part.NotInstalled)

	// Only the missing package is installed
	require.Len(t, results, 1)
	assert.Equal(t, "snap", results[0].Package)
	assert.NoError(t, results[0].Err)
	assert.NotContains(t, runner.calls, "pkgdb add git")
}

func TestSync_NothingMissing(t *testing.T) {
	runner := &stubRunner{
		outputs: map[string]string{
			"pkgdb info git": "git 2.43.0\n",
		},
	}
	r, p := newTestReconciler(t, runner)
	cfg := testManager()

	path := p.ListPath(cfg)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("git\n"), 0644))

	part, results, err := r.Sync(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, part.NotInstalled)
	assert.Empty(t, results)
}

func TestRenderCommand(t *testing.T) {
	argv, err := renderCommand("sudo pacman -S --noconfirm %s", "git")
	require.NoError(t, err)
	assert.Equal(t, []string{"sudo", "pacman", "-S", "--noconfirm", "git"}, argv)

	_, err = renderCommand("pacman -S", "git")
	assert.Error(t, err)

	_, err = renderCommand("cp %s %s", "git")
	assert.Error(t, err)
}

func TestInstall_Cancelled(t *testing.T) {
	runner := &stubRunner{}
	r, _ := newTestReconciler(t, runner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := r.Install(ctx, []string{"git", "snap"}, testManager())
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Error(t, res.Err)
	}
	assert.Empty(t, runner.calls)
}
