package bootstrap

import (
	"context"
	"path/filepath"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/paths"
	"github.com/homekeep/homekeep/pkg/types"
)

const zshStarter = `# Managed by homekeep. Local tweaks survive imports: this file is
# replaced by a symlink into the storage tree on first import.
export EDITOR=vim
`

const bashStarter = `# Managed by homekeep. Local tweaks survive imports: this file is
# replaced by a symlink into the storage tree on first import.
export EDITOR=vim
`

func init() {
	MustRegister("zsh", seedFile("~/.zshrc", zshStarter))
	MustRegister("bash", seedFile("~/.bashrc", bashStarter))
}

// seedFile returns a capability that creates the given rc file with
// starter content when it does not exist yet. An existing file, or an
// existing symlink from a prior import, is left untouched.
func seedFile(declared, content string) Func {
	return func(ctx context.Context, fsys types.FS, p *paths.Paths) error {
		live := p.Expand(declared)
		if _, err := fsys.Lstat(live); err == nil {
			return nil
		}
		if err := fsys.MkdirAll(filepath.Dir(live), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", declared)
		}
		if err := fsys.WriteFile(live, []byte(content), 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to seed %s", declared)
		}
		return nil
	}
}
