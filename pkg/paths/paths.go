// Package paths provides the translation between live filesystem
// locations and the portable storage representation. All conversions
// run against an explicit context (home directory + storage root)
// rather than ambient process state, so tests can substitute isolated
// roots without environment mutation.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/types"
)

// Placeholder is the portable stand-in for the user's home directory
// inside canonical paths and the storage tree. Stored configuration
// never embeds a real home path, so the tree relocates across
// machines and users.
const Placeholder = "__home__"

// Kind directories under the storage root
const (
	OSDir       = "os"
	IDEDir      = "ide"
	TerminalDir = "terminal"
)

// Paths is the explicit path context threaded through the reconcilers
type Paths struct {
	home        string
	storageRoot string
}

// New creates a path context for the given home directory and storage
// root. Both must be absolute.
func New(home, storageRoot string) (*Paths, error) {
	if home == "" || !filepath.IsAbs(home) {
		return nil, errors.Newf(errors.ErrInvalidInput, "home directory must be absolute, got %q", home)
	}
	if storageRoot == "" || !filepath.IsAbs(storageRoot) {
		return nil, errors.Newf(errors.ErrInvalidInput, "storage root must be absolute, got %q", storageRoot)
	}
	return &Paths{
		home:        filepath.Clean(home),
		storageRoot: filepath.Clean(storageRoot),
	}, nil
}

// NewFromEnv creates a path context using the current user's home
func NewFromEnv(storageRoot string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		if home = os.Getenv("HOME"); home == "" {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to determine home directory")
		}
	}
	return New(home, storageRoot)
}

// Home returns the context home directory
func (p *Paths) Home() string {
	return p.home
}

// StorageRoot returns the context storage root
func (p *Paths) StorageRoot() string {
	return p.storageRoot
}

// Expand converts a declared or canonical path into a live absolute
// path. A leading ~ or placeholder token resolves against the context
// home; the bare token (or ~) expands to the home itself. Anything
// else passes through unchanged.
func (p *Paths) Expand(in string) string {
	for _, prefix := range []string{"~", Placeholder} {
		if in == prefix {
			return p.home
		}
		if strings.HasPrefix(in, prefix+"/") {
			return filepath.Join(p.home, in[len(prefix)+1:])
		}
	}
	return in
}

// Display converts a live path into its canonical portable form,
// replacing a leading home prefix with the placeholder token. For all
// paths under home, Expand(Display(p)) == p.
func (p *Paths) Display(live string) string {
	if live == p.home {
		return Placeholder
	}
	if rel, ok := p.relToHome(live); ok {
		return Placeholder + "/" + filepath.ToSlash(rel)
	}
	return live
}

// StoragePath maps a live path to its location under storageDir.
// Paths under home land in the placeholder subtree; other absolute
// paths are mirrored verbatim, preserving their directory structure.
// Distinct live paths always map to distinct storage paths.
func (p *Paths) StoragePath(live, storageDir string) string {
	if live == p.home {
		return filepath.Join(storageDir, Placeholder)
	}
	if rel, ok := p.relToHome(live); ok {
		return filepath.Join(storageDir, Placeholder, rel)
	}
	return filepath.Join(storageDir, live)
}

// DomainStorageDir returns the storage directory owned by a domain:
// <root>/<kind>/<name>
func (p *Paths) DomainStorageDir(d types.Domain) string {
	return filepath.Join(p.storageRoot, kindDir(d.Kind), d.Name)
}

// ListPath resolves a storage-root-relative package list path
func (p *Paths) ListPath(cfg types.PackageManagerConfig) string {
	if filepath.IsAbs(cfg.ConfigPath) {
		return filepath.Clean(cfg.ConfigPath)
	}
	return filepath.Join(p.storageRoot, cfg.ConfigPath)
}

// relToHome returns the path relative to home when live is strictly
// under the home directory
func (p *Paths) relToHome(live string) (string, bool) {
	cleaned := filepath.Clean(live)
	prefix := p.home + string(filepath.Separator)
	if !strings.HasPrefix(cleaned, prefix) {
		return "", false
	}
	return cleaned[len(prefix):], true
}

func kindDir(k types.Kind) string {
	switch k {
	case types.KindIDE:
		return IDEDir
	case types.KindTerminal:
		return TerminalDir
	default:
		return OSDir
	}
}
