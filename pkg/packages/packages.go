// Package packages implements package reconciliation: diffing a
// declared package list against what the OS package manager reports
// as installed, and driving install/remove actions to close the gap.
package packages

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/logging"
	"github.com/homekeep/homekeep/pkg/paths"
	"github.com/homekeep/homekeep/pkg/types"
)

// CommentMarker prefixes ignored lines in a package list
const CommentMarker = "#"

// Reconciler drives one external package manager from its declarative
// package list
type Reconciler struct {
	fs     types.FS
	paths  *paths.Paths
	runner Runner
	logger zerolog.Logger
}

// New creates a reconciler over the given filesystem, path context and
// command runner
func New(fsys types.FS, p *paths.Paths, runner Runner) *Reconciler {
	return &Reconciler{
		fs:     fsys,
		paths:  p,
		runner: runner,
		logger: logging.GetLogger("packages"),
	}
}

// ListPath resolves the absolute location of the manager's package list
func (r *Reconciler) ListPath(cfg types.PackageManagerConfig) string {
	return r.paths.ListPath(cfg)
}

// EnsureList creates the package list file with the manager's default
// content when it does not exist yet. An existing list is left alone.
func (r *Reconciler) EnsureList(cfg types.PackageManagerConfig) error {
	path := r.paths.ListPath(cfg)
	if _, err := r.fs.Lstat(path); err == nil {
		return nil
	}
	if err := r.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", path)
	}
	if err := r.fs.WriteFile(path, []byte(cfg.DefaultContent), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create package list %s", path)
	}
	r.logger.Info().Str("path", path).Str("manager", cfg.Name).Msg("created package list")
	return nil
}

// LoadDeclared reads the declared package names from the manager's
// list file: one name per line, trimmed, blank lines and comment lines
// dropped, order preserved, duplicates kept.
func (r *Reconciler) LoadDeclared(cfg types.PackageManagerConfig) ([]string, error) {
	path := r.paths.ListPath(cfg)
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPackageListMissing,
			"package list %s is not readable", path)
	}
	return ParseList(data), nil
}

// ParseList parses newline-delimited package list content
func ParseList(data []byte) []string {
	var pkgs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, CommentMarker) {
			continue
		}
		pkgs = append(pkgs, line)
	}
	return pkgs
}

// IsInstalled reports whether the manager considers the package
// installed: the status command is executed and non-empty stdout means
// installed. Any execution failure (non-zero exit, absent manager)
// degrades to "not installed".
func (r *Reconciler) IsInstalled(ctx context.Context, pkg string, cfg types.PackageManagerConfig) bool {
	argv, err := renderCommand(cfg.Status, pkg)
	if err != nil {
		r.logger.Warn().Err(err).Str("package", pkg).Msg("invalid status template")
		return false
	}
	out, err := r.runner.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		r.logger.Debug().Err(err).Str("package", pkg).Msg("status command failed, treating as not installed")
		return false
	}
	return len(bytes.TrimSpace(out)) > 0
}

// Partition splits the given packages by installation state, keeping
// input order within each group
func (r *Reconciler) Partition(ctx context.Context, pkgs []string, cfg types.PackageManagerConfig) types.Partition {
	var part types.Partition
	for _, pkg := range pkgs {
		if r.IsInstalled(ctx, pkg, cfg) {
			part.Installed = append(part.Installed, pkg)
		} else {
			part.NotInstalled = append(part.NotInstalled, pkg)
		}
	}
	return part
}

// Install runs the manager's install command for each package in
// order. Outcomes are reported per package; a failure never aborts
// the batch and nothing is rolled back.
func (r *Reconciler) Install(ctx context.Context, pkgs []string, cfg types.PackageManagerConfig) []types.PackageResult {
	return r.runBatch(ctx, pkgs, cfg.Install, "install")
}

// Remove runs the manager's remove command for each package in order,
// with the same per-item reporting as Install
func (r *Reconciler) Remove(ctx context.Context, pkgs []string, cfg types.PackageManagerConfig) []types.PackageResult {
	return r.runBatch(ctx, pkgs, cfg.Remove, "remove")
}

// Sync loads the declared list, partitions it and installs whatever is
// missing. It returns the partition, the per-package install results
// and any terminal setup failure.
func (r *Reconciler) Sync(ctx context.Context, cfg types.PackageManagerConfig) (types.Partition, []types.PackageResult, error) {
	declared, err := r.LoadDeclared(cfg)
	if err != nil {
		return types.Partition{}, nil, err
	}
	part := r.Partition(ctx, declared, cfg)
	if len(part.NotInstalled) == 0 {
		return part, nil, nil
	}
	return part, r.Install(ctx, part.NotInstalled, cfg), nil
}

// runBatch executes one template per package, strictly in order. The
// context is only checked between items.
func (r *Reconciler) runBatch(ctx context.Context, pkgs []string, tmpl, action string) []types.PackageResult {
	results := make([]types.PackageResult, 0, len(pkgs))
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			results = append(results, types.PackageResult{
				Package: pkg,
				Err:     errors.Wrapf(err, errors.ErrInternal, "%s batch cancelled", action),
			})
			continue
		}
		results = append(results, r.runOne(ctx, pkg, tmpl, action))
	}
	return results
}

func (r *Reconciler) runOne(ctx context.Context, pkg, tmpl, action string) types.PackageResult {
	result := types.PackageResult{Package: pkg}

	argv, err := renderCommand(tmpl, pkg)
	if err != nil {
		result.Err = err
		return result
	}

	r.logger.Debug().Str("package", pkg).Strs("argv", argv).Msgf("running %s command", action)
	out, err := r.runner.Run(ctx, argv[0], argv[1:]...)
	result.Output = string(bytes.TrimSpace(out))
	if err != nil {
		result.Err = errors.Wrapf(err, errors.ErrCommandRun, "%s of %q failed", action, pkg)
		r.logger.Warn().Err(err).Str("package", pkg).Msgf("%s failed", action)
		return result
	}

	r.logger.Info().Str("package", pkg).Msgf("%s succeeded", action)
	return result
}
