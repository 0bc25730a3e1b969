// Package link implements symlink reconciliation: classifying how much
// of a domain's declared configuration is already held under storage,
// and importing live files into storage while replacing them with
// symbolic links.
package link

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/logging"
	"github.com/homekeep/homekeep/pkg/paths"
	"github.com/homekeep/homekeep/pkg/types"
)

// Reconciler classifies and repairs the link state of a domain's
// declared paths against the storage tree
type Reconciler struct {
	fs     types.FS
	paths  *paths.Paths
	logger zerolog.Logger
}

// New creates a reconciler over the given filesystem and path context
func New(fsys types.FS, p *paths.Paths) *Reconciler {
	return &Reconciler{
		fs:     fsys,
		paths:  p,
		logger: logging.GetLogger("link"),
	}
}

// Classify reports the synchronization state of a domain for a family.
// "Present under storage" means the computed storage path exists on
// disk in any form; the live path does not have to be linked yet.
// Classify performs no writes.
func (r *Reconciler) Classify(d types.Domain, family types.Family) types.LinkReport {
	report := types.LinkReport{
		Domain: d.Name,
		Family: family,
	}

	declared := d.PathsFor(family)
	if len(declared) == 0 {
		report.Status = types.StatusIncompatible
		return report
	}

	storageDir := r.paths.DomainStorageDir(d)
	report.Total = len(declared)
	for _, decl := range declared {
		live := r.paths.Expand(decl)
		storage := r.paths.StoragePath(live, storageDir)
		if _, err := r.fs.Lstat(storage); err == nil {
			report.Imported = append(report.Imported, decl)
		} else {
			report.Missing = append(report.Missing, decl)
		}
	}

	switch {
	case len(report.Imported) == 0:
		report.Status = types.StatusNotImported
	case len(report.Imported) == report.Total:
		report.Status = types.StatusFullyImported
	default:
		report.Status = types.StatusPartiallyImported
	}
	return report
}

// Import brings the selected declared paths under storage and replaces
// their live locations with symlinks. A nil or empty selection means
// every declared path. Items are processed strictly in order; one
// item's failure never aborts the rest of the batch. The context is
// only checked between items.
//
// Per item: a missing live path is a "source not found" failure. When
// the storage path does not exist yet, the live content is copied in
// first (recursively, preserving permission bits) and only then is the
// live path replaced by a link, so a crash mid-item leaves the
// original intact. When storage already holds content, the live path
// is re-linked without touching storage: previously stored content is
// the source of truth. Re-importing an already linked path is a no-op.
func (r *Reconciler) Import(ctx context.Context, d types.Domain, family types.Family, selected []string) ([]types.ImportResult, error) {
	declared := d.PathsFor(family)
	if len(declared) == 0 {
		return nil, errors.Newf(errors.ErrFamilyUnsupported,
			"domain %q declares no paths for family %q", d.Name, family)
	}
	if len(selected) == 0 {
		selected = declared
	}

	declaredSet := make(map[string]bool, len(declared))
	for _, p := range declared {
		declaredSet[p] = true
	}

	storageDir := r.paths.DomainStorageDir(d)
	results := make([]types.ImportResult, 0, len(selected))
	for _, decl := range selected {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, errors.ErrInternal, "import batch cancelled")
		}
		if !declaredSet[decl] {
			results = append(results, types.ImportResult{
				Path: decl,
				Err: errors.Newf(errors.ErrInvalidInput,
					"path %q is not declared for domain %q family %q", decl, d.Name, family),
			})
			continue
		}
		results = append(results, r.importOne(decl, storageDir))
	}
	return results, nil
}

// importOne handles a single declared path
func (r *Reconciler) importOne(decl, storageDir string) types.ImportResult {
	result := types.ImportResult{Path: decl}

	live := r.paths.Expand(decl)
	storage := r.paths.StoragePath(live, storageDir)

	logger := r.logger.With().Str("live", live).Str("storage", storage).Logger()

	liveInfo, err := r.fs.Lstat(live)
	if err != nil {
		result.Err = errors.Newf(errors.ErrSourceNotFound, "source %s does not exist", r.paths.Display(live))
		return result
	}

	_, storageErr := r.fs.Lstat(storage)
	storageExists := storageErr == nil

	if liveInfo.Mode()&os.ModeSymlink != 0 {
		if target, err := r.fs.Readlink(live); err == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(live), target)
			}
			if filepath.Clean(target) == storage {
				// Already reconciled, nothing to do
				result.Skipped = true
				result.Linked = true
				return result
			}
		}
		// A symlink pointing elsewhere: refuse broken or circular
		// chains rather than copying through them
		if _, err := r.fs.Stat(live); err != nil {
			result.Err = errors.Wrapf(err, errors.ErrSourceBroken,
				"source %s is a broken or circular symlink", r.paths.Display(live))
			return result
		}
	}

	if !storageExists {
		if err := copyTree(r.fs, live, storage, logger); err != nil {
			result.Err = errors.Wrapf(err, errors.ErrFileCopy,
				"failed to copy %s into storage", r.paths.Display(live))
			return result
		}
		result.Copied = true
		logger.Debug().Msg("copied live content into storage")
	}

	// Content is safely in storage, now swap the live path for a link
	if err := r.fs.MkdirAll(filepath.Dir(live), 0755); err != nil {
		result.Err = errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create parent directory for %s", r.paths.Display(live))
		return result
	}
	if err := r.fs.RemoveAll(live); err != nil {
		result.Err = errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to remove live path %s", r.paths.Display(live))
		return result
	}
	if err := r.fs.Symlink(storage, live); err != nil {
		result.Err = errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to link %s", r.paths.Display(live))
		return result
	}

	result.Linked = true
	logger.Info().Msg("linked live path to storage")
	return result
}
