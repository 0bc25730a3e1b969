package link

import (
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/homekeep/homekeep/pkg/errors"
	"github.com/homekeep/homekeep/pkg/types"
)

// copyTree copies src into dst, recursing into directories and
// preserving permission bits. Symlinks inside a directory are
// recreated as symlinks with their original targets. Failures on
// individual entries are logged and counted but do not stop the
// copying of siblings; the aggregate failure is returned at the end
// so callers can decide not to proceed.
func copyTree(fsys types.FS, src, dst string, logger zerolog.Logger) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src)
	}
	if info.IsDir() {
		if failed, total := copyDir(fsys, src, dst, info.Mode().Perm(), logger); failed > 0 {
			return errors.Newf(errors.ErrFileCopy, "%d of %d entries failed while copying %s", failed, total, src)
		}
		return nil
	}
	return copyFile(fsys, src, dst, info.Mode().Perm())
}

// copyDir mirrors a directory and returns (failed, total) entry counts
func copyDir(fsys types.FS, src, dst string, perm fs.FileMode, logger zerolog.Logger) (int, int) {
	if err := fsys.MkdirAll(dst, perm); err != nil {
		logger.Warn().Err(err).Str("dir", dst).Msg("failed to create storage directory")
		return 1, 1
	}
	// MkdirAll is subject to the umask; restore the source bits
	if err := fsys.Chmod(dst, perm); err != nil {
		logger.Warn().Err(err).Str("dir", dst).Msg("failed to preserve directory permissions")
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		logger.Warn().Err(err).Str("dir", src).Msg("failed to read directory")
		return 1, 1
	}

	failed, total := 0, 0
	for _, entry := range entries {
		total++
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			// Keep nested symlinks as symlinks, whatever they point at
			target, err := fsys.Readlink(srcPath)
			if err == nil {
				err = fsys.Symlink(target, dstPath)
			}
			if err != nil {
				failed++
				logger.Warn().Err(err).Str("path", srcPath).Msg("failed to copy symlink")
			}
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				failed++
				logger.Warn().Err(err).Str("path", srcPath).Msg("failed to stat directory")
				continue
			}
			f, t := copyDir(fsys, srcPath, dstPath, info.Mode().Perm(), logger)
			failed += f
			total += t
		default:
			info, err := entry.Info()
			if err == nil {
				err = copyFile(fsys, srcPath, dstPath, info.Mode().Perm())
			}
			if err != nil {
				failed++
				logger.Warn().Err(err).Str("path", srcPath).Msg("failed to copy file")
			}
		}
	}
	return failed, total
}

// copyFile copies one regular file, preserving its permission bits
func copyFile(fsys types.FS, src, dst string, perm fs.FileMode) error {
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := fsys.WriteFile(dst, data, perm); err != nil {
		return err
	}
	// WriteFile only applies perm on create, and through the umask
	return fsys.Chmod(dst, perm)
}
