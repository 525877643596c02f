package operations

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/types"
)

const (
	defaultFileMode fs.FileMode = 0644
	defaultDirMode  fs.FileMode = 0755
	ownerReadWrite  fs.FileMode = 0600
)

func pathExists(fsys types.FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path).
		WithDetail("path", path)
}

// snapshot reads the current content of a destination. A missing file
// yields no content.
func snapshot(fsys types.FS, path string) ([]byte, bool, error) {
	data, err := fsys.ReadFile(path)
	if err == nil {
		return data, true, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	return nil, false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path).
		WithDetail("path", path)
}

// writeFile writes data to the destination, creating parent directories.
// A destination without owner write permission is made writable for the
// write and put back afterwards.
func writeFile(fsys types.FS, src, dest types.ScaffoldPath, data []byte) error {
	logger := logging.GetLogger("operations.write")
	target := dest.Absolute()

	fail := func(err error) error {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s from %s", dest, src).
			WithDetail("source", src.Absolute()).
			WithDetail("destination", target)
	}

	if err := fsys.MkdirAll(filepath.Dir(target), defaultDirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create the directory of %s", dest).
			WithDetail("source", src.Absolute()).
			WithDetail("destination", target)
	}

	perm := defaultFileMode
	restore := func() {}
	if info, err := fsys.Stat(target); err == nil {
		perm = info.Mode().Perm()
		if perm&0200 == 0 {
			if err := fsys.Chmod(target, perm|ownerReadWrite); err != nil {
				return fail(err)
			}
			original := perm
			restore = func() {
				if err := fsys.Chmod(target, original); err != nil {
					logger.Warn().
						Err(err).
						Str("path", target).
						Str("mode", original.String()).
						Msg("Could not restore file permissions")
				}
			}
			logger.Debug().
				Str("path", target).
				Str("mode", perm.String()).
				Msg("Relaxed permissions for write")
		}
	}

	err := fsys.WriteFile(target, data, perm)
	restore()
	if err != nil {
		return fail(err)
	}

	logger.Trace().Str("path", target).Int("bytes", len(data)).Msg("Wrote file")
	return nil
}

func removeFile(fsys types.FS, src, dest types.ScaffoldPath) error {
	if err := fsys.Remove(dest.Absolute()); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrFileDelete, "cannot delete %s for %s", dest, src).
			WithDetail("source", src.Absolute()).
			WithDetail("destination", dest.Absolute())
	}
	return nil
}
