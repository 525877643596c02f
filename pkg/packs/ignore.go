package packs

import (
	"path/filepath"

	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/rs/zerolog"
)

// IgnoreFileName marks a package directory to be left out
const IgnoreFileName = ".scaffoldignore"

// IgnoreChecker decides whether package directories are skipped
type IgnoreChecker struct {
	fs     types.FS
	logger zerolog.Logger
}

// NewIgnoreChecker creates a new IgnoreChecker instance
func NewIgnoreChecker(fsys types.FS) *IgnoreChecker {
	return &IgnoreChecker{
		fs:     fsys,
		logger: logging.GetLogger("packs.ignore"),
	}
}

// ShouldIgnorePackDirectory checks if a package directory should be ignored due to .scaffoldignore file
func (ic *IgnoreChecker) ShouldIgnorePackDirectory(dir string) bool {
	if _, err := ic.fs.Stat(filepath.Join(dir, IgnoreFileName)); err == nil {
		ic.logger.Info().
			Str("package", filepath.Base(dir)).
			Msg("Package ignored due to .scaffoldignore file")
		return true
	}
	return false
}
