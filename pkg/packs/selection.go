package packs

import (
	"path"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/types"
)

// SelectPackages filters packages by name, keeping priority order
func SelectPackages(all []*types.Package, names []string) ([]*types.Package, error) {
	logger := logging.GetLogger("packs.selection")

	names = NormalizeNames(names)
	if len(names) == 0 {
		// No selection means all packages
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var selected []*types.Package
	for _, pkg := range all {
		if wanted[pkg.Name] {
			selected = append(selected, pkg)
			delete(wanted, pkg.Name)
		}
	}

	if len(wanted) > 0 {
		notFound := make([]string, 0, len(wanted))
		for _, name := range names {
			if wanted[name] {
				notFound = append(notFound, name)
			}
		}
		return nil, errors.New(errors.ErrPackageNotFound, "package(s) not found").
			WithDetail("notFound", notFound).
			WithDetail("available", GetPackNames(all))
	}

	logger.Info().
		Int("selected", len(selected)).
		Int("total", len(all)).
		Msg("Selected packages")

	return selected, nil
}

// GetPackNames returns a list of package names
func GetPackNames(packages []*types.Package) []string {
	names := make([]string, len(packages))
	for i, pkg := range packages {
		names[i] = pkg.Name
	}
	return names
}

// NormalizeNames turns command line package arguments into package names.
// Shell completion hands out directories ("packages/base/"), so an argument
// is reduced to its last path element. Duplicates are dropped.
func NormalizeNames(args []string) []string {
	seen := make(map[string]bool, len(args))
	names := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimRight(strings.TrimSpace(arg), "/")
		if arg == "" {
			continue
		}
		name := path.Base(arg)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
