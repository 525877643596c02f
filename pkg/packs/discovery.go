package packs

import (
	"path/filepath"
	"regexp"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	// ManifestName is the manifest file inside a package directory
	ManifestName = "scaffold.toml"

	// DefaultAssetsDir is used when a manifest names none
	DefaultAssetsDir = "assets"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Manifest is the content of a package's scaffold.toml
type Manifest struct {
	Name      string                 `toml:"name"`
	AssetsDir string                 `toml:"assets_dir"`
	Assets    map[string]interface{} `toml:"assets"`
	Variables map[string]interface{} `toml:"variables"`
}

// Load reads the packages in dirs, keeping their order. Ignored packages
// are skipped; any other problem is an error.
func Load(fsys types.FS, dirs []string) ([]*types.Package, error) {
	logger := logging.GetLogger("packs.discovery")
	ignore := NewIgnoreChecker(fsys)

	seen := make(map[string]string)
	packages := make([]*types.Package, 0, len(dirs))
	for _, dir := range dirs {
		if ignore.ShouldIgnorePackDirectory(dir) {
			continue
		}

		pkg, err := loadPackage(fsys, dir)
		if err != nil {
			return nil, err
		}
		if other, exists := seen[pkg.Name]; exists {
			return nil, errors.Newf(errors.ErrPackageInvalid, "package name %s is used twice", pkg.Name).
				WithDetail("package", pkg.Name).
				WithDetail("paths", []string{other, dir})
		}
		seen[pkg.Name] = dir
		packages = append(packages, pkg)

		logger.Trace().
			Str("name", pkg.Name).
			Str("path", pkg.Path).
			Msg("Loaded package")
	}

	logger.Debug().Int("count", len(packages)).Msg("Loaded packages")
	return packages, nil
}

// loadPackage creates a Package from a directory path
func loadPackage(fsys types.FS, dir string) (*types.Package, error) {
	info, err := fsys.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPackageNotFound, "cannot access package directory").
			WithDetail("path", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrPackageInvalid, "package path is not a directory").
			WithDetail("path", dir)
	}

	manifestPath := filepath.Join(dir, ManifestName)
	data, err := fsys.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPackageInvalid, "package has no manifest").
			WithDetail("path", manifestPath)
	}

	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse package manifest").
			WithDetail("path", manifestPath)
	}

	name := manifest.Name
	if name == "" {
		name = filepath.Base(dir)
	}
	if !validName.MatchString(name) {
		return nil, errors.Newf(errors.ErrPackageInvalid, "invalid package name %q", name).
			WithDetail("path", dir)
	}

	assetsDir := manifest.AssetsDir
	if assetsDir == "" {
		assetsDir = DefaultAssetsDir
	}

	return &types.Package{
		Name:      name,
		Path:      dir,
		AssetsDir: assetsDir,
		Assets:    manifest.Assets,
		Variables: manifest.Variables,
	}, nil
}
