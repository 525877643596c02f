package resolver

import (
	stderrors "errors"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/arthur-debert/scaffold/pkg/paths"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/rs/zerolog"
)

// DeclaredSkipReason is reported for destinations a package marks unmanaged
const DeclaredSkipReason = "declared skip"

// Entry is one operation together with its normalized destination
// ("[token]/path"). ReadConfig entries have no destination.
type Entry struct {
	Destination string
	Operation   operations.Operation
}

// Resolver expands package rules into operations
type Resolver struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Resolver reading packages through fsys
func New(fsys types.FS) *Resolver {
	return &Resolver{
		fs:     fsys,
		logger: logging.GetLogger("resolver"),
	}
}

// Resolve parses the package's rules and expands them into entries
func (r *Resolver) Resolve(pkg *types.Package) ([]Entry, error) {
	rules, err := ParseRules(pkg.Assets)
	if err != nil {
		return nil, packageError(err, pkg)
	}
	return r.Expand(pkg, rules)
}

// Expand turns normalized rules into entries, one per file
func (r *Resolver) Expand(pkg *types.Package, rules []Rule) ([]Entry, error) {
	root := pkg.AssetsPath()
	r.logger.Debug().
		Str("package", pkg.Name).
		Str("assets", root).
		Int("rules", len(rules)).
		Msg("Resolving package assets")

	var entries []Entry
	for _, rule := range rules {
		ruleEntries, err := r.expandRule(pkg, root, rule)
		if err != nil {
			return nil, packageError(err, pkg)
		}
		entries = append(entries, ruleEntries...)
	}

	r.logger.Debug().
		Str("package", pkg.Name).
		Int("entries", len(entries)).
		Msg("Package assets resolved")
	return entries, nil
}

func (r *Resolver) expandRule(pkg *types.Package, root string, rule Rule) ([]Entry, error) {
	declared, err := cleanPath(rule.Path)
	if err != nil {
		return nil, err
	}

	abs := types.NewSourcePath(pkg.Name, root, declared).Absolute()
	info, err := r.fs.Stat(abs)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", rule.Path).
				WithDetail("path", abs)
		}
		// skips may name destinations the package does not ship
		if rule.Mode == ModeSkip || rule.Unmanaged {
			return []Entry{r.entry(pkg, root, rule, declared, "")}, nil
		}
		return nil, errors.Newf(errors.ErrSourceNotFound, "%s rule points at missing %s", rule.Mode, rule.Path).
			WithDetail("path", abs)
	}

	if !info.IsDir() {
		return []Entry{r.entry(pkg, root, rule, declared, "")}, nil
	}
	if rule.Mode == ModeReadConfig {
		return nil, errors.Newf(errors.ErrSourceNotFound, "read-config rule %s must name a file, not a directory", rule.Path).
			WithDetail("path", abs)
	}

	files, err := r.walk(root, declared)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		r.logger.Warn().Str("package", pkg.Name).Str("path", rule.Path).Msg("Directory rule matched no files")
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		entries = append(entries, r.entry(pkg, root, rule, path.Join(declared, file), file))
	}
	return entries, nil
}

// entry builds the operation for one source file. sub is the file's path
// below the rule's directory, empty for file rules.
func (r *Resolver) entry(pkg *types.Package, root string, rule Rule, source, sub string) Entry {
	src := types.NewSourcePath(pkg.Name, root, source)

	if rule.Mode == ModeReadConfig {
		return Entry{Operation: operations.NewReadConfig(src)}
	}

	target := source
	if rule.To != "" {
		target = path.Join(strings.TrimSuffix(rule.To, "/"), sub)
	}
	dest := paths.NormalizeDestination(target)

	var op operations.Operation
	switch {
	case rule.Mode == ModeSkip || rule.Unmanaged:
		op = operations.NewSkip(src, DeclaredSkipReason)
	case rule.Mode == ModeMerge:
		op = operations.NewMerge(src)
	default:
		op = operations.NewCreate(src, rule.Overwrite)
	}

	r.logger.Trace().
		Str("package", pkg.Name).
		Str("source", source).
		Str("destination", dest).
		Str("operation", operations.Name(op)).
		Msg("Resolved asset")
	return Entry{Destination: dest, Operation: op}
}

// walk lists the files below dir (relative to root) depth-first in
// lexicographic order. Paths are returned relative to dir.
func (r *Resolver) walk(root, dir string) ([]string, error) {
	type item struct {
		rel   string
		isDir bool
	}

	var files []string
	stack := []item{{rel: "", isDir: true}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !current.isDir {
			files = append(files, current.rel)
			continue
		}

		abs := filepath.Join(root, filepath.FromSlash(path.Join(dir, current.rel)))
		children, err := r.fs.ReadDir(abs)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", abs).
				WithDetail("path", abs)
		}
		sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })

		for i := len(children) - 1; i >= 0; i-- {
			name := children[i].Name()
			if name == "." || name == ".." {
				continue
			}
			stack = append(stack, item{
				rel:   path.Join(current.rel, name),
				isDir: children[i].IsDir(),
			})
		}
	}
	return files, nil
}

// cleanPath validates a declared path and keeps it inside the assets directory
func cleanPath(p string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.Newf(errors.ErrConfigInvalid, "asset path %s leaves the package", p).
			WithDetail("path", p)
	}
	return cleaned, nil
}

// packageError names the package on coded errors that do not have one yet
func packageError(err error, pkg *types.Package) error {
	var coded *errors.ScaffoldError
	if stderrors.As(err, &coded) {
		if _, ok := coded.Details["package"]; !ok {
			return coded.WithDetail("package", pkg.Name)
		}
	}
	return err
}
