package scaffold

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/config"
	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/filesystem"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/arthur-debert/scaffold/pkg/packs"
	"github.com/arthur-debert/scaffold/pkg/paths"
	"github.com/arthur-debert/scaffold/pkg/plan"
	"github.com/arthur-debert/scaffold/pkg/prompt"
	"github.com/arthur-debert/scaffold/pkg/render"
	"github.com/arthur-debert/scaffold/pkg/resolver"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/arthur-debert/scaffold/pkg/ui"
)

// session is everything a run needs, assembled from flags and configuration
type session struct {
	config     *config.Config
	locations  *paths.Resolver
	packages   []*types.Package
	env        *operations.Environment
	output     ui.Renderer
	collection *plan.Collection
	vars       types.Variables
}

// overrides turns command line flags into configuration overrides
func (o *globalOptions) overrides() (map[string]interface{}, error) {
	overrides := make(map[string]interface{})
	if o.format != "" {
		overrides["scaffold.format"] = o.format
	}
	if o.noInteraction {
		overrides["scaffold.no-interaction"] = true
	}
	for _, assignment := range o.set {
		key, value, ok := strings.Cut(assignment, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid --set %q, expected key=value", assignment)
		}
		overrides["variables."+key] = value
	}
	return overrides, nil
}

// newSession loads configuration and packages, then builds the plan.
// A planning session never prompts. Planning and dry runs see the disk
// through a read-only filesystem.
func newSession(opts *globalOptions, out, errOut io.Writer, planning bool) (*session, error) {
	logger := logging.GetLogger("cmd.session")
	defer logging.LogOperationStart(logger, "prepare")()

	overrides, err := opts.overrides()
	if err != nil {
		return nil, err
	}

	root := opts.projectRoot
	if root == "" {
		discovered, err := paths.New("", nil)
		if err != nil {
			return nil, err
		}
		if discovered.UsedFallback() {
			_, _ = fmt.Fprintf(errOut, MsgFallbackRoot, discovered.ProjectRoot())
		}
		root = discovered.ProjectRoot()
	}

	cfg, err := config.Load(root, overrides)
	if err != nil {
		return nil, err
	}

	locations, err := paths.New(root, cfg.Scaffold.Locations)
	if err != nil {
		return nil, err
	}
	root = locations.ProjectRoot()

	fsys := filesystem.NewOS()
	if planning || opts.dryRun {
		fsys = filesystem.NewReadOnlyOS()
	}
	all, err := packs.Load(fsys, cfg.PackagePaths(root))
	if err != nil {
		return nil, err
	}
	selected, err := packs.SelectPackages(all, opts.packages)
	if err != nil {
		return nil, err
	}

	format, err := ui.ParseFormat(cfg.Scaffold.Format)
	if err != nil {
		return nil, err
	}
	output, err := ui.NewRenderer(format, out)
	if err != nil {
		return nil, err
	}

	env := &operations.Environment{
		FS:       fsys,
		Renderer: render.New(fsys, locations),
		Prompter: prompt.New(cfg.Scaffold.NoInteraction || planning),
		Sink:     config.NewStore(fsys, root),
		Reporter: output,
		DryRun:   opts.dryRun,
	}

	collection := plan.New(env, locations)
	assets := resolver.New(fsys)
	for _, pkg := range selected {
		entries, err := assets.Resolve(pkg)
		if err != nil {
			return nil, err
		}
		if err := collection.Add(pkg.Name, entries); err != nil {
			return nil, err
		}
	}

	vars := cfg.Vars()
	swept, err := collection.Sweep(vars)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("root", root).
		Strs("packages", packs.GetPackNames(selected)).
		Int("operations", collection.Len()).
		Int("upToDate", swept).
		Msg("Session ready")

	return &session{
		config:     cfg,
		locations:  locations,
		packages:   selected,
		env:        env,
		output:     output,
		collection: collection,
		vars:       vars,
	}, nil
}

// packageVariables collects each package's manifest variables
func (s *session) packageVariables() map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(s.packages))
	for _, pkg := range s.packages {
		if len(pkg.Variables) > 0 {
			out[pkg.Name] = pkg.Variables
		}
	}
	return out
}
