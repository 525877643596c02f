package executor

import (
	"context"
	"time"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/filesystem"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/arthur-debert/scaffold/pkg/plan"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/rs/zerolog"
)

// Options contains configuration for the executor
type Options struct {
	// Environment supplies the collaborators operations run with. Its
	// DryRun flag turns the run into a report of what would happen.
	Environment *operations.Environment
	// PackageVariables are per-package rendering defaults, applied beneath
	// the run's variables for that package's operations only
	PackageVariables map[string]map[string]interface{}
	// Logger defaults to the "executor" component logger
	Logger *zerolog.Logger
}

// Executor processes the operations of a plan in order
type Executor struct {
	env         *operations.Environment
	packageVars map[string]map[string]interface{}
	logger      zerolog.Logger
}

// Report summarizes a run
type Report struct {
	Results  []operations.Result
	Duration time.Duration
	DryRun   bool
}

// Count returns how many results carry the given action
func (r Report) Count(action operations.Action) int {
	n := 0
	for _, result := range r.Results {
		if result.Action == action {
			n++
		}
	}
	return n
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	env := opts.Environment
	if env == nil {
		env = &operations.Environment{}
	}
	if env.FS == nil {
		env.FS = filesystem.NewOS()
	}

	return &Executor{
		env:         env,
		packageVars: opts.PackageVariables,
		logger:      logger,
	}
}

// Execute runs every package's operations and returns the results so far
// together with the final variables. It stops at the first error.
func (e *Executor) Execute(ctx context.Context, collection *plan.Collection, vars types.Variables) (Report, types.Variables, error) {
	start := time.Now()
	report := Report{DryRun: e.env.DryRun}

	for _, pkg := range collection.Packages() {
		items := collection.Entries(pkg)
		e.logger.Debug().
			Str("package", pkg).
			Int("operations", len(items)).
			Bool("dry_run", e.env.DryRun).
			Msg("Executing package")

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				report.Duration = time.Since(start)
				return report, vars, errors.Wrap(err, errors.ErrInternal, "run cancelled")
			}

			result, next, err := e.process(pkg, item.Operation, vars)
			if err != nil {
				e.logger.Error().
					Err(err).
					Str("package", pkg).
					Str("source", item.Operation.Source().String()).
					Str("operation", operations.Name(item.Operation)).
					Msg("Operation failed")
				report.Duration = time.Since(start)
				return report, vars, packageError(err, pkg, item)
			}
			vars = next
			report.Results = append(report.Results, result)
		}
	}

	report.Duration = time.Since(start)
	e.logger.Info().
		Int("operations", len(report.Results)).
		Dur("duration", report.Duration).
		Msg("Run complete")
	return report, vars, nil
}

// process runs one operation. Package defaults are visible to content
// generation but never flow into the variables threaded to later packages.
func (e *Executor) process(pkg string, op operations.Operation, vars types.Variables) (operations.Result, types.Variables, error) {
	if _, ok := op.(*operations.ReadConfig); ok {
		return operations.Process(op, e.env, vars)
	}

	scoped := vars
	if defaults := e.packageVars[pkg]; len(defaults) > 0 {
		scoped = vars.WithDefaults(defaults)
	}
	result, _, err := operations.Process(op, e.env, scoped)
	return result, vars, err
}

// packageError makes sure a failure names its package and path
func packageError(err error, pkg string, item plan.Item) error {
	details := errors.GetErrorDetails(err)
	if _, ok := details["package"]; ok {
		return err
	}

	path := item.Destination
	if path == "" {
		path = item.Operation.Source().Relative()
	}
	return errors.Wrapf(err, errors.GetErrorCode(err), "%s: %s failed", pkg, path).
		WithDetail("package", pkg).
		WithDetail("path", path)
}
