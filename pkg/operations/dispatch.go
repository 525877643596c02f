package operations

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/merge"
	"github.com/arthur-debert/scaffold/pkg/types"
)

func unknownOperation(op Operation) error {
	return errors.Newf(errors.ErrInternal, "unknown operation %T", op)
}

// Content returns what an operation would write. It is computed on the
// first call and cached; vars only matter for that first call.
func Content(op Operation, env *Environment, vars types.Variables) ([]byte, error) {
	switch o := op.(type) {
	case *Skip:
		return nil, nil
	case *Create:
		return o.content.get(func() ([]byte, error) {
			return readSource(env, o.src, vars)
		})
	case *Merge:
		return o.content.get(func() ([]byte, error) {
			incoming, err := readSource(env, o.src, vars)
			if err != nil {
				return nil, err
			}
			if len(bytes.TrimSpace(o.base)) == 0 {
				return incoming, nil
			}
			target := o.dest
			if target.IsZero() {
				target = o.src
			}
			return merge.MergeFile(o.base, incoming, target.Relative())
		})
	case *ReadConfig:
		return o.content.get(func() ([]byte, error) {
			return readSource(env, o.src, vars)
		})
	default:
		return nil, unknownOperation(op)
	}
}

// readSource renders templated sources and reads the others verbatim
func readSource(env *Environment, src types.ScaffoldPath, vars types.Variables) ([]byte, error) {
	if src.IsTemplated() {
		if env.Renderer == nil {
			return nil, errors.Newf(errors.ErrTemplateRender, "no renderer for %s", src)
		}
		data, err := env.Renderer.Render(src.Absolute(), vars)
		if err != nil {
			if errors.GetErrorCode(err) != errors.ErrUnknown {
				return nil, err
			}
			return nil, errors.Wrapf(err, errors.ErrTemplateRender, "cannot render %s", src).
				WithDetail("source", src.Absolute())
		}
		return data, nil
	}

	data, err := env.FS.ReadFile(src.Absolute())
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrSourceNotFound, "source %s does not exist", src).
				WithDetail("source", src.Absolute())
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src).
			WithDetail("source", src.Absolute())
	}
	return data, nil
}

// IsTemplated reports whether the operation's content goes through the
// renderer. Skips never produce content.
func IsTemplated(op Operation) bool {
	switch o := op.(type) {
	case *Skip:
		return false
	case *Create:
		return o.src.IsTemplated()
	case *Merge:
		return o.src.IsTemplated()
	case *ReadConfig:
		return o.src.IsTemplated()
	default:
		return false
	}
}

// BindAtNewLocation attaches an operation to a destination no other package
// claimed yet. A Merge captures the current destination content as its
// base. A Create without Overwrite whose destination exists turns into a
// Skip without reading any content.
func BindAtNewLocation(op Operation, env *Environment, dest types.ScaffoldPath) (Operation, error) {
	switch o := op.(type) {
	case *Skip:
		next := *o
		next.dest = dest
		return &next, nil
	case *Create:
		exists, err := pathExists(env.FS, dest.Absolute())
		if err != nil {
			return nil, err
		}
		if exists && !o.Overwrite {
			return &Skip{src: o.src, dest: dest, Reason: "already exists"}, nil
		}
		next := *o
		next.dest = dest
		next.exists = exists
		return &next, nil
	case *Merge:
		base, exists, err := snapshot(env.FS, dest.Absolute())
		if err != nil {
			return nil, err
		}
		next := *o
		next.dest = dest
		next.base = base
		next.exists = exists
		next.bound = true
		return &next, nil
	case *ReadConfig:
		return o, nil
	default:
		return nil, unknownOperation(op)
	}
}

// ResolveCollision settles two operations targeting the same destination.
// The winner keeps its own variant and is bound at dest; a winning Merge
// takes over a losing Merge's captured base instead of reading the
// destination again. The loser becomes a Skip naming the winner's package.
func ResolveCollision(env *Environment, winner, loser Operation, dest types.ScaffoldPath) (Operation, *Skip, error) {
	skipped := SkipAt(loser, fmt.Sprintf("overridden by %s", winner.Source().Package()))

	logger := logging.GetLogger("operations.collision")
	logger.Debug().
		Str("destination", dest.String()).
		Str("winner", fmt.Sprintf("%s (%s)", winner.Source(), Name(winner))).
		Str("loser", fmt.Sprintf("%s (%s)", loser.Source(), Name(loser))).
		Msg("Resolving collision")

	switch w := winner.(type) {
	case *Merge:
		if l, ok := loser.(*Merge); ok && l.bound {
			next := *w
			next.dest = dest
			next.base = l.base
			next.exists = l.exists
			next.bound = true
			return &next, skipped, nil
		}
		kept, err := BindAtNewLocation(w, env, dest)
		return kept, skipped, err
	case *Skip, *Create:
		kept, err := BindAtNewLocation(w, env, dest)
		return kept, skipped, err
	case *ReadConfig:
		return nil, nil, errors.Newf(errors.ErrOperationConflict, "read-config %s cannot target a destination", w.src)
	default:
		return nil, nil, unknownOperation(winner)
	}
}

// Process applies an operation to disk and reports the outcome. Only
// ReadConfig changes the variables it returns.
func Process(op Operation, env *Environment, vars types.Variables) (Result, types.Variables, error) {
	switch o := op.(type) {
	case *Skip:
		return env.report(Result{
			Package:     o.src.Package(),
			Action:      ActionSkipped,
			Destination: o.dest.Relative(),
			Message:     o.Reason,
		}), vars, nil
	case *Create:
		result, err := o.process(env, vars)
		return result, vars, err
	case *Merge:
		result, err := o.process(env, vars)
		return result, vars, err
	case *ReadConfig:
		return o.process(env, vars)
	default:
		return Result{}, vars, unknownOperation(op)
	}
}

func (c *Create) process(env *Environment, vars types.Variables) (Result, error) {
	result := Result{Package: c.src.Package(), Destination: c.dest.Relative()}

	exists, err := pathExists(env.FS, c.dest.Absolute())
	if err != nil {
		return result, err
	}
	if exists && !c.Overwrite {
		result.Action = ActionSkipped
		result.Message = "already exists"
		return env.report(result), nil
	}

	data, err := Content(c, env, vars)
	if err != nil {
		return result, err
	}

	if len(data) == 0 {
		if !exists {
			result.Action = ActionSkipped
			result.Message = "empty content"
			return env.report(result), nil
		}
		if !env.DryRun {
			if err := removeFile(env.FS, c.src, c.dest); err != nil {
				return result, err
			}
		}
		result.Action = ActionDeleted
		result.Message = "empty content"
		return env.report(result), nil
	}

	if !env.DryRun {
		if err := writeFile(env.FS, c.src, c.dest, data); err != nil {
			return result, err
		}
	}
	result.Action = ActionCreated
	if exists {
		result.Action = ActionOverwritten
	}
	result.Message = fmt.Sprintf("from %s", c.src)
	return env.report(result), nil
}

func (m *Merge) process(env *Environment, vars types.Variables) (Result, error) {
	result := Result{Package: m.src.Package(), Destination: m.dest.Relative()}

	data, err := Content(m, env, vars)
	if err != nil {
		return result, err
	}
	if !env.DryRun {
		if err := writeFile(env.FS, m.src, m.dest, data); err != nil {
			return result, err
		}
	}

	result.Action = ActionMerged
	if !m.exists {
		result.Action = ActionCreated
	}
	result.Message = fmt.Sprintf("from %s", m.src)
	return env.report(result), nil
}

func (r *ReadConfig) process(env *Environment, vars types.Variables) (Result, types.Variables, error) {
	result := Result{Package: r.src.Package(), Destination: r.src.Relative()}

	data, err := Content(r, env, vars)
	if err != nil {
		return result, vars, err
	}
	questions, err := ParseQuestions(data, r.src.String())
	if err != nil {
		return result, vars, err
	}

	next, resolved, err := questions.Resolve(env, vars, r.src.Package())
	if err != nil {
		return result, vars, err
	}

	if env.Sink != nil && !env.DryRun && len(resolved) > 0 {
		if err := env.Sink.SaveVariables(resolved); err != nil {
			return result, vars, err
		}
	}

	result.Action = ActionConfigured
	result.Message = fmt.Sprintf("%d of %d variables resolved", len(resolved), len(questions.Questions))
	return env.report(result), next, nil
}
