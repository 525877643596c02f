package plan

import (
	stderrors "errors"
	"io/fs"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/zeebo/blake3"
)

// Sweep converts winning operations whose content already matches the
// destination into skips. Templated operations are left alone because
// their variables are only final at execution time. It returns how many
// operations were converted.
func (c *Collection) Sweep(vars types.Variables) (int, error) {
	swept := 0
	for _, key := range c.keys {
		s := c.winners[key]
		item := c.items[s.pkg][s.index]

		switch item.Operation.(type) {
		case *operations.Create, *operations.Merge:
		default:
			continue
		}
		if operations.IsTemplated(item.Operation) {
			continue
		}

		same, err := c.matchesDisk(item.Operation, vars)
		if err != nil {
			return swept, errors.Wrapf(err, errors.GetErrorCode(err), "cannot compare %s", key).
				WithDetail("package", s.pkg).
				WithDetail("destination", key)
		}
		if !same {
			continue
		}

		c.items[s.pkg][s.index].Operation = operations.SkipAt(item.Operation, UpToDateReason)
		swept++
		c.logger.Debug().Str("destination", key).Str("package", s.pkg).Msg("Destination already up to date")
	}
	return swept, nil
}

func (c *Collection) matchesDisk(op operations.Operation, vars types.Variables) (bool, error) {
	content, err := operations.Content(op, c.env, vars)
	if err != nil {
		return false, err
	}
	// empty content deletes, which is never a no-op on an existing file
	if len(content) == 0 {
		return false, nil
	}

	current, err := c.env.FS.ReadFile(op.Destination().Absolute())
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", op.Destination())
	}
	return Digest(content) == Digest(current), nil
}

// Digest returns the blake3 sum of content
func Digest(content []byte) [32]byte {
	return blake3.Sum256(content)
}
