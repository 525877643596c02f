package plan

import (
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/arthur-debert/scaffold/pkg/resolver"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/rs/zerolog"
)

// UpToDateReason is reported for operations the sweep found already applied
const UpToDateReason = "already up to date"

// Item is one operation in a package's ordered list
type Item struct {
	Destination string
	Operation   operations.Operation
}

type slot struct {
	pkg   string
	index int
}

// Collection holds every package's operations and the winning operation
// per destination
type Collection struct {
	env     *operations.Environment
	locator types.Locator
	logger  zerolog.Logger

	packages []string
	items    map[string][]Item
	winners  map[string]slot
	keys     []string
}

// New creates an empty Collection. env supplies the filesystem snapshots
// are taken from; locator resolves destinations.
func New(env *operations.Environment, locator types.Locator) *Collection {
	return &Collection{
		env:     env,
		locator: locator,
		logger:  logging.GetLogger("plan"),
		items:   make(map[string][]Item),
		winners: make(map[string]slot),
	}
}

// Key returns the plan key for a normalized destination. The template
// suffix is dropped since a rendered file replaces its template.
func Key(destination string) string {
	return strings.TrimSuffix(destination, types.TemplateSuffix)
}

// Add appends a package's entries. Packages must be added in priority
// order, highest last. ReadConfig entries move to the front of the
// package's list.
func (c *Collection) Add(pkg string, entries []resolver.Entry) error {
	if _, exists := c.items[pkg]; exists {
		return errors.Newf(errors.ErrInvalidInput, "package %s added to the plan twice", pkg).
			WithDetail("package", pkg)
	}
	c.packages = append(c.packages, pkg)
	c.items[pkg] = make([]Item, 0, len(entries))

	for _, entry := range orderEntries(entries) {
		if _, ok := entry.Operation.(*operations.ReadConfig); ok {
			c.items[pkg] = append(c.items[pkg], Item{Operation: entry.Operation})
			continue
		}
		if err := c.place(pkg, entry); err != nil {
			return errors.Wrapf(err, errors.GetErrorCode(err), "cannot plan %s", entry.Destination).
				WithDetail("package", pkg).
				WithDetail("destination", entry.Destination)
		}
	}

	c.logger.Debug().
		Str("package", pkg).
		Int("operations", len(c.items[pkg])).
		Int("destinations", len(c.keys)).
		Msg("Package added to plan")
	return nil
}

func (c *Collection) place(pkg string, entry resolver.Entry) error {
	dest, err := types.NewDestinationPath(pkg, entry.Destination, c.locator)
	if err != nil {
		return err
	}

	key := Key(entry.Destination)
	previous, collides := c.winners[key]

	var kept operations.Operation
	if collides {
		loser := c.items[previous.pkg][previous.index].Operation
		var skipped *operations.Skip
		kept, skipped, err = operations.ResolveCollision(c.env, entry.Operation, loser, dest)
		if err != nil {
			return err
		}
		c.items[previous.pkg][previous.index].Operation = skipped

		c.logger.Debug().
			Str("destination", key).
			Str("winner", pkg).
			Str("loser", previous.pkg).
			Str("operation", operations.Name(kept)).
			Msg("Destination collision resolved")
	} else {
		kept, err = operations.BindAtNewLocation(entry.Operation, c.env, dest)
		if err != nil {
			return err
		}
		c.keys = append(c.keys, key)
	}

	c.items[pkg] = append(c.items[pkg], Item{Destination: entry.Destination, Operation: kept})
	c.winners[key] = slot{pkg: pkg, index: len(c.items[pkg]) - 1}
	return nil
}

// orderEntries moves ReadConfig entries to the front, keeping relative order
func orderEntries(entries []resolver.Entry) []resolver.Entry {
	ordered := make([]resolver.Entry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := entry.Operation.(*operations.ReadConfig); ok {
			ordered = append(ordered, entry)
		}
	}
	for _, entry := range entries {
		if _, ok := entry.Operation.(*operations.ReadConfig); !ok {
			ordered = append(ordered, entry)
		}
	}
	return ordered
}

// Packages returns package ids in the order they were added
func (c *Collection) Packages() []string {
	return append([]string(nil), c.packages...)
}

// Entries returns a package's operations in execution order
func (c *Collection) Entries(pkg string) []Item {
	return append([]Item(nil), c.items[pkg]...)
}

// Destinations returns plan keys in the order they were first claimed
func (c *Collection) Destinations() []string {
	return append([]string(nil), c.keys...)
}

// Winner returns the active operation at a normalized destination
func (c *Collection) Winner(destination string) (Item, bool) {
	s, ok := c.winners[Key(destination)]
	if !ok {
		return Item{}, false
	}
	return c.items[s.pkg][s.index], true
}

// Len returns the number of planned destinations
func (c *Collection) Len() int {
	return len(c.keys)
}
