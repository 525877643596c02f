package operations

import (
	"github.com/arthur-debert/scaffold/pkg/types"
)

// Operation is implemented by *Skip, *Create, *Merge and *ReadConfig only
type Operation interface {
	// Source is the package file the operation reads
	Source() types.ScaffoldPath
	// Destination is the project file the operation writes. It is zero
	// until the operation is bound by the plan.
	Destination() types.ScaffoldPath

	isOperation()
}

// memo holds content computed on first use
type memo struct {
	done bool
	data []byte
	err  error
}

func (m *memo) get(compute func() ([]byte, error)) ([]byte, error) {
	if !m.done {
		m.data, m.err = compute()
		m.done = true
	}
	return m.data, m.err
}

// Skip leaves its destination alone and reports why
type Skip struct {
	src    types.ScaffoldPath
	dest   types.ScaffoldPath
	Reason string
}

// NewSkip creates a Skip for the given source
func NewSkip(src types.ScaffoldPath, reason string) *Skip {
	return &Skip{src: src, Reason: reason}
}

// SkipAt replaces an operation with a Skip at the same source and destination
func SkipAt(op Operation, reason string) *Skip {
	return &Skip{src: op.Source(), dest: op.Destination(), Reason: reason}
}

func (s *Skip) Source() types.ScaffoldPath      { return s.src }
func (s *Skip) Destination() types.ScaffoldPath { return s.dest }
func (s *Skip) isOperation()                    {}

// Create writes its content to a destination that does not exist yet. With
// Overwrite set existing content is replaced. Empty content deletes the
// destination instead of writing an empty file.
type Create struct {
	src       types.ScaffoldPath
	dest      types.ScaffoldPath
	Overwrite bool

	exists  bool
	content memo
}

// NewCreate creates a Create for the given source
func NewCreate(src types.ScaffoldPath, overwrite bool) *Create {
	return &Create{src: src, Overwrite: overwrite}
}

func (c *Create) Source() types.ScaffoldPath      { return c.src }
func (c *Create) Destination() types.ScaffoldPath { return c.dest }
func (c *Create) isOperation()                    {}

// Merge combines its content with the destination's content as captured
// when the operation was bound. It always writes and never deletes.
type Merge struct {
	src  types.ScaffoldPath
	dest types.ScaffoldPath

	base    []byte
	exists  bool
	bound   bool
	content memo
}

// NewMerge creates a Merge for the given source
func NewMerge(src types.ScaffoldPath) *Merge {
	return &Merge{src: src}
}

func (m *Merge) Source() types.ScaffoldPath      { return m.src }
func (m *Merge) Destination() types.ScaffoldPath { return m.dest }
func (m *Merge) isOperation()                    {}

// Base returns the captured destination content used as the merge base
func (m *Merge) Base() []byte { return m.base }

// ReadConfig resolves the questions declared in a package file into
// variables. It has no destination.
type ReadConfig struct {
	src     types.ScaffoldPath
	content memo
}

// NewReadConfig creates a ReadConfig for the given question file
func NewReadConfig(src types.ScaffoldPath) *ReadConfig {
	return &ReadConfig{src: src}
}

func (r *ReadConfig) Source() types.ScaffoldPath      { return r.src }
func (r *ReadConfig) Destination() types.ScaffoldPath { return types.ScaffoldPath{} }
func (r *ReadConfig) isOperation()                    {}

// Name returns the mode name of an operation as used in package manifests
func Name(op Operation) string {
	switch o := op.(type) {
	case *Skip:
		return "skip"
	case *Create:
		if o.Overwrite {
			return "overwrite"
		}
		return "create"
	case *Merge:
		return "merge"
	case *ReadConfig:
		return "read-config"
	default:
		return "unknown"
	}
}
