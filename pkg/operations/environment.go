package operations

import (
	"github.com/arthur-debert/scaffold/pkg/types"
)

// Action is what processing an operation did to its destination
type Action string

const (
	ActionSkipped     Action = "skipped"
	ActionCreated     Action = "created"
	ActionOverwritten Action = "overwritten"
	ActionMerged      Action = "merged"
	ActionDeleted     Action = "deleted"
	ActionConfigured  Action = "configured"
)

// Result captures the outcome of processing one operation
type Result struct {
	Package     string
	Action      Action
	Destination string
	Message     string
	DryRun      bool
}

// Reporter receives one status line per processed operation
type Reporter interface {
	Report(result Result)
}

// Renderer produces the content of a templated source file
type Renderer interface {
	Render(path string, vars types.Variables) ([]byte, error)
}

// PromptRequest describes one question put to the user
type PromptRequest struct {
	Key        string
	Message    string
	Default    string
	Options    []string
	Validation string
}

// Prompter asks the user for values
type Prompter interface {
	// Interactive reports whether questions can be asked at all
	Interactive() bool
	Ask(req PromptRequest) (string, error)
}

// ConfigSink persists resolved variables. Keys use dot notation.
type ConfigSink interface {
	SaveVariables(values map[string]interface{}) error
}

// Environment carries the collaborators operations need. Only FS is
// required; a nil Prompter behaves as non-interactive and nil Sink or
// Reporter are skipped.
type Environment struct {
	FS       types.FS
	Renderer Renderer
	Prompter Prompter
	Sink     ConfigSink
	Reporter Reporter
	DryRun   bool
}

func (env *Environment) report(result Result) Result {
	result.DryRun = env.DryRun
	if env.Reporter != nil {
		env.Reporter.Report(result)
	}
	return result
}

func (env *Environment) interactive() bool {
	return env.Prompter != nil && env.Prompter.Interactive()
}
