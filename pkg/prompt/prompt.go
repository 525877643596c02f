// Package prompt asks the user for unresolved variables with pterm
// interactive printers. Prompting is only enabled when stdin is a terminal.
package prompt

import (
	"fmt"
	"os"
	"regexp"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// MaxAttempts is how often an answer failing validation is asked again
const MaxAttempts = 3

// Prompter asks questions on the terminal
type Prompter struct {
	enabled bool

	input  func(message, def string) (string, error)
	choose func(message string, options []string, def string) (string, error)
	warn   func(message string)
}

// New creates a Prompter. Questions are only asked when stdin is a
// terminal and noInteraction is false.
func New(noInteraction bool) *Prompter {
	return &Prompter{
		enabled: !noInteraction && StdinIsTerminal(),
		input:   textInput,
		choose:  selectInput,
		warn:    func(message string) { pterm.Warning.Println(message) },
	}
}

// StdinIsTerminal reports whether stdin is attached to a terminal
func StdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Interactive reports whether Ask may be called
func (p *Prompter) Interactive() bool {
	return p.enabled
}

// Ask puts a question to the user. With options a selection menu is
// shown; otherwise a text input prefilled with the default. Answers that
// fail validation are asked again up to MaxAttempts times.
func (p *Prompter) Ask(req operations.PromptRequest) (string, error) {
	logger := logging.GetLogger("prompt").With().Str("key", req.Key).Logger()

	if !p.enabled {
		return "", errors.Newf(errors.ErrPromptFailed, "cannot ask for %s without a terminal", req.Key).
			WithDetail("variable", req.Key)
	}

	var validation *regexp.Regexp
	if req.Validation != "" {
		re, err := regexp.Compile(req.Validation)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigInvalid, "invalid validation pattern for %s", req.Key).
				WithDetail("validation", req.Validation)
		}
		validation = re
	}

	message := req.Message
	if message == "" {
		message = req.Key
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		var answer string
		var err error
		if len(req.Options) > 0 {
			answer, err = p.choose(message, req.Options, req.Default)
		} else {
			answer, err = p.input(message, req.Default)
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrPromptFailed, "cannot ask for %s", req.Key).
				WithDetail("variable", req.Key)
		}

		if validation == nil || validation.MatchString(answer) {
			logger.Debug().Int("attempt", attempt).Msg("Answer accepted")
			return answer, nil
		}
		p.warn(fmt.Sprintf("%q does not match %s", answer, req.Validation))
	}

	return "", errors.Newf(errors.ErrPromptFailed, "no valid answer for %s after %d attempts", req.Key, MaxAttempts).
		WithDetail("variable", req.Key).
		WithDetail("validation", req.Validation)
}

func textInput(message, def string) (string, error) {
	return pterm.DefaultInteractiveTextInput.
		WithDefaultValue(def).
		Show(message)
}

func selectInput(message string, options []string, def string) (string, error) {
	printer := pterm.DefaultInteractiveSelect.WithOptions(options)
	for _, option := range options {
		if option == def {
			printer = printer.WithDefaultOption(def)
			break
		}
	}
	return printer.Show(message)
}
