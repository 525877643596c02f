package prompt

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns a Prompter that replays answers in order
func scripted(answers ...string) (*Prompter, *[]string, *[]string) {
	var shown, warnings []string
	next := func() (string, error) {
		if len(answers) == 0 {
			return "", stderrors.New("no more answers")
		}
		answer := answers[0]
		answers = answers[1:]
		return answer, nil
	}
	p := &Prompter{
		enabled: true,
		input: func(message, def string) (string, error) {
			shown = append(shown, "input:"+message+":"+def)
			return next()
		},
		choose: func(message string, options []string, def string) (string, error) {
			shown = append(shown, "select:"+message+":"+def)
			return next()
		},
		warn: func(message string) { warnings = append(warnings, message) },
	}
	return p, &shown, &warnings
}

func TestAsk_TextInput(t *testing.T) {
	p, shown, _ := scripted("acme")

	answer, err := p.Ask(operations.PromptRequest{Key: "project.name", Message: "Project name", Default: "demo"})
	require.NoError(t, err)
	assert.Equal(t, "acme", answer)
	assert.Equal(t, []string{"input:Project name:demo"}, *shown)
}

func TestAsk_Select(t *testing.T) {
	p, shown, _ := scripted("pgsql")

	answer, err := p.Ask(operations.PromptRequest{Key: "db.driver", Default: "mysql", Options: []string{"mysql", "pgsql"}})
	require.NoError(t, err)
	assert.Equal(t, "pgsql", answer)
	assert.Equal(t, []string{"select:db.driver:mysql"}, *shown)
}

func TestAsk_Validation(t *testing.T) {
	t.Run("retries_until_valid", func(t *testing.T) {
		p, shown, warnings := scripted("Bad Name", "good")

		answer, err := p.Ask(operations.PromptRequest{Key: "slug", Validation: "^[a-z]+$"})
		require.NoError(t, err)
		assert.Equal(t, "good", answer)
		assert.Len(t, *shown, 2)
		assert.Len(t, *warnings, 1)
	})

	t.Run("gives_up", func(t *testing.T) {
		p, _, warnings := scripted("1", "2", "3", "never asked")

		_, err := p.Ask(operations.PromptRequest{Key: "slug", Validation: "^[a-z]+$"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPromptFailed))
		assert.Len(t, *warnings, MaxAttempts)
	})

	t.Run("invalid_pattern", func(t *testing.T) {
		p, shown, _ := scripted("x")

		_, err := p.Ask(operations.PromptRequest{Key: "slug", Validation: "(["})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
		assert.Empty(t, *shown)
	})
}

func TestAsk_InputError(t *testing.T) {
	p, _, _ := scripted()

	_, err := p.Ask(operations.PromptRequest{Key: "k"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPromptFailed))
}

func TestAsk_Disabled(t *testing.T) {
	p := New(true)
	assert.False(t, p.Interactive())

	_, err := p.Ask(operations.PromptRequest{Key: "k"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPromptFailed))
}
