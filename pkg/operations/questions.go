package operations

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/types"
	"gopkg.in/yaml.v3"
)

// Ask modes for a question
const (
	AskMissing = "missing"
	AskAlways  = "always"
)

// Question is one variable a package wants resolved
type Question struct {
	Key        string      `yaml:"-"`
	Prompt     string      `yaml:"question"`
	Default    interface{} `yaml:"default"`
	Options    []string    `yaml:"options"`
	Validation string      `yaml:"validation"`
	Filter     string      `yaml:"filter"`
	Ask        string      `yaml:"ask"`
}

// QuestionFile is the parsed content of a read-config source:
//
//	required: [project.name]
//	questions:
//	  project.name:
//	    question: "Project name"
//	    default: acme
//	    filter: "^(\\w+)"
type QuestionFile struct {
	Required  []string
	Questions []Question
}

type questionDocument struct {
	Required  []string  `yaml:"required"`
	Questions yaml.Node `yaml:"questions"`
}

// ParseQuestions parses a question file, keeping declaration order
func ParseQuestions(data []byte, name string) (*QuestionFile, error) {
	var doc questionDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid question file %s", name).
			WithDetail("file", name)
	}

	file := &QuestionFile{Required: doc.Required}
	if doc.Questions.Kind == 0 {
		return file, nil
	}
	if doc.Questions.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigInvalid, "invalid question file %s: questions must be a mapping", name).
			WithDetail("file", name)
	}

	for i := 0; i+1 < len(doc.Questions.Content); i += 2 {
		key := doc.Questions.Content[i].Value
		var q Question
		if err := doc.Questions.Content[i+1].Decode(&q); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid question %q in %s", key, name).
				WithDetail("file", name)
		}
		q.Key = key
		switch q.Ask {
		case "":
			q.Ask = AskMissing
		case AskMissing, AskAlways:
		default:
			return nil, errors.Newf(errors.ErrConfigInvalid, "invalid question %q in %s: unknown ask mode %q", key, name, q.Ask).
				WithDetail("file", name)
		}
		file.Questions = append(file.Questions, q)
	}
	return file, nil
}

// Resolve works through the questions in order. A known value is used as
// is unless the question always asks; missing values are prompted for when
// the environment is interactive and fall back to the default otherwise.
// The filter applies to every resolved value. It returns the updated
// variables and the values resolved here.
func (f *QuestionFile) Resolve(env *Environment, vars types.Variables, pkg string) (types.Variables, map[string]interface{}, error) {
	logger := logging.GetLogger("operations.questions").With().Str("package", pkg).Logger()
	resolved := make(map[string]interface{})

	for _, q := range f.Questions {
		value, known := vars.Get(q.Key)
		known = known && vars.IsSet(q.Key)

		switch {
		case env.interactive() && (!known || q.Ask == AskAlways):
			current := fmt.Sprint(q.Default)
			if known {
				current = fmt.Sprint(value)
			} else if q.Default == nil {
				current = ""
			}
			answer, err := env.Prompter.Ask(PromptRequest{
				Key:        q.Key,
				Message:    q.message(),
				Default:    current,
				Options:    q.Options,
				Validation: q.Validation,
			})
			if err != nil {
				return vars, nil, errors.Wrapf(err, errors.ErrPromptFailed, "cannot ask for %s", q.Key).
					WithDetail("package", pkg)
			}
			value, known = answer, answer != ""
		case !known && q.Default != nil:
			value, known = q.Default, true
		}

		if !known {
			logger.Debug().Str("key", q.Key).Msg("Question left unresolved")
			continue
		}

		filtered, err := q.apply(value)
		if err != nil {
			return vars, nil, err
		}
		vars = vars.With(q.Key, filtered)
		resolved[q.Key] = filtered
		logger.Debug().Str("key", q.Key).Interface("value", filtered).Msg("Resolved variable")
	}

	for _, key := range f.Required {
		if !vars.IsSet(key) {
			return vars, nil, errors.Newf(errors.ErrUnresolvedVariable, "required variable %s is not set", key).
				WithDetail("package", pkg).
				WithDetail("variable", key)
		}
	}
	return vars, resolved, nil
}

func (q Question) message() string {
	if q.Prompt != "" {
		return q.Prompt
	}
	return q.Key
}

// apply runs the filter over a value. The first capture group of a match
// replaces the value; a value that does not match is kept.
func (q Question) apply(value interface{}) (interface{}, error) {
	if q.Filter == "" {
		return value, nil
	}
	re, err := regexp.Compile(q.Filter)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid filter for %s", q.Key).
			WithDetail("filter", q.Filter)
	}
	if re.NumSubexp() != 1 {
		return nil, errors.Newf(errors.ErrConfigInvalid, "filter for %s must have exactly one capture group", q.Key).
			WithDetail("filter", q.Filter)
	}
	match := re.FindStringSubmatch(fmt.Sprint(value))
	if match == nil {
		return value, nil
	}
	return strings.TrimSpace(match[1]), nil
}
