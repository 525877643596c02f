package config

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

// Store writes resolved variables back into the project configuration
type Store struct {
	fs   types.FS
	path string
}

// NewStore creates a Store for the configuration file of the project at root
func NewStore(fsys types.FS, root string) *Store {
	return &Store{fs: fsys, path: filepath.Join(root, FileName)}
}

// Path returns the configuration file the store writes
func (s *Store) Path() string {
	return s.path
}

// SaveVariables merges dot-notation values into [variables]. Keys nest at
// most two levels: "db.driver" becomes driver in [variables.db] and
// "a.b.c" becomes "b.c" in [variables.a]. Other settings in the file are
// kept; comments are not.
func (s *Store) SaveVariables(values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	logger := logging.GetLogger("config.store")

	doc := make(map[string]interface{})
	data, err := s.fs.ReadFile(s.path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", s.path).
				WithDetail("file", s.path)
		}
	case stderrors.Is(err, fs.ErrNotExist):
	default:
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", s.path).
			WithDetail("file", s.path)
	}

	vars, _ := doc["variables"].(map[string]interface{})
	if vars == nil {
		vars = make(map[string]interface{})
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := types.NestVariable(vars, key, values[key]); err != nil {
			return errors.Wrapf(err, errors.ErrConfigInvalid, "cannot save variables to %s", s.path).
				WithDetail("file", s.path)
		}
	}
	doc["variables"] = vars

	out, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode configuration")
	}
	if err := s.fs.WriteFile(s.path, out, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", s.path).
			WithDetail("file", s.path)
	}

	logger.Debug().Str("file", s.path).Strs("keys", keys).Msg("Saved variables")
	return nil
}
