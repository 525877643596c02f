package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// FileName is the project configuration file at the project root
	FileName = "scaffold.toml"

	// EnvPrefix marks environment overrides: SCAFFOLD_FORMAT=text sets
	// scaffold.format, SCAFFOLD_NO_INTERACTION=1 scaffold.no-interaction
	EnvPrefix = "SCAFFOLD_"
)

// Output formats
const (
	FormatAuto = "auto"
	FormatTerm = "term"
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the loaded project configuration
type Config struct {
	Scaffold  Settings               `koanf:"scaffold"`
	Variables map[string]interface{} `koanf:"variables"`

	// Path is the configuration file, which may not exist yet
	Path string `koanf:"-"`
}

// Settings are the tool's own options
type Settings struct {
	Packages      []string          `koanf:"packages"`
	Locations     map[string]string `koanf:"locations"`
	Format        string            `koanf:"format"`
	NoInteraction bool              `koanf:"no-interaction"`
}

// Vars returns the configured variables as a snapshot
func (c *Config) Vars() types.Variables {
	return types.NewVariables(c.Variables)
}

// PackagePaths returns the package directories resolved against root
func (c *Config) PackagePaths(root string) []string {
	out := make([]string, 0, len(c.Scaffold.Packages))
	for _, p := range c.Scaffold.Packages {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}

// Load reads the configuration of the project at root. overrides are
// applied last, keyed by dot path ("scaffold.format").
func Load(root string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(bytesProvider(defaultConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Project file
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load %s", path).
				WithDetail("file", path)
		}
		logger.Debug().Str("file", path).Msg("Loaded project configuration")
	} else if !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path).
			WithDetail("file", path)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Caller overrides (command line flags)
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.Path = path

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("packages", len(cfg.Scaffold.Packages)).
		Int("locations", len(cfg.Scaffold.Locations)).
		Str("format", cfg.Scaffold.Format).
		Msg("Configuration loaded")
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Scaffold.Format {
	case FormatAuto, FormatTerm, FormatText, FormatJSON:
	default:
		return errors.Newf(errors.ErrConfigInvalid, "unknown output format %q", c.Scaffold.Format).
			WithDetail("file", c.Path)
	}
	for i, p := range c.Scaffold.Packages {
		if strings.TrimSpace(p) == "" {
			return errors.Newf(errors.ErrConfigInvalid, "package %d has an empty path", i+1).
				WithDetail("file", c.Path)
		}
	}
	if c.Variables == nil {
		c.Variables = make(map[string]interface{})
	}
	return nil
}

// envKey maps SCAFFOLD_NO_INTERACTION to scaffold.no-interaction
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return "scaffold." + strings.ReplaceAll(key, "_", "-")
}
