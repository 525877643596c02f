package config

import (
	_ "embed"

	"github.com/arthur-debert/scaffold/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultContent returns the embedded default configuration
func DefaultContent() string {
	return string(defaultConfig)
}

// bytesProvider feeds a byte slice to koanf through a parser
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "bytesProvider needs a parser")
}
