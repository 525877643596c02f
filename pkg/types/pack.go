package types

import (
	"path/filepath"
)

// Package is an asset package contributing files to the project.
type Package struct {
	// Name is the package id used in messages and collision reports
	Name string

	// Path is the absolute path to the package directory
	Path string

	// AssetsDir is the directory asset rules are relative to
	AssetsDir string

	// Assets holds the raw declared rules, keyed by mode
	Assets map[string]interface{}

	// Variables are free-form values declared by the package, used as
	// rendering defaults beneath the project's own configuration
	Variables map[string]interface{}
}

// AssetsPath returns the absolute directory asset rules are relative to
func (p *Package) AssetsPath() string {
	if p.AssetsDir == "" {
		return p.Path
	}
	if filepath.IsAbs(p.AssetsDir) {
		return p.AssetsDir
	}
	return filepath.Join(p.Path, p.AssetsDir)
}

// GetFilePath returns the full path to a file within the package
func (p *Package) GetFilePath(filename string) string {
	return filepath.Join(p.Path, filename)
}
