package types

import (
	"path/filepath"
	"strings"
)

// TemplateSuffix marks an asset whose content is produced by the renderer.
// The rendered output replaces the template, so destinations drop it.
const TemplateSuffix = ".tmpl"

// PathKind tells a source path from a destination path
type PathKind int

const (
	// SourcePath is a file inside a package
	SourcePath PathKind = iota
	// DestinationPath is a file inside the project
	DestinationPath
)

func (k PathKind) String() string {
	if k == DestinationPath {
		return "destination"
	}
	return "source"
}

// ScaffoldPath describes one side of an asset: the package it belongs to,
// its path relative to the package (source) or to a symbolic root
// (destination), and the resolved absolute path on disk.
type ScaffoldPath struct {
	kind     PathKind
	pkg      string
	relative string
	absolute string
}

// NewSourcePath builds the path of a file inside a package. root is the
// directory the relative path is resolved against.
func NewSourcePath(pkg, root, relative string) ScaffoldPath {
	relative = filepath.ToSlash(relative)
	return ScaffoldPath{
		kind:     SourcePath,
		pkg:      pkg,
		relative: relative,
		absolute: filepath.Join(root, filepath.FromSlash(relative)),
	}
}

// NewDestinationPath builds a destination path from its symbolic form.
// The physical path has the template suffix stripped.
func NewDestinationPath(pkg, relative string, locator Locator) (ScaffoldPath, error) {
	relative = filepath.ToSlash(relative)
	absolute, err := locator.Substitute(strings.TrimSuffix(relative, TemplateSuffix))
	if err != nil {
		return ScaffoldPath{}, err
	}
	return ScaffoldPath{
		kind:     DestinationPath,
		pkg:      pkg,
		relative: relative,
		absolute: absolute,
	}, nil
}

// Kind reports whether this is a source or destination path
func (p ScaffoldPath) Kind() PathKind { return p.kind }

// Package returns the id of the package the path belongs to
func (p ScaffoldPath) Package() string { return p.pkg }

// Relative returns the package- or root-relative path, suffix included
func (p ScaffoldPath) Relative() string { return p.relative }

// Absolute returns the physical path on disk
func (p ScaffoldPath) Absolute() string { return p.absolute }

// IsTemplated reports whether the relative path carries the template suffix
func (p ScaffoldPath) IsTemplated() bool {
	return strings.HasSuffix(p.relative, TemplateSuffix)
}

// IsZero reports whether p is the zero value
func (p ScaffoldPath) IsZero() bool {
	return p.absolute == "" && p.relative == ""
}

func (p ScaffoldPath) String() string {
	if p.pkg == "" {
		return p.relative
	}
	return p.pkg + ":" + p.relative
}
