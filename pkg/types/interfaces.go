package types

import (
	"io/fs"
)

// FS is the filesystem interface required for scaffold operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
}

// Locator turns a symbolic destination ("[web-root]/x") into an absolute path.
// Implemented by paths.Resolver.
type Locator interface {
	Substitute(path string) (string, error)
}
