package filesystem

import (
	"io/fs"
	"sort"

	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/spf13/afero"
)

// FS adapts an afero.Fs to types.FS
type FS struct {
	base afero.Fs
}

var _ types.FS = (*FS)(nil)

// New wraps an afero filesystem
func New(base afero.Fs) *FS {
	return &FS{base: base}
}

// NewOS returns the operating system filesystem
func NewOS() *FS {
	return New(afero.NewOsFs())
}

// NewReadOnlyOS returns the operating system filesystem with every
// mutation refused
func NewReadOnlyOS() *FS {
	return New(afero.NewReadOnlyFs(afero.NewOsFs()))
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() *FS {
	return New(afero.NewMemMapFs())
}

func (f *FS) Stat(name string) (fs.FileInfo, error) {
	return f.base.Stat(name)
}

// ReadFile refuses directories on every backend
func (f *FS) ReadFile(name string) ([]byte, error) {
	info, err := f.base.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(f.base, name)
}

func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(f.base, name, data, perm)
}

func (f *FS) Chmod(name string, mode fs.FileMode) error {
	return f.base.Chmod(name, mode)
}

func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	return f.base.MkdirAll(path, perm)
}

// ReadDir returns the entries of a directory sorted by name
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(f.base, name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (f *FS) Remove(name string) error {
	return f.base.Remove(name)
}
