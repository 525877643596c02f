// Package filesystem implements types.FS on top of afero: the OS
// filesystem at runtime, a read-only view of it for planning, and an
// in-memory filesystem for tests.
package filesystem
