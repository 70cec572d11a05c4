package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// FileSystemProvider gives access to data files, templates and project
// descriptors without tying callers to the OS filesystem.
type FileSystemProvider interface {
	// Open opens a file for streaming reads. Callers must close it.
	Open(path string) (io.ReadCloser, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// ReadDir reads the directory entries at the given path.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)

	// WriteFile writes data to path, creating parent directories as needed.
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// Exists reports whether path can be stat'ed through provider.
func Exists(provider FileSystemProvider, path string) bool {
	_, err := provider.Stat(path)
	return err == nil
}
