package filesystem

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// EmbedFileSystem implements a read-only FileSystemProvider over an embed.FS.
// Paths are resolved relative to root and always use forward slashes.
type EmbedFileSystem struct {
	embedFS embed.FS
	root    string
}

// NewEmbedFileSystem creates a new filesystem provider wrapping an embed.FS.
func NewEmbedFileSystem(embedFS embed.FS, root string) *EmbedFileSystem {
	return &EmbedFileSystem{
		embedFS: embedFS,
		root:    path.Clean(root),
	}
}

func (efs *EmbedFileSystem) resolve(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || p == "." {
		return efs.root
	}
	return path.Clean(path.Join(efs.root, strings.TrimPrefix(p, "/")))
}

// Open implements FileSystemProvider.Open
func (efs *EmbedFileSystem) Open(openPath string) (io.ReadCloser, error) {
	f, err := efs.embedFS.Open(efs.resolve(openPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", openPath, err)
	}
	return f, nil
}

// ReadFile implements FileSystemProvider.ReadFile
func (efs *EmbedFileSystem) ReadFile(filePath string) ([]byte, error) {
	content, err := efs.embedFS.ReadFile(efs.resolve(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return content, nil
}

// ReadDir implements FileSystemProvider.ReadDir
func (efs *EmbedFileSystem) ReadDir(dirPath string) ([]FileInfo, error) {
	entries, err := efs.embedFS.ReadDir(efs.resolve(dirPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}
	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		result = append(result, info)
	}
	return result, nil
}

// Stat implements FileSystemProvider.Stat
func (efs *EmbedFileSystem) Stat(statPath string) (FileInfo, error) {
	info, err := fs.Stat(efs.embedFS, efs.resolve(statPath))
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %s: %w", statPath, err)
	}
	return info, nil
}

// WriteFile always fails: embedded files are read-only.
func (efs *EmbedFileSystem) WriteFile(filePath string, _ []byte, _ fs.FileMode) error {
	return fmt.Errorf("cannot write %s: embedded filesystem is read-only", filePath)
}

var _ FileSystemProvider = (*EmbedFileSystem)(nil)
