// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// This package defines the FileSystemProvider interface used to read data
// files, project templates and descriptors, enabling testability through
// in-memory implementations while maintaining compatibility with the OS
// filesystem.
//
// Implementations:
//   - OSFileSystem: Production implementation using OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing
//   - EmbedFileSystem: Read-only view over an embed.FS (scaffold templates)
package filesystem
