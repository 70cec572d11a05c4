package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pybossa/pbs/internal/files/filesystem"
)

// Calculator computes content digests.
type Calculator interface {
	// Calculate returns the digest of content.
	Calculate(content []byte) string

	// Files returns a single digest over the contents of paths, in order.
	Files(provider filesystem.FileSystemProvider, paths []string) (string, error)
}

// SHA256 implements Calculator using SHA-256.
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

var _ Calculator = SHA256{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// Calculate computes SHA-256 of content.
func (c SHA256) Calculate(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Files hashes each path and its content. A missing file contributes only a
// marker, so creating or deleting an optional file changes the digest.
// Empty paths are skipped.
func (c SHA256) Files(provider filesystem.FileSystemProvider, paths []string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		if p == "" {
			continue
		}
		content, err := provider.ReadFile(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintf(h, "%s\x00missing\x00", p)
			continue
		case err != nil:
			return "", fmt.Errorf("failed to read %s: %w", p, err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00", p, len(content))
		h.Write(content)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
