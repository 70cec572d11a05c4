// Package checksum fingerprints file contents.
//
// The watch loop uses a fingerprint of the project files to tell a real edit
// from an event that left the bytes unchanged (a touch, or an editor that
// rewrites the file on focus loss), so the server is only updated when
// something actually changed.
//
// # Example Usage
//
//	calculator := checksum.New()
//	digest, err := calculator.Files(fsProvider, []string{"template.html", "tutorial.html"})
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
