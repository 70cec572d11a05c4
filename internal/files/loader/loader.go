package loader

import (
	"fmt"
	"io"

	"github.com/pybossa/pbs/internal/files/filesystem"
	"github.com/pybossa/pbs/pkg/pbs"
)

// Row is one task or helping-material record keyed by field name.
type Row map[string]any

// ParseError reports a malformed data file.
type ParseError struct {
	Format Format
	Line   int // 1-based, 0 if unknown
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s parse error (line %d): %s", e.Format, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Msg)
}

func (e *ParseError) Unwrap() error { return pbs.ErrInvalidData }

type decodeFunc func(r io.Reader) ([]Row, error)

var decoders = map[Format]decodeFunc{
	FormatJSON:       decodeJSON,
	FormatCSV:        decodeCSV,
	FormatExcel:      decodeExcel,
	FormatPO:         decodePO,
	FormatProperties: decodeProperties,
}

// Decode reads every row from r using the decoder for f.
// FormatUnknown returns no rows and pbs.ErrUnknownFormat.
func Decode(r io.Reader, f Format) ([]Row, error) {
	decode, ok := decoders[f]
	if !ok {
		return nil, pbs.ErrUnknownFormat
	}
	rows, err := decode(r)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Loader reads data files through a filesystem provider.
type Loader struct {
	fs filesystem.FileSystemProvider
}

// NewLoader creates a Loader backed by fsProvider.
func NewLoader(fsProvider filesystem.FileSystemProvider) *Loader {
	return &Loader{fs: fsProvider}
}

// LoadFile resolves the format of path (declared type first, then suffix)
// and decodes it. The format is checked before the file is opened.
func (l *Loader) LoadFile(path, declared string) ([]Row, Format, error) {
	f := ParseFormat(declared, path)
	if f == FormatUnknown {
		return nil, f, pbs.ErrUnknownFormat
	}

	file, err := l.fs.Open(path)
	if err != nil {
		return nil, f, fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer file.Close()

	rows, err := Decode(file, f)
	if err != nil {
		return nil, f, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return rows, f, nil
}
