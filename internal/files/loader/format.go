package loader

import (
	"path/filepath"
	"strings"
)

// Format identifies a data file encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatCSV
	FormatExcel
	FormatPO
	FormatProperties
)

var formatNames = map[Format]string{
	FormatUnknown:    "unknown",
	FormatJSON:       "json",
	FormatCSV:        "csv",
	FormatExcel:      "xlsx",
	FormatPO:         "po",
	FormatProperties: "properties",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat resolves the format of a data file. An explicit declared type
// wins; otherwise the suffix after the last "." of fileName is used.
// Unrecognized or missing types yield FormatUnknown.
func ParseFormat(declared, fileName string) Format {
	kind := strings.ToLower(strings.TrimSpace(declared))
	if kind == "" {
		ext := filepath.Ext(fileName)
		if ext == "" {
			return FormatUnknown
		}
		kind = strings.ToLower(ext[1:])
	}

	switch kind {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	case "xlsx", "xlsm", "xltx", "xltm":
		return FormatExcel
	case "po":
		return FormatPO
	case "properties":
		return FormatProperties
	default:
		return FormatUnknown
	}
}
