// Package files groups the file handling sub-packages:
//   - filesystem: filesystem abstraction (OS, in-memory and embedded)
//   - loader: format detection and decoding of data files into rows
//
// # Usage
//
//	import (
//	    "github.com/pybossa/pbs/internal/files/filesystem"
//	    "github.com/pybossa/pbs/internal/files/loader"
//	)
//
//	ldr := loader.NewLoader(filesystem.NewOSFileSystem())
//	rows, format, err := ldr.LoadFile("tasks.xlsx", "")
package files
