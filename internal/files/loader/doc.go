// Package loader turns task and helping-material data files into an ordered
// sequence of rows.
//
// Supported formats are JSON arrays, CSV with a header line, Excel workbooks
// (active sheet), gettext PO catalogs (untranslated entries only) and
// Java-style key=value properties. The format is either declared by the
// caller or inferred from the file name suffix.
package loader
