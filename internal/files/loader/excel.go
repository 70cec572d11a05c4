package loader

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// decodeExcel reads the active sheet. The first row holds the headers.
// excelize trims trailing empty cells, so short rows are padded back to the
// header width; rows wider than the header line and rows with no value are
// dropped. Numeric cells become json.Number and boolean cells bool; cells
// with a date format keep their formatted text.
func decodeExcel(r io.Reader) ([]Row, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Format: FormatExcel, Msg: err.Error()}
	}
	defer wb.Close()

	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	records, err := wb.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Format: FormatExcel, Msg: err.Error()}
	}
	if len(records) == 0 {
		return []Row{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	cells := cellReader{wb: wb, sheet: sheet}
	rows := []Row{}
	for n, record := range records[1:] {
		if len(record) > len(headers) {
			continue
		}
		values := make([]any, len(headers))
		hasValue := false
		for i := range headers {
			if i >= len(record) || record[i] == "" {
				continue
			}
			v, err := cells.value(i+1, n+2, record[i])
			if err != nil {
				return nil, &ParseError{Format: FormatExcel, Line: n + 2, Msg: err.Error()}
			}
			values[i] = v
			hasValue = true
		}
		if !hasValue {
			continue
		}

		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = values[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type cellReader struct {
	wb    *excelize.File
	sheet string
}

// value types the cell at (col, row) whose formatted text is text.
func (c cellReader) value(col, row int, text string) (any, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	kind, err := c.wb.GetCellType(c.sheet, name)
	if err != nil {
		return nil, err
	}

	switch kind {
	case excelize.CellTypeBool:
		if b, err := strconv.ParseBool(text); err == nil {
			return b, nil
		}
		return text, nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		raw, err := c.wb.GetCellValue(c.sheet, name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return text, nil
		}
		dated, err := c.isDateStyled(name)
		if err != nil {
			return nil, err
		}
		if dated {
			return text, nil
		}
		return json.Number(raw), nil
	default:
		return text, nil
	}
}

func (c cellReader) isDateStyled(name string) (bool, error) {
	idx, err := c.wb.GetCellStyle(c.sheet, name)
	if err != nil || idx == 0 {
		return false, err
	}
	style, err := c.wb.GetStyle(idx)
	if err != nil {
		return false, err
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt), nil
	}
	return isBuiltinDateFormat(style.NumFmt), nil
}

// isBuiltinDateFormat reports the built-in number formats 14-22 and 45-47,
// which render dates and times.
func isBuiltinDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// isDateFormat reports whether a custom format code has date or time
// tokens outside quoted literals and bracketed sections.
func isDateFormat(code string) bool {
	quoted, bracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}
	return false
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}
