package loader

import (
	"bufio"
	"io"
	"strings"
)

// decodeProperties parses key=value lines. The line is split once on the
// first "=" and both sides are kept verbatim, so " foo" stays " foo".
func decodeProperties(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	rows := []Row{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &ParseError{Format: FormatProperties, Line: lineNum, Msg: "expected var_id=string"}
		}
		rows = append(rows, Row{"var_id": key, "string": value})
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Format: FormatProperties, Msg: err.Error()}
	}
	return rows, nil
}
