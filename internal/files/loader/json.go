package loader

import (
	"encoding/json"
	"fmt"
	"io"
)

func decodeJSON(r io.Reader) ([]Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, &ParseError{Format: FormatJSON, Msg: err.Error()}
	}

	rows := make([]Row, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &ParseError{Format: FormatJSON, Msg: fmt.Sprintf("element %d is not an object", i)}
		}
		rows = append(rows, Row(obj))
	}
	return rows, nil
}
