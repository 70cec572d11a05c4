package services

import (
	"encoding/json"
	"strings"

	"github.com/pybossa/pbs/internal/files/loader"
)

// CreateTaskInfo derives the task payload from a row: the row's "info" value
// when present and non-empty, otherwise the whole row. A string info holding
// a JSON document is decoded.
func CreateTaskInfo(row loader.Row) any {
	if v, ok := row["info"]; ok && !isEmpty(v) {
		return decodeJSONString(v)
	}
	return copyRow(row)
}

// CreateHelpingMaterialInfo derives the helping-material payload the same way
// as CreateTaskInfo and removes "file_path" from it. The path comes back
// separately and is empty when the row names no file. A payload that is not
// an object is returned as is.
func CreateHelpingMaterialInfo(row loader.Row) (any, string) {
	info := CreateTaskInfo(row)

	var filePath string
	if obj, ok := info.(map[string]any); ok {
		obj = copyMap(obj)
		filePath = pathValue(obj["file_path"])
		delete(obj, "file_path")
		info = obj
	}
	if filePath == "" {
		filePath = pathValue(row["file_path"])
	}
	return info, filePath
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

func decodeJSONString(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var decoded any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &decoded); err != nil {
		return s
	}
	return decoded
}

func pathValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func copyRow(row loader.Row) map[string]any {
	return copyMap(row)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
