package pybossa

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pybossa/pbs/pkg/pbs"
)

// checkAPIError translates a decoded response into a typed *pbs.APIError.
// A response fails when its status is not 2xx, when it carries
// "status": "failed", or when a "code" field differs from 200.
func checkAPIError(statusCode int, payload any) error {
	obj, _ := payload.(map[string]any)

	failed := !pbs.IsSuccessStatus(statusCode)
	if obj != nil {
		if status, _ := obj["status"].(string); status == "failed" {
			failed = true
		}
		if code, ok := intField(obj, "code"); ok && code != 200 {
			failed = true
		}
	}
	if !failed {
		return nil
	}

	apiErr := &pbs.APIError{StatusCode: statusCode, Payload: payload}
	if obj != nil {
		apiErr.Action = stringField(obj, "action")
		apiErr.Target = stringField(obj, "target")
		apiErr.ExceptionCls = stringField(obj, "exception_cls")
		apiErr.ExceptionMsg = stringField(obj, "exception_msg")
		if code, ok := intField(obj, "status_code"); ok {
			apiErr.StatusCode = code
		}
	}
	apiErr.Kind = classify(apiErr.Target, apiErr.ExceptionCls)
	return apiErr
}

func classify(target, exceptionCls string) error {
	target = strings.ToLower(target)
	isProject := strings.Contains(target, "project") || target == "app"

	switch {
	case strings.Contains(exceptionCls, "ProgrammingError"):
		return pbs.ErrDatabase
	case strings.Contains(exceptionCls, "DBIntegrityError") && isProject:
		return pbs.ErrProjectAlreadyExists
	case isProject:
		return pbs.ErrProjectNotFound
	case strings.Contains(target, "task"):
		return pbs.ErrTaskNotFound
	default:
		return pbs.ErrHTTPFailure
	}
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		data, _ := json.Marshal(v)
		return string(data)
	}
}

func intField(obj map[string]any, key string) (int, bool) {
	switch v := obj[key].(type) {
	case json.Number:
		n, err := strconv.Atoi(v.String())
		return n, err == nil
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}
