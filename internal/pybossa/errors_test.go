package pybossa

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pybossa/pbs/pkg/pbs"
)

func TestCheckAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload any
		want    error
	}{
		{"ok object", http.StatusOK, map[string]any{"id": json.Number("1")}, nil},
		{"ok list", http.StatusOK, []any{}, nil},
		{"no content", http.StatusNoContent, nil, nil},
		{"database", http.StatusInternalServerError,
			map[string]any{"status": "failed", "target": "task", "exception_cls": "ProgrammingError"}, pbs.ErrDatabase},
		{"duplicate project", http.StatusBadRequest,
			map[string]any{"status": "failed", "target": "project", "exception_cls": "DBIntegrityError"}, pbs.ErrProjectAlreadyExists},
		{"project target", http.StatusUnauthorized,
			map[string]any{"status": "failed", "target": "project", "exception_cls": "Unauthorized"}, pbs.ErrProjectNotFound},
		{"legacy app target", http.StatusOK,
			map[string]any{"status": "failed", "target": "app"}, pbs.ErrProjectNotFound},
		{"task target", http.StatusNotFound,
			map[string]any{"status": "failed", "target": "task"}, pbs.ErrTaskNotFound},
		{"other target", http.StatusForbidden,
			map[string]any{"status": "failed", "target": "helpingmaterial"}, pbs.ErrHTTPFailure},
		{"status failed with 200", http.StatusOK,
			map[string]any{"status": "failed"}, pbs.ErrHTTPFailure},
		{"code field", http.StatusOK,
			map[string]any{"code": json.Number("500")}, pbs.ErrHTTPFailure},
		{"code 200", http.StatusOK,
			map[string]any{"code": json.Number("200")}, nil},
		{"non-2xx without body", http.StatusBadGateway, nil, pbs.ErrHTTPFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAPIError(tt.status, tt.payload)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
			var apiErr *pbs.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.payload, apiErr.Payload)
		})
	}
}

func TestCheckAPIError_StatusCodeFromPayload(t *testing.T) {
	err := checkAPIError(http.StatusOK, map[string]any{
		"status": "failed", "target": "task", "status_code": json.Number("415"), "exception_msg": "bad",
	})
	var apiErr *pbs.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 415, apiErr.StatusCode)
	assert.Equal(t, "bad", apiErr.ExceptionMsg)
	assert.Contains(t, apiErr.Error(), "status 415")
}
