package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PerformRequest sends a JSON request through handler and returns the recorder.
func PerformRequest(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// JSONResponse parses the response body as a JSON object.
func JSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var result map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), "Failed to parse JSON response: %s", w.Body.String())
	return result
}

// ResponseData decodes the data field of a success envelope into T.
func ResponseData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "Failed to parse JSON response: %s", w.Body.String())
	require.True(t, envelope.Success, "Expected success response: %s", w.Body.String())
	return envelope.Data
}

// AssertErrorResponse asserts the status and error code of an error envelope.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	assert.Equal(t, status, w.Code, "Unexpected status code: %s", w.Body.String())
	resp := JSONResponse(t, w)
	assert.Equal(t, false, resp["success"], "Expected success to be false")
	errMap, ok := resp["error"].(map[string]any)
	require.True(t, ok, "Expected error object in response")
	assert.Equal(t, code, errMap["code"], "Unexpected error code")
}
