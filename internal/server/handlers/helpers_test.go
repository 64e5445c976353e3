package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophauth/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeEnvelope decodes the response envelope and, when data is not nil,
// its payload.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) api.Response {
	t.Helper()

	var raw struct {
		Data json.RawMessage `json:"data"`
		api.Response
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
	require.NotEmpty(t, raw.Timestamp)

	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Response
}
