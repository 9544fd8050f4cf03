package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	handler := chimiddleware.RequestID(LoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"batch_id":"b-1"}`))
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/bulk/gi", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Request processed", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/bulk/gi", fields["path"])
	assert.Equal(t, "POST", fields["method"])
	assert.EqualValues(t, http.StatusAccepted, fields["status"])
	assert.EqualValues(t, len(`{"batch_id":"b-1"}`), fields["size"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestLoggerMiddleware_ServerError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	handler := LoggerMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	_, hasID := logs.All()[0].ContextMap()["request_id"]
	assert.False(t, hasID)
}
