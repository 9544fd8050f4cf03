package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestGzipMiddleware_Response(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		contentType    string
		status         int
		body           string
		wantCompressed bool
	}{
		{
			name:           "JSON is compressed",
			acceptEncoding: "gzip, deflate",
			contentType:    "application/json",
			status:         http.StatusOK,
			body:           `{"count":2}`,
			wantCompressed: true,
		},
		{
			name:           "plain text error is compressed",
			acceptEncoding: "gzip",
			contentType:    "text/plain; charset=utf-8",
			status:         http.StatusBadRequest,
			body:           "No waybill numbers found",
			wantCompressed: true,
		},
		{
			name:           "client without gzip",
			contentType:    "application/json",
			status:         http.StatusOK,
			body:           `{"count":2}`,
			wantCompressed: false,
		},
		{
			name:           "binary content is not compressed",
			acceptEncoding: "gzip",
			contentType:    "image/png",
			status:         http.StatusOK,
			body:           "png",
			wantCompressed: false,
		},
		{
			name:           "no content",
			acceptEncoding: "gzip",
			contentType:    "application/json",
			status:         http.StatusNoContent,
			wantCompressed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if !tt.wantCompressed {
				assert.Empty(t, rr.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, rr.Body.String())
				return
			}

			assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
			reader, err := gzip.NewReader(rr.Body)
			require.NoError(t, err)
			body, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestGzipMiddleware_ImplicitHeader(t *testing.T) {
	handler := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("WB1\nWB2"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
}

func TestGzipMiddleware_Request(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		wantStatus int
		wantBody   string
	}{
		{name: "gzipped body", body: gzipBytes(t, "WB1\nWB2"), wantStatus: http.StatusOK, wantBody: "WB1\nWB2"},
		{name: "invalid gzip", body: []byte("plain text"), wantStatus: http.StatusBadRequest, wantBody: "Invalid gzip body\n"},
		{name: "empty body", body: nil, wantStatus: http.StatusBadRequest, wantBody: "Empty request body\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("Content-Encoding"))
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				_, _ = w.Write(body)
			}))

			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(tt.body))
			req.Header.Set("Content-Encoding", "gzip")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}
