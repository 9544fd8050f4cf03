package noctx

import (
	"context"
	"net/http"
)

func requests(ctx context.Context) {
	_, _ = http.NewRequest(http.MethodPost, "http://localhost/api/flow/single-gi", nil) // want `http.NewRequest sends no context`
	_, _ = http.Get("http://localhost/ping")                                          // want `http.Get sends no context`
	_, _ = http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost/ping", nil)
}
