package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/config"
)

func TestHTTPServer_RunStopsOnCancel(t *testing.T) {
	cfg := &config.Config{ServerAddress: "127.0.0.1:0"}
	srv := NewHTTPServer(http.NotFoundHandler(), cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServer_StartError(t *testing.T) {
	cfg := &config.Config{ServerAddress: "invalid-address"}
	srv := NewHTTPServer(http.NotFoundHandler(), cfg, zap.NewNop())

	err := srv.Run(context.Background())
	require.Error(t, err)
}

func TestHTTPServer_HTTPSMissingCertificate(t *testing.T) {
	cfg := &config.Config{
		ServerAddress: "127.0.0.1:0",
		EnableHTTPS:   "true",
		TLSCertFile:   "/nonexistent/server.crt",
		TLSKeyFile:    "/nonexistent/server.key",
	}
	srv := NewHTTPServer(http.NotFoundHandler(), cfg, zap.NewNop())

	assert.Error(t, srv.Start())
}
