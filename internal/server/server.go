// Package server запускает HTTP или HTTPS сервер и останавливает его корректно.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/config"
)

const shutdownTimeout = 10 * time.Second

// HTTPServer представляет HTTP сервер с общей логикой запуска
type HTTPServer struct {
	server *http.Server
	config *config.Config
	logger *zap.Logger
}

// NewHTTPServer создает сервер с таймаутами поверх готового обработчика
func NewHTTPServer(handler http.Handler, cfg *config.Config, logger *zap.Logger) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:         cfg.ServerAddress,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		config: cfg,
		logger: logger,
	}
}

// Start запускает HTTP или HTTPS сервер в зависимости от конфигурации.
// Блокирует до остановки; штатная остановка не считается ошибкой.
func (s *HTTPServer) Start() error {
	var err error
	if s.config.IsHTTPSEnabled() {
		s.logger.Info("Starting HTTPS server",
			zap.String("address", s.config.ServerAddress),
			zap.String("cert", s.config.TLSCertFile),
			zap.String("key", s.config.TLSKeyFile))
		err = s.server.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	} else {
		s.logger.Info("Starting HTTP server", zap.String("address", s.config.ServerAddress))
		err = s.server.ListenAndServe()
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown останавливает прием соединений и дожидается активных запросов
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run запускает сервер и останавливает его после отмены ctx
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return <-errCh
}
