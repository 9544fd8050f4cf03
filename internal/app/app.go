// Package app собирает зависимости консоли и запускает HTTP сервер.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/config"
	"github.com/InQaaaaGit/waybill_ops.git/internal/delivery"
	"github.com/InQaaaaGit/waybill_ops.git/internal/handler"
	"github.com/InQaaaaGit/waybill_ops.git/internal/server"
	"github.com/InQaaaaGit/waybill_ops.git/internal/service"
	"github.com/InQaaaaGit/waybill_ops.git/internal/storage"
)

// App представляет консоль массовых операций.
// Инкапсулирует конфигурацию, HTTP роутер, логгер и сервисный слой.
type App struct {
	config  *config.Config
	router  *chi.Mux
	logger  *zap.Logger
	handler *handler.Handler
	service *service.BulkService
}

// NewApp создает приложение: клиент API доставки, хранилище отчетов, сервис и маршруты.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	client := delivery.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, logger)

	store, err := storage.NewReportStorage(cfg.DatabaseDSN, cfg.FileStoragePath, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating storage: %w", err)
	}

	svc := service.NewBulkService(client, store, logger)

	a := &App{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		handler: handler.NewHandler(svc, logger),
		service: svc,
	}
	a.setupRoutes()

	return a, nil
}

// Router возвращает обработчик со всеми маршрутами
func (a *App) Router() http.Handler {
	return a.router
}

// Run запускает сервер и блокирует до отмены ctx. После остановки сервера
// дожидается завершения фонового пакета и закрывает хранилище.
func (a *App) Run(ctx context.Context) error {
	srv := server.NewHTTPServer(a.router, a.config, a.logger)
	runErr := srv.Run(ctx)

	if err := a.service.Close(); err != nil {
		a.logger.Error("Error closing storage", zap.Error(err))
		return errors.Join(runErr, err)
	}
	return runErr
}

// setupRoutes регистрирует middleware и эндпоинты
func (a *App) setupRoutes() {
	a.router.Use(chimiddleware.RequestID)
	a.router.Use(a.handler.WithLogging)
	a.router.Use(chimiddleware.Recoverer)
	a.router.Use(a.handler.WithGzip)

	a.router.Route("/api", func(r chi.Router) {
		r.Post("/bulk/gi", a.handler.HandleStartGateIn)
		r.Get("/batches/{batchID}", a.handler.HandleGetBatch)
		r.Delete("/batches/{batchID}", a.handler.HandleClearBatch)
		r.Post("/waybills/format", a.handler.HandleFormatWaybills)
		r.Post("/dispatches/{dispatchID}/packages", a.handler.HandleAddToDispatch)
	})
	a.router.Get("/ping", a.handler.HandlePing)

	// Профилирование
	a.router.Mount("/debug/pprof", http.DefaultServeMux)
}
