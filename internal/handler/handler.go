// Package handler содержит HTTP-обработчики консоли массовых операций.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/delivery"
	"github.com/InQaaaaGit/waybill_ops.git/internal/middleware"
	"github.com/InQaaaaGit/waybill_ops.git/internal/models"
	"github.com/InQaaaaGit/waybill_ops.git/internal/service"
	"github.com/InQaaaaGit/waybill_ops.git/internal/storage"
	"github.com/InQaaaaGit/waybill_ops.git/internal/waybill"
)

const (
	contentTypeJSON = "application/json"
	maxBodySize     = 10 << 20

	noWaybillsMessage       = "Please enter at least one waybill number"
	noPatternsMessage       = "No waybill numbers found"
	batchInProgressMessage  = "Another batch is still processing"
	batchNotFoundMessage    = "Batch not found"
	batchProcessingMessage  = "Batch is still processing"
	invalidDispatchMessage  = "Dispatch ID is required."
	internalErrorMessage    = "Internal server error"
	readBodyErrorMessage    = "Error reading request body"
	dispatchRejectedMessage = "Failed to add packages to dispatch."
)

// BulkService определяет операции, доступные через HTTP
type BulkService interface {
	StartGateIn(ctx context.Context, raw string) (models.BatchStarted, error)
	GetBatch(ctx context.Context, batchID string) (*models.BatchStatus, error)
	ClearBatch(ctx context.Context, batchID string) error
	FormatWaybills(raw string) (models.FormatResponse, error)
	AddToDispatch(ctx context.Context, dispatchID int, raw string) (models.DispatchResult, error)
	CheckConnection(ctx context.Context) error
}

// Handler обрабатывает запросы консоли
type Handler struct {
	service BulkService
	logger  *zap.Logger
}

// NewHandler создает Handler
func NewHandler(svc BulkService, logger *zap.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger,
	}
}

// HandleStartGateIn запускает Gate-In для вставленного текста (строки или JSON-массив)
func (h *Handler) HandleStartGateIn(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}

	started, err := h.service.StartGateIn(r.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, waybill.ErrNoWaybills):
			http.Error(w, noWaybillsMessage, http.StatusBadRequest)
		case errors.Is(err, service.ErrBatchInProgress):
			http.Error(w, batchInProgressMessage, http.StatusConflict)
		default:
			h.logger.Error("Error starting batch", zap.Error(err))
			http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusAccepted, started)
}

// HandleGetBatch возвращает прогресс или итоговый отчет пакета
func (h *Handler) HandleGetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	status, err := h.service.GetBatch(r.Context(), batchID)
	if err != nil {
		if errors.Is(err, storage.ErrBatchNotFound) {
			http.Error(w, batchNotFoundMessage, http.StatusNotFound)
			return
		}
		h.logger.Error("Error getting batch", zap.String("batch_id", batchID), zap.Error(err))
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, status)
}

// HandleClearBatch удаляет завершенный пакет
func (h *Handler) HandleClearBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	if err := h.service.ClearBatch(r.Context(), batchID); err != nil {
		switch {
		case errors.Is(err, storage.ErrBatchNotFound):
			http.Error(w, batchNotFoundMessage, http.StatusNotFound)
		case errors.Is(err, service.ErrBatchProcessing):
			http.Error(w, batchProcessingMessage, http.StatusConflict)
		default:
			h.logger.Error("Error clearing batch", zap.String("batch_id", batchID), zap.Error(err))
			http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleFormatWaybills извлекает накладные из произвольного текста
func (h *Handler) HandleFormatWaybills(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}

	res, err := h.service.FormatWaybills(raw)
	if err != nil {
		if errors.Is(err, waybill.ErrNoWaybills) {
			http.Error(w, noPatternsMessage, http.StatusBadRequest)
			return
		}
		h.logger.Error("Error formatting waybills", zap.Error(err))
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}

// HandleAddToDispatch добавляет накладные из JSON-массива в диспатч
func (h *Handler) HandleAddToDispatch(w http.ResponseWriter, r *http.Request) {
	dispatchID, err := strconv.Atoi(chi.URLParam(r, "dispatchID"))
	if err != nil || dispatchID <= 0 {
		http.Error(w, invalidDispatchMessage, http.StatusBadRequest)
		return
	}

	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}

	res, err := h.service.AddToDispatch(r.Context(), dispatchID, raw)
	if err != nil {
		switch {
		case isInputError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrInvalidDispatchID):
			http.Error(w, invalidDispatchMessage, http.StatusBadRequest)
		case errors.Is(err, delivery.ErrDispatchRejected):
			if res.Message == "" {
				res.Message = dispatchRejectedMessage
			}
			h.writeJSON(w, http.StatusBadGateway, res)
		default:
			h.logger.Error("Error adding packages to dispatch", zap.Int("dispatch_id", dispatchID), zap.Error(err))
			http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}

// WithLogging добавляет логирование запросов
func (h *Handler) WithLogging(next http.Handler) http.Handler {
	return middleware.LoggerMiddleware(h.logger)(next)
}

// WithGzip добавляет поддержку gzip сжатия
func (h *Handler) WithGzip(next http.Handler) http.Handler {
	return middleware.GzipMiddleware(next)
}

// readBody читает тело запроса целиком. При ошибке ответ уже записан.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	defer func() {
		if err := r.Body.Close(); err != nil {
			h.logger.Error("Error closing request body", zap.Error(err))
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return "", false
		}
		http.Error(w, readBodyErrorMessage, http.StatusBadRequest)
		return "", false
	}
	return string(body), true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error writing JSON response", zap.Error(err))
	}
}

func isInputError(err error) bool {
	for _, target := range []error{
		waybill.ErrInvalidJSON,
		waybill.ErrNotArray,
		waybill.ErrEmptyArray,
		waybill.ErrInvalidElement,
		waybill.ErrDuplicate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
