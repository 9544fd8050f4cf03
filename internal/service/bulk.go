// Package service реализует массовые операции над накладными:
// Gate-In по списку, форматирование списка и добавление пакетов в диспатч.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/batch"
	"github.com/InQaaaaGit/waybill_ops.git/internal/delivery"
	"github.com/InQaaaaGit/waybill_ops.git/internal/models"
	"github.com/InQaaaaGit/waybill_ops.git/internal/storage"
	"github.com/InQaaaaGit/waybill_ops.git/internal/waybill"
)

// OperationGateIn - имя операции Gate-In в статусе пакета
const OperationGateIn = "gate_in"

const (
	rejectedDispatchMessage = "Failed to add packages."
	failedDispatchMessage   = "Failed to add packages to dispatch."
)

// BulkService выполняет массовые операции и хранит состояние запусков
type BulkService struct {
	executor *batch.Executor
	client   delivery.Client
	storage  storage.ReportStorage
	logger   *zap.Logger

	mu     sync.Mutex
	live   map[string]*models.BatchStatus
	active string
	wg     sync.WaitGroup

	now func() time.Time
}

// NewBulkService создает сервис поверх клиента API и хранилища отчетов
func NewBulkService(client delivery.Client, store storage.ReportStorage, logger *zap.Logger) *BulkService {
	return &BulkService{
		executor: batch.NewExecutor(logger),
		client:   client,
		storage:  store,
		logger:   logger,
		live:     make(map[string]*models.BatchStatus),
		now:      time.Now,
	}
}

// RunGateIn синхронно выполняет Gate-In для вставленного текста.
// Повторяющиеся накладные отправляются один раз.
func (s *BulkService) RunGateIn(ctx context.Context, raw string, hooks batch.Hooks) (*models.BatchReport, error) {
	ids := waybill.Unique(waybill.Parse(raw))
	if len(ids) == 0 {
		return nil, waybill.ErrNoWaybills
	}

	s.logger.Info("Starting bulk Gate-In", zap.Int("total", len(ids)))
	return s.executor.Run(ctx, ids, s.client.GateIn, hooks)
}

// StartGateIn запускает Gate-In в фоне и сразу возвращает идентификатор пакета.
// Одновременно выполняется не больше одного пакета.
func (s *BulkService) StartGateIn(ctx context.Context, raw string) (models.BatchStarted, error) {
	ids := waybill.Unique(waybill.Parse(raw))
	if len(ids) == 0 {
		return models.BatchStarted{}, waybill.ErrNoWaybills
	}

	s.mu.Lock()
	if s.active != "" {
		s.mu.Unlock()
		return models.BatchStarted{}, ErrBatchInProgress
	}
	status := &models.BatchStatus{
		ID:        uuid.NewString(),
		Operation: OperationGateIn,
		State:     models.BatchProcessing,
		Total:     len(ids),
		StartedAt: s.now(),
	}
	s.live[status.ID] = status
	s.active = status.ID
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Batch started", zap.String("batch_id", status.ID), zap.Int("total", len(ids)))

	// Отмена запроса клиента не прерывает пакет
	go s.runBatch(context.WithoutCancel(ctx), status, ids)

	return models.BatchStarted{BatchID: status.ID, Total: len(ids)}, nil
}

func (s *BulkService) runBatch(ctx context.Context, status *models.BatchStatus, ids []string) {
	defer s.wg.Done()

	hooks := batch.Hooks{
		OnProcessing: func(refID string) {
			s.mu.Lock()
			status.Current = refID
			s.mu.Unlock()
		},
		OnProgress: func(event models.ProgressEvent) {
			s.mu.Lock()
			status.Completed = event.CompletedCount
			status.Progress = event.Percent
			s.mu.Unlock()
		},
	}

	report, err := s.executor.Run(ctx, ids, s.client.GateIn, hooks)
	finished := s.now()

	s.mu.Lock()
	final := *status
	s.mu.Unlock()

	final.FinishedAt = &finished
	final.Current = ""
	if err != nil {
		final.State = models.BatchFailed
		final.Error = err.Error()
	} else {
		final.State = models.BatchCompleted
		final.Report = report
	}

	// До сохранения отчета пакет остается в состоянии processing
	saveErr := s.storage.Save(ctx, &final)

	s.mu.Lock()
	if saveErr != nil {
		*status = final
	} else {
		delete(s.live, final.ID)
	}
	s.active = ""
	s.mu.Unlock()

	if saveErr != nil {
		// Отчет остается доступен из памяти процесса
		s.logger.Error("Failed to persist batch report", zap.String("batch_id", final.ID), zap.Error(saveErr))
		return
	}
	s.logger.Info("Batch finished",
		zap.String("batch_id", final.ID),
		zap.String("state", string(final.State)))
}

// GetBatch возвращает текущее состояние пакета или сохраненный отчет
func (s *BulkService) GetBatch(ctx context.Context, batchID string) (*models.BatchStatus, error) {
	s.mu.Lock()
	if status, ok := s.live[batchID]; ok {
		snapshot := *status
		s.mu.Unlock()
		return &snapshot, nil
	}
	s.mu.Unlock()

	return s.storage.Get(ctx, batchID)
}

// ClearBatch удаляет завершенный пакет
func (s *BulkService) ClearBatch(ctx context.Context, batchID string) error {
	s.mu.Lock()
	status, inMemory := s.live[batchID]
	if inMemory && status.State == models.BatchProcessing {
		s.mu.Unlock()
		return ErrBatchProcessing
	}
	delete(s.live, batchID)
	s.mu.Unlock()

	err := s.storage.Delete(ctx, batchID)
	if inMemory && errors.Is(err, storage.ErrBatchNotFound) {
		return nil
	}
	return err
}

// FormatWaybills извлекает уникальные накладные из текста и форматирует их как JSON-массив
func (s *BulkService) FormatWaybills(raw string) (models.FormatResponse, error) {
	ids := waybill.ExtractPatterns(raw)
	if len(ids) == 0 {
		return models.FormatResponse{}, waybill.ErrNoWaybills
	}

	formatted, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return models.FormatResponse{}, fmt.Errorf("error formatting waybills: %w", err)
	}

	return models.FormatResponse{
		Waybills:  ids,
		Count:     len(ids),
		Formatted: string(formatted),
	}, nil
}

// AddToDispatch добавляет накладные из JSON-массива в диспатч одним запросом
func (s *BulkService) AddToDispatch(ctx context.Context, dispatchID int, raw string) (models.DispatchResult, error) {
	if dispatchID <= 0 {
		return models.DispatchResult{}, ErrInvalidDispatchID
	}

	wbns, err := waybill.ParseStrictArray(raw)
	if err != nil {
		return models.DispatchResult{}, err
	}

	res, err := s.client.AddPackagesToDispatch(ctx, dispatchID, wbns)
	result := models.DispatchResult{
		DispatchID: dispatchID,
		Status:     res.StatusCode,
		Message:    res.Message,
	}
	if err != nil {
		s.logger.Warn("Failed to add packages to dispatch",
			zap.Int("dispatch_id", dispatchID),
			zap.Int("status", res.StatusCode),
			zap.Error(err))

		rejected := errors.Is(err, delivery.ErrDispatchRejected)
		if result.Message == "" {
			result.Message = failedDispatchMessage
			if rejected {
				result.Message = rejectedDispatchMessage
			}
		}
		if !rejected {
			err = fmt.Errorf("%w: %w", delivery.ErrDispatchRejected, err)
		}
		return result, err
	}

	result.Added = len(wbns)
	result.Message = fmt.Sprintf("%d packages added to dispatch %d.", len(wbns), dispatchID)
	s.logger.Info("Packages added to dispatch", zap.Int("dispatch_id", dispatchID), zap.Int("count", len(wbns)))
	return result, nil
}

// CheckConnection проверяет доступность хранилища отчетов
func (s *BulkService) CheckConnection(ctx context.Context) error {
	return s.storage.CheckConnection(ctx)
}

// Close дожидается завершения фоновых пакетов и закрывает хранилище
func (s *BulkService) Close() error {
	s.wg.Wait()
	return s.storage.Close()
}
