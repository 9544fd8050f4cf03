package storage

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/models"
)

// MemoryStorage реализует ReportStorage с использованием памяти
type MemoryStorage struct {
	mu      sync.RWMutex
	reports map[string]models.BatchStatus
	logger  *zap.Logger
}

// NewMemoryStorage создает новый экземпляр MemoryStorage
func NewMemoryStorage(logger *zap.Logger) *MemoryStorage {
	return &MemoryStorage{
		reports: make(map[string]models.BatchStatus),
		logger:  logger,
	}
}

// Save сохраняет копию отчета в памяти
func (ms *MemoryStorage) Save(ctx context.Context, status *models.BatchStatus) error {
	if err := checkFinished(status); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.reports[status.ID] = *status
	ms.logger.Debug("Report saved", zap.String("batch_id", status.ID))
	return nil
}

// Get получает отчет по идентификатору пакета
func (ms *MemoryStorage) Get(ctx context.Context, batchID string) (*models.BatchStatus, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	status, exists := ms.reports[batchID]
	if !exists {
		return nil, ErrBatchNotFound
	}
	return &status, nil
}

// Delete удаляет отчет из памяти
func (ms *MemoryStorage) Delete(ctx context.Context, batchID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.reports[batchID]; !exists {
		return ErrBatchNotFound
	}
	delete(ms.reports, batchID)
	return nil
}

// CheckConnection проверяет доступность хранилища
func (ms *MemoryStorage) CheckConnection(ctx context.Context) error {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if ms.reports == nil {
		return fmt.Errorf("storage is not initialized")
	}

	return nil
}

// Close ничего не делает для хранилища в памяти
func (ms *MemoryStorage) Close() error {
	return nil
}
