package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/models"
)

// ReportStorage определяет интерфейс хранилища отчетов о завершенных пакетах.
// Промежуточный прогресс здесь не хранится.
type ReportStorage interface {
	// Save сохраняет или заменяет отчет о завершенном пакете
	Save(ctx context.Context, status *models.BatchStatus) error
	// Get получает отчет по идентификатору пакета
	Get(ctx context.Context, batchID string) (*models.BatchStatus, error)
	// Delete удаляет отчет; ErrBatchNotFound, если его нет
	Delete(ctx context.Context, batchID string) error
	// CheckConnection проверяет доступность хранилища
	CheckConnection(ctx context.Context) error
	// Close освобождает ресурсы хранилища
	Close() error
}

func checkFinished(status *models.BatchStatus) error {
	if status == nil || status.State == models.BatchProcessing {
		return ErrBatchNotFinished
	}
	return nil
}

// NewReportStorage выбирает хранилище: PostgreSQL, если задан DSN,
// файл, если задан путь, иначе память.
func NewReportStorage(databaseDSN, filePath string, logger *zap.Logger) (ReportStorage, error) {
	switch {
	case databaseDSN != "":
		logger.Info("Using PostgreSQL report storage")
		return NewPostgresStorage(databaseDSN, logger)
	case filePath != "":
		logger.Info("Using file report storage", zap.String("path", filePath))
		return NewFileStorage(filePath, logger)
	default:
		logger.Info("Using in-memory report storage")
		return NewMemoryStorage(logger), nil
	}
}
