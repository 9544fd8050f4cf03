package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/models"
)

// FileStorage implements ReportStorage using a JSON lines file.
// Every saved report is appended; the last line for a batch wins on load.
type FileStorage struct {
	filePath string
	reports  map[string]models.BatchStatus
	mutex    sync.RWMutex
	file     *os.File
	logger   *zap.Logger
}

// NewFileStorage creates a new FileStorage instance
func NewFileStorage(filePath string, logger *zap.Logger) (*FileStorage, error) {
	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	fs := &FileStorage{
		filePath: filePath,
		file:     file,
		reports:  make(map[string]models.BatchStatus),
		logger:   logger,
	}

	// Load existing reports from file
	if err := fs.loadFromFile(); err != nil {
		logger.Error("Error loading reports from file", zap.Error(err))
		// Не возвращаем ошибку: уже прочитанные отчеты остаются доступны
	}

	return fs, nil
}

// loadFromFile loads data from the file
func (fs *FileStorage) loadFromFile() error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	// Перемещаем указатель в начало файла
	if _, err := fs.file.Seek(0, 0); err != nil {
		return fmt.Errorf("error seeking to file start: %w", err)
	}

	decoder := json.NewDecoder(fs.file)
	for decoder.More() {
		var status models.BatchStatus
		if err := decoder.Decode(&status); err != nil {
			return fmt.Errorf("error decoding report: %w", err)
		}
		fs.reports[status.ID] = status
	}

	return nil
}

// Save дописывает отчет в файл
func (fs *FileStorage) Save(ctx context.Context, status *models.BatchStatus) error {
	if err := checkFinished(status); err != nil {
		return err
	}

	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	if _, err := fs.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	fs.reports[status.ID] = *status
	return nil
}

// Get получает отчет по идентификатору пакета
func (fs *FileStorage) Get(ctx context.Context, batchID string) (*models.BatchStatus, error) {
	fs.mutex.RLock()
	defer fs.mutex.RUnlock()

	status, exists := fs.reports[batchID]
	if !exists {
		return nil, ErrBatchNotFound
	}
	return &status, nil
}

// Delete удаляет отчет и перезаписывает файл
func (fs *FileStorage) Delete(ctx context.Context, batchID string) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	if _, exists := fs.reports[batchID]; !exists {
		return ErrBatchNotFound
	}
	delete(fs.reports, batchID)

	if err := fs.rewriteFile(); err != nil {
		return fmt.Errorf("error rewriting file after delete: %w", err)
	}
	return nil
}

// rewriteFile перезаписывает файл текущими данными из памяти
func (fs *FileStorage) rewriteFile() error {
	if err := fs.file.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}

	file, err := os.OpenFile(fs.filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error opening file for rewrite: %w", err)
	}

	encoder := json.NewEncoder(file)
	for _, status := range fs.reports {
		if err := encoder.Encode(status); err != nil {
			file.Close()
			return fmt.Errorf("error writing report: %w", err)
		}
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing rewritten file: %w", err)
	}

	// Переоткрываем файл в режиме append для дальнейшей работы
	fs.file, err = os.OpenFile(fs.filePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("error reopening file: %w", err)
	}

	return nil
}

// CheckConnection проверяет доступность файла
func (fs *FileStorage) CheckConnection(ctx context.Context) error {
	fs.mutex.RLock()
	defer fs.mutex.RUnlock()

	if fs.file == nil {
		return fmt.Errorf("file is not open")
	}

	return nil
}

// Close закрывает файл
func (fs *FileStorage) Close() error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	if fs.file != nil {
		if err := fs.file.Sync(); err != nil {
			fs.logger.Error("Error syncing file before close", zap.Error(err))
		}

		if err := fs.file.Close(); err != nil {
			return fmt.Errorf("error closing file: %w", err)
		}
		fs.file = nil
	}

	return nil
}
