package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/models"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS batch_reports (` +
	`id VARCHAR(64) PRIMARY KEY,` +
	`state VARCHAR(32) NOT NULL,` +
	`payload JSONB NOT NULL,` +
	`created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()` +
	`)`

// PostgresStorage реализует ReportStorage с использованием PostgreSQL
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStorage подключается к базе данных по DSN и создает таблицу отчетов
func NewPostgresStorage(dsn string, logger *zap.Logger) (*PostgresStorage, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database DSN: %w", err)
	}
	db := sql.OpenDB(connector)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close DB connection after ping error", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("database connection check error: %w", err)
	}

	ps, err := NewPostgresStorageFromDB(ctx, db, logger)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close DB connection after table creation error", zap.Error(closeErr))
		}
		return nil, err
	}
	return ps, nil
}

// NewPostgresStorageFromDB использует готовое соединение и создает таблицу, если ее нет
func NewPostgresStorageFromDB(ctx context.Context, db *sql.DB, logger *zap.Logger) (*PostgresStorage, error) {
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("table creation error: %w", err)
	}
	return &PostgresStorage{db: db, logger: logger}, nil
}

// Save сохраняет отчет; повторное сохранение того же пакета заменяет запись
func (ps *PostgresStorage) Save(ctx context.Context, status *models.BatchStatus) error {
	if err := checkFinished(status); err != nil {
		return err
	}

	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	_, err = ps.db.ExecContext(ctx,
		"INSERT INTO batch_reports (id, state, payload) VALUES ($1, $2, $3) "+
			"ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, payload = EXCLUDED.payload",
		status.ID, string(status.State), payload)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			ps.logger.Error("PostgreSQL error while saving report",
				zap.String("code", string(pqErr.Code)),
				zap.String("batch_id", status.ID))
		}
		return fmt.Errorf("save report error: %w", err)
	}
	return nil
}

// Get получает отчет по идентификатору пакета
func (ps *PostgresStorage) Get(ctx context.Context, batchID string) (*models.BatchStatus, error) {
	var payload []byte
	err := ps.db.QueryRowContext(ctx, "SELECT payload FROM batch_reports WHERE id = $1", batchID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("get report error: %w", err)
	}

	var status models.BatchStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("error decoding report: %w", err)
	}
	return &status, nil
}

// Delete удаляет отчет
func (ps *PostgresStorage) Delete(ctx context.Context, batchID string) error {
	result, err := ps.db.ExecContext(ctx, "DELETE FROM batch_reports WHERE id = $1", batchID)
	if err != nil {
		return fmt.Errorf("delete report error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting affected rows: %w", err)
	}
	if affected == 0 {
		return ErrBatchNotFound
	}
	return nil
}

// Close закрывает соединение с базой данных
func (ps *PostgresStorage) Close() error {
	return ps.db.Close()
}

// CheckConnection проверяет соединение с базой данных
func (ps *PostgresStorage) CheckConnection(ctx context.Context) error {
	return ps.db.PingContext(ctx)
}
