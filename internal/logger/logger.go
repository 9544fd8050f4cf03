// Package logger собирает zap-логгер приложения.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New создает production-логгер с заданным уровнем (debug, info, warn, error).
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	// Вывод консольных утилит не должен смешиваться с таблицей отчета
	cfg.OutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("error building logger: %w", err)
	}
	return zl, nil
}

// Sync сбрасывает буферы логгера. Ошибку синхронизации stderr игнорируем.
func Sync(l *zap.Logger) {
	_ = l.Sync()
}
