// Package batch выполняет удаленную операцию для каждой накладной пакета
// строго последовательно, собирая отчет и сообщая о прогрессе.
// Ошибка одной накладной никогда не останавливает пакет.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/waybill_ops.git/internal/models"
)

const (
	defaultSuccessMessage = "Success"
	defaultErrorMessage   = "unknown error"
)

// ErrUnexpected сигнализирует об ошибке вне обработки отдельной накладной.
// Это дефект, а не отказ удаленной стороны.
var ErrUnexpected = errors.New("unexpected error during batch processing")

// Operation выполняет удаленную операцию для одной накладной.
// Ошибка, OK == false или паника считаются неуспешным результатом накладной.
type Operation func(ctx context.Context, refID string) (models.OperationResult, error)

// Hooks - необязательные обработчики событий пакета
type Hooks struct {
	// OnProcessing вызывается перед запросом для накладной
	OnProcessing func(refID string)
	// OnProgress вызывается после обработки каждой накладной
	OnProgress func(event models.ProgressEvent)
	// OnOutcome вызывается с результатом каждой накладной
	OnOutcome func(outcome models.Outcome)
}

// Executor выполняет пакеты
type Executor struct {
	logger *zap.Logger
}

// NewExecutor создает новый Executor
func NewExecutor(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger}
}

// Run вызывает op для каждой накладной по порядку, дожидаясь завершения
// предыдущего вызова. Повторов и собственного таймаута нет: ограничением
// служит таймаут транспорта. Контекст передается только в op, сам цикл
// его не проверяет и не прерывается.
//
// Ошибка возвращается только для ErrUnexpected. Пустой список дает отчет
// с нулевыми счетчиками и SuccessRate "0%".
func (e *Executor) Run(ctx context.Context, refIDs []string, op Operation, hooks Hooks) (report *models.BatchReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Batch aborted", zap.Any("panic", r))
			report = nil
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	total := len(refIDs)
	succeeded := make([]models.Outcome, 0, total)
	failed := make([]models.Outcome, 0)

	for i, refID := range refIDs {
		if hooks.OnProcessing != nil {
			hooks.OnProcessing(refID)
		}

		outcome := e.process(ctx, refID, op)
		if outcome.Succeeded() {
			succeeded = append(succeeded, outcome)
		} else {
			failed = append(failed, outcome)
		}

		if hooks.OnOutcome != nil {
			hooks.OnOutcome(outcome)
		}
		if hooks.OnProgress != nil {
			hooks.OnProgress(models.ProgressEvent{
				CompletedCount: i + 1,
				TotalCount:     total,
				RefID:          refID,
				Percent:        Percent(i+1, total),
			})
		}
	}

	return &models.BatchReport{
		Summary: models.BatchSummary{
			TotalCount:   total,
			SuccessCount: len(succeeded),
			FailedCount:  len(failed),
			SuccessRate:  SuccessRate(len(succeeded), total),
		},
		Results: models.BatchResults{
			Success: succeeded,
			Failed:  failed,
		},
	}, nil
}

// process выполняет операцию для одной накладной. Все, что происходит внутри,
// включая панику операции, превращается в результат накладной.
func (e *Executor) process(ctx context.Context, refID string, op Operation) (outcome models.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Operation panicked", zap.String("waybill", refID), zap.Any("panic", r))
			outcome = failure(refID, models.OperationResult{}, fmt.Errorf("operation panicked: %v", r))
		}
	}()

	res, err := op(ctx, refID)
	if err != nil || !res.OK {
		outcome = failure(refID, res, err)
		e.logger.Warn("Waybill failed",
			zap.String("waybill", refID),
			zap.Int("status", outcome.HTTPStatus),
			zap.String("error", outcome.Error))
		return outcome
	}

	outcome = models.Outcome{
		RefID:      refID,
		HTTPStatus: res.StatusCode,
		Message:    res.Message,
		Payload:    res.Payload,
		ResultType: models.OutcomeSuccess,
	}
	if outcome.Message == "" {
		outcome.Message = defaultSuccessMessage
	}
	e.logger.Info("Waybill processed", zap.String("waybill", refID), zap.Int("status", res.StatusCode))
	return outcome
}

func failure(refID string, res models.OperationResult, err error) models.Outcome {
	status := res.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return models.Outcome{
		RefID:      refID,
		HTTPStatus: status,
		Error:      errorMessage(res, err),
		ResultType: models.OutcomeFailed,
	}
}

// errorMessage выбирает текст ошибки: сообщение из ответа, поле error ответа,
// текст ошибки транспорта.
func errorMessage(res models.OperationResult, err error) string {
	switch {
	case res.Message != "":
		return res.Message
	case res.ErrorMessage != "":
		return res.ErrorMessage
	case err != nil:
		return err.Error()
	default:
		return defaultErrorMessage
	}
}

// Percent возвращает долю обработанных накладных в процентах, округленную до целого
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// SuccessRate форматирует долю успешных накладных с одним знаком после запятой.
// Для пустого пакета возвращается "0%".
func SuccessRate(success, total int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(success)/float64(total)*100)
}
