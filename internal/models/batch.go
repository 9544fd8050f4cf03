package models

import "time"

// OutcomeType обозначает результат обработки одной накладной
type OutcomeType string

const (
	// OutcomeSuccess - операция для накладной выполнена успешно
	OutcomeSuccess OutcomeType = "success"
	// OutcomeFailed - операция для накладной завершилась ошибкой
	OutcomeFailed OutcomeType = "failed"
)

// Outcome представляет результат обработки одной накладной в пакете.
// Для успешного результата заполняется Message и Payload, для ошибки - Error.
type Outcome struct {
	RefID      string         `json:"ref_id"`
	HTTPStatus int            `json:"status"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
	Payload    map[string]any `json:"data,omitempty"`
	ResultType OutcomeType    `json:"resultType"`
}

// Succeeded сообщает, является ли результат успешным
func (o Outcome) Succeeded() bool {
	return o.ResultType == OutcomeSuccess
}

// Text возвращает сообщение для таблицы результатов: сообщение, ошибку или "N/A"
func (o Outcome) Text() string {
	switch {
	case o.Message != "":
		return o.Message
	case o.Error != "":
		return o.Error
	default:
		return "N/A"
	}
}

// BatchSummary содержит агрегированные счетчики пакета
type BatchSummary struct {
	TotalCount   int    `json:"totalCount"`
	SuccessCount int    `json:"successCount"`
	FailedCount  int    `json:"failedCount"`
	SuccessRate  string `json:"successRate"`
}

// BatchResults разделяет результаты на успешные и неуспешные
type BatchResults struct {
	Success []Outcome `json:"success"`
	Failed  []Outcome `json:"failed"`
}

// BatchReport представляет итоговый отчет по пакету
type BatchReport struct {
	Summary BatchSummary `json:"summary"`
	Results BatchResults `json:"results"`
}

// Outcomes возвращает все результаты в порядке отображения:
// сначала успешные, затем неуспешные, внутри групп - в порядке отправки.
func (r *BatchReport) Outcomes() []Outcome {
	all := make([]Outcome, 0, len(r.Results.Success)+len(r.Results.Failed))
	all = append(all, r.Results.Success...)
	all = append(all, r.Results.Failed...)
	return all
}

// ProgressEvent отправляется после обработки каждой накладной
type ProgressEvent struct {
	CompletedCount int    `json:"completedCount"`
	TotalCount     int    `json:"totalCount"`
	RefID          string `json:"refId"`
	Percent        int    `json:"percent"`
}

// BatchState - состояние запуска пакета
type BatchState string

const (
	BatchProcessing BatchState = "processing"
	BatchCompleted  BatchState = "completed"
	BatchFailed     BatchState = "failed"
)

// BatchStatus описывает запуск пакета: живой прогресс, пока пакет выполняется,
// и итоговый отчет после завершения.
type BatchStatus struct {
	ID         string       `json:"batch_id"`
	Operation  string       `json:"operation"`
	State      BatchState   `json:"state"`
	Completed  int          `json:"completed"`
	Total      int          `json:"total"`
	Progress   int          `json:"progress"`
	Current    string       `json:"current,omitempty"`
	Report     *BatchReport `json:"report,omitempty"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}
