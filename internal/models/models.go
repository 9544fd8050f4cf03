package models

// OperationResult - конверт ответа удаленной операции над одной накладной.
// Message и ErrorMessage берутся из полей "message" и "error" тела ответа.
type OperationResult struct {
	OK           bool
	StatusCode   int
	Message      string
	ErrorMessage string
	Payload      map[string]any
}

// FormatResponse представляет ответ форматтера накладных
type FormatResponse struct {
	Waybills  []string `json:"waybills"`
	Count     int      `json:"count"`
	Formatted string   `json:"formatted"`
}

// DispatchRequest - тело запроса на добавление пакетов в диспатч
type DispatchRequest struct {
	DispatchID int      `json:"dispatch_id"`
	Action     string   `json:"action"`
	Wbns       []string `json:"wbns"`
}

// DispatchResult представляет результат добавления пакетов в диспатч
type DispatchResult struct {
	DispatchID int    `json:"dispatch_id"`
	Added      int    `json:"added"`
	Status     int    `json:"status"`
	Message    string `json:"message"`
}

// BatchStarted возвращается при запуске асинхронного пакета
type BatchStarted struct {
	BatchID string `json:"batch_id"`
	Total   int    `json:"total"`
}
