package service

import "errors"

var (
	// ErrBatchInProgress возвращается при попытке запустить пакет, пока выполняется другой
	ErrBatchInProgress = errors.New("another batch is still processing")
	// ErrBatchProcessing возвращается при попытке удалить выполняющийся пакет
	ErrBatchProcessing = errors.New("batch is still processing")
	// ErrInvalidDispatchID возвращается для неположительного идентификатора диспатча
	ErrInvalidDispatchID = errors.New("dispatch ID is required")
)
