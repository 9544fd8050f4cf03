package storage

import "errors"

// ErrBatchNotFound возвращается, когда отчет о пакете не найден в хранилище
var ErrBatchNotFound = errors.New("batch not found")

// ErrBatchNotFinished возвращается при попытке сохранить незавершенный пакет
var ErrBatchNotFinished = errors.New("batch is not finished")
