package handler

import (
	"net/http"

	"go.uber.org/zap"
)

const storageErrorMessage = "Storage connection error"

// HandlePing проверяет доступность хранилища отчетов
func (h *Handler) HandlePing(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CheckConnection(r.Context()); err != nil {
		h.logger.Error("Ошибка подключения к хранилищу", zap.Error(err))
		http.Error(w, storageErrorMessage, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
