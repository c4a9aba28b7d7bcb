package handlers

import (
	"errors"
	"net/http"

	"bloghub/internal/services"
	helpers "bloghub/internal/utils/helpers"
)

// writeServiceError переводит ошибки сервисного слоя в HTTP-статусы.
// Неопознанные ошибки — это сбои хранилища: наружу уходит общий текст.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrTagExists),
		errors.Is(err, services.ErrWrongPassword):
		helpers.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountInactive):
		helpers.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		helpers.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		helpers.Error(w, http.StatusNotFound, err.Error())
	default:
		helpers.Error(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}
