// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате, а также
// является единственной точкой, где ошибки приложения переводятся в
// HTTP‑статусы.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/evseevmm/donation-platform/internal/apperr"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Detail — диагностика, попадает в ответ только в dev-режиме.
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// debug управляет выводом диагностических деталей в ответах об ошибках.
// Выставляется один раз при старте приложения.
var debug atomic.Bool

// SetDebug включает или выключает диагностические детали в ответах.
func SetDebug(on bool) {
	debug.Store(on)
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than zero", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// StatusForError переводит ошибку приложения в HTTP-статус и текст.
// Неклассифицированные ошибки считаются внутренними.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, apperr.ErrValidation.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, apperr.ErrNotFound.Error()
	case errors.Is(err, apperr.ErrAuthRequired):
		return http.StatusForbidden, apperr.ErrAuthRequired.Error()
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, apperr.ErrForbidden.Error()
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized, apperr.ErrInvalidCredentials.Error()
	}
	if ce, ok := apperr.AsConflict(err); ok {
		return http.StatusBadRequest, ce.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// Fail классифицирует ошибку, выставляет HTTP-статус и пишет JSON-ответ.
// Детали исходной ошибки включаются только в dev-режиме.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusForError(err)
	resp := Error(msg)
	if debug.Load() && status == http.StatusInternalServerError {
		resp.Detail = err.Error()
	}
	w.WriteHeader(status)
	render.JSON(w, r, resp)
}
