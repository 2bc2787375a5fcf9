// Package apperr определяет классификацию ошибок приложения.
// Сервисы возвращают обёрнутые сентинел-ошибки, а единственная точка
// преобразования в HTTP-статусы находится в пакете http/response.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation — отсутствующие или некорректные входные данные.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound — запрошенный ресурс не существует.
	ErrNotFound = errors.New("not found")
	// ErrAuthRequired — запрос не несёт аутентифицированного пользователя.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden — роли пользователя недостаточно для операции.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrInvalidCredentials — неверная пара логин/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ConflictError — нарушение уникальности. Field называет столкнувшееся поле.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// Conflict возвращает ошибку конфликта для указанного поля.
func Conflict(field string) error {
	return &ConflictError{Field: field}
}

// AsConflict извлекает ConflictError из цепочки обёрток.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
