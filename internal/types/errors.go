package types

import (
	"fmt"
	"net/http"
)

// APIError is a failure that maps onto an HTTP status and a client-safe
// message. Err keeps the underlying cause for logs.
type APIError struct {
	Status int
	Msg    string
	Fields []FieldError
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Msg, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

const (
	MsgValidation           = "Ошибка валидации данных."
	MsgUnauthenticated      = "Вы не авторизованы."
	MsgAlreadyAuthenticated = "Вы уже авторизованы!"
	MsgLoginMismatch        = "Неверный логин или пароль."
	MsgForbidden            = "Недостаточно прав."
	MsgInternal             = "Внутренняя ошибка сервера."
	MsgTooLarge             = "Слишком большой запрос."
)

func ValidationError(fields []FieldError) *APIError {
	return &APIError{Status: http.StatusUnprocessableEntity, Msg: MsgValidation, Fields: fields}
}

// Unauthenticated is reported as 403, the same status as an ownership
// failure.
func Unauthenticated() *APIError {
	return &APIError{Status: http.StatusForbidden, Msg: MsgUnauthenticated}
}

func AlreadyAuthenticated() *APIError {
	return &APIError{Status: http.StatusForbidden, Msg: MsgAlreadyAuthenticated}
}

// LoginMismatch covers both an unknown email and a wrong password.
func LoginMismatch() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Msg: MsgLoginMismatch}
}

func Conflict(msg string) *APIError {
	return &APIError{Status: http.StatusConflict, Msg: msg}
}

func NotFound(msg string) *APIError {
	return &APIError{Status: http.StatusNotFound, Msg: msg}
}

func Forbidden(msg string) *APIError {
	if msg == "" {
		msg = MsgForbidden
	}
	return &APIError{Status: http.StatusForbidden, Msg: msg}
}

func BadRequest(msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Msg: msg}
}

// Integrity reports a storage constraint violation caught at commit.
func Integrity(msg string, err error) *APIError {
	return &APIError{Status: http.StatusBadRequest, Msg: msg, Err: err}
}

// TooLarge reports a request body over the configured size cap.
func TooLarge() *APIError {
	return &APIError{Status: http.StatusRequestEntityTooLarge, Msg: MsgTooLarge}
}

func Unprocessable(msg string) *APIError {
	return &APIError{Status: http.StatusUnprocessableEntity, Msg: msg}
}

func Internal(msg string, err error) *APIError {
	if msg == "" {
		msg = MsgInternal
	}
	return &APIError{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}
