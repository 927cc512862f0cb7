// Package apperrors holds the user-facing error catalogue. Handlers render
// an AppError's code and message; the wrapped cause is only logged.
package apperrors

import (
	"errors"
	"net/http"
)

// AppError is a structured error with a stable code, a message safe to show
// to the user, the HTTP status it maps to and an optional internal cause.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so wrapped copies still
// compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap copies sentinel and attaches internal as the cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage copies sentinel with a different user-facing message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// From returns err as an AppError, mapping anything else to ErrInternal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternal, err)
}

// General errors.
var (
	ErrInvalidInput = &AppError{Code: "INVALID_INPUT", Message: "Dados inválidos", StatusCode: http.StatusBadRequest}
	ErrNotFound     = &AppError{Code: "NOT_FOUND", Message: "Recurso não encontrado", StatusCode: http.StatusNotFound}
	ErrRateLimited  = &AppError{Code: "RATE_LIMITED", Message: "Muitas requisições, tente novamente", StatusCode: http.StatusTooManyRequests}
	ErrUnavailable  = &AppError{Code: "UNAVAILABLE", Message: "Serviço indisponível", StatusCode: http.StatusServiceUnavailable}
	ErrInternal     = &AppError{Code: "INTERNAL_ERROR", Message: "Ocorreu um erro interno", StatusCode: http.StatusInternalServerError}
)

// Authentication errors.
var (
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Autenticação necessária", StatusCode: http.StatusUnauthorized}
	ErrSignInFailed   = &AppError{Code: "SIGN_IN_FAILED", Message: "Não foi possível conectar a conta Google", StatusCode: http.StatusBadGateway}
	ErrInvalidState   = &AppError{Code: "INVALID_STATE", Message: "Sessão de login expirada", StatusCode: http.StatusBadRequest}
	ErrSignInDisabled = &AppError{Code: "SIGN_IN_DISABLED", Message: "Login com Google não configurado", StatusCode: http.StatusNotFound}
)

// Transaction registration errors.
var (
	ErrTypeRequired     = &AppError{Code: "TYPE_REQUIRED", Message: "Selecione o tipo da transação.", StatusCode: http.StatusBadRequest}
	ErrCategoryRequired = &AppError{Code: "CATEGORY_REQUIRED", Message: "Selecione a categoria.", StatusCode: http.StatusBadRequest}
	ErrNameRequired     = &AppError{Code: "NAME_REQUIRED", Message: "Nome é obrigatório", StatusCode: http.StatusBadRequest}
	ErrAmountRequired   = &AppError{Code: "AMOUNT_REQUIRED", Message: "O valor é obrigatório.", StatusCode: http.StatusBadRequest}
	ErrAmountNotNumeric = &AppError{Code: "AMOUNT_NOT_NUMERIC", Message: "Informe um valor numérico", StatusCode: http.StatusBadRequest}
	ErrAmountNegative   = &AppError{Code: "AMOUNT_NEGATIVE", Message: "O valor não pode ser negativo", StatusCode: http.StatusBadRequest}
	ErrUnknownCategory  = &AppError{Code: "UNKNOWN_CATEGORY", Message: "Categoria desconhecida", StatusCode: http.StatusBadRequest}
	ErrSaveFailed       = &AppError{Code: "SAVE_FAILED", Message: "Não foi possível salvar", StatusCode: http.StatusInternalServerError}
)

// Resume errors.
var (
	ErrInvalidPeriod = &AppError{Code: "INVALID_PERIOD", Message: "Período inválido", StatusCode: http.StatusBadRequest}
)
