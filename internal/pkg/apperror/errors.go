package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest        ErrorCode = "BAD_REQUEST"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnknownCategory   ErrorCode = "UNKNOWN_CATEGORY"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
)

// RetryHint добавляется к ответам NOT_FOUND и CONFLICT.
const RetryHint = "обновите данные и повторите запрос"

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
	// Details отдаётся клиенту как есть: {field, reason} или {from, event}.
	Details map[string]string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал с шаблонными ошибками пакета.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation описывает невалидный или отсутствующий атрибут.
func Validation(field, reason string) *AppError {
	return &AppError{
		Code:       ErrCodeValidation,
		Message:    fmt.Sprintf("поле %s: %s", field, reason),
		HTTPStatus: codeToHTTPStatus(ErrCodeValidation),
		Details:    map[string]string{"field": field, "reason": reason},
	}
}

func UnknownCategory(slug string) *AppError {
	return &AppError{
		Code:       ErrCodeUnknownCategory,
		Message:    fmt.Sprintf("неизвестная категория %q", slug),
		HTTPStatus: codeToHTTPStatus(ErrCodeUnknownCategory),
		Details:    map[string]string{"field": "category", "reason": "unknown category"},
	}
}

// InvalidTransition возвращается, когда событие недопустимо в текущем статусе.
func InvalidTransition(from, event string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidTransition,
		Message:    fmt.Sprintf("действие %s недопустимо в статусе %s", event, from),
		HTTPStatus: codeToHTTPStatus(ErrCodeInvalidTransition),
		Details:    map[string]string{"from": from, "event": event},
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeValidation, ErrCodeUnknownCategory:
		return http.StatusUnprocessableEntity
	case ErrCodeConflict, ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsUnknownCategory(err error) bool {
	return hasCode(err, ErrCodeUnknownCategory)
}

func IsInvalidTransition(err error) bool {
	return hasCode(err, ErrCodeInvalidTransition)
}

func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict)
}

var (
	ErrListingNotFound  = New(ErrCodeNotFound, "объявление не найдено")
	ErrReportNotFound   = New(ErrCodeNotFound, "жалоба не найдена")
	ErrUnauthorized     = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden        = New(ErrCodeForbidden, "недостаточно прав")
	ErrVersionConflict  = New(ErrCodeConflict, "объявление было изменено другим запросом")
	ErrConcurrentUpdate = New(ErrCodeConflict, "параллельное изменение, повторите запрос")
)
