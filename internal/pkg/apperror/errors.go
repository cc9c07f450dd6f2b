package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	ErrCodeImmutable       ErrorCode = "PROPOSAL_IMMUTABLE"
	ErrCodeOperationBusy   ErrorCode = "OPERATION_IN_FLIGHT"
	ErrCodeTransform       ErrorCode = "AI_TRANSFORM_FAILED"
	ErrCodeMalformedAI     ErrorCode = "MALFORMED_AI_RESPONSE"
	ErrCodeContextTooLarge ErrorCode = "CONTEXT_TOO_LARGE"
	ErrCodeAttestation     ErrorCode = "ATTESTATION_FAILED"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
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

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeImmutable, ErrCodeOperationBusy:
		return http.StatusConflict
	case ErrCodeContextTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeTransform, ErrCodeMalformedAI, ErrCodeAttestation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsImmutable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeImmutable
}

func IsOperationBusy(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeOperationBusy
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

// Code возвращает код ошибки или ErrCodeInternal для неизвестных ошибок.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

var (
	ErrTenderNotFound    = New(ErrCodeNotFound, "тендер не найден")
	ErrProposalNotFound  = New(ErrCodeNotFound, "заявка не найдена")
	ErrVersionNotFound   = New(ErrCodeNotFound, "версия заявки не найдена")
	ErrCompanyNotFound   = New(ErrCodeNotFound, "профиль компании не найден")
	ErrProposalImmutable = New(ErrCodeImmutable, "заявка уже отправлена и не может быть изменена")
	ErrOperationInFlight = New(ErrCodeOperationBusy, "операция уже выполняется, дождитесь завершения")
	ErrUnauthorized      = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden         = New(ErrCodeForbidden, "недостаточно прав")
)
