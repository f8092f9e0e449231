// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")

	ErrPaymentDeclined = errors.New("payment declined")
	ErrPaymentGateway  = errors.New("payment gateway failure")

	// ErrReconciliation marks a captured charge with no persisted order.
	// It must never be masked as a generic failure.
	ErrReconciliation = errors.New("charge captured but order not persisted")

	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
)

type AppError struct {
	Err     error
	Message string
	Status  int
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Status:  status,
		Code:    code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		"UNAUTHORIZED",
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "permission denied"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		"VALIDATION_ERROR",
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already exists", field),
		http.StatusConflict,
		"DUPLICATE",
	)
}

func PaymentDeclinedError(message string) *AppError {
	if message == "" {
		message = "payment was declined; try a different payment source"
	}
	return NewAppError(
		ErrPaymentDeclined,
		message,
		http.StatusPaymentRequired,
		"PAYMENT_DECLINED",
	)
}

func PaymentGatewayError() *AppError {
	return NewAppError(
		ErrPaymentGateway,
		"payment gateway unavailable; the charge was not completed",
		http.StatusBadGateway,
		"PAYMENT_GATEWAY_ERROR",
	)
}

func ReconciliationError() *AppError {
	return NewAppError(
		ErrReconciliation,
		"your payment was captured but the order could not be recorded; contact support",
		http.StatusInternalServerError,
		"RECONCILIATION_REQUIRED",
	)
}

func ResetTokenError() *AppError {
	return NewAppError(
		ErrResetTokenInvalid,
		"the reset token is either invalid or expired",
		http.StatusBadRequest,
		"RESET_TOKEN_INVALID",
	)
}
