// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/storefront-api/internal/config"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrConfig is shared with the config package so startup and runtime
	// configuration failures match the same errors.Is check.
	ErrConfig = config.ErrConfig
)

// DatabaseError wraps a storage failure that has no more specific meaning.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: database error: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// DBError annotates err with op. Typed domain errors keep their identity;
// everything else becomes a *DatabaseError.
func DBError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrForbidden) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if IsValueRejected(err) {
		return fmt.Errorf("%s: %w", op, Invalid("value is out of range"))
	}

	return &DatabaseError{Op: op, Err: err}
}

func IsDatabaseError(err error) bool {
	var dbErr *DatabaseError
	return errors.As(err, &dbErr)
}

type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
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
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrBadRequest, message, http.StatusBadRequest, "BAD_REQUEST")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
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

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusBadRequest,
		"DUPLICATE",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"invalid or expired token",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"invalid or expired token",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func InternalError() *AppError {
	return NewAppError(
		nil,
		"internal server error",
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
	)
}

// ToAppError maps a domain error onto its HTTP representation. resource
// names the entity in not-found messages.
func ToAppError(err error, resource string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrDuplicateKey):
		return NewAppError(err, duplicateMessage(resource), http.StatusBadRequest, "DUPLICATE")
	case errors.Is(err, ErrBadRequest):
		return NewAppError(err, badRequestMessage(err), http.StatusBadRequest, "BAD_REQUEST")
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, resource+" not found", http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewAppError(
			err,
			"you do not have permission to access this "+resource,
			http.StatusForbidden,
			"FORBIDDEN",
		)
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	default:
		return InternalError()
	}
}

func duplicateMessage(resource string) string {
	if resource == "user" {
		return "email already exists"
	}
	return resource + " already exists"
}

// badRequestMessage surfaces the reason attached by the failing layer.
func badRequestMessage(err error) string {
	var reason *reasonError
	if errors.As(err, &reason) {
		return reason.msg
	}
	return "invalid request"
}

type reasonError struct {
	msg string
	err error
}

func (e *reasonError) Error() string { return e.msg }
func (e *reasonError) Unwrap() error { return e.err }

// Invalid returns an ErrBadRequest carrying a client-safe message.
func Invalid(message string) error {
	return &reasonError{msg: message, err: ErrBadRequest}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// IsValueRejected reports a CHECK constraint or numeric range failure.
func IsValueRejected(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgCheckViolation || pgErr.Code == pgNumericOutOfRange
}
