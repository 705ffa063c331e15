package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every ApiErr unwraps to exactly one of these.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInternal           = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

type ApiErr struct {
	StatusCode int
	err        error
	message    string
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error, logged but never returned to clients
}

func NewApiErr(statusCode int, kind error, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        kind,
		message:    message,
	}
}

// implements error interface. the message is what clients see in the response envelope
func (e *ApiErr) Error() string {
	return e.message
}

// GetFullError returns the message followed by the chain of causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// errors.Is(errs.NewNotFoundError("project not found"), errs.ErrNotFound) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

func NewNotFoundError(message string) *ApiErr {
	return NewApiErr(http.StatusNotFound, ErrNotFound, message)
}

func NewBadRequestError(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, ErrValidation, message)
}

func NewUnauthorizedError(message string) *ApiErr {
	return NewApiErr(http.StatusUnauthorized, ErrUnauthorized, message)
}

func NewInternalError(message string) *ApiErr {
	return NewApiErr(http.StatusInternalServerError, ErrInternal, message)
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrInternal,
		message:    message,
		Cause:      cause,
	}
}

func NewServiceUnavailableError(message string) *ApiErr {
	return NewApiErr(http.StatusServiceUnavailable, ErrServiceUnavailable, message)
}

// NewDuplicateKeyError reports a unique-index violation. It maps to 400 like
// other rejected writes but stays distinguishable through ErrDuplicateKey.
// field names the violated key, e.g. "slug" or "email".
func NewDuplicateKeyError(entity, field string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrDuplicateKey,
		message:    "Duplicate key error",
		Field:      field,
		Cause:      fmt.Errorf("%s: %w", entity, cause),
	}
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}
