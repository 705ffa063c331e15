package errs

import (
	"fmt"
	"net/http"
)

var (
	Unauthorized = NewUnauthorizedError("Unauthorized")
)

func NewMalformedPayloadError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		message:    "Malformed request body",
		Field:      "payload",
		Cause:      cause,
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		message:    fmt.Sprintf("%s is required", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		message:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrValidation,
		message:    fmt.Sprintf("Request body exceeds the maximum allowed size of %d bytes", maxSize),
		Field:      "body_size",
	}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrUnauthorized,
		message:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

// Credential errors

func NewInvalidCredentialsError() *ApiErr {
	return NewUnauthorizedError("Invalid credentials")
}

func NewEmailInUseError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		message:    "Email already in use",
		Field:      "email",
	}
}

func NewAdminExistsError() *ApiErr {
	return NewApiErr(http.StatusBadRequest, ErrValidation, "Admin already exists")
}
