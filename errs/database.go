package errs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// NewDatabaseError converts an error coming out of the storage layer into an
// ApiErr. Errors that already carry a kind pass through untouched, duplicate
// key violations are recognised by the driver's error code, anything else
// becomes a generic internal error that keeps the cause for logging only.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	if cause == nil {
		return nil
	}

	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("failed to %s %s", operation, entity)

	switch {
	case errors.Is(cause, ErrDuplicateKey), mongo.IsDuplicateKeyError(cause):
		return NewDuplicateKeyError(entity, duplicateKeyField(cause), cause)
	case errors.Is(cause, mongo.ErrNoDocuments):
		return NewNotFoundError(fmt.Sprintf("%s not found", entity))
	case errors.Is(cause, context.DeadlineExceeded), mongo.IsTimeout(cause):
		return NewInternalErrorWithCause("Internal server error", fmt.Errorf("%s: timed out: %w", details, cause))
	}

	return NewInternalErrorWithCause("Internal server error", fmt.Errorf("%s: %w", details, cause))
}

// duplicateKeyField reads the key name out of an E11000 message
// ("... index: email_1 dup key: ..."). Empty when there is no index name.
func duplicateKeyField(cause error) string {
	msg := cause.Error()
	i := strings.Index(msg, "index: ")
	if i < 0 {
		return ""
	}
	index := msg[i+len("index: "):]
	if end := strings.IndexFunc(index, func(r rune) bool {
		return !(r == '_' || r == '.' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}); end >= 0 {
		index = index[:end]
	}
	if j := strings.LastIndex(index, "_"); j > 0 {
		index = index[:j]
	}
	return index
}
