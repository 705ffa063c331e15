package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
)

// maxJSONBodyBytes bounds every JSON request body
const maxJSONBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst. An empty body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewMaxBodySizeExceededError(maxBytesErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return errs.NewMalformedPayloadError(errors.New("empty body"))
		}
		return errs.NewMalformedPayloadError(err)
	}
	return nil
}
