package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxJSONBodyBytes bounds JSON request bodies. An import payload carries the
// full preview, so the limit is generous.
const maxJSONBodyBytes = 16 << 20

var errEmptyBody = errors.New("request body is empty")

// parseJSON decodes the request body into a T. Unknown fields are rejected so
// that misspelled options fail loudly instead of being ignored.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, errEmptyBody
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, errEmptyBody
		}
		return v, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}
