package reservationapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyBaseURL   = errors.New("reservation api base url is empty")
	ErrRequestFailed  = errors.New("reservation api request failed")
	ErrDecodeResponse = errors.New("failed to decode reservation api response")
)

// APIError is a non-2xx answer from the backend. Error returns the server's
// human readable message.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("reservation api: %d %s", e.Status, http.StatusText(e.Status))
}

// IsAPIError reports whether err carries an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
