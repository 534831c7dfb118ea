package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when a CSW endpoint responds with a non-2xx HTTP
// status. Using a typed error allows callers to distinguish "not found" (404)
// from transient failures without string matching.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("csw status %d", e.StatusCode)
}

// ErrRecordNotFound is returned when the catalog answers successfully but
// the response holds no metadata record.
var ErrRecordNotFound = errors.New("record not found in catalog response")

// ExceptionError carries an OWS exception report returned by the catalog.
type ExceptionError struct {
	Code string
	Text string
}

func (e *ExceptionError) Error() string {
	if e.Code == "" {
		return "csw exception: " + e.Text
	}
	return fmt.Sprintf("csw exception %s: %s", e.Code, e.Text)
}

// IsNotFound reports whether err means the requested record does not exist:
// an HTTP 404 or an empty GetRecordById response.
func IsNotFound(err error) bool {
	var e *StatusError
	if errors.As(err, &e) && e.StatusCode == http.StatusNotFound {
		return true
	}
	return errors.Is(err, ErrRecordNotFound)
}

// IsUnauthorized reports whether err is a StatusError with HTTP 401 or 403.
func IsUnauthorized(err error) bool {
	var e *StatusError
	return errors.As(err, &e) && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}
