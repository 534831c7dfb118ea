package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// StatusError is returned when a probed server answers with a status the
// probe does not accept.
type StatusError struct {
	Method     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s status %d", e.Method, e.StatusCode)
}

// ErrServiceException marks a WFS response that carries an OWS exception
// report instead of features.
var ErrServiceException = errors.New("service exception in response")

// ErrFormatIgnored marks a WFS response whose content type shows the server
// ignored the requested output format.
var ErrFormatIgnored = errors.New("requested output format ignored by server")

// Reason condenses a probe failure into a short label for logs.
func Reason(err error) string {
	if err == nil {
		return "ok"
	}
	var se *StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("status %d", se.StatusCode)
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrServiceException):
		return "service exception"
	case errors.Is(err, ErrFormatIgnored):
		return "format ignored"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused"
	case errors.Is(err, syscall.ECONNRESET):
		return "connection reset"
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return "timeout"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns lookup failed"
	}
	return err.Error()
}
