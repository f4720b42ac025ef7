package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the client and its callers.
var (
	ErrMissingSiteAccessID = errors.New("site access id is not configured")
	ErrEmptyResponse       = errors.New("response body is empty")
	ErrNoGroupData         = errors.New("no group data loaded")
	ErrUnknownEvent        = errors.New("unknown activity event")
)

// ConfigurationError reports a missing or invalid client setting.
// It is returned before any I/O is attempted.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// URLConstructionError reports a request URL that could not be built.
type URLConstructionError struct {
	URL string
	Err error
}

func (e *URLConstructionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("cannot construct url: %v", e.Err)
	}
	return fmt.Sprintf("cannot construct url %q: %v", e.URL, e.Err)
}

func (e *URLConstructionError) Unwrap() error { return e.Err }

// TransportError reports a network-level failure such as a timeout,
// a DNS failure or a reset connection.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("transport error: %s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError reports a response with a status outside [200,299].
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "http error: status %d", e.StatusCode)
	if e.Status != "" {
		fmt.Fprintf(&sb, " (%s)", e.Status)
	}
	if e.Body != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Body)
	}
	return sb.String()
}

// DecodeError reports a response body that did not match the expected shape.
type DecodeError struct {
	Target string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsURLConstructionError reports whether err is or wraps a URLConstructionError.
func IsURLConstructionError(err error) bool {
	var target *URLConstructionError
	return errors.As(err, &target)
}

// IsTransportError reports whether err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsDecodeError reports whether err is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// an HTTPError.
func StatusCode(err error) int {
	var target *HTTPError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}

// IsHTTPError reports whether err is or wraps an HTTPError.
func IsHTTPError(err error) bool {
	return StatusCode(err) != 0
}
