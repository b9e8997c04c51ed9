package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies failures across fetchers and providers.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	NetworkTimeout
	NetworkError
	ParseError
	NotFound
	RenderFailure
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkTimeout:
		return "network_timeout"
	case NetworkError:
		return "network_error"
	case ParseError:
		return "parse_error"
	case NotFound:
		return "not_found"
	case RenderFailure:
		return "render_failure"
	default:
		return "none"
	}
}

// Error is a classified engine error. Op names the failing step.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap classifies err and tags it with op. Returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindOf(err), Op: op, Err: err}
}

// NotFoundf returns a NotFound error for op.
func NotFoundf(op, format string, args ...any) error {
	return &Error{Kind: NotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// KindOf maps an error to its ErrorKind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound || statusErr.StatusCode == http.StatusGone {
			return NotFound
		}
		return NetworkError
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NetworkTimeout
	}

	// Timeout errors (url.Error and OpError both implement net.Error)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NetworkTimeout
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ParseError
	}

	return NetworkError
}
