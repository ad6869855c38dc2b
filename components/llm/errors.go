package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrAuthentication the credential was rejected
	ErrAuthentication = errors.New("authentication failed")
	// ErrQuota rate limit or quota exhausted
	ErrQuota = errors.New("rate limit or quota exceeded")
	// ErrTimeout the call did not finish in time
	ErrTimeout = errors.New("request timed out")
	// ErrUnavailable the provider failed on its side
	ErrUnavailable = errors.New("service unavailable")
	// ErrInvalidRequest the provider rejected the request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmptyResponse the model answered without text
	ErrEmptyResponse = errors.New("empty response")
	// ErrMalformedResponse the answer could not be used, e.g. blocked by safety filters
	ErrMalformedResponse = errors.New("malformed response")
	// ErrRequest any other failure
	ErrRequest = errors.New("request failed")
)

// Error is a provider failure classified into one of the sentinel kinds above
type Error struct {
	Provider Provider
	Kind     error
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError wraps err as a provider error of the given kind
func NewError(provider Provider, kind error, err error) *Error {
	if kind == nil {
		kind = ErrRequest
	}
	return &Error{Provider: provider, Kind: kind, Err: err}
}

// KindFromStatus maps an HTTP status code to an error kind
func KindFromStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrAuthentication
	case code == http.StatusTooManyRequests, code == http.StatusPaymentRequired:
		return ErrQuota
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return ErrTimeout
	case code >= http.StatusInternalServerError:
		return ErrUnavailable
	case code >= http.StatusBadRequest:
		return ErrInvalidRequest
	}
	return ErrRequest
}

// Classify wraps err as *Error. kind is used when err carries no better information,
// already classified errors are returned unchanged.
func Classify(provider Provider, kind error, err error) error {
	if err == nil {
		return nil
	}
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(provider, ErrTimeout, err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return NewError(provider, ErrTimeout, err)
	}
	return NewError(provider, kind, err)
}

// Describe renders err as a short human readable message without provider codes
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthentication):
		return "authentication failed, check the API key"
	case errors.Is(err, ErrQuota):
		return "rate limit or quota exceeded, try again later"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "the request timed out"
	case errors.Is(err, context.Canceled):
		return "the request was canceled"
	case errors.Is(err, ErrUnavailable):
		return "the AI service is currently unavailable"
	case errors.Is(err, ErrInvalidRequest):
		return "the AI service rejected the request"
	case errors.Is(err, ErrEmptyResponse):
		return "the model returned an empty response"
	case errors.Is(err, ErrMalformedResponse):
		return "the model returned an unusable response"
	}
	var perr *Error
	if errors.As(err, &perr) && perr.Err != nil {
		return fmt.Sprintf("request failed: %v", perr.Err)
	}
	return fmt.Sprintf("request failed: %v", err)
}
