package llm

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindUnauthorized      ErrorKind = "unauthorized"
	KindRateLimited       ErrorKind = "rate_limited"
	KindUnavailable       ErrorKind = "unavailable"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindTransport         ErrorKind = "transport"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrUnauthorized      = &GatewayError{Kind: KindUnauthorized}
	ErrRateLimited       = &GatewayError{Kind: KindRateLimited}
	ErrUnavailable       = &GatewayError{Kind: KindUnavailable}
	ErrMalformedResponse = &GatewayError{Kind: KindMalformedResponse}
	ErrTransport         = &GatewayError{Kind: KindTransport}
)

// GatewayError is the single failure type of the completion gateway.
type GatewayError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	msg := string(e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = msg + ": " + e.Message
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) Is(target error) bool {
	t, ok := target.(*GatewayError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether the caller may try the same request again later.
// The gateway itself never retries.
func (e *GatewayError) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindUnavailable, KindTransport:
		return true
	}
	return false
}

// KindOf returns the gateway error kind of err, or "" if err is not a gateway error.
func KindOf(err error) ErrorKind {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}

// ClassifyStatus maps a non-2xx backend status to a gateway error.
func ClassifyStatus(status int, body []byte) *GatewayError {
	e := &GatewayError{StatusCode: status, Message: truncate(string(body), 512)}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = KindUnauthorized
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case http.StatusPaymentRequired, http.StatusServiceUnavailable:
		e.Kind = KindUnavailable
	default:
		e.Kind = KindTransport
	}
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
