package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure.
type Kind string

const (
	KindTransport Kind = "transport" // request never got a response
	KindServer    Kind = "server"    // non-2xx response
	KindDecode    Kind = "decode"    // 2xx response with an unreadable body
	KindEncode    Kind = "encode"    // request body could not be built
)

// Error is returned by every Client method that fails.
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int
	Body       string // raw server error body
	Detail     string // server "detail" field, when present
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindServer:
		msg := e.Detail
		if msg == "" {
			msg = http.StatusText(e.StatusCode)
		}
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
	default:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newServerError(method, path string, status int, body []byte) *Error {
	e := &Error{
		Kind:       KindServer,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       string(body),
	}
	if len(body) > 0 {
		var payload struct {
			Detail json.RawMessage `json:"detail"`
		}
		if json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 {
			var s string
			if json.Unmarshal(payload.Detail, &s) == nil {
				e.Detail = s
			} else {
				e.Detail = string(payload.Detail)
			}
		}
	}
	return e
}

func asError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status of a server error, or 0.
func StatusCode(err error) int {
	if e, ok := asError(err); ok {
		return e.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

func IsTransport(err error) bool {
	e, ok := asError(err)
	return ok && e.Kind == KindTransport
}

// UserMessage is the text shown to a person for err: the server's detail
// when it sent one, a fixed line when the server could not be reached, and
// the error string otherwise.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		if e.Detail != "" {
			return e.Detail
		}
		if e.Kind == KindTransport {
			return "Could not reach the server"
		}
	}
	return err.Error()
}
