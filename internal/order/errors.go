package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidFilter = errors.New("invalid status filter")
	ErrInvalidStatus = errors.New("invalid order status")
)

// defaultErrorMessage is shown when neither the server nor the transport says anything useful.
const defaultErrorMessage = "an error occurred while loading data"

type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindServer
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

// APIError is the single normalized failure value returned by Client.
// Message is always non-empty and safe to display.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match a 404 from the API.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

func transportError(err error) *APIError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if strings.TrimSpace(msg) == "" {
		msg = defaultErrorMessage
	}
	return &APIError{Kind: KindTransport, Message: msg, Err: err}
}

// responseError builds an APIError from a non-2xx response, preferring the
// server's own message over a generic status line.
func responseError(res *http.Response) *APIError {
	kind := KindServer
	if res.StatusCode == http.StatusNotFound {
		kind = KindNotFound
	}
	msg := serverMessage(res.Body)
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", res.StatusCode)
	}
	var cause error
	if kind == KindNotFound {
		cause = ErrNotFound
	}
	return &APIError{Kind: kind, StatusCode: res.StatusCode, Message: msg, Err: cause}
}

func serverMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if m := strings.TrimSpace(payload.Message); m != "" {
		return m
	}
	return strings.TrimSpace(payload.Error)
}

// Message extracts a display message from any error, falling back to the default.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if m := strings.TrimSpace(err.Error()); m != "" {
		return m
	}
	return defaultErrorMessage
}
