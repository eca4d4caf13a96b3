package vend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultErrorMessage is returned by ExtractErrorMessage when a failure
// carries no recognizable message.
const DefaultErrorMessage = "Something went wrong. Please try again."

const (
	TextCodeNotAuthenticated  = "vend_not_authenticated"
	TextCodeStaleSession      = "vend_stale_session"
	TextCodeInvalidRequest    = "vend_invalid_request"
	TextCodeMalformedResponse = "vend_malformed_response"
	TextCodeInvalidConfig     = "vend_invalid_config"
)

// ErrNotAuthenticated is returned when an endpoint that requires a session is
// called without a token.
var ErrNotAuthenticated = goerrors.New("no active session", goerrors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrStaleSession is returned when the session changed while a request was
// in flight. The response is discarded.
var ErrStaleSession = goerrors.New("session changed while request was in flight", goerrors.CategoryConflict).
	WithTextCode(TextCodeStaleSession).
	WithCode(goerrors.CodeConflict)

// ErrMalformedResponse is returned when a response body is not valid JSON.
var ErrMalformedResponse = goerrors.New("malformed response body", goerrors.CategoryInternal).
	WithTextCode(TextCodeMalformedResponse).
	WithCode(goerrors.CodeInternal)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Body    []byte
	Payload any
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}

	scope := strings.TrimSpace(e.Method + " " + e.Path)
	if scope == "" {
		scope = "request"
	}

	if msg, ok := payloadMessage(e.Payload); ok {
		return fmt.Sprintf("%s failed with status %d: %s", scope, e.Status, msg)
	}
	return fmt.Sprintf("%s failed with status %d", scope, e.Status)
}

// Metadata exposes the error attributes for logging.
func (e *APIError) Metadata() map[string]any {
	if e == nil {
		return nil
	}

	meta := map[string]any{
		"status": e.Status,
	}
	if e.Method != "" {
		meta["method"] = e.Method
	}
	if e.Path != "" {
		meta["path"] = e.Path
	}
	if payload, ok := e.Payload.(map[string]any); ok {
		if detail, ok := payload["error"].(map[string]any); ok {
			if code, ok := detail["code"]; ok {
				meta["code"] = code
			}
		}
	}
	return meta
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Method: method,
		Path:   path,
		Status: status,
		Body:   body,
	}

	var payload any
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		apiErr.Payload = payload
	}
	return apiErr
}

// ExtractErrorMessage returns a user facing message for err. It reads the
// payload carried by an *APIError, preferring error.message over message,
// and falls back to DefaultErrorMessage. It never returns an empty string.
func ExtractErrorMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr == nil {
		return DefaultErrorMessage
	}

	if msg, ok := payloadMessage(apiErr.Payload); ok {
		return msg
	}
	return DefaultErrorMessage
}

func payloadMessage(payload any) (string, bool) {
	data, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}

	if detail, ok := data["error"].(map[string]any); ok {
		if msg, ok := detail["message"].(string); ok && msg != "" {
			return msg, true
		}
	}

	if msg, ok := data["message"].(string); ok && msg != "" {
		return msg, true
	}

	return "", false
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

// IsNotAuthenticated reports whether err was raised because no session exists.
func IsNotAuthenticated(err error) bool {
	return hasTextCode(err, TextCodeNotAuthenticated)
}

// IsStaleSession reports whether a response was discarded because the
// session changed while it was in flight.
func IsStaleSession(err error) bool {
	return hasTextCode(err, TextCodeStaleSession)
}

// IsValidationError reports whether err is a request validation failure.
func IsValidationError(err error) bool {
	return hasTextCode(err, TextCodeInvalidRequest)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr != nil {
		return richErr.TextCode == code
	}
	return false
}

func invalidRequest(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, msg).
		WithTextCode(TextCodeInvalidRequest).
		WithCode(goerrors.CodeBadRequest)
}
