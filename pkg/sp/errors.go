package sp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors for err113 compliance.
var (
	// ErrBatchClosed is returned when an operation is enqueued into a batch
	// that has already been executed.
	ErrBatchClosed = errors.New("batch already closed")
	// ErrBatchAlreadyExecuted is returned by a second call to Batch.Execute.
	ErrBatchAlreadyExecuted = errors.New("batch already executed")
	// ErrBatchProtocolViolation is returned when the grouped response does not
	// carry exactly one sub-response per queued operation.
	ErrBatchProtocolViolation = errors.New("batch protocol violation")
	// ErrMalformedBatchResponse is returned when the grouped response cannot be split.
	ErrMalformedBatchResponse = errors.New("malformed batch response")
	// ErrPending is returned by Pending.Result before the operation resolved.
	ErrPending = errors.New("operation not yet resolved")

	ErrConfigRequired   = errors.New("config is required")
	ErrInvalidConfig    = errors.New("invalid config")
	ErrSiteURLRequired  = errors.New("site URL is required")
	ErrNoODataURL       = errors.New("response carries no OData URL")
	ErrUnexpectedResult = errors.New("unexpected result shape")
	ErrSkipTLSOnlyInDev = errors.New("SkipTLSVerify is only allowed in development mode")
)

// Well known remote error codes.
const (
	ErrorCodeFileNotFound = "-2147024894, System.IO.FileNotFoundException"
	ErrorCodeAccessDenied = "-2147024891, System.UnauthorizedAccessException"
)

// APIError represents a structured error returned by the remote service.
type APIError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Code       string `json:"code"        yaml:"code"`
	Message    string `json:"message"     yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error (status: %d)", e.StatusCode)
	}

	if e.Code == "" {
		return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

// errorPayload covers both the verbose and the light JSON error envelopes.
type errorPayload struct {
	Error      *errorBody `json:"error"`
	ODataError *errorBody `json:"odata.error"`
}

type errorBody struct {
	Code    string          `json:"code"`
	Message json.RawMessage `json:"message"`
}

func (b *errorBody) message() string {
	if len(b.Message) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(b.Message, &text); err == nil {
		return text
	}

	var localized struct {
		Lang  string `json:"lang"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(b.Message, &localized); err == nil {
		return localized.Value
	}

	return string(b.Message)
}

// ParseAPIError builds an APIError from a non-2xx response body. Bodies that
// are not a recognised error envelope are kept verbatim as the message.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		detail := payload.Error
		if detail == nil {
			detail = payload.ODataError
		}

		if detail != nil {
			apiErr.Code = detail.Code
			apiErr.Message = detail.message()

			return apiErr
		}
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}

	return apiErr
}

// IsNotFound checks if the error reports a missing resource.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound || apiErr.Code == ErrorCodeFileNotFound
	}

	return false
}

// IsPreconditionFailed checks if the error is an ETag mismatch.
func IsPreconditionFailed(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusPreconditionFailed
	}

	return false
}

// IsForbidden checks if the error is an authorization failure.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden || apiErr.Code == ErrorCodeAccessDenied
	}

	return false
}
