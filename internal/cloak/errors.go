package cloak

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// transportFailureMessage is used when a request produced no response at all.
const transportFailureMessage = "cloak service unreachable"

// APIError is the single error shape produced by the client. Message is
// always non-empty and Status is always set; when no HTTP response was
// received Status is 500.
type APIError struct {
	Message string
	Status  int
	cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("cloak api: %s (status %d)", e.Message, e.Status)
}

// Unwrap exposes the original failure for diagnostics.
func (e *APIError) Unwrap() error {
	return e.cause
}

// transportError normalizes a failure where no response arrived.
func transportError(cause error) *APIError {
	return &APIError{Message: transportFailureMessage, Status: http.StatusInternalServerError, cause: cause}
}

// protocolError normalizes a non-2xx response, preferring the server's
// detail field as the message.
func protocolError(resp *http.Response) *APIError {
	apiErr := &APIError{
		Message: fmt.Sprintf("cloak api returned status %d", resp.StatusCode),
		Status:  resp.StatusCode,
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		apiErr.cause = err
		return apiErr
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		apiErr.Message = detail.Detail
	}
	return apiErr
}

// requestError normalizes a client-local failure such as a missing job id.
func requestError(message string) *APIError {
	return &APIError{Message: message, Status: http.StatusBadRequest}
}

// decodeError normalizes a 2xx response whose body could not be decoded.
func decodeError(status int, cause error) *APIError {
	return &APIError{Message: "invalid response body", Status: status, cause: cause}
}
