package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-success response from the backend, carrying the
// server-supplied message when one could be parsed.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (status %d)", e.StatusCode)
}

// errorEnvelope matches the backend's error shape. The detail field is
// either a bare string or an object with a message.
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

type errorDetail struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeAPIError extracts the server-supplied message from an error
// response body. Bodies are capped; an unparseable body yields a bare
// status error.
func decodeAPIError(resp *http.Response) error {
	const maxErrorBody = 64 << 10
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return &APIError{StatusCode: resp.StatusCode}
	}

	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	var detail errorDetail
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil && detail.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: detail.Message}
	}

	return &APIError{StatusCode: resp.StatusCode}
}
