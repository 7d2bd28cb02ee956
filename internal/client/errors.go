package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxErrorBody = 64 << 10

// APIError is a non-2xx backend response. Message carries the server's own
// wording verbatim when the body provides one, so it can be shown to the
// user unchanged; otherwise a generic fallback is used.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.Message)
}

// decodeAPIError extracts the server's error message from a failed response.
// Both {"error": "..."} and {"message": "..."} envelopes are in use across
// backend endpoints.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("request failed (HTTP %d)", resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return apiErr
	}

	for _, m := range []string{envelope.Error, envelope.Message, envelope.Msg} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	return apiErr
}
