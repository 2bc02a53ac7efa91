package kfp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gkcalat/pipelines/internal/models"
)

// maxErrorBody bounds how much of a failed response is kept.
const maxErrorBody = 64 << 10

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	// Status is the decoded error body; nil when the body was not JSON.
	Status *models.Status
	Body   string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if e.Status != nil && e.Status.Message != "" {
		msg = e.Status.Message
	}
	return fmt.Sprintf("[%s %s%s][%d] %s", e.Method, APIPrefix, e.Path, e.StatusCode, msg)
}

// errorBody covers both the google.rpc.Status shape and the legacy "error" field.
type errorBody struct {
	models.Status
	Error string `json:"error"`
}

func newAPIError(method, path string, resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Method:     method,
		Path:       path,
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr.Body = string(data)

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		status := body.Status
		if status.Message == "" {
			status.Message = body.Error
		}
		if status.Message != "" || status.Code != 0 || len(status.Details) > 0 {
			apiErr.Status = &status
		}
	}
	return apiErr
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
