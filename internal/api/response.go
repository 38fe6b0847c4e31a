package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ResponseType is the envelope's type field.
type ResponseType string

const (
	ResponseSync  ResponseType = "sync"
	ResponseAsync ResponseType = "async"
	ResponseError ResponseType = "error"
)

// Response is the JSON envelope every backend endpoint returns.
type Response struct {
	Type       ResponseType    `json:"type"`
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Operation  string          `json:"operation"`
	ErrorCode  int             `json:"error_code"`
	Error      string          `json:"error"`
	Metadata   json.RawMessage `json:"metadata"`
}

// StatusError is a backend-reported failure.
type StatusError struct {
	StatusCode int
	ErrorCode  int
	Message    string
}

func (e *StatusError) Error() string {
	code := e.ErrorCode
	if code == 0 {
		code = e.StatusCode
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(code)
	}
	return fmt.Sprintf("operations center: %s (%d)", msg, code)
}

// Code returns the most specific status code available.
func (e *StatusError) Code() int {
	if e.ErrorCode != 0 {
		return e.ErrorCode
	}
	return e.StatusCode
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsConflict reports whether err is a backend 409.
func IsConflict(err error) bool {
	return hasCode(err, http.StatusConflict)
}

func hasCode(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code() == code
}

// decodeResponse unwraps the envelope in resp and decodes its metadata into
// out. Non-2xx statuses and error envelopes become *StatusError.
func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env Response
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
			}
			return fmt.Errorf("decode response envelope (status code = %d): %w", resp.StatusCode, err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest || env.Type == ResponseError {
		return &StatusError{
			StatusCode: resp.StatusCode,
			ErrorCode:  env.ErrorCode,
			Message:    env.Error,
		}
	}

	if out == nil || len(env.Metadata) == 0 || string(env.Metadata) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Metadata, out); err != nil {
		return fmt.Errorf("decode response metadata: %w", err)
	}
	return nil
}
