// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"encoding/json"
	"errors"
	"strings"
)

// Operation names a backend endpoint for error reporting.
type Operation string

const (
	OpChat   Operation = "chat"
	OpShop   Operation = "shop"
	OpModes  Operation = "modes"
	OpHealth Operation = "health"
)

// GenericMessage returns the message used when the backend gives no detail.
func (op Operation) GenericMessage() string {
	switch op {
	case OpChat:
		return "Failed to send message"
	case OpShop:
		return "Failed to search products"
	case OpModes:
		return "Failed to fetch modes"
	case OpHealth:
		return "Health check failed"
	default:
		return "Request failed"
	}
}

// Messages for failures that never reached a status-code decision.
const (
	msgInvalidResponse  = "invalid response from server"
	msgResponseTooLarge = "response exceeded maximum size"
)

// RequestError is returned by every Client operation on failure.
//
// Status is the HTTP status code, or 0 when the request never produced a
// response (connection refused, timeout, cancelled context).
type RequestError struct {
	Op      Operation
	Status  int
	Message string
	Err     error
}

// Error returns the human-readable message only, so callers can surface it
// to the user unchanged.
func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap returns the underlying transport or decode error, if any.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the failure happened before any response.
func (e *RequestError) IsTransport() bool {
	return e.Status == 0
}

// IsRequestError reports whether err is (or wraps) a RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// errorBody is the error envelope the backend uses for non-2xx replies.
type errorBody struct {
	Error  string          `json:"error,omitempty"`
	Detail json.RawMessage `json:"detail,omitempty"`
}

// statusError builds a RequestError from a non-2xx response body.
// Only a non-empty string "detail" is surfaced; anything else falls back to
// the operation's generic message.
func statusError(op Operation, status int, body []byte) *RequestError {
	reqErr := &RequestError{
		Op:      op,
		Status:  status,
		Message: op.GenericMessage(),
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return reqErr
	}

	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err == nil && strings.TrimSpace(detail) != "" {
		reqErr.Message = detail
	}
	return reqErr
}
