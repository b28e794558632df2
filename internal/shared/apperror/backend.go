package apperror

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// UpstreamError is a non-2xx answer from the HRMS backend. Body is kept raw so
// the console can pick the message it shows.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: backend responded %d", e.Method, e.Path, e.StatusCode)
}

// ErrorBody is the decoded view of an upstream error body handed to each Rule.
// Fields is nil when the body is not a JSON object.
type ErrorBody struct {
	Raw    []byte
	Fields map[string]json.RawMessage
}

// Rule extracts a display message from an error body, reporting false when it
// does not apply.
type Rule func(body ErrorBody) (string, bool)

// Detail reads a non-empty string "detail" field.
func Detail() Rule {
	return func(body ErrorBody) (string, bool) {
		raw, ok := body.Fields["detail"]
		if !ok {
			return "", false
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	}
}

// FirstOf reads the first entry of a field error list such as
// {"non_field_errors": ["..."]}. A plain string value is accepted as well.
func FirstOf(field string) Rule {
	return func(body ErrorBody) (string, bool) {
		raw, ok := body.Fields[field]
		if !ok {
			return "", false
		}
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err == nil {
			if len(list) == 0 {
				return "", false
			}
			return rawText(list[0])
		}
		return rawText(raw)
	}
}

// RawBody serializes the whole body back to compact text.
func RawBody() Rule {
	return func(body ErrorBody) (string, bool) {
		trimmed := bytes.TrimSpace(body.Raw)
		if len(trimmed) == 0 {
			return "", false
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String(), true
		}
		return string(trimmed), true
	}
}

// Fixed always applies with the given message.
func Fixed(message string) Rule {
	return func(ErrorBody) (string, bool) {
		return message, true
	}
}

// BackendMessage reduces a failed mutation to the single string shown in a
// modal. Client-side validation errors keep their own message, upstream errors
// are run through rules in order, and anything else (transport failures, empty
// bodies, no matching rule) yields transportFallback.
func BackendMessage(err error, transportFallback string, rules ...Rule) string {
	if err == nil {
		return ""
	}

	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		if len(bytes.TrimSpace(upErr.Body)) == 0 {
			return transportFallback
		}
		body := ErrorBody{Raw: upErr.Body}
		var fields map[string]json.RawMessage
		if json.Unmarshal(upErr.Body, &fields) == nil {
			body.Fields = fields
		}
		for _, rule := range rules {
			if msg, ok := rule(body); ok {
				return msg
			}
		}
		return transportFallback
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == CodeInvalidInput {
		return appErr.Message
	}

	return transportFallback
}

func rawText(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", false
	}
	return trimmed, true
}
