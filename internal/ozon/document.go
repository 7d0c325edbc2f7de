package ozon

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a loosely typed JSON object. Most endpoints return one; unknown
// fields are kept so callers are not broken by additions upstream. Numbers are
// decoded as json.Number.
type Document map[string]any

// Result returns the "result" member, or nil.
func (d Document) Result() any {
	return d["result"]
}

// APIError reports the business error carried by the document, or nil when the
// document does not have the error shape ({"code", "message", "details"}).
func (d Document) APIError() *APIError {
	return apiErrorFrom(d["code"], d["message"], d["details"])
}

// APIError is the body the Seller API returns when it rejects a call.
type APIError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Details []any  `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ozon api error %d: %s", e.Code, e.Message)
}

// errorBody is embedded in typed responses to capture the error shape.
type errorBody struct {
	Code    any   `json:"code"`
	Message any   `json:"message"`
	Details []any `json:"details"`
}

func (b errorBody) apiError() *APIError {
	return apiErrorFrom(b.Code, b.Message, b.Details)
}

func apiErrorFrom(code, message, details any) *APIError {
	msg, ok := message.(string)
	if !ok || code == nil {
		return nil
	}

	e := &APIError{Message: msg}
	switch v := code.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			e.Code = n
		}
	case float64:
		e.Code = int64(v)
	case int64:
		e.Code = v
	}
	if d, ok := details.([]any); ok {
		e.Details = d
	}
	return e
}

func decodeJSON(raw json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}
