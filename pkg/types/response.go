// Package types holds the JSON envelopes every endpoint answers with.
package types

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-Id"

// SuccessEnvelope wraps the payload of a successful response.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public view of a typed error. Details are only filled for client errors,
// e.g. the violations of a rejected submission or the coordinates of an invalid price entry.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
