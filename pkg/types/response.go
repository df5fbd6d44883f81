// Package types holds the JSON envelopes every restaurant API response is
// wrapped in.
package types

// SuccessEnvelope wraps a successful payload under a data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body: a stable code, a client-safe message,
// and optional structured details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
