// Package types defines the JSON envelopes every API response uses.
// Success bodies nest under "data"; failures carry a machine-readable
// code the ordering client switches on.
package types

// SuccessEnvelope wraps every 2xx payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error shape. Details is populated only
// for codes whose metadata allows it, validation being the usual case.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under "error".
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
