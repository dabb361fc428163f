package models

import json "github.com/goccy/go-json"

// ListEnvelope is the paginated list shape. Older endpoints answer with a
// bare array instead.
type ListEnvelope[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// ErrorPayload is the error body. Message is a string or an array of
// validation messages.
type ErrorPayload struct {
	StatusCode       int             `json:"statusCode"`
	Message          json.RawMessage `json:"message"`
	Error            string          `json:"error"`
	NeedsCredentials bool            `json:"needsCredentials"`
}

type OracleCredentials struct {
	User     string `json:"usuario"`
	Password string `json:"clave"`
}

type OracleStatus struct {
	Configured bool   `json:"configurado"`
	User       string `json:"usuario,omitempty"`
	Message    string `json:"mensaje,omitempty"`
}
