package dto

import "errors"

var (
	ErrNoFiles = errors.New("at least one file is required")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// BatchParseResponse is the result of a batch upload, in upload order.
type BatchParseResponse struct {
	Documents   []DocumentResult `json:"documents"`
	Succeeded   int              `json:"succeeded"`
	Failed      int              `json:"failed"`
	ProcessedAt string           `json:"processed_at"`
}

// InspectResponse reports whether a statement needs a password before parsing.
type InspectResponse struct {
	Filename  string `json:"filename"`
	Encrypted bool   `json:"encrypted"`
	Pages     int    `json:"pages,omitempty"`
}
