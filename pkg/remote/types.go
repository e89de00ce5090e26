package remote

import (
	"fmt"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// UploadRequest is the body of POST /api/data.
type UploadRequest struct {
	User      string      `json:"user"`
	Data      record.List `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// UploadEntry is one entry of the server's upload log.
type UploadEntry struct {
	Seq       int64  `json:"seq"`
	User      string `json:"user"`
	Timestamp string `json:"timestamp"`
	Count     int    `json:"count"`
}

// ErrorResponse represents an error response from the sync server.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// APIError is a non-2xx response from the sync server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sync server error (status %d): %s", e.StatusCode, e.Message)
}
