// Package dto contains data transfer objects for API requests and responses
package dto

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail provides detailed error information
type ErrorDetail struct {
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError points at a single invalid field inside a request payload. Path
// uses dotted json names, e.g. "content.primaryButton.url".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// PaginationInfo describes a page of a list response
type PaginationInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
