package apiclient

import "github.com/pkg/errors"

// PageMeta is the pagination block of a list envelope.
type PageMeta struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Envelope is the platform's standard response wrapper.
type Envelope[T any] struct {
	Success    bool      `json:"success"`
	Data       T         `json:"data"`
	Message    string    `json:"message,omitempty"`
	Errors     []string  `json:"errors,omitempty"`
	Pagination *PageMeta `json:"pagination,omitempty"`
}

// Unwrap returns the payload or the server's failure message when the
// envelope reports no success.
func (e *Envelope[T]) Unwrap() (T, error) {
	if !e.Success {
		var zero T
		message := e.Message
		if message == "" {
			message = "request failed"
		}
		return zero, errors.New(message)
	}
	return e.Data, nil
}
