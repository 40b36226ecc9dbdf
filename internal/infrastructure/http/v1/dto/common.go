// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
)

// ListQuery contains common pagination parameters.
type ListQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Defaults clamps pagination values.
func (q *ListQuery) Defaults() {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
