// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"serialseq/internal/core/entity"
)

// --- List Response ---

// ListResponse wraps list results.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
}

// --- Base DTOs ---

// BaseResponse contains common response fields.
type BaseResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromBaseRecord creates BaseResponse from entity.BaseRecord.
func FromBaseRecord(b entity.BaseRecord) BaseResponse {
	return BaseResponse{
		ID:        b.ID.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// SerialFieldsResponse exposes the serial of a record.
type SerialFieldsResponse struct {
	Serial       string `json:"serial"`
	Series       string `json:"series"`
	SerialYear   int    `json:"serialYear"`
	SerialMonth  int    `json:"serialMonth"`
	SerialNumber int64  `json:"serialNumber"`
}

// FromSerialFields creates SerialFieldsResponse from entity.SerialFields.
func FromSerialFields(f entity.SerialFields) SerialFieldsResponse {
	return SerialFieldsResponse{
		Serial:       f.Serial,
		Series:       f.Series,
		SerialYear:   f.SerialYear,
		SerialMonth:  f.SerialMonth,
		SerialNumber: f.SerialNumber,
	}
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
