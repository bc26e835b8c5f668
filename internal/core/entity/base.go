// Package entity provides the building blocks business records are composed of.
package entity

import (
	"context"
	"time"

	"serialseq/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseRecord contains common fields for business records (invoices, orders, bookings).
type BaseRecord struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseRecord creates a new BaseRecord with generated ID and timestamps.
func NewBaseRecord() BaseRecord {
	now := time.Now().UTC()
	return BaseRecord{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EnsureID fills ID and timestamps for records decoded from requests.
func (b *BaseRecord) EnsureID() {
	if id.IsNil(b.ID) {
		b.ID = id.New()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
}

// GetID returns the record ID.
func (b *BaseRecord) GetID() id.ID {
	return b.ID
}
