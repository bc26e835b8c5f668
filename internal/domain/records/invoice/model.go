// Package invoice provides the Invoice record, numbered in the INV series.
package invoice

import (
	"context"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/entity"
	"serialseq/internal/core/types"
)

// Series is the default numbering stream of invoices.
const Series = "INV"

// Status values.
const (
	StatusDraft  = "draft"
	StatusIssued = "issued"
	StatusPaid   = "paid"
)

// Invoice is a customer invoice.
type Invoice struct {
	entity.BaseRecord
	entity.SerialFields

	CustomerID int64       `db:"customer_id" json:"customerId"`
	Amount     types.Money `db:"amount" json:"amount"`
	Status     string      `db:"status" json:"status"`
}

// New creates a draft invoice.
func New(customerID int64, amount types.Money) *Invoice {
	return &Invoice{
		BaseRecord: entity.NewBaseRecord(),
		CustomerID: customerID,
		Amount:     amount,
		Status:     StatusDraft,
	}
}

// SerialSeries implements entity.SerialBearer.
func (i *Invoice) SerialSeries() string {
	return i.SeriesOr(Series)
}

// Validate implements entity.Validatable.
func (i *Invoice) Validate(ctx context.Context) error {
	if i.CustomerID <= 0 {
		return apperror.NewValidation("customer is required").WithDetail("field", "customerId")
	}
	if i.Amount.IsNegative() {
		return apperror.NewValidation("amount must not be negative").WithDetail("field", "amount")
	}
	if i.Status == "" {
		i.Status = StatusDraft
	}
	return i.ValidateManualSerial(ctx)
}

var _ entity.SerialBearer = (*Invoice)(nil)
