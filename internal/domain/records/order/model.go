// Package order provides the Order record, numbered in the ORD series.
package order

import (
	"context"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/entity"
	"serialseq/internal/core/types"
)

// Series is the default numbering stream of orders.
const Series = "ORD"

// Order is a customer order.
type Order struct {
	entity.BaseRecord
	entity.SerialFields

	CustomerID int64       `db:"customer_id" json:"customerId"`
	Total      types.Money `db:"total" json:"total"`
	Status     string      `db:"status" json:"status"`
}

// New creates a pending order.
func New(customerID int64, total types.Money) *Order {
	return &Order{
		BaseRecord: entity.NewBaseRecord(),
		CustomerID: customerID,
		Total:      total,
		Status:     "pending",
	}
}

// SerialSeries implements entity.SerialBearer.
func (o *Order) SerialSeries() string {
	return o.SeriesOr(Series)
}

// Validate implements entity.Validatable.
func (o *Order) Validate(ctx context.Context) error {
	if o.CustomerID <= 0 {
		return apperror.NewValidation("customer is required").WithDetail("field", "customerId")
	}
	if o.Total.IsNegative() {
		return apperror.NewValidation("total must not be negative").WithDetail("field", "total")
	}
	if o.Status == "" {
		o.Status = "pending"
	}
	return o.ValidateManualSerial(ctx)
}

var _ entity.SerialBearer = (*Order)(nil)
