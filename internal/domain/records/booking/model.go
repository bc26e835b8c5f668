// Package booking provides the Booking record, numbered in the BKG series.
package booking

import (
	"context"
	"time"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/entity"
	"serialseq/internal/core/types"
)

// Series is the default numbering stream of bookings.
const Series = "BKG"

// Booking reserves a date for a client.
type Booking struct {
	entity.BaseRecord
	entity.SerialFields

	ClientID int64       `db:"client_id" json:"clientId"`
	Date     time.Time   `db:"date" json:"date"`
	Amount   types.Money `db:"amount" json:"amount"`
	Status   string      `db:"status" json:"status"`
}

// New creates a confirmed booking.
func New(clientID int64, date time.Time, amount types.Money) *Booking {
	return &Booking{
		BaseRecord: entity.NewBaseRecord(),
		ClientID:   clientID,
		Date:       date,
		Amount:     amount,
		Status:     "confirmed",
	}
}

// SerialSeries implements entity.SerialBearer.
func (b *Booking) SerialSeries() string {
	return b.SeriesOr(Series)
}

// Validate implements entity.Validatable.
func (b *Booking) Validate(ctx context.Context) error {
	if b.ClientID <= 0 {
		return apperror.NewValidation("client is required").WithDetail("field", "clientId")
	}
	if b.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if b.Amount.IsNegative() {
		return apperror.NewValidation("amount must not be negative").WithDetail("field", "amount")
	}
	if b.Status == "" {
		b.Status = "confirmed"
	}
	return b.ValidateManualSerial(ctx)
}

var _ entity.SerialBearer = (*Booking)(nil)
