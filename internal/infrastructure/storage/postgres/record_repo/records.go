package record_repo

import (
	"serialseq/internal/domain"
	"serialseq/internal/domain/records/booking"
	"serialseq/internal/domain/records/invoice"
	"serialseq/internal/domain/records/order"
	"serialseq/internal/infrastructure/storage/postgres"
)

// InvoiceRepo persists invoices.
type InvoiceRepo = BaseRecordRepo[*invoice.Invoice]

// NewInvoiceRepo creates the invoices repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return NewBaseRecordRepo(txm, "invoices",
		postgres.ExtractDBColumns[invoice.Invoice](),
		func() *invoice.Invoice { return &invoice.Invoice{} },
	)
}

// OrderRepo persists orders.
type OrderRepo = BaseRecordRepo[*order.Order]

// NewOrderRepo creates the orders repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return NewBaseRecordRepo(txm, "orders",
		postgres.ExtractDBColumns[order.Order](),
		func() *order.Order { return &order.Order{} },
	)
}

// BookingRepo persists bookings.
type BookingRepo = BaseRecordRepo[*booking.Booking]

// NewBookingRepo creates the bookings repository.
func NewBookingRepo(txm *postgres.TxManager) *BookingRepo {
	return NewBaseRecordRepo(txm, "bookings",
		postgres.ExtractDBColumns[booking.Booking](),
		func() *booking.Booking { return &booking.Booking{} },
	)
}

// Ensure compile-time interface compliance.
var (
	_ domain.RecordRepository[*invoice.Invoice] = (*InvoiceRepo)(nil)
	_ domain.RecordRepository[*order.Order]     = (*OrderRepo)(nil)
	_ domain.RecordRepository[*booking.Booking] = (*BookingRepo)(nil)
)
