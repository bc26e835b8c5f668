package dto

import (
	"time"

	"serialseq/internal/core/types"
	"serialseq/internal/domain/records/booking"
	"serialseq/internal/domain/records/invoice"
	"serialseq/internal/domain/records/order"
)

// --- Invoice ---

// CreateInvoiceRequest is the request body for creating an invoice.
type CreateInvoiceRequest struct {
	CustomerID int64       `json:"customerId" binding:"required"`
	Amount     types.Money `json:"amount"`
	Status     string      `json:"status"`
	// Series overrides the default INV series.
	Series string `json:"series" binding:"max=10"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateInvoiceRequest) ToEntity() *invoice.Invoice {
	inv := invoice.New(r.CustomerID, r.Amount)
	if r.Status != "" {
		inv.Status = r.Status
	}
	inv.Series = r.Series
	return inv
}

// InvoiceResponse is the API form of an invoice.
type InvoiceResponse struct {
	BaseResponse
	SerialFieldsResponse
	CustomerID int64       `json:"customerId"`
	Amount     types.Money `json:"amount"`
	Status     string      `json:"status"`
}

// FromInvoice creates InvoiceResponse from invoice.Invoice.
func FromInvoice(i *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		BaseResponse:         FromBaseRecord(i.BaseRecord),
		SerialFieldsResponse: FromSerialFields(i.SerialFields),
		CustomerID:           i.CustomerID,
		Amount:               i.Amount,
		Status:               i.Status,
	}
}

// --- Order ---

// CreateOrderRequest is the request body for creating an order.
type CreateOrderRequest struct {
	CustomerID int64       `json:"customerId" binding:"required"`
	Total      types.Money `json:"total"`
	Series     string      `json:"series" binding:"max=10"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateOrderRequest) ToEntity() *order.Order {
	o := order.New(r.CustomerID, r.Total)
	o.Series = r.Series
	return o
}

// OrderResponse is the API form of an order.
type OrderResponse struct {
	BaseResponse
	SerialFieldsResponse
	CustomerID int64       `json:"customerId"`
	Total      types.Money `json:"total"`
	Status     string      `json:"status"`
}

// FromOrder creates OrderResponse from order.Order.
func FromOrder(o *order.Order) OrderResponse {
	return OrderResponse{
		BaseResponse:         FromBaseRecord(o.BaseRecord),
		SerialFieldsResponse: FromSerialFields(o.SerialFields),
		CustomerID:           o.CustomerID,
		Total:                o.Total,
		Status:               o.Status,
	}
}

// --- Booking ---

// CreateBookingRequest is the request body for creating a booking.
type CreateBookingRequest struct {
	ClientID int64       `json:"clientId" binding:"required"`
	Date     time.Time   `json:"date" binding:"required"`
	Amount   types.Money `json:"amount"`
	Series   string      `json:"series" binding:"max=10"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateBookingRequest) ToEntity() *booking.Booking {
	b := booking.New(r.ClientID, r.Date, r.Amount)
	b.Series = r.Series
	return b
}

// BookingResponse is the API form of a booking.
type BookingResponse struct {
	BaseResponse
	SerialFieldsResponse
	ClientID int64       `json:"clientId"`
	Date     time.Time   `json:"date"`
	Amount   types.Money `json:"amount"`
	Status   string      `json:"status"`
}

// FromBooking creates BookingResponse from booking.Booking.
func FromBooking(b *booking.Booking) BookingResponse {
	return BookingResponse{
		BaseResponse:         FromBaseRecord(b.BaseRecord),
		SerialFieldsResponse: FromSerialFields(b.SerialFields),
		ClientID:             b.ClientID,
		Date:                 b.Date,
		Amount:               b.Amount,
		Status:               b.Status,
	}
}
