package dto

import (
	"time"

	"serialseq/internal/core/serial"
)

// GenerateSerialRequest is the optional body of POST /serials/:series.
type GenerateSerialRequest struct {
	Prefix string `json:"prefix"`
	// AsOf selects the period; defaults to now.
	AsOf *time.Time `json:"asOf"`
}

// SerialResponse is an issued serial.
type SerialResponse struct {
	Serial string `json:"serial"`
	Series string `json:"series"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Number uint64 `json:"number"`
}

// FromResult creates SerialResponse from serial.Result.
func FromResult(r serial.Result) SerialResponse {
	return SerialResponse{
		Serial: r.Serial,
		Series: r.Series,
		Year:   r.Year,
		Month:  r.Month,
		Number: r.Number,
	}
}

// CounterResponse is the state of one period counter.
type CounterResponse struct {
	Series     string `json:"series"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Exists     bool   `json:"exists"`
	LastNumber uint64 `json:"lastNumber"`
	// NextSerial previews the next serial without a prefix. It is not reserved.
	NextSerial string `json:"nextSerial"`
}
