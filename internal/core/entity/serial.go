package entity

import (
	"context"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/serial"
)

// SerialFields are the serial-carrying columns of a business record.
// Embed it to make a record serial-bearing; the record then only has to
// name its series (see SerialBearer).
type SerialFields struct {
	// Serial is the formatted identifier, unique per table
	Serial string `db:"serial" json:"serial"`

	// Series is the numbering stream (e.g. "INV")
	Series string `db:"series" json:"series"`

	SerialYear   int   `db:"serial_year" json:"serialYear"`
	SerialMonth  int   `db:"serial_month" json:"serialMonth"`
	SerialNumber int64 `db:"serial_number" json:"serialNumber"`
}

// HasSerial reports whether the serial was already assigned (manually or by a previous hook run).
func (f *SerialFields) HasSerial() bool {
	return f.Serial != ""
}

// SetSerialAttributes copies all five result fields onto the record.
func (f *SerialFields) SetSerialAttributes(r serial.Result) {
	f.Serial = r.Serial
	f.Series = r.Series
	f.SerialYear = r.Year
	f.SerialMonth = r.Month
	f.SerialNumber = int64(r.Number)
}

// GetSerial returns the formatted serial.
func (f *SerialFields) GetSerial() string {
	return f.Serial
}

// SerialBearer is a record that gets a serial before it is inserted.
type SerialBearer interface {
	Validatable

	// SerialSeries names the series the record draws its numbers from.
	SerialSeries() string

	HasSerial() bool
	SetSerialAttributes(r serial.Result)
}

// ValidateManualSerial checks that a manually assigned serial carries all its parts.
func (f *SerialFields) ValidateManualSerial(ctx context.Context) error {
	if f.Serial == "" {
		return nil
	}
	if f.Series == "" || f.SerialYear == 0 || f.SerialMonth == 0 || f.SerialNumber <= 0 {
		return apperror.NewValidation("manual serial requires series, year, month and number").
			WithDetail("field", "serial")
	}
	return nil
}

// SeriesOr returns the series already set on the record, or def.
func (f *SerialFields) SeriesOr(def string) string {
	if f.Series != "" {
		return f.Series
	}
	return def
}
