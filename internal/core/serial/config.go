// Package serial provides domain contracts for period-scoped serial numbering.
// Implementations of Store live in infrastructure/storage.
package serial

import "time"

// Config holds serial formatting configuration.
// It is built once at startup and handed to the Allocator by value.
type Config struct {
	// Separator joins series, period and number (e.g. "-")
	Separator string

	// PrefixSeparator sits between an optional prefix and the body (e.g. "/")
	PrefixSeparator string

	// NumberLength is the minimum number width, zero-padded on the left
	NumberLength int

	// MonthLength is the minimum month width, zero-padded on the left
	MonthLength int

	// YearLength keeps only the rightmost digits of the year.
	// Zero or anything >= the year's digit count keeps the full year.
	YearLength int

	// Location, when set, is the time zone used to resolve year/month.
	// Nil means the location carried by the point in time itself.
	Location *time.Location
}

// DefaultConfig returns the formatting used by INV-0224-000123.
func DefaultConfig() Config {
	return Config{
		Separator:       "-",
		PrefixSeparator: "/",
		NumberLength:    6,
		MonthLength:     2,
		YearLength:      2,
	}
}
