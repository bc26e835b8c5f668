package serial

import (
	"time"

	"serialseq/internal/core/apperror"
)

// MaxSeriesLength is the width of the series column in every schema.
const MaxSeriesLength = 10

// Period identifies one counter: a series within a calendar month.
type Period struct {
	Series string
	Year   int
	Month  int
}

// PeriodOf resolves the period of t in loc (or t's own location when loc is nil).
func PeriodOf(series string, t time.Time, loc *time.Location) (Period, error) {
	if loc != nil {
		t = t.In(loc)
	}
	p := Period{Series: series, Year: t.Year(), Month: int(t.Month())}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate checks the period can be stored and formatted.
// The series length limit is left to the store schema.
func (p Period) Validate() error {
	if p.Series == "" {
		return apperror.NewValidation("series is required").WithDetail("field", "series")
	}
	if p.Year < 1 || p.Year > 9999 || p.Month < 1 || p.Month > 12 {
		return apperror.NewInvalidPeriod(p.Year, p.Month)
	}
	return nil
}

// String returns "SERIES/YYYY-MM", used in logs and lock names.
func (p Period) String() string {
	return p.Series + "/" + time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
