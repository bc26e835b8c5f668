package serial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		cfg    func(Config) Config
		year   int
		month  int
		number uint64
		prefix string
		want   string
	}{
		{name: "defaults", year: 2024, month: 2, number: 1, want: "INV-0224-000001"},
		{name: "prefix", year: 2024, month: 2, number: 2, prefix: "PREFIX", want: "PREFIX/INV-0224-000002"},
		{name: "number wider than padding", year: 2024, month: 2, number: 100000, want: "INV-0224-100000"},
		{name: "number never truncated", year: 2024, month: 2, number: 1234567, want: "INV-0224-1234567"},
		{
			name: "year length 1", year: 2024, month: 11, number: 7, want: "INV-114-000007",
			cfg: func(c Config) Config { c.YearLength = 1; return c },
		},
		{
			name: "year length 4", year: 2024, month: 2, number: 7, want: "INV-022024-000007",
			cfg: func(c Config) Config { c.YearLength = 4; return c },
		},
		{
			name: "year length zero keeps full year", year: 2024, month: 2, number: 7, want: "INV-022024-000007",
			cfg: func(c Config) Config { c.YearLength = 0; return c },
		},
		{
			name: "custom separators and widths", year: 2023, month: 9, number: 42, prefix: "HQ", want: "HQ:INV_009023_42",
			cfg: func(c Config) Config {
				c.Separator = "_"
				c.PrefixSeparator = ":"
				c.MonthLength = 3
				c.YearLength = 3
				c.NumberLength = 0
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			if tt.cfg != nil {
				c = tt.cfg(c)
			}
			assert.Equal(t, tt.want, c.Format("INV", tt.year, tt.month, tt.number, tt.prefix))
		})
	}
}

func TestPeriodOf(t *testing.T) {
	asOf := time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)

	p, err := PeriodOf("INV", asOf, nil)
	require.NoError(t, err)
	assert.Equal(t, Period{Series: "INV", Year: 2024, Month: 2}, p)
	assert.Equal(t, "INV/2024-02", p.String())
}

func TestPeriodOf_Location(t *testing.T) {
	// 23:30 UTC on Jan 31 is already February in UTC+2.
	asOf := time.Date(2024, time.January, 31, 23, 30, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+2", 2*60*60)

	p, err := PeriodOf("INV", asOf, loc)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Month)
}

func TestPeriodValidate(t *testing.T) {
	_, err := PeriodOf("", time.Now(), nil)
	require.Error(t, err)

	err = Period{Series: "INV", Year: 2024, Month: 13}.Validate()
	require.Error(t, err)

	err = Period{Series: "INV", Year: 10000, Month: 1}.Validate()
	require.Error(t, err)
}
