package record_repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serialseq/internal/core/serial"
	"serialseq/internal/core/types"
	"serialseq/internal/domain/records/invoice"
)

func TestInvoiceInsertQuery(t *testing.T) {
	repo := NewInvoiceRepo(nil)

	inv := invoice.New(42, types.MustMoney("99.90"))
	inv.SetSerialAttributes(serial.Result{
		Serial: "INV-0224-000001", Series: "INV", Year: 2024, Month: 2, Number: 1,
	})

	sql, args, err := repo.insertQuery(inv)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "INSERT INTO invoices ("))
	for _, col := range []string{
		"id", "created_at", "updated_at",
		"serial", "series", "serial_year", "serial_month", "serial_number",
		"customer_id", "amount", "status",
	} {
		assert.Contains(t, sql, col)
	}
	assert.Len(t, args, 11)
	assert.Contains(t, args, "INV-0224-000001")
	assert.Contains(t, args, int64(1))
}

func TestRangeQuery(t *testing.T) {
	repo := NewInvoiceRepo(nil)

	sql, args, err := repo.rangeQuery("INV", 10, 20).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sql,
		"FROM invoices WHERE series = $1 AND serial_number >= $2 AND serial_number <= $3"), sql)
	assert.Equal(t, []any{"INV", int64(10), int64(20)}, args)

	sql, args, err = repo.rangeQuery("INV", 0, 0).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sql, "FROM invoices WHERE series = $1"), sql)
	assert.Equal(t, []any{"INV"}, args)
}

func TestPeriodQuery(t *testing.T) {
	repo := NewInvoiceRepo(nil)

	tests := []struct {
		name  string
		year  int
		month int
		where string
		args  []any
	}{
		{"month", 2024, 2, "WHERE serial_month = $1 AND serial_year = $2 AND series = $3", []any{2, 2024, "INV"}},
		{"year only", 2024, 0, "WHERE serial_year = $1 AND series = $2", []any{2024, "INV"}},
		{"month of any year", 0, 2, "WHERE serial_month = $1 AND series = $2", []any{2, "INV"}},
		{"series only", 0, 0, "WHERE series = $1", []any{"INV"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.periodQuery("INV", tt.year, tt.month).ToSql()
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(sql, "FROM invoices "+tt.where), sql)
			assert.Equal(t, tt.args, args)
		})
	}
}
