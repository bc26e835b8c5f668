package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"serialseq/internal/core/entity"
	"serialseq/internal/core/id"
)

type testRecord struct {
	entity.BaseRecord
	entity.SerialFields
	CustomerID int64  `db:"customer_id"`
	Note       string `db:"-"`
	internal   string
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[testRecord]()

	assert.Equal(t, []string{
		"id", "created_at", "updated_at",
		"serial", "series", "serial_year", "serial_month", "serial_number",
		"customer_id",
	}, cols)
}

func TestStructToMap_Embedded(t *testing.T) {
	now := time.Now().UTC()
	rec := &testRecord{
		BaseRecord: entity.BaseRecord{ID: id.New(), CreatedAt: now, UpdatedAt: now},
		SerialFields: entity.SerialFields{
			Serial:       "INV-0224-000003",
			Series:       "INV",
			SerialYear:   2024,
			SerialMonth:  2,
			SerialNumber: 3,
		},
		CustomerID: 7,
		Note:       "ignored",
		internal:   "ignored",
	}

	m := StructToMap(rec)

	assert.Len(t, m, 9)
	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, "INV-0224-000003", m["serial"])
	assert.Equal(t, int64(3), m["serial_number"])
	assert.Equal(t, int64(7), m["customer_id"])
	assert.NotContains(t, m, "-")
}

func TestStructToMap_NotAStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap((*testRecord)(nil)))
}
