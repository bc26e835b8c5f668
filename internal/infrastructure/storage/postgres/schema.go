package postgres

import (
	"context"
	"fmt"
)

// SequenceTable stores one counter row per (series, year, month).
const SequenceTable = "serial_sequences"

// SequencePeriodIndex enforces one live counter per period. Soft-deleted
// rows are outside the index so a period can be restarted administratively.
const SequencePeriodIndex = "serial_sequences_period_uniq"

// Schema is the DDL for the counter table and the serial-bearing record tables.
// Unique constraints on "serial" follow the <table>_serial_key naming that
// TranslateError relies on.
const Schema = `
CREATE TABLE IF NOT EXISTS serial_sequences (
    id          UUID PRIMARY KEY,
    series      VARCHAR(10) NOT NULL,
    year        SMALLINT    NOT NULL CHECK (year BETWEEN 1 AND 9999),
    month       SMALLINT    NOT NULL CHECK (month BETWEEN 1 AND 12),
    last_number BIGINT      NOT NULL DEFAULT 0 CHECK (last_number >= 0),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    deleted_at  TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS serial_sequences_period_uniq
    ON serial_sequences (series, year, month)
    WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS invoices (
    id            UUID PRIMARY KEY,
    serial        VARCHAR(64) NOT NULL,
    series        VARCHAR(10) NOT NULL,
    serial_year   SMALLINT    NOT NULL,
    serial_month  SMALLINT    NOT NULL,
    serial_number BIGINT      NOT NULL,
    customer_id   BIGINT      NOT NULL,
    amount        NUMERIC(12, 2) NOT NULL DEFAULT 0,
    status        VARCHAR(20) NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT invoices_serial_key UNIQUE (serial)
);
CREATE INDEX IF NOT EXISTS invoices_serial_period_idx ON invoices (series, serial_year, serial_month);
CREATE INDEX IF NOT EXISTS invoices_serial_number_idx ON invoices (series, serial_number);

CREATE TABLE IF NOT EXISTS orders (
    id            UUID PRIMARY KEY,
    serial        VARCHAR(64) NOT NULL,
    series        VARCHAR(10) NOT NULL,
    serial_year   SMALLINT    NOT NULL,
    serial_month  SMALLINT    NOT NULL,
    serial_number BIGINT      NOT NULL,
    customer_id   BIGINT      NOT NULL,
    total         NUMERIC(12, 2) NOT NULL DEFAULT 0,
    status        VARCHAR(20) NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT orders_serial_key UNIQUE (serial)
);
CREATE INDEX IF NOT EXISTS orders_serial_period_idx ON orders (series, serial_year, serial_month);
CREATE INDEX IF NOT EXISTS orders_serial_number_idx ON orders (series, serial_number);

CREATE TABLE IF NOT EXISTS bookings (
    id            UUID PRIMARY KEY,
    serial        VARCHAR(64) NOT NULL,
    series        VARCHAR(10) NOT NULL,
    serial_year   SMALLINT    NOT NULL,
    serial_month  SMALLINT    NOT NULL,
    serial_number BIGINT      NOT NULL,
    client_id     BIGINT      NOT NULL,
    date          DATE        NOT NULL,
    amount        NUMERIC(12, 2) NOT NULL DEFAULT 0,
    status        VARCHAR(20) NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT bookings_serial_key UNIQUE (serial)
);
CREATE INDEX IF NOT EXISTS bookings_serial_period_idx ON bookings (series, serial_year, serial_month);
CREATE INDEX IF NOT EXISTS bookings_serial_number_idx ON bookings (series, serial_number);
`

// Migrate applies Schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
