package sequence_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/id"
	"serialseq/internal/infrastructure/storage/postgres"
)

// scriptedRow is one canned QueryRow result.
type scriptedRow struct {
	values []any
	err    error
}

func (r scriptedRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *id.ID:
			*d = r.values[i].(id.ID)
		case *int64:
			*d = r.values[i].(int64)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

// scriptedQuerier answers QueryRow calls in order and records the statements.
type scriptedQuerier struct {
	rows       []scriptedRow
	statements []string
}

var _ postgres.Querier = (*scriptedQuerier)(nil)

func (q *scriptedQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected exec: " + sql)
}

func (q *scriptedQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query: " + sql)
}

func (q *scriptedQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.statements = append(q.statements, strings.Fields(sql)[0])
	if len(q.rows) == 0 {
		return scriptedRow{err: errors.New("unexpected statement: " + sql)}
	}
	row := q.rows[0]
	q.rows = q.rows[1:]
	return row
}

func noRow() scriptedRow { return scriptedRow{err: pgx.ErrNoRows} }

func numberRow(n int64) scriptedRow { return scriptedRow{values: []any{n}} }

func lockedRow(rowID id.ID, last int64) scriptedRow {
	return scriptedRow{values: []any{rowID, last}}
}

func TestAcquire_CreatesFirstCounter(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{noRow(), numberRow(1)}}

	n, err := New(nil).acquire(context.Background(), q, testPeriod)

	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, []string{"SELECT", "INSERT"}, q.statements)
}

func TestAcquire_IncrementsLockedRow(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{lockedRow(id.New(), 41), numberRow(42)}}

	n, err := New(nil).acquire(context.Background(), q, testPeriod)

	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)
	assert.Equal(t, []string{"SELECT", "UPDATE"}, q.statements)
}

func TestAcquire_LostCreationRaceLocksAgain(t *testing.T) {
	// The insert conflicts with a row committed by another transaction,
	// which the second locking read then sees.
	q := &scriptedQuerier{rows: []scriptedRow{
		noRow(),
		noRow(),
		lockedRow(id.New(), 1),
		numberRow(2),
	}}

	n, err := New(nil).acquire(context.Background(), q, testPeriod)

	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, []string{"SELECT", "INSERT", "SELECT", "UPDATE"}, q.statements)
}

func TestAcquire_ConflictNeverVisible(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{noRow(), noRow(), noRow(), noRow()}}

	_, err := New(nil).acquire(context.Background(), q, testPeriod)

	require.Error(t, err)
	assert.True(t, apperror.IsUniquePeriodViolation(err))
	assert.Equal(t, []string{"SELECT", "INSERT", "SELECT", "INSERT"}, q.statements)
}

func TestAcquire_InsertUniqueViolation(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{
		noRow(),
		{err: &pgconn.PgError{Code: "23505", ConstraintName: "serial_sequences_period_idx"}},
	}}

	_, err := New(nil).acquire(context.Background(), q, testPeriod)

	require.Error(t, err)
	assert.True(t, apperror.IsUniquePeriodViolation(err))
}

func TestAcquire_LockNotAvailable(t *testing.T) {
	q := &scriptedQuerier{rows: []scriptedRow{
		{err: &pgconn.PgError{Code: "55P03"}},
	}}

	_, err := New(nil).acquire(context.Background(), q, testPeriod)

	require.Error(t, err)
	assert.True(t, apperror.IsLockTimeout(err))
	assert.Equal(t, []string{"SELECT"}, q.statements)
}

func TestAcquireAndIncrement_OutsideTransaction(t *testing.T) {
	s := New(&postgres.TxManager{})

	_, err := s.AcquireAndIncrement(context.Background(), testPeriod)

	require.Error(t, err)
	assert.True(t, apperror.IsTransactionFailure(err))
}
