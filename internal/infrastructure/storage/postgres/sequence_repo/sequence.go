// Package sequence_repo provides the PostgreSQL Sequence Store.
package sequence_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/id"
	"serialseq/internal/core/serial"
	"serialseq/internal/infrastructure/storage/postgres"
)

// Ensure compile-time interface compliance.
var _ serial.Store = (*Store)(nil)

// counterRow is the locked part of a serial_sequences row.
type counterRow struct {
	ID         id.ID
	LastNumber int64
}

// Store implements serial.Store on the serial_sequences table.
//
// The counter row of a period is read with SELECT ... FOR UPDATE, so
// concurrent allocators for the same period queue on the row lock until the
// holder commits or rolls back. A missing row is created with
// INSERT ... ON CONFLICT DO NOTHING; losing that race means another
// transaction created it, and the row is locked on the next pass.
type Store struct {
	txm   *postgres.TxManager
	table string
}

// New creates a sequence store on the default table.
func New(txm *postgres.TxManager) *Store {
	return &Store{txm: txm, table: postgres.SequenceTable}
}

func (s *Store) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// AcquireAndIncrement implements serial.Store.
func (s *Store) AcquireAndIncrement(ctx context.Context, p serial.Period) (uint64, error) {
	if s.txm.GetTx(ctx) == nil {
		return 0, apperror.NewTransactionFailure("sequence counter must be updated inside a transaction", nil).
			WithDetail("period", p.String())
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	return s.acquire(ctx, s.txm.GetQuerier(ctx), p)
}

// acquire runs the locking read, the create and the increment on querier,
// which must be the caller's transaction.
func (s *Store) acquire(ctx context.Context, querier postgres.Querier, p serial.Period) (uint64, error) {
	// Two passes: lock-or-create, then (after losing a creation race) lock.
	for attempt := 0; attempt < 2; attempt++ {
		row, found, err := s.lockCounter(ctx, querier, p)
		if err != nil {
			return 0, err
		}
		if found {
			return s.increment(ctx, querier, row.ID)
		}

		number, created, err := s.create(ctx, querier, p)
		if err != nil {
			return 0, err
		}
		if created {
			return number, nil
		}
	}

	return 0, apperror.NewUniquePeriodViolation(p.Series, p.Year, p.Month,
		errors.New("counter row conflicts on insert but is not visible to a locking read"))
}

func (s *Store) lockQuery(p serial.Period) (string, []any, error) {
	return s.builder().
		Select("id", "last_number").
		From(s.table).
		Where(squirrel.Eq{"series": p.Series, "year": p.Year, "month": p.Month}).
		Where("deleted_at IS NULL").
		Suffix("FOR UPDATE").
		ToSql()
}

func (s *Store) lockCounter(ctx context.Context, querier postgres.Querier, p serial.Period) (counterRow, bool, error) {
	var row counterRow

	sql, args, err := s.lockQuery(p)
	if err != nil {
		return row, false, fmt.Errorf("build lock query: %w", err)
	}

	if err := querier.QueryRow(ctx, sql, args...).Scan(&row.ID, &row.LastNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return row, false, nil
		}
		return row, false, postgres.TranslateError(fmt.Errorf("lock counter %s: %w", p, err), s.table)
	}
	return row, true, nil
}

func (s *Store) incrementQuery(rowID id.ID) (string, []any, error) {
	return s.builder().
		Update(s.table).
		Set("last_number", squirrel.Expr("last_number + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rowID}).
		Suffix("RETURNING last_number").
		ToSql()
}

func (s *Store) increment(ctx context.Context, querier postgres.Querier, rowID id.ID) (uint64, error) {
	sql, args, err := s.incrementQuery(rowID)
	if err != nil {
		return 0, fmt.Errorf("build increment: %w", err)
	}

	var last int64
	if err := querier.QueryRow(ctx, sql, args...).Scan(&last); err != nil {
		return 0, postgres.TranslateError(fmt.Errorf("increment counter: %w", err), s.table)
	}
	return uint64(last), nil
}

func (s *Store) createQuery(rowID id.ID, p serial.Period) (string, []any, error) {
	return s.builder().
		Insert(s.table).
		Columns("id", "series", "year", "month", "last_number").
		Values(rowID, p.Series, p.Year, p.Month, 1).
		Suffix("ON CONFLICT (series, year, month) WHERE deleted_at IS NULL DO NOTHING RETURNING last_number").
		ToSql()
}

// create inserts the period's counter at 1. created is false when a
// concurrent transaction inserted it first.
func (s *Store) create(ctx context.Context, querier postgres.Querier, p serial.Period) (uint64, bool, error) {
	sql, args, err := s.createQuery(id.New(), p)
	if err != nil {
		return 0, false, fmt.Errorf("build insert: %w", err)
	}

	var last int64
	err = querier.QueryRow(ctx, sql, args...).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		translated := postgres.TranslateError(fmt.Errorf("create counter %s: %w", p, err), s.table)
		if apperror.HasCode(translated, apperror.CodeDuplicate) {
			return 0, false, apperror.NewUniquePeriodViolation(p.Series, p.Year, p.Month, err)
		}
		return 0, false, translated
	}
	return uint64(last), true, nil
}

func (s *Store) currentQuery(p serial.Period) (string, []any, error) {
	return s.builder().
		Select("last_number").
		From(s.table).
		Where(squirrel.Eq{"series": p.Series, "year": p.Year, "month": p.Month}).
		Where("deleted_at IS NULL").
		ToSql()
}

// Current implements serial.Store.
func (s *Store) Current(ctx context.Context, p serial.Period) (uint64, bool, error) {
	sql, args, err := s.currentQuery(p)
	if err != nil {
		return 0, false, fmt.Errorf("build query: %w", err)
	}

	var last int64
	err = s.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, postgres.TranslateError(fmt.Errorf("read counter %s: %w", p, err), s.table)
	}
	return uint64(last), true, nil
}

func (s *Store) softDeleteQuery(p serial.Period) (string, []any, error) {
	return s.builder().
		Update(s.table).
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"series": p.Series, "year": p.Year, "month": p.Month}).
		Where("deleted_at IS NULL").
		ToSql()
}

// SoftDelete marks the live counter of p as deleted; the next allocation
// for p starts again at 1. It reports whether a live counter existed.
func (s *Store) SoftDelete(ctx context.Context, p serial.Period) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}

	sql, args, err := s.softDeleteQuery(p)
	if err != nil {
		return false, fmt.Errorf("build soft delete: %w", err)
	}

	tag, err := s.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.TranslateError(fmt.Errorf("soft delete counter %s: %w", p, err), s.table)
	}
	return tag.RowsAffected() > 0, nil
}
