// Package record_repo provides PostgreSQL repositories for serial-bearing records.
package record_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/entity"
	"serialseq/internal/infrastructure/storage/postgres"
)

// BaseRecordRepo provides insert and serial lookups for one record table.
type BaseRecordRepo[T entity.SerialBearer] struct {
	txm        *postgres.TxManager
	tableName  string
	selectCols []string
	newFn      func() T
}

// NewBaseRecordRepo creates a new base record repository.
func NewBaseRecordRepo[T entity.SerialBearer](
	txm *postgres.TxManager,
	tableName string,
	selectCols []string,
	newFn func() T,
) *BaseRecordRepo[T] {
	return &BaseRecordRepo[T]{
		txm:        txm,
		tableName:  tableName,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder.
func (r *BaseRecordRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseRecordRepo[T]) insertQuery(record T) (string, []any, error) {
	data := postgres.StructToMap(record)
	if len(data) == 0 {
		return "", nil, fmt.Errorf("no db tags found in %s record", r.tableName)
	}

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	return r.Builder().
		Insert(r.tableName).
		SetMap(filtered).
		ToSql()
}

// Create inserts a new record. A serial collision surfaces as DuplicateSerial.
func (r *BaseRecordRepo[T]) Create(ctx context.Context, record T) error {
	sql, args, err := r.insertQuery(record)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		translated := postgres.TranslateError(err, r.tableName)
		if appErr, ok := apperror.AsAppError(translated); ok && appErr.Code == apperror.CodeDuplicateSerial {
			if s, ok := any(record).(interface{ GetSerial() string }); ok {
				appErr.WithDetail("serial", s.GetSerial())
			}
			return appErr
		}
		return fmt.Errorf("insert %s: %w", r.tableName, translated)
	}

	return nil
}

// baseSelect creates a SELECT builder.
func (r *BaseRecordRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

func (r *BaseRecordRepo[T]) getOne(ctx context.Context, q squirrel.SelectBuilder, key any) (T, error) {
	record := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return record, fmt.Errorf("build query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return record, apperror.NewNotFound(r.tableName, key)
		}
		return record, fmt.Errorf("get %s: %w", r.tableName, postgres.TranslateError(err, r.tableName))
	}

	return record, nil
}

func (r *BaseRecordRepo[T]) list(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.OrderBy("serial_number").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []T
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, postgres.TranslateError(err, r.tableName))
	}
	return records, nil
}

// GetBySerial retrieves a record by its serial.
func (r *BaseRecordRepo[T]) GetBySerial(ctx context.Context, serial string) (T, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"serial": serial}), serial)
}

// GetBySerialNumber retrieves a record by series and number.
// Numbers restart every month, so the most recent match wins.
func (r *BaseRecordRepo[T]) GetBySerialNumber(ctx context.Context, series string, number int64) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"series": series, "serial_number": number}).
		OrderBy("serial_year DESC", "serial_month DESC").
		Limit(1)
	return r.getOne(ctx, q, fmt.Sprintf("%s#%d", series, number))
}

func (r *BaseRecordRepo[T]) periodQuery(series string, year, month int) squirrel.SelectBuilder {
	filter := squirrel.Eq{"series": series}
	if year > 0 {
		filter["serial_year"] = year
	}
	if month > 0 {
		filter["serial_month"] = month
	}
	return r.baseSelect().Where(filter)
}

// ListByPeriod retrieves records of one series by year and month.
// A zero year or month matches any.
func (r *BaseRecordRepo[T]) ListByPeriod(ctx context.Context, series string, year, month int) ([]T, error) {
	return r.list(ctx, r.periodQuery(series, year, month))
}

func (r *BaseRecordRepo[T]) rangeQuery(series string, from, to int64) squirrel.SelectBuilder {
	q := r.baseSelect().Where(squirrel.Eq{"series": series})
	if from > 0 {
		q = q.Where(squirrel.GtOrEq{"serial_number": from})
	}
	if to > 0 {
		q = q.Where(squirrel.LtOrEq{"serial_number": to})
	}
	return q
}

// ListByNumberRange retrieves records with from <= serial_number <= to; zero bounds are open.
func (r *BaseRecordRepo[T]) ListByNumberRange(ctx context.Context, series string, from, to int64) ([]T, error) {
	return r.list(ctx, r.rangeQuery(series, from, to))
}
