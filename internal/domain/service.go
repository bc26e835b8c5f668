package domain

import (
	"context"
	"fmt"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/entity"
	"serialseq/internal/core/tx"
	"serialseq/pkg/logger"
)

// RecordService provides business logic for serial-bearing records.
type RecordService[T entity.SerialBearer] struct {
	repo      RecordRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
}

// RecordServiceConfig configures the record service.
type RecordServiceConfig[T entity.SerialBearer] struct {
	Repo       RecordRepository[T]
	TxManager  tx.Manager
	EntityName string
}

// NewRecordService creates a new record service.
func NewRecordService[T entity.SerialBearer](cfg RecordServiceConfig[T]) *RecordService[T] {
	return &RecordService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *RecordService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the name used in errors and routes.
func (s *RecordService[T]) EntityName() string {
	return s.entityName
}

func (s *RecordService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *RecordService[T]) normalizeGetErr(err error, key any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, key)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("key", key)
}

// Create validates the record, then runs before-create hooks and the insert
// in one transaction. A failing hook (e.g. serial allocation) or insert rolls
// both back, so no record exists without its serial and no number is spent
// without its record.
func (s *RecordService[T]) Create(ctx context.Context, record T) error {
	if err := record.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, record); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// After-create hooks run outside the transaction; the record is already committed.
	if err := s.hooks.Run(ctx, AfterCreate, record); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}

	return nil
}

// GetBySerial retrieves a record by serial.
func (s *RecordService[T]) GetBySerial(ctx context.Context, serial string) (T, error) {
	record, err := s.repo.GetBySerial(ctx, serial)
	if err != nil {
		return record, s.normalizeGetErr(err, serial)
	}
	return record, nil
}

// GetBySerialNumber retrieves a record by series and number.
func (s *RecordService[T]) GetBySerialNumber(ctx context.Context, series string, number int64) (T, error) {
	record, err := s.repo.GetBySerialNumber(ctx, series, number)
	if err != nil {
		return record, s.normalizeGetErr(err, fmt.Sprintf("%s#%d", series, number))
	}
	return record, nil
}

// ListByPeriod lists records of one series by year and month; zero matches any.
func (s *RecordService[T]) ListByPeriod(ctx context.Context, series string, year, month int) ([]T, error) {
	if month < 0 || month > 12 || year < 0 || year > 9999 {
		return nil, apperror.NewInvalidPeriod(year, month)
	}
	return s.repo.ListByPeriod(ctx, series, year, month)
}

// ListByNumberRange lists records of one series within a number range.
func (s *RecordService[T]) ListByNumberRange(ctx context.Context, series string, from, to int64) ([]T, error) {
	if to > 0 && from > to {
		return nil, apperror.NewValidation("range start is after range end").
			WithDetail("from", from).WithDetail("to", to)
	}
	return s.repo.ListByNumberRange(ctx, series, from, to)
}
