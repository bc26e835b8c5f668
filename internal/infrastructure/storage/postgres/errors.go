package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"serialseq/internal/core/apperror"
)

// PostgreSQL SQLSTATE codes the storage layer reacts to.
const (
	sqlStateStringTooLong        = "22001"
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateQueryCanceled        = "57014"
)

// TranslateError maps driver errors to AppErrors. resource names what was
// being accessed (table or "transaction"). Unknown errors are returned as is.
func TranslateError(err error, resource string) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewLockTimeout(resource, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case sqlStateLockNotAvailable, sqlStateQueryCanceled:
		return apperror.NewLockTimeout(resource, err)
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return apperror.NewTransactionFailure("transaction aborted by concurrent update", err)
	case sqlStateStringTooLong:
		return apperror.NewValidation("value too long for column").
			WithDetail("resource", resource).
			WithCause(err)
	case sqlStateUniqueViolation:
		if strings.HasSuffix(pgErr.ConstraintName, "_serial_key") {
			return apperror.NewDuplicateSerial(resource, "", err).
				WithDetail("constraint", pgErr.ConstraintName)
		}
		return apperror.NewDuplicate(resource, pgErr.ColumnName, pgErr.ConstraintName).WithCause(err)
	}

	// Class 08: connection exceptions.
	if strings.HasPrefix(pgErr.Code, "08") {
		return apperror.NewTransactionFailure("database connection failure", err)
	}

	return err
}

// txFailure translates err, falling back to a transaction failure for
// anything the driver did not classify (refused connections, closed pool).
func txFailure(message string, err error) error {
	translated := TranslateError(err, "transaction")
	if apperror.IsAppError(translated) {
		return translated
	}
	return apperror.NewTransactionFailure(message, err)
}
