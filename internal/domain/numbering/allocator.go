// Package numbering issues period-scoped serials for business records.
//
// The Allocator is the only writer of sequence counters. Every call runs
// inside a transaction (its own, or the caller's when one is already in
// the context), so a serial is only real once that transaction commits.
package numbering

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"serialseq/internal/core/serial"
	"serialseq/internal/core/tx"
	"serialseq/pkg/logger"
)

var tracer = otel.Tracer("serialseq/numbering")

// Allocator generates serials on top of a Store and a transaction manager.
type Allocator struct {
	store     serial.Store
	txManager tx.Manager
	format    serial.Config
	clock     serial.Clock
}

// AllocatorConfig configures the allocator.
type AllocatorConfig struct {
	Store     serial.Store
	TxManager tx.Manager
	// Format is copied; later changes to the caller's value are not seen.
	Format serial.Config
	// Clock defaults to the system clock.
	Clock serial.Clock
}

// NewAllocator creates a new allocator.
func NewAllocator(cfg AllocatorConfig) *Allocator {
	clock := cfg.Clock
	if clock == nil {
		clock = serial.SystemClock
	}
	return &Allocator{
		store:     cfg.Store,
		txManager: cfg.TxManager,
		format:    cfg.Format,
		clock:     clock,
	}
}

// Format returns the formatting configuration in use.
func (a *Allocator) Format() serial.Config {
	return a.format
}

// Generate allocates the next number of series for the month of asOf and
// formats it. A zero asOf means now. An empty prefix means none.
//
// Store and transaction errors are returned as they are; nothing is retried.
func (a *Allocator) Generate(ctx context.Context, series, prefix string, asOf time.Time) (serial.Result, error) {
	if a == nil {
		return serial.Result{}, fmt.Errorf("serial allocator is not initialized")
	}
	if asOf.IsZero() {
		asOf = a.clock.Now()
	}

	period, err := serial.PeriodOf(series, asOf, a.format.Location)
	if err != nil {
		return serial.Result{}, err
	}

	ctx, span := tracer.Start(ctx, "serial.generate",
		trace.WithAttributes(
			attribute.String("serial.series", period.Series),
			attribute.Int("serial.year", period.Year),
			attribute.Int("serial.month", period.Month),
		))
	defer span.End()

	var result serial.Result
	err = a.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := a.store.AcquireAndIncrement(ctx, period)
		if err != nil {
			return err
		}

		result = serial.Result{
			Serial: a.format.Format(period.Series, period.Year, period.Month, number, prefix),
			Series: period.Series,
			Year:   period.Year,
			Month:  period.Month,
			Number: number,
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return serial.Result{}, err
	}

	span.SetAttributes(attribute.Int64("serial.number", int64(result.Number)))
	logger.Debug(ctx, "serial allocated",
		"serial", result.Serial,
		"period", period.String(),
		"number", result.Number,
	)

	return result, nil
}
