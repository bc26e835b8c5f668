// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"serialseq/internal/core/entity"
)

// --- Repository Interfaces ---

// RecordRepository defines persistence for serial-bearing records.
type RecordRepository[T entity.SerialBearer] interface {
	// Create inserts a new record
	Create(ctx context.Context, record T) error

	// GetBySerial retrieves a record by its formatted serial
	GetBySerial(ctx context.Context, serial string) (T, error)

	// GetBySerialNumber retrieves a record by series and number
	GetBySerialNumber(ctx context.Context, series string, number int64) (T, error)

	// ListByPeriod retrieves records of one series by year and month, ordered by number.
	// A zero year or month matches any.
	ListByPeriod(ctx context.Context, series string, year, month int) ([]T, error)

	// ListByNumberRange retrieves records of one series with from <= number <= to.
	// A zero bound is open.
	ListByNumberRange(ctx context.Context, series string, from, to int64) ([]T, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before insert, inside the insert's transaction.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnAfterCreate registers a hook to run after commit.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) {
	r.On(AfterCreate, hook)
}
