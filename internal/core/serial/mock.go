package serial

import (
	"context"
	"sync"
)

// MockStore is an in-process Store for unit tests.
// Funcs override the default behavior; by default it keeps a plain
// map of counters without any transactional guarantees.
type MockStore struct {
	AcquireAndIncrementFunc func(ctx context.Context, p Period) (uint64, error)
	CurrentFunc             func(ctx context.Context, p Period) (uint64, bool, error)

	mu       sync.Mutex
	counters map[Period]uint64
	calls    []Period
}

// AcquireAndIncrement implements Store.
func (m *MockStore) AcquireAndIncrement(ctx context.Context, p Period) (uint64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, p)
	m.mu.Unlock()

	if m.AcquireAndIncrementFunc != nil {
		return m.AcquireAndIncrementFunc(ctx, p)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[Period]uint64)
	}
	m.counters[p]++
	return m.counters[p], nil
}

// Current implements Store.
func (m *MockStore) Current(ctx context.Context, p Period) (uint64, bool, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.counters[p]
	return v, ok, nil
}

// Seed sets the last issued number for a period.
func (m *MockStore) Seed(p Period, last uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[Period]uint64)
	}
	m.counters[p] = last
}

// Calls returns the periods AcquireAndIncrement was called with.
func (m *MockStore) Calls() []Period {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Period(nil), m.calls...)
}

// Ensure compile-time interface compliance.
var _ Store = (*MockStore)(nil)
