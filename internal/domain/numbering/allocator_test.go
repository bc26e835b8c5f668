package numbering

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/serial"
)

// fakeTxManager records transaction boundaries without a database.
type fakeTxManager struct {
	begun      int
	committed  int
	rolledBack int
	active     bool
}

type fakeTxKey struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}
	m.begun++
	m.active = true
	defer func() { m.active = false }()

	if err := fn(context.WithValue(ctx, fakeTxKey{}, true)); err != nil {
		m.rolledBack++
		return err
	}
	m.committed++
	return nil
}

func fixedClock(t time.Time) serial.Clock {
	return serial.ClockFunc(func() time.Time { return t })
}

func newTestAllocator(store serial.Store, txm *fakeTxManager, now time.Time) *Allocator {
	return NewAllocator(AllocatorConfig{
		Store:     store,
		TxManager: txm,
		Format:    serial.DefaultConfig(),
		Clock:     fixedClock(now),
	})
}

var feb2024 = time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)

func TestAllocator_Generate(t *testing.T) {
	ctx := context.Background()
	store := &serial.MockStore{}
	txm := &fakeTxManager{}
	a := newTestAllocator(store, txm, feb2024)

	first, err := a.Generate(ctx, "INV", "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, serial.Result{Serial: "INV-0224-000001", Series: "INV", Year: 2024, Month: 2, Number: 1}, first)

	second, err := a.Generate(ctx, "INV", "PREFIX", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "PREFIX/INV-0224-000002", second.Serial)
	assert.Equal(t, uint64(2), second.Number)

	assert.Equal(t, 2, txm.begun)
	assert.Equal(t, 2, txm.committed)
}

func TestAllocator_GenerateUsesAsOf(t *testing.T) {
	ctx := context.Background()
	store := &serial.MockStore{}
	a := newTestAllocator(store, &fakeTxManager{}, feb2024)

	res, err := a.Generate(ctx, "INV", "", time.Date(2023, time.November, 30, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "INV-1123-000001", res.Serial)
	assert.Equal(t, []serial.Period{{Series: "INV", Year: 2023, Month: 11}}, store.Calls())
}

func TestAllocator_GenerateInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	cfg := serial.DefaultConfig()
	cfg.Location = loc

	store := &serial.MockStore{}
	a := NewAllocator(AllocatorConfig{Store: store, TxManager: &fakeTxManager{}, Format: cfg})

	// 22:30 UTC on Jan 31 is already February in UTC+3.
	res, err := a.Generate(context.Background(), "INV", "", time.Date(2024, time.January, 31, 22, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Month)
	assert.Equal(t, "INV-0224-000001", res.Serial)
}

func TestAllocator_NewPeriodResets(t *testing.T) {
	ctx := context.Background()
	store := &serial.MockStore{}
	store.Seed(serial.Period{Series: "INV", Year: 2024, Month: 2}, 41)
	a := newTestAllocator(store, &fakeTxManager{}, feb2024)

	res, err := a.Generate(ctx, "INV", "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "INV-0224-000042", res.Serial)

	res, err = a.Generate(ctx, "INV", "", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "INV-0324-000001", res.Serial)
}

func TestAllocator_NumberWiderThanPadding(t *testing.T) {
	store := &serial.MockStore{}
	store.Seed(serial.Period{Series: "INV", Year: 2024, Month: 2}, 99999)
	a := newTestAllocator(store, &fakeTxManager{}, feb2024)

	res, err := a.Generate(context.Background(), "INV", "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "INV-0224-100000", res.Serial)
}

func TestAllocator_StoreErrorPropagates(t *testing.T) {
	lockErr := apperror.NewLockTimeout("INV/2024-02", context.DeadlineExceeded)
	store := &serial.MockStore{
		AcquireAndIncrementFunc: func(ctx context.Context, p serial.Period) (uint64, error) {
			return 0, lockErr
		},
	}
	txm := &fakeTxManager{}
	a := newTestAllocator(store, txm, feb2024)

	res, err := a.Generate(context.Background(), "INV", "", time.Time{})
	require.Error(t, err)
	assert.Same(t, lockErr, err)
	assert.True(t, apperror.IsLockTimeout(err))
	assert.Equal(t, serial.Result{}, res)
	assert.Equal(t, 1, txm.rolledBack)
	assert.Equal(t, 0, txm.committed)
}

func TestAllocator_InvalidPeriod(t *testing.T) {
	store := &serial.MockStore{}
	a := newTestAllocator(store, &fakeTxManager{}, feb2024)

	_, err := a.Generate(context.Background(), "INV", "", time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidPeriod(err))
	assert.Empty(t, store.Calls(), "no counter is touched for an invalid period")

	_, err = a.Generate(context.Background(), "", "", time.Time{})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestAllocator_JoinsAmbientTransaction(t *testing.T) {
	store := &serial.MockStore{}
	txm := &fakeTxManager{}
	a := newTestAllocator(store, txm, feb2024)

	err := txm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		for i := 0; i < 3; i++ {
			if _, err := a.Generate(ctx, "INV", "", time.Time{}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, txm.begun)
	assert.Equal(t, 1, txm.committed)
}

func TestAllocator_Nil(t *testing.T) {
	var a *Allocator
	_, err := a.Generate(context.Background(), "INV", "", time.Time{})
	assert.Error(t, err)
}
