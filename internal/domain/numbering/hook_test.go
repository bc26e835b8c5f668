package numbering

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serialseq/internal/core/serial"
	"serialseq/internal/core/types"
	"serialseq/internal/domain/records/invoice"
	pebblestore "serialseq/internal/infrastructure/storage/pebble"
)

func TestBeforeCreate_AssignsSerial(t *testing.T) {
	a := newTestAllocator(&serial.MockStore{}, &fakeTxManager{}, feb2024)
	hook := BeforeCreate[*invoice.Invoice](a, nil)

	inv := invoice.New(7, types.MustMoney("100.00"))
	require.NoError(t, hook(context.Background(), inv))

	assert.Equal(t, "INV-0224-000001", inv.Serial)
	assert.Equal(t, "INV", inv.Series)
	assert.Equal(t, 2024, inv.SerialYear)
	assert.Equal(t, 2, inv.SerialMonth)
	assert.Equal(t, int64(1), inv.SerialNumber)
}

func TestBeforeCreate_KeepsManualSerial(t *testing.T) {
	store := &serial.MockStore{}
	a := newTestAllocator(store, &fakeTxManager{}, feb2024)
	hook := BeforeCreate[*invoice.Invoice](a, nil)

	inv := invoice.New(7, types.Zero())
	inv.SetSerialAttributes(serial.Result{Serial: "LEGACY-1", Series: "INV", Year: 2019, Month: 5, Number: 1})

	require.NoError(t, hook(context.Background(), inv))
	assert.Equal(t, "LEGACY-1", inv.Serial)
	assert.Empty(t, store.Calls())
}

func TestBeforeCreate_ResolvesPrefix(t *testing.T) {
	a := newTestAllocator(&serial.MockStore{}, &fakeTxManager{}, feb2024)

	var seen any
	resolver := func(ctx context.Context, record any) (string, error) {
		seen = record
		return "HQ", nil
	}
	hook := BeforeCreate[*invoice.Invoice](a, resolver)

	inv := invoice.New(7, types.Zero())
	require.NoError(t, hook(context.Background(), inv))
	assert.Equal(t, "HQ/INV-0224-000001", inv.Serial)
	assert.Same(t, inv, seen)

	static := BeforeCreate[*invoice.Invoice](a, serial.StaticPrefix("EU"))
	other := invoice.New(8, types.Zero())
	require.NoError(t, static(context.Background(), other))
	assert.Equal(t, "EU/INV-0224-000002", other.Serial)
}

func TestBeforeCreate_ResolverError(t *testing.T) {
	store := &serial.MockStore{}
	a := newTestAllocator(store, &fakeTxManager{}, feb2024)
	boom := errors.New("no branch")
	hook := BeforeCreate[*invoice.Invoice](a, func(context.Context, any) (string, error) { return "", boom })

	inv := invoice.New(7, types.Zero())
	err := hook(context.Background(), inv)
	require.ErrorIs(t, err, boom)
	assert.False(t, inv.HasSerial())
	assert.Empty(t, store.Calls())
}

func TestBeforeCreate_AllocationError(t *testing.T) {
	boom := errors.New("store down")
	store := &serial.MockStore{
		AcquireAndIncrementFunc: func(context.Context, serial.Period) (uint64, error) { return 0, boom },
	}
	a := newTestAllocator(store, &fakeTxManager{}, feb2024)
	hook := BeforeCreate[*invoice.Invoice](a, nil)

	inv := invoice.New(7, types.Zero())
	require.ErrorIs(t, hook(context.Background(), inv), boom)
	assert.False(t, inv.HasSerial())
}

func newPebbleAllocator(t *testing.T) (*Allocator, *pebblestore.Store, *pebblestore.TxManager) {
	t.Helper()

	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	txm := pebblestore.NewTxManager(db, 10*time.Second)
	store := pebblestore.NewStore(db, txm)
	return NewAllocator(AllocatorConfig{
		Store:     store,
		TxManager: txm,
		Format:    serial.DefaultConfig(),
		Clock:     fixedClock(feb2024),
	}), store, txm
}

func TestAllocator_Pebble_ConcurrentSerialsAreDistinct(t *testing.T) {
	a, _, _ := newPebbleAllocator(t)

	const n = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		serials []string
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := a.Generate(context.Background(), "INV", "", time.Time{})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			serials = append(serials, res.Serial)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, serials, n)
	sort.Strings(serials)
	assert.Equal(t, "INV-0224-000001", serials[0])
	assert.Equal(t, "INV-0224-000050", serials[n-1])
	for i := 1; i < n; i++ {
		assert.NotEqual(t, serials[i-1], serials[i])
	}
}

func TestAllocator_Pebble_RollbackSpendsNoNumber(t *testing.T) {
	a, store, txm := newPebbleAllocator(t)
	ctx := context.Background()

	_, err := a.Generate(ctx, "INV", "", time.Time{})
	require.NoError(t, err)

	insertFailed := errors.New("record insert failed")
	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		res, err := a.Generate(ctx, "INV", "", time.Time{})
		require.NoError(t, err)
		assert.Equal(t, "INV-0224-000002", res.Serial)
		return insertFailed
	})
	require.ErrorIs(t, err, insertFailed)

	last, found, err := store.Current(ctx, serial.Period{Series: "INV", Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(1), last)

	res, err := a.Generate(ctx, "INV", "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "INV-0224-000002", res.Serial)
}
