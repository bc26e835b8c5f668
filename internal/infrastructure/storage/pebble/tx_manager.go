package pebblestore

import (
	"context"
	"errors"
	"time"

	"github.com/cockroachdb/pebble"
	"go.opentelemetry.io/otel"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/tx"
)

var tracer = otel.Tracer("serialseq/pebble")

// Compile-time check that TxManager implements tx.Manager interface.
var _ tx.Manager = (*TxManager)(nil)

// DefaultLockTimeout bounds the wait for a counter row lock.
const DefaultLockTimeout = 5 * time.Second

// TxManager runs units of work against a DB. All writers of a DB must share
// one TxManager: the lock table lives here.
type TxManager struct {
	db          *DB
	locks       *lockTable
	lockTimeout time.Duration
}

// NewTxManager creates a transaction manager. A zero lockTimeout means
// DefaultLockTimeout; a negative one waits for as long as ctx allows.
func NewTxManager(db *DB, lockTimeout time.Duration) *TxManager {
	if lockTimeout == 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &TxManager{db: db, locks: newLockTable(), lockTimeout: lockTimeout}
}

type txKey struct{}

// Tx is one unit of work: pending writes plus the row locks it holds.
type Tx struct {
	batch    *pebble.Batch
	releases map[string]func()
}

// GetTx returns the current transaction from context, or nil if none.
func (m *TxManager) GetTx(ctx context.Context) *Tx {
	if t, ok := ctx.Value(txKey{}).(*Tx); ok {
		return t
	}
	return nil
}

// RunInTransaction executes fn within a unit of work. Nested calls join the
// outer one. Writes become visible atomically on commit; locks are released
// only after the batch is committed or discarded.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.GetTx(ctx) != nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "transaction")
	defer span.End()

	t := &Tx{
		batch:    m.db.inner.NewIndexedBatch(),
		releases: make(map[string]func()),
	}
	defer t.releaseAll()
	defer t.batch.Close()

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		span.RecordError(err)
		return err
	}

	if err := t.batch.Commit(m.db.writeOptions()); err != nil {
		span.RecordError(err)
		return apperror.NewTransactionFailure("commit transaction", err)
	}
	return nil
}

// lock takes the exclusive lock on key for the rest of the transaction.
func (m *TxManager) lock(ctx context.Context, t *Tx, key string) error {
	if _, held := t.releases[key]; held {
		return nil
	}

	lockCtx := ctx
	if m.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, m.lockTimeout)
		defer cancel()
	}

	release, err := m.locks.acquire(lockCtx, key)
	if err != nil {
		return apperror.NewLockTimeout(key, err)
	}
	t.releases[key] = release
	return nil
}

func (t *Tx) releaseAll() {
	for key, release := range t.releases {
		release()
		delete(t.releases, key)
	}
}

// get reads key through the transaction's pending writes.
func (t *Tx) get(key []byte) ([]byte, bool, error) {
	val, closer, err := t.batch.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	return append([]byte(nil), val...), true, nil
}

func (t *Tx) set(key, value []byte) error {
	return t.batch.Set(key, value, nil)
}
