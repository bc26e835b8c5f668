// Package runtime wires a storage backend into the numbering stack.
package runtime

import (
	"context"
	"errors"
	"fmt"

	"serialseq/internal/config"
	"serialseq/internal/core/serial"
	"serialseq/internal/core/tx"
	"serialseq/internal/domain/numbering"
	pebblestore "serialseq/internal/infrastructure/storage/pebble"
	"serialseq/internal/infrastructure/storage/postgres"
	"serialseq/internal/infrastructure/storage/postgres/sequence_repo"
)

// Backend names.
const (
	BackendPostgres = "postgres"
	BackendPebble   = "pebble"
)

// counterAdmin is implemented by both sequence stores.
type counterAdmin interface {
	serial.Store
	SoftDelete(ctx context.Context, p serial.Period) (bool, error)
}

// Runtime holds an open backend.
type Runtime struct {
	backend string
	store   counterAdmin
	txm     tx.Manager

	pool   *postgres.Pool
	pgTx   *postgres.TxManager
	pebble *pebblestore.DB
}

// Open opens the named backend. An empty name picks postgres when a
// database URL is configured and pebble otherwise.
func Open(ctx context.Context, cfg *config.Config, backend string) (*Runtime, error) {
	if backend == "" {
		backend = BackendPebble
		if cfg.Database.URL != "" {
			backend = BackendPostgres
		}
	}

	switch backend {
	case BackendPostgres:
		if cfg.Database.URL == "" {
			return nil, errors.New("database.url is required for the postgres backend")
		}
		pool, err := postgres.NewPool(ctx, cfg.Database.Pool())
		if err != nil {
			return nil, err
		}
		txm := postgres.NewTxManager(pool).WithOptions(cfg.Database.TxOptions())
		return &Runtime{
			backend: backend,
			store:   sequence_repo.New(txm),
			txm:     txm,
			pool:    pool,
			pgTx:    txm,
		}, nil

	case BackendPebble:
		if cfg.Pebble.Dir == "" {
			return nil, errors.New("pebble.dir is required for the pebble backend")
		}
		db, err := pebblestore.Open(pebblestore.Options{DataDir: cfg.Pebble.Dir, Sync: cfg.Pebble.Sync})
		if err != nil {
			return nil, fmt.Errorf("open pebble: %w", err)
		}
		txm := pebblestore.NewTxManager(db, cfg.Pebble.LockTimeout)
		return &Runtime{
			backend: backend,
			store:   pebblestore.NewStore(db, txm),
			txm:     txm,
			pebble:  db,
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, BackendPostgres, BackendPebble)
	}
}

// Backend returns the backend name.
func (r *Runtime) Backend() string { return r.backend }

// Store returns the sequence store.
func (r *Runtime) Store() serial.Store { return r.store }

// TxManager returns the transaction manager every store call must run under.
func (r *Runtime) TxManager() tx.Manager { return r.txm }

// Pool returns the Postgres pool, or nil on the pebble backend.
func (r *Runtime) Pool() *postgres.Pool { return r.pool }

// PostgresTx returns the Postgres transaction manager, or nil on the pebble backend.
func (r *Runtime) PostgresTx() *postgres.TxManager { return r.pgTx }

// Allocator builds an allocator on this backend.
func (r *Runtime) Allocator(format serial.Config) *numbering.Allocator {
	return numbering.NewAllocator(numbering.AllocatorConfig{
		Store:     r.store,
		TxManager: r.txm,
		Format:    format,
	})
}

// SoftDelete retires the live counter of p.
func (r *Runtime) SoftDelete(ctx context.Context, p serial.Period) (bool, error) {
	return r.store.SoftDelete(ctx, p)
}

// Migrate applies the SQL schema. It is a no-op on pebble.
func (r *Runtime) Migrate(ctx context.Context) error {
	if r.pool == nil {
		return nil
	}
	return postgres.Migrate(ctx, r.pool)
}

// Ping checks the backend is reachable.
func (r *Runtime) Ping(ctx context.Context) error {
	if r.pool != nil {
		return r.pool.Ping(ctx)
	}
	return r.pebble.Ping(ctx)
}

// Close releases the backend.
func (r *Runtime) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	if r.pebble != nil {
		return r.pebble.Close()
	}
	return nil
}
