package pebblestore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"serialseq/internal/core/apperror"
	"serialseq/internal/core/id"
	"serialseq/internal/core/serial"
)

// Ensure compile-time interface compliance.
var _ serial.Store = (*Store)(nil)

const (
	liveCounterPrefix    = "seq/live/"
	deletedCounterPrefix = "seq/deleted/"
)

// counterRecord is the stored value of one period counter.
type counterRecord struct {
	ID         id.ID      `json:"id"`
	Series     string     `json:"series"`
	Year       int        `json:"year"`
	Month      int        `json:"month"`
	LastNumber uint64     `json:"last_number"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func (r *counterRecord) live() bool { return r.DeletedAt == nil }

// Store implements serial.Store on Pebble.
type Store struct {
	db  *DB
	txm *TxManager
	now func() time.Time
}

// NewStore creates a sequence store. txm must be the manager every caller
// of this store runs its transactions through.
func NewStore(db *DB, txm *TxManager) *Store {
	return &Store{db: db, txm: txm, now: time.Now}
}

// counterKey returns the key of the live counter of p.
func counterKey(p serial.Period) []byte {
	return []byte(fmt.Sprintf("%s%s\x00%04d%02d", liveCounterPrefix, p.Series, p.Year, p.Month))
}

func validate(p serial.Period) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(p.Series) > serial.MaxSeriesLength {
		return apperror.NewValidation(fmt.Sprintf("series must be at most %d characters", serial.MaxSeriesLength)).
			WithDetail("field", "series")
	}
	if strings.ContainsRune(p.Series, 0) {
		return apperror.NewValidation("series contains a NUL byte").WithDetail("field", "series")
	}
	return nil
}

// AcquireAndIncrement implements serial.Store.
func (s *Store) AcquireAndIncrement(ctx context.Context, p serial.Period) (uint64, error) {
	t := s.txm.GetTx(ctx)
	if t == nil {
		return 0, apperror.NewTransactionFailure("sequence counter must be updated inside a transaction", nil).
			WithDetail("period", p.String())
	}
	if err := validate(p); err != nil {
		return 0, err
	}

	key := counterKey(p)
	if err := s.txm.lock(ctx, t, string(key)); err != nil {
		return 0, err
	}

	rec, found, err := s.read(t, key)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	switch {
	case found && rec.live():
		rec.LastNumber++
		rec.UpdatedAt = now
	case found:
		// The period was soft-deleted: park the old row and start over.
		if err := s.write(t, []byte(deletedCounterPrefix+rec.ID.String()), rec); err != nil {
			return 0, err
		}
		fallthrough
	default:
		rec = &counterRecord{
			ID:         id.New(),
			Series:     p.Series,
			Year:       p.Year,
			Month:      p.Month,
			LastNumber: 1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	if err := s.write(t, key, rec); err != nil {
		return 0, err
	}
	return rec.LastNumber, nil
}

// Current implements serial.Store. Inside a transaction it sees that
// transaction's pending writes; outside it reads committed state.
func (s *Store) Current(ctx context.Context, p serial.Period) (uint64, bool, error) {
	if err := validate(p); err != nil {
		return 0, false, err
	}

	key := counterKey(p)

	var (
		raw   []byte
		found bool
		err   error
	)
	if t := s.txm.GetTx(ctx); t != nil {
		raw, found, err = t.get(key)
	} else {
		raw, found, err = s.db.get(key)
	}
	if err != nil {
		return 0, false, fmt.Errorf("read counter %s: %w", p, err)
	}
	if !found {
		return 0, false, nil
	}

	rec, err := decodeCounter(raw)
	if err != nil {
		return 0, false, err
	}
	if !rec.live() {
		return 0, false, nil
	}
	return rec.LastNumber, true, nil
}

// SoftDelete marks the live counter of p as deleted. The next allocation for
// p starts a fresh counter at 1. It reports whether a live counter existed.
func (s *Store) SoftDelete(ctx context.Context, p serial.Period) (bool, error) {
	if err := validate(p); err != nil {
		return false, err
	}

	var deleted bool
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		t := s.txm.GetTx(ctx)
		key := counterKey(p)
		if err := s.txm.lock(ctx, t, string(key)); err != nil {
			return err
		}

		rec, found, err := s.read(t, key)
		if err != nil || !found || !rec.live() {
			return err
		}

		now := s.now().UTC()
		rec.DeletedAt = &now
		rec.UpdatedAt = now
		deleted = true
		return s.write(t, key, rec)
	})
	return deleted, err
}

func (s *Store) read(t *Tx, key []byte) (*counterRecord, bool, error) {
	raw, found, err := t.get(key)
	if err != nil {
		return nil, false, apperror.NewTransactionFailure("read counter", err)
	}
	if !found {
		return nil, false, nil
	}
	rec, err := decodeCounter(raw)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (s *Store) write(t *Tx, key []byte, rec *counterRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode counter: %w", err)
	}
	if err := t.set(key, raw); err != nil {
		return apperror.NewTransactionFailure("write counter", err)
	}
	return nil
}

func decodeCounter(raw []byte) (*counterRecord, error) {
	var rec counterRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("decode counter: %w", err))
	}
	return &rec, nil
}
