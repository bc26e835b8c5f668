package numbering

import (
	"context"
	"fmt"
	"time"

	"serialseq/internal/core/entity"
	"serialseq/internal/core/serial"
	"serialseq/internal/domain"
)

// BeforeCreate returns the pre-insert hook for serial-bearing records.
//
// Records that already carry a serial are left untouched. Otherwise the
// prefix is resolved (when a resolver is configured), a serial is generated
// for the record's series and copied onto it. Register it with
// RecordService so it runs in the same transaction as the insert.
func BeforeCreate[T entity.SerialBearer](a *Allocator, resolver serial.PrefixResolver) domain.Hook[T] {
	return func(ctx context.Context, record T) error {
		if record.HasSerial() {
			return nil
		}

		var prefix string
		if resolver != nil {
			p, err := resolver(ctx, record)
			if err != nil {
				return fmt.Errorf("resolve serial prefix: %w", err)
			}
			prefix = p
		}

		result, err := a.Generate(ctx, record.SerialSeries(), prefix, time.Time{})
		if err != nil {
			return err
		}

		record.SetSerialAttributes(result)
		return nil
	}
}
