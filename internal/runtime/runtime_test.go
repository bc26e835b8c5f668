package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serialseq/internal/config"
	"serialseq/internal/core/serial"
)

func TestOpen_Pebble(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Pebble: config.PebbleConfig{Dir: t.TempDir(), LockTimeout: time.Second}}

	rt, err := Open(ctx, cfg, "")
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, BackendPebble, rt.Backend())
	assert.Nil(t, rt.Pool())
	require.NoError(t, rt.Ping(ctx))
	require.NoError(t, rt.Migrate(ctx))

	alloc := rt.Allocator(serial.DefaultConfig())
	asOf := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	res, err := alloc.Generate(ctx, "INV", "", asOf)
	require.NoError(t, err)
	assert.Equal(t, "INV-0224-000001", res.Serial)

	p := serial.Period{Series: "INV", Year: 2024, Month: 2}
	deleted, err := rt.SoftDelete(ctx, p)
	require.NoError(t, err)
	assert.True(t, deleted)

	res, err = alloc.Generate(ctx, "INV", "", asOf)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Number)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, &config.Config{}, BackendPostgres)
	assert.Error(t, err)

	_, err = Open(ctx, &config.Config{}, BackendPebble)
	assert.Error(t, err)

	_, err = Open(ctx, &config.Config{}, "mysql")
	assert.Error(t, err)
}
