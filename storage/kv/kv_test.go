package kvstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studentcoin/core"
	rediskv "github.com/trezcool/studentcoin/storage/kv/redis"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		for _, driver := range []string{"", DriverMemory} {
			store, err := Open(ctx, &core.Config{Store: core.StoreConfig{Driver: driver}})
			require.NoError(t, err)
			require.NoError(t, store.Set(ctx, "k", "v"))
			assert.NoError(t, store.Close())
		}
	})

	t.Run("redis", func(t *testing.T) {
		srv := miniredis.RunT(t)
		store, err := Open(ctx, &core.Config{
			Store: core.StoreConfig{Driver: DriverRedis},
			Redis: core.RedisConfig{Addr: srv.Addr()},
		})
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		assert.IsType(t, &rediskv.Store{}, store)
		require.NoError(t, store.Set(ctx, "userRole", "admin"))
		srv.CheckGet(t, "userRole", "admin")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, &core.Config{Store: core.StoreConfig{Driver: "etcd"}})
		assert.True(t, errors.Is(err, ErrUnknownDriver), "error = %v", err)
	})
}
