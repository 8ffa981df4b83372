// Package kvtest holds the behaviour every access.Store implementation shares.
package kvtest

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studentcoin/core/access"
)

// Run checks store against the access.Store contract. Keys are prefixed with prefix so that
// stores shared between test runs do not collide.
func Run(t *testing.T, store access.Store, prefix string) {
	t.Helper()
	ctx := context.Background()
	key := prefix + ":role"

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, prefix+":missing")
		assert.True(t, errors.Is(err, access.ErrKeyNotFound), "error = %v", err)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "teacher"))
		val, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "teacher", val)

		require.NoError(t, store.Set(ctx, key, "admin"))
		val, err = store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "admin", val)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "student"))
		require.NoError(t, store.Delete(ctx, key))
		_, err := store.Get(ctx, key)
		assert.True(t, errors.Is(err, access.ErrKeyNotFound), "error = %v", err)

		// absent keys are not an error
		assert.NoError(t, store.Delete(ctx, key))
	})

	t.Run("controller round trip", func(t *testing.T) {
		logger := NopLogger{}
		opt := access.WithKey(prefix + ":session")

		access.NewController(ctx, store, logger, opt).SetRole(ctx, access.Company)
		ctrl := access.NewController(ctx, store, logger, opt)
		assert.Equal(t, access.Company, ctrl.Role())

		ctrl.Logout(ctx)
		assert.Equal(t, access.None, access.NewController(ctx, store, logger, opt).Role())
	})
}

// NopLogger discards every entry.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
