package inmemkv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/studentcoin/storage/kv/kvtest"
)

func TestStore(t *testing.T) {
	store := NewStore()
	kvtest.Run(t, store, "test")
	assert.Equal(t, 0, store.Len())
}

func TestStore_canceledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Set(ctx, "k", "v"))
	_, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, "k"))
	assert.Equal(t, 0, store.Len())
}
