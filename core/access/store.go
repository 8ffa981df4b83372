package access

import (
	"context"

	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is a durable key-value store.
// Implementations return ErrKeyNotFound from Get when key is absent; Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
