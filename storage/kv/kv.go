package kvstore

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/access"
	inmemkv "github.com/trezcool/studentcoin/storage/kv/inmem"
	pgkv "github.com/trezcool/studentcoin/storage/kv/postgres"
	rediskv "github.com/trezcool/studentcoin/storage/kv/redis"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Store is an access.Store holding resources to release on shutdown.
type Store interface {
	access.Store
	io.Closer
}

type nopCloser struct {
	access.Store
}

func (nopCloser) Close() error { return nil }

// Open returns the store selected by conf.Store.Driver.
// The postgres store is migrated before being returned.
func Open(ctx context.Context, conf *core.Config) (Store, error) {
	switch conf.Store.Driver {
	case "", DriverMemory:
		return nopCloser{inmemkv.NewStore()}, nil

	case DriverRedis:
		store, err := rediskv.Open(ctx, conf.Redis)
		if err != nil {
			return nil, errors.Wrap(err, "opening redis store")
		}
		return store, nil

	case DriverPostgres:
		store, err := pgkv.Open(ctx, conf.Database)
		if err != nil {
			return nil, errors.Wrap(err, "opening postgres store")
		}
		if err = store.Migrate(); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	}
	return nil, errors.Wrapf(ErrUnknownDriver, "%q", conf.Store.Driver)
}
