package pgkv

import (
	"context"
	"database/sql"
	"embed"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/access"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	selectQuery = `SELECT value FROM kv_entries WHERE key = $1`
	upsertQuery = `INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteQuery = `DELETE FROM kv_entries WHERE key = $1`
)

// Store keeps entries in the kv_entries table.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database described by conf and waits for it to be ready.
func Open(ctx context.Context, conf core.DatabaseConfig) (*Store, error) {
	db, err := sqlx.Open(conf.Engine, conf.URL())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

var ErrUnknownMigration = errors.New("unknown migration command")

// Migrate creates or upgrades the kv_entries table.
func (s *Store) Migrate() error {
	return s.RunMigration("up")
}

// RunMigration runs a goose command against the embedded migrations:
// up, up-by-one, up-to VERSION, down, down-to VERSION or redo.
func (s *Store) RunMigration(command string, args ...string) error {
	var err error
	switch command {
	case "up":
		err = goose.Up(s.db.DB, migrations, "migrations")
	case "up-by-one":
		err = goose.UpByOne(s.db.DB, migrations, "migrations")
	case "down":
		err = goose.Down(s.db.DB, migrations, "migrations")
	case "redo":
		err = goose.Redo(s.db.DB, migrations, "migrations")
	case "up-to", "down-to":
		if len(args) == 0 {
			return errors.Errorf("%s must be of form: %s VERSION", command, command)
		}
		version, pErr := strconv.ParseInt(args[0], 10, 64)
		if pErr != nil {
			return errors.Errorf("version must be a number (got '%s')", args[0])
		}
		if command == "up-to" {
			err = goose.UpTo(s.db.DB, migrations, "migrations", version)
		} else {
			err = goose.DownTo(s.db.DB, migrations, "migrations", version)
		}
	default:
		return errors.Wrapf(ErrUnknownMigration, "%q", command)
	}
	if err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var val string
	err := s.db.GetContext(ctx, &val, selectQuery, key)
	if err == sql.ErrNoRows {
		return "", access.ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "selecting %s", key)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertQuery, key, value); err != nil {
		return errors.Wrapf(err, "upserting %s", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteQuery, key); err != nil {
		return errors.Wrapf(err, "deleting %s", key)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
