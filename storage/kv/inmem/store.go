package inmemkv

import (
	"context"
	"sync"

	"github.com/trezcool/studentcoin/core/access"
)

// Store is a process-local key-value store. Its content does not survive a restart.
type Store struct {
	mutex sync.RWMutex
	table map[string]string
}

func NewStore() *Store {
	return &Store{table: make(map[string]string)}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	val, ok := s.table[key]
	if !ok {
		return "", access.ErrKeyNotFound
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[key] = value
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, key)
	return nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.table)
}
