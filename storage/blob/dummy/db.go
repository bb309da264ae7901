package dummyblob

import (
	"context"
	"sync"

	"github.com/trezcool/autom8/core/record"
)

// DB keeps blobs in memory. The zero value is not usable; call Open.
type DB struct {
	sync.RWMutex
	table map[string][]byte

	// FailWrites makes every Set fail with ErrWriteFailed.
	FailWrites bool
	writes     int
}

var _ record.Backend = (*DB)(nil) // interface compliance check

func Open() *DB {
	return &DB{table: make(map[string][]byte)}
}

func (db *DB) Get(_ context.Context, key string) ([]byte, error) {
	db.RLock()
	defer db.RUnlock()

	val, ok := db.table[key]
	if !ok {
		return nil, record.ErrBlobNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (db *DB) Set(_ context.Context, key string, value []byte) error {
	db.Lock()
	defer db.Unlock()

	if db.FailWrites {
		return ErrWriteFailed
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	db.table[key] = stored
	db.writes++
	return nil
}

// Writes counts the successful Set calls.
func (db *DB) Writes() int {
	db.RLock()
	defer db.RUnlock()
	return db.writes
}
