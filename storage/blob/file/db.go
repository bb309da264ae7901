package fileblob

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
)

const blobExt = ".json"

// DB stores one file per key under a directory.
type DB struct {
	mu     sync.Mutex
	dir    string
	logger core.Logger

	// last content written per file, to tell our own writes from foreign ones
	written map[string][]byte
}

var _ record.Backend = (*DB)(nil) // interface compliance check

// Open creates dir if needed and returns a backend storing its blobs there.
func Open(dir string, logger core.Logger) (*DB, error) {
	vala.BeginValidation().Validate(
		vala.StringNotEmpty(dir, "dir"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	return &DB{dir: dir, logger: logger, written: make(map[string][]byte)}, nil
}

// Path returns the file a key is stored in.
func (db *DB) Path(key string) string {
	return filepath.Join(db.dir, url.PathEscape(key)+blobExt)
}

func (db *DB) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(db.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, record.ErrBlobNotFound
		}
		return nil, errors.Wrapf(err, "reading %q", key)
	}
	return data, nil
}

// Set replaces the key's file atomically: readers see either the old or the new content.
func (db *DB) Set(_ context.Context, key string, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	path := db.Path(key)
	tmp, err := os.CreateTemp(db.dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "renaming to %s", path)
	}

	db.written[path] = append([]byte(nil), value...)
	return nil
}

// Watch calls onChange whenever the key's file is changed by another process.
// It blocks until ctx is done.
func (db *DB) Watch(ctx context.Context, key string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err = watcher.Add(db.dir); err != nil {
		return errors.Wrapf(err, "watching %s", db.dir)
	}

	path := db.Path(key)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Create|fsnotify.Write) {
				continue
			}
			if db.isOwnWrite(path) {
				continue
			}
			db.logger.Info("Blob changed on disk", "key", key)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			db.logger.Warn("Blob watcher error", err)
		}
	}
}

func (db *DB) isOwnWrite(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return true // gone or unreadable, nothing to reload
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	last, ok := db.written[path]
	return ok && bytes.Equal(last, data)
}
