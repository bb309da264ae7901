package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core/record"
)

type blobRepository struct {
	db *sqlx.DB
}

var _ record.Backend = (*blobRepository)(nil) // interface compliance check

// NewBlobRepository stores blobs as rows of the blob_store table (see database.Migrate).
func NewBlobRepository(db *sqlx.DB) record.Backend {
	return &blobRepository{db: db}
}

func (repo *blobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var data string
	q := repo.db.Rebind("SELECT data FROM blob_store WHERE name = ?")
	if err := repo.db.GetContext(ctx, &data, q, key); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, record.ErrBlobNotFound
		}
		return nil, errors.Wrapf(err, "selecting blob %q", key)
	}
	return []byte(data), nil
}

func (repo *blobRepository) Set(ctx context.Context, key string, value []byte) error {
	q := repo.db.Rebind(`
		INSERT INTO blob_store (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)
	if _, err := repo.db.ExecContext(ctx, q, key, string(value), time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "upserting blob %q", key)
	}
	return nil
}
