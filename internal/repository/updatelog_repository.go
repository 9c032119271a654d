package repository

import (
	"context"
)

// UpdateLogRepository records one-off maintenance runs by key.
type UpdateLogRepository interface {
	Exists(ctx context.Context, key string) (bool, error)
	Insert(ctx context.Context, key string) error
}

type updateLogRepository struct {
	dbs *DBFactory
}

func NewUpdateLogRepository(dbs *DBFactory) UpdateLogRepository {
	return &updateLogRepository{dbs: dbs}
}

func (r *updateLogRepository) Exists(ctx context.Context, key string) (bool, error) {
	db := r.dbs.Primary()
	var count int
	err := db.GetContext(ctx, &count, db.Rebind(`SELECT COUNT(*) FROM echo_updatelog WHERE ul_key = ?`), key)
	return count > 0, err
}

func (r *updateLogRepository) Insert(ctx context.Context, key string) error {
	db := r.dbs.Primary()
	query := db.Rebind(`INSERT INTO echo_updatelog (ul_key) VALUES (?) ON CONFLICT DO NOTHING`)
	_, err := db.ExecContext(ctx, query, key)
	return err
}
