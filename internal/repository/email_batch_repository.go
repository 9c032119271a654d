package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"wiki-echo/internal/domain"
)

type EmailBatchRepository interface {
	Add(ctx context.Context, item *domain.EmailBatchItem) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]*domain.EmailBatchItem, error)
	UsersWithPending(ctx context.Context) ([]int64, error)
	DeleteForUser(ctx context.Context, userID int64) error
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) error
}

type emailBatchRepository struct {
	dbs *DBFactory
}

func NewEmailBatchRepository(dbs *DBFactory) EmailBatchRepository {
	return &emailBatchRepository{dbs: dbs}
}

func (r *emailBatchRepository) Add(ctx context.Context, item *domain.EmailBatchItem) error {
	db := r.dbs.Primary()
	query := db.Rebind(`
		INSERT INTO echo_email_batch (eeb_user_id, eeb_event_priority, eeb_event_id, eeb_event_hash)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (eeb_user_id, eeb_event_id) DO NOTHING`)

	_, err := db.ExecContext(ctx, query, item.UserID, item.EventPriority, item.EventID, item.EventHash)
	return err
}

// ListForUser returns queued rows most important first.
func (r *emailBatchRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]*domain.EmailBatchItem, error) {
	db := r.dbs.Primary()
	query := db.Rebind(`
		SELECT eeb_id, eeb_user_id, eeb_event_id, eeb_event_priority, eeb_event_hash
		FROM echo_email_batch
		WHERE eeb_user_id = ?
		ORDER BY eeb_event_priority ASC, eeb_id ASC
		LIMIT ?`)

	var items []*domain.EmailBatchItem
	err := db.SelectContext(ctx, &items, query, userID, limit)
	return items, err
}

func (r *emailBatchRepository) UsersWithPending(ctx context.Context) ([]int64, error) {
	db := r.dbs.Primary()
	var ids []int64
	err := db.SelectContext(ctx, &ids, `SELECT DISTINCT eeb_user_id FROM echo_email_batch ORDER BY eeb_user_id`)
	return ids, err
}

// DeleteForUser drops every queued row of userID.
func (r *emailBatchRepository) DeleteForUser(ctx context.Context, userID int64) error {
	db := r.dbs.Primary()
	query := db.Rebind(`DELETE FROM echo_email_batch WHERE eeb_user_id = ?`)
	_, err := db.ExecContext(ctx, query, userID)
	return err
}

// DeleteByIDs drops the given queued rows of userID.
func (r *emailBatchRepository) DeleteByIDs(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.dbs.Primary()
	query, args, err := sqlx.In(`DELETE FROM echo_email_batch WHERE eeb_user_id = ? AND eeb_id IN (?)`, userID, ids)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, db.Rebind(query), args...)
	return err
}
