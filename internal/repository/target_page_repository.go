package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"wiki-echo/internal/domain"
)

type TargetPageRepository interface {
	Create(ctx context.Context, pages []domain.TargetPage) error
	ListForEvents(ctx context.Context, userID int64, eventIDs []int64) (map[int64][]int64, error)
	DeleteForEvents(ctx context.Context, userID int64, eventIDs []int64) error
}

type targetPageRepository struct {
	dbs *DBFactory
}

func NewTargetPageRepository(dbs *DBFactory) TargetPageRepository {
	return &targetPageRepository{dbs: dbs}
}

func (r *targetPageRepository) Create(ctx context.Context, pages []domain.TargetPage) error {
	if len(pages) == 0 {
		return nil
	}
	db := r.dbs.Primary()
	query := db.Rebind(`
		INSERT INTO echo_target_page (etp_user, etp_page, etp_event)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`)

	for _, p := range pages {
		if _, err := db.ExecContext(ctx, query, p.UserID, p.PageID, p.EventID); err != nil {
			return err
		}
	}
	return nil
}

// ListForEvents maps event id to the page ids targeted for userID.
func (r *targetPageRepository) ListForEvents(ctx context.Context, userID int64, eventIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64)
	if len(eventIDs) == 0 {
		return out, nil
	}
	db := r.dbs.Replica()
	query, args, err := sqlx.In(`
		SELECT etp_user, etp_page, etp_event FROM echo_target_page
		WHERE etp_user = ? AND etp_event IN (?)
		ORDER BY etp_event, etp_page`, userID, eventIDs)
	if err != nil {
		return nil, err
	}

	var pages []domain.TargetPage
	if err := db.SelectContext(ctx, &pages, db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, p := range pages {
		out[p.EventID] = append(out[p.EventID], p.PageID)
	}
	return out, nil
}

func (r *targetPageRepository) DeleteForEvents(ctx context.Context, userID int64, eventIDs []int64) error {
	if len(eventIDs) == 0 {
		return nil
	}
	db := r.dbs.Primary()
	query, args, err := sqlx.In(`DELETE FROM echo_target_page WHERE etp_user = ? AND etp_event IN (?)`, userID, eventIDs)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, db.Rebind(query), args...)
	return err
}
