package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"wiki-echo/internal/domain"
)

var ErrEventNotFound = errors.New("no echo event found")

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (int64, error)
	GetByID(ctx context.Context, id int64, fromPrimary bool) (*domain.Event, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error)
	UpdateExtra(ctx context.Context, event *domain.Event) error
	MarkDeleted(ctx context.Context, ids []int64) error
}

type eventRepository struct {
	dbs *DBFactory
}

func NewEventRepository(dbs *DBFactory) EventRepository {
	return &eventRepository{dbs: dbs}
}

const eventColumns = `e.event_id, e.event_type, e.event_variant, e.event_agent_id, e.event_agent_ip,
	e.event_page_namespace, e.event_page_title, e.event_page_id, e.event_extra, e.event_deleted`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) (int64, error) {
	db := r.dbs.Primary()
	query := db.Rebind(`
		INSERT INTO echo_event (event_type, event_variant, event_agent_id, event_agent_ip,
			event_page_namespace, event_page_title, event_page_id, event_extra, event_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING event_id`)

	err := db.QueryRowxContext(ctx, query,
		event.Type, event.Variant, event.AgentID, event.AgentIP,
		event.PageNamespace, event.PageTitle, event.PageID, event.ExtraJSON, event.Deleted,
	).Scan(&event.ID)
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}

// GetByID reads the replica first and retries once on the primary, since a
// freshly created event may not have replicated yet.
func (r *eventRepository) GetByID(ctx context.Context, id int64, fromPrimary bool) (*domain.Event, error) {
	source := domain.DBReplica
	if fromPrimary {
		source = domain.DBPrimary
	}

	event, err := r.get(ctx, r.dbs.Get(source), id)
	if err != nil {
		return nil, err
	}
	if event == nil && !fromPrimary {
		event, err = r.get(ctx, r.dbs.Primary(), id)
		if err != nil {
			return nil, err
		}
	}
	if event == nil {
		return nil, fmt.Errorf("%w with id %d", ErrEventNotFound, id)
	}
	return event, nil
}

func (r *eventRepository) get(ctx context.Context, db DB, id int64) (*domain.Event, error) {
	var event domain.Event
	query := db.Rebind(`SELECT ` + eventColumns + ` FROM echo_event e WHERE e.event_id = ?`)

	err := db.GetContext(ctx, &event, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := r.dbs.Replica()
	query, args, err := sqlx.In(`SELECT `+eventColumns+` FROM echo_event e WHERE e.event_id IN (?) ORDER BY e.event_id DESC`, ids)
	if err != nil {
		return nil, err
	}

	var events []*domain.Event
	err = db.SelectContext(ctx, &events, db.Rebind(query), args...)
	return events, err
}

func (r *eventRepository) UpdateExtra(ctx context.Context, event *domain.Event) error {
	db := r.dbs.Primary()
	query := db.Rebind(`UPDATE echo_event SET event_extra = ? WHERE event_id = ?`)
	_, err := db.ExecContext(ctx, query, event.ExtraJSON, event.ID)
	return err
}

func (r *eventRepository) MarkDeleted(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.dbs.Primary()
	query, args, err := sqlx.In(`UPDATE echo_event SET event_deleted = ? WHERE event_id IN (?)`, true, ids)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, db.Rebind(query), args...)
	return err
}
