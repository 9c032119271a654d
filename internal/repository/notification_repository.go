package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"wiki-echo/internal/domain"
)

// MaxBundleRows caps how many rows of one bundle are read back.
const MaxBundleRows = 250

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	ListForUser(ctx context.Context, userID int64, eventTypes []string, params domain.ListParams) ([]*domain.Notification, error)
	ListBundled(ctx context.Context, userID int64, displayHash string) ([]*domain.Notification, error)
	RawBundleData(ctx context.Context, userID int64, bundleHash, outputType string) ([]*domain.Event, error)
	LastBundleStat(ctx context.Context, userID int64, bundleHash string) (*domain.BundleStat, error)
	MarkRead(ctx context.Context, userID int64, eventIDs []int64, at time.Time) (int64, error)
	MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error)
	CountUnread(ctx context.Context, source string, userID int64, eventTypes []string, limit int64) (int64, error)
}

type notificationRepository struct {
	dbs *DBFactory
}

func NewNotificationRepository(dbs *DBFactory) NotificationRepository {
	return &notificationRepository{dbs: dbs}
}

const notificationColumns = `n.notification_event, n.notification_user, n.notification_timestamp,
	n.notification_read_timestamp, n.notification_bundle_base, n.notification_bundle_hash,
	n.notification_bundle_display_hash`

// Create inserts a notification. When it carries a display hash, the
// current base row of that bundle is demoted in the same transaction so
// only the new row heads the bundle.
func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	return r.dbs.InTx(ctx, func(tx DB) error {
		if notif.DisplayHash != "" {
			demote := tx.Rebind(`
				UPDATE echo_notification SET notification_bundle_base = ?
				WHERE notification_user = ? AND notification_bundle_display_hash = ? AND notification_bundle_base = ?`)
			if _, err := tx.ExecContext(ctx, demote, false, notif.UserID, notif.DisplayHash, true); err != nil {
				return err
			}
		}

		insert := tx.Rebind(`
			INSERT INTO echo_notification (notification_event, notification_user, notification_timestamp,
				notification_read_timestamp, notification_bundle_base, notification_bundle_hash,
				notification_bundle_display_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		_, err := tx.ExecContext(ctx, insert,
			notif.EventID, notif.UserID, notif.Timestamp, notif.ReadTimestamp,
			notif.BundleBase, notif.BundleHash, notif.DisplayHash,
		)
		return err
	})
}

// ListForUser returns bundle heads newest first. The start point applies
// only when both a timestamp and an event offset are given.
func (r *notificationRepository) ListForUser(ctx context.Context, userID int64, eventTypes []string, params domain.ListParams) ([]*domain.Notification, error) {
	if len(eventTypes) == 0 {
		return []*domain.Notification{}, nil
	}
	params.Validate()

	query := `
		SELECT ` + notificationColumns + `, ` + eventColumns + `
		FROM echo_notification n
		JOIN echo_event e ON e.event_id = n.notification_event
		WHERE n.notification_user = ?
			AND e.event_type IN (?)
			AND e.event_deleted = ?
			AND n.notification_bundle_base = ?`
	args := []any{userID, eventTypes, false, true}

	if params.HasStart() {
		query += ` AND n.notification_timestamp <= ? AND n.notification_event < ?`
		args = append(args, *params.Timestamp, params.Offset)
	}
	query += ` ORDER BY n.notification_timestamp DESC, n.notification_event DESC LIMIT ?`
	args = append(args, params.Limit)

	return r.selectRows(ctx, r.dbs.Replica(), query, args...)
}

// ListBundled returns the non-head rows of a web bundle, newest first.
func (r *notificationRepository) ListBundled(ctx context.Context, userID int64, displayHash string) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `, ` + eventColumns + `
		FROM echo_notification n
		JOIN echo_event e ON e.event_id = n.notification_event
		WHERE n.notification_user = ?
			AND n.notification_bundle_base = ?
			AND n.notification_bundle_display_hash = ?
			AND e.event_deleted = ?
		ORDER BY n.notification_timestamp DESC
		LIMIT ?`

	return r.selectRows(ctx, r.dbs.Replica(), query, userID, false, displayHash, false, MaxBundleRows)
}

// RawBundleData returns the events sharing hash for the given output.
// Web bundles come from notifications, anything else from the email batch.
func (r *notificationRepository) RawBundleData(ctx context.Context, userID int64, bundleHash, outputType string) ([]*domain.Event, error) {
	if outputType == domain.OutputWeb {
		notifs, err := r.ListBundled(ctx, userID, bundleHash)
		if err != nil {
			return nil, err
		}
		events := make([]*domain.Event, 0, len(notifs))
		for _, n := range notifs {
			events = append(events, n.Event)
		}
		return events, nil
	}

	db := r.dbs.Replica()
	query := db.Rebind(`
		SELECT ` + eventColumns + `
		FROM echo_email_batch b
		JOIN echo_event e ON e.event_id = b.eeb_event_id
		WHERE b.eeb_user_id = ? AND b.eeb_event_hash = ?
		ORDER BY b.eeb_event_id DESC
		LIMIT ?`)

	var events []*domain.Event
	if err := db.SelectContext(ctx, &events, query, userID, bundleHash, MaxBundleRows); err != nil {
		return nil, err
	}
	return events, nil
}

// LastBundleStat returns the read state of the newest notification in a
// bundle, or nil when the user has none.
func (r *notificationRepository) LastBundleStat(ctx context.Context, userID int64, bundleHash string) (*domain.BundleStat, error) {
	db := r.dbs.Primary()
	query := db.Rebind(`
		SELECT notification_read_timestamp, notification_bundle_display_hash
		FROM echo_notification
		WHERE notification_user = ? AND notification_bundle_hash = ?
		ORDER BY notification_timestamp DESC
		LIMIT 1`)

	var stat domain.BundleStat
	err := db.GetContext(ctx, &stat, query, userID, bundleHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID int64, eventIDs []int64, at time.Time) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}
	db := r.dbs.Primary()
	query, args, err := sqlx.In(`
		UPDATE echo_notification SET notification_read_timestamp = ?
		WHERE notification_user = ? AND notification_event IN (?) AND notification_read_timestamp IS NULL`,
		at, userID, eventIDs)
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	db := r.dbs.Primary()
	query := db.Rebind(`
		UPDATE echo_notification SET notification_read_timestamp = ?
		WHERE notification_user = ? AND notification_read_timestamp IS NULL`)

	res, err := db.ExecContext(ctx, query, at, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountUnread counts unread bundle heads, stopping at limit.
func (r *notificationRepository) CountUnread(ctx context.Context, source string, userID int64, eventTypes []string, limit int64) (int64, error) {
	if len(eventTypes) == 0 {
		return 0, nil
	}
	db := r.dbs.Get(source)
	query, args, err := sqlx.In(`
		SELECT COUNT(*) FROM (
			SELECT 1 FROM echo_notification n
			JOIN echo_event e ON e.event_id = n.notification_event
			WHERE n.notification_user = ?
				AND n.notification_bundle_base = ?
				AND n.notification_read_timestamp IS NULL
				AND e.event_deleted = ?
				AND e.event_type IN (?)
			LIMIT ?
		) unread`, userID, true, false, eventTypes, limit)
	if err != nil {
		return 0, err
	}

	var count int64
	err = db.GetContext(ctx, &count, db.Rebind(query), args...)
	return count, err
}

func (r *notificationRepository) selectRows(ctx context.Context, db DB, query string, args ...any) ([]*domain.Notification, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}

	var rows []domain.NotificationRow
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, err
	}

	out := make([]*domain.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToNotification())
	}
	return out, nil
}
