package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"wiki-echo/internal/domain"
)

var ErrUnsupportedBackend = errors.New("backend is not supported")

// DB is the query surface shared by *sqlx.DB and *sqlx.Tx.
type DB interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// DBFactory hands out the primary or replica connection for a read.
// Inside a transaction every read and write goes through the tx.
type DBFactory struct {
	primary *sqlx.DB
	replica *sqlx.DB
	tx      *sqlx.Tx
}

// NewDBFactory wires the two pools. A nil replica reads from the primary.
func NewDBFactory(primary, replica *sqlx.DB) *DBFactory {
	if replica == nil {
		replica = primary
	}
	return &DBFactory{primary: primary, replica: replica}
}

func (f *DBFactory) Primary() DB {
	if f.tx != nil {
		return f.tx
	}
	return f.primary
}

func (f *DBFactory) Replica() DB {
	if f.tx != nil {
		return f.tx
	}
	return f.replica
}

// Get resolves a source name; anything but "primary" reads the replica.
func (f *DBFactory) Get(source string) DB {
	if source == domain.DBPrimary {
		return f.Primary()
	}
	return f.Replica()
}

// InTx runs fn in the open transaction, or in a new one on the primary
// that commits when fn returns nil.
func (f *DBFactory) InTx(ctx context.Context, fn func(db DB) error) error {
	if f.tx != nil {
		return fn(f.tx)
	}
	tx, err := f.primary.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type Repositories struct {
	Event        EventRepository
	Notification NotificationRepository
	EmailBatch   EmailBatchRepository
	TargetPage   TargetPageRepository
	User         UserRepository
	Preference   PreferenceRepository
	UpdateLog    UpdateLogRepository

	dbs *DBFactory
}

func NewRepositories(dbs *DBFactory) *Repositories {
	return &Repositories{
		dbs:          dbs,
		Event:        NewEventRepository(dbs),
		Notification: NewNotificationRepository(dbs),
		EmailBatch:   NewEmailBatchRepository(dbs),
		TargetPage:   NewTargetPageRepository(dbs),
		User:         NewUserRepository(dbs),
		Preference:   NewPreferenceRepository(dbs),
		UpdateLog:    NewUpdateLogRepository(dbs),
	}
}

// NewBackend returns the storage backend registered under name.
func NewBackend(name string, dbs *DBFactory) (*Repositories, error) {
	switch name {
	case "db":
		return NewRepositories(dbs), nil
	default:
		return nil, fmt.Errorf("%s %w", name, ErrUnsupportedBackend)
	}
}

// WithTx runs fn against repositories bound to one primary transaction,
// rolling every write back when fn fails. Repositories assembled without
// a database run fn directly.
func (r *Repositories) WithTx(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.dbs == nil {
		return fn(r)
	}
	return r.dbs.InTx(ctx, func(db DB) error {
		tx, ok := db.(*sqlx.Tx)
		if !ok {
			return fn(r)
		}
		return fn(NewRepositories(&DBFactory{primary: r.dbs.primary, replica: r.dbs.replica, tx: tx}))
	})
}
