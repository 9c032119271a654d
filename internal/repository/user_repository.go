package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"wiki-echo/internal/domain"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
	MarkBatchSent(ctx context.Context, id int64, at time.Time) error
}

type userRepository struct {
	dbs *DBFactory
}

func NewUserRepository(dbs *DBFactory) UserRepository {
	return &userRepository{dbs: dbs}
}

const userColumns = `user_id, user_name, user_email, user_language, user_timezone, user_date_format,
	user_groups, user_email_frequency, user_email_batch_sent_at, user_updated_at`

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	db := r.dbs.Primary()
	query := db.Rebind(`
		INSERT INTO echo_user (user_id, user_name, user_email, user_language, user_timezone,
			user_date_format, user_groups, user_email_frequency, user_updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			user_language = excluded.user_language,
			user_timezone = excluded.user_timezone,
			user_date_format = excluded.user_date_format,
			user_groups = excluded.user_groups,
			user_email_frequency = excluded.user_email_frequency,
			user_updated_at = excluded.user_updated_at`)

	_, err := db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Language, user.Timezone,
		user.DateFormat, user.Groups, user.EmailFrequency, user.UpdatedAt,
	)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db := r.dbs.Replica()
	query := db.Rebind(`SELECT ` + userColumns + ` FROM echo_user WHERE user_id = ?`)

	var user domain.User
	err := db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	out := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	db := r.dbs.Replica()
	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM echo_user WHERE user_id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var users []*domain.User
	if err := db.SelectContext(ctx, &users, db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *userRepository) MarkBatchSent(ctx context.Context, id int64, at time.Time) error {
	db := r.dbs.Primary()
	query := db.Rebind(`UPDATE echo_user SET user_email_batch_sent_at = ? WHERE user_id = ?`)
	_, err := db.ExecContext(ctx, query, at, id)
	return err
}
