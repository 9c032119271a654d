package repository

import (
	"context"

	"wiki-echo/internal/domain"
)

type PreferenceRepository interface {
	ListForUser(ctx context.Context, userID int64) (map[string]string, error)
	Set(ctx context.Context, userID int64, values map[string]string) error
}

type preferenceRepository struct {
	dbs *DBFactory
}

func NewPreferenceRepository(dbs *DBFactory) PreferenceRepository {
	return &preferenceRepository{dbs: dbs}
}

func (r *preferenceRepository) ListForUser(ctx context.Context, userID int64) (map[string]string, error) {
	db := r.dbs.Replica()
	query := db.Rebind(`SELECT up_user, up_property, up_value FROM echo_user_preference WHERE up_user = ?`)

	var prefs []domain.Preference
	if err := db.SelectContext(ctx, &prefs, query, userID); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Property] = p.Value
	}
	return out, nil
}

func (r *preferenceRepository) Set(ctx context.Context, userID int64, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	return r.dbs.InTx(ctx, func(tx DB) error {
		query := tx.Rebind(`
			INSERT INTO echo_user_preference (up_user, up_property, up_value)
			VALUES (?, ?, ?)
			ON CONFLICT (up_user, up_property) DO UPDATE SET up_value = excluded.up_value`)
		for property, value := range values {
			if _, err := tx.ExecContext(ctx, query, userID, property, value); err != nil {
				return err
			}
		}
		return nil
	})
}
