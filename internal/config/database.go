package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func NewDatabase(cfg *Config) (*sqlx.DB, error) {
	return connect(cfg.DBDriver, cfg.DatabaseURL)
}

// NewReplicaDB opens the read replica, or returns primary when none is configured.
func NewReplicaDB(cfg *Config, primary *sqlx.DB) (*sqlx.DB, error) {
	if cfg.DatabaseReplicaURL == "" || cfg.DatabaseReplicaURL == cfg.DatabaseURL {
		return primary, nil
	}
	return connect(cfg.DBDriver, cfg.DatabaseReplicaURL)
}

func connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "postgres":
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		return db, nil
	case "sqlite":
		db, err := sqlx.Connect("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
