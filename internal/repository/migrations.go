package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	version int
	sql     string
}

// Migrations are kept per dialect, each list sequential from 1.
var postgresMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS echo_event (
	event_id             BIGSERIAL PRIMARY KEY,
	event_type           VARCHAR(64) NOT NULL,
	event_variant        VARCHAR(64),
	event_agent_id       BIGINT NOT NULL DEFAULT 0,
	event_agent_ip       VARCHAR(39),
	event_page_namespace INTEGER,
	event_page_title     VARCHAR(255),
	event_page_id        BIGINT,
	event_extra          TEXT,
	event_deleted        BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS echo_notification (
	notification_event               BIGINT NOT NULL,
	notification_user                BIGINT NOT NULL,
	notification_timestamp           TIMESTAMPTZ NOT NULL,
	notification_read_timestamp      TIMESTAMPTZ,
	notification_bundle_base         BOOLEAN NOT NULL DEFAULT TRUE,
	notification_bundle_hash         VARCHAR(32) NOT NULL DEFAULT '',
	notification_bundle_display_hash VARCHAR(32) NOT NULL DEFAULT '',
	PRIMARY KEY (notification_user, notification_event)
);

CREATE TABLE IF NOT EXISTS echo_email_batch (
	eeb_id             BIGSERIAL PRIMARY KEY,
	eeb_user_id        BIGINT NOT NULL,
	eeb_event_priority SMALLINT NOT NULL DEFAULT 10,
	eeb_event_id       BIGINT NOT NULL,
	eeb_event_hash     VARCHAR(32) NOT NULL DEFAULT '',
	UNIQUE (eeb_user_id, eeb_event_id)
);

CREATE TABLE IF NOT EXISTS echo_target_page (
	etp_user  BIGINT NOT NULL,
	etp_page  BIGINT NOT NULL,
	etp_event BIGINT NOT NULL,
	PRIMARY KEY (etp_user, etp_event, etp_page)
);

CREATE TABLE IF NOT EXISTS echo_user (
	user_id                  BIGINT PRIMARY KEY,
	user_name                VARCHAR(255) NOT NULL,
	user_email               VARCHAR(255) NOT NULL DEFAULT '',
	user_language            VARCHAR(35) NOT NULL DEFAULT 'en',
	user_timezone            VARCHAR(64) NOT NULL DEFAULT '',
	user_date_format         VARCHAR(16) NOT NULL DEFAULT 'default',
	user_groups              TEXT NOT NULL DEFAULT '',
	user_email_frequency     SMALLINT NOT NULL DEFAULT 0,
	user_email_batch_sent_at TIMESTAMPTZ,
	user_updated_at          TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS echo_user_preference (
	up_user     BIGINT NOT NULL,
	up_property VARCHAR(255) NOT NULL,
	up_value    TEXT NOT NULL,
	PRIMARY KEY (up_user, up_property)
);

CREATE TABLE IF NOT EXISTS echo_updatelog (
	ul_key VARCHAR(255) PRIMARY KEY
);

CREATE INDEX IF NOT EXISTS echo_event_type ON echo_event (event_type);
CREATE INDEX IF NOT EXISTS echo_notification_user_base_read_timestamp
	ON echo_notification (notification_user, notification_bundle_base, notification_read_timestamp);
CREATE INDEX IF NOT EXISTS echo_notification_user_base_timestamp
	ON echo_notification (notification_user, notification_bundle_base, notification_timestamp, notification_event);
CREATE INDEX IF NOT EXISTS echo_notification_user_hash_timestamp
	ON echo_notification (notification_user, notification_bundle_hash, notification_timestamp);
CREATE INDEX IF NOT EXISTS echo_notification_user_hash_base_timestamp
	ON echo_notification (notification_user, notification_bundle_display_hash, notification_bundle_base, notification_timestamp);
CREATE INDEX IF NOT EXISTS echo_email_batch_user_hash_priority
	ON echo_email_batch (eeb_user_id, eeb_event_hash, eeb_event_priority);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

var sqliteMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS echo_event (
	event_id             INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type           TEXT NOT NULL,
	event_variant        TEXT,
	event_agent_id       INTEGER NOT NULL DEFAULT 0,
	event_agent_ip       TEXT,
	event_page_namespace INTEGER,
	event_page_title     TEXT,
	event_page_id        INTEGER,
	event_extra          TEXT,
	event_deleted        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS echo_notification (
	notification_event               INTEGER NOT NULL,
	notification_user                INTEGER NOT NULL,
	notification_timestamp           DATETIME NOT NULL,
	notification_read_timestamp      DATETIME,
	notification_bundle_base         INTEGER NOT NULL DEFAULT 1,
	notification_bundle_hash         TEXT NOT NULL DEFAULT '',
	notification_bundle_display_hash TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (notification_user, notification_event)
);

CREATE TABLE IF NOT EXISTS echo_email_batch (
	eeb_id             INTEGER PRIMARY KEY AUTOINCREMENT,
	eeb_user_id        INTEGER NOT NULL,
	eeb_event_priority INTEGER NOT NULL DEFAULT 10,
	eeb_event_id       INTEGER NOT NULL,
	eeb_event_hash     TEXT NOT NULL DEFAULT '',
	UNIQUE (eeb_user_id, eeb_event_id)
);

CREATE TABLE IF NOT EXISTS echo_target_page (
	etp_user  INTEGER NOT NULL,
	etp_page  INTEGER NOT NULL,
	etp_event INTEGER NOT NULL,
	PRIMARY KEY (etp_user, etp_event, etp_page)
);

CREATE TABLE IF NOT EXISTS echo_user (
	user_id                  INTEGER PRIMARY KEY,
	user_name                TEXT NOT NULL,
	user_email               TEXT NOT NULL DEFAULT '',
	user_language            TEXT NOT NULL DEFAULT 'en',
	user_timezone            TEXT NOT NULL DEFAULT '',
	user_date_format         TEXT NOT NULL DEFAULT 'default',
	user_groups              TEXT NOT NULL DEFAULT '',
	user_email_frequency     INTEGER NOT NULL DEFAULT 0,
	user_email_batch_sent_at DATETIME,
	user_updated_at          DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS echo_user_preference (
	up_user     INTEGER NOT NULL,
	up_property TEXT NOT NULL,
	up_value    TEXT NOT NULL,
	PRIMARY KEY (up_user, up_property)
);

CREATE TABLE IF NOT EXISTS echo_updatelog (
	ul_key TEXT PRIMARY KEY
);

CREATE INDEX IF NOT EXISTS echo_event_type ON echo_event (event_type);
CREATE INDEX IF NOT EXISTS echo_notification_user_base_timestamp
	ON echo_notification (notification_user, notification_bundle_base, notification_timestamp, notification_event);
CREATE INDEX IF NOT EXISTS echo_notification_user_hash_timestamp
	ON echo_notification (notification_user, notification_bundle_hash, notification_timestamp);
CREATE INDEX IF NOT EXISTS echo_notification_user_hash_base_timestamp
	ON echo_notification (notification_user, notification_bundle_display_hash, notification_bundle_base, notification_timestamp);
CREATE INDEX IF NOT EXISTS echo_email_batch_user_hash_priority
	ON echo_email_batch (eeb_user_id, eeb_event_hash, eeb_event_priority);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

// Migrate applies outstanding schema migrations for the db's dialect.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var migrations []migration
	switch db.DriverName() {
	case "postgres":
		migrations = postgresMigrations
	case "sqlite":
		migrations = sqliteMigrations
	default:
		return fmt.Errorf("no migrations for driver %q", db.DriverName())
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	if err := db.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}
