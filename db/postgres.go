package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

var ErrMissingDatabaseURL = errors.New("database url is not set")

const schema = `
CREATE TABLE IF NOT EXISTS report_run (
	id            UUID PRIMARY KEY,
	path          TEXT NOT NULL,
	product_count INTEGER NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS report_product (
	id            BIGSERIAL PRIMARY KEY,
	report_id     UUID NOT NULL REFERENCES report_run(id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	name          TEXT NOT NULL,
	tagline       TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	url           TEXT NOT NULL DEFAULT '',
	website       TEXT NOT NULL DEFAULT '',
	votes_count   INTEGER NOT NULL DEFAULT 0,
	topics        TEXT[] NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS report_product_report_id_idx ON report_product(report_id);

CREATE TABLE IF NOT EXISTS competitor_analysis (
	id               BIGSERIAL PRIMARY KEY,
	competitor       TEXT NOT NULL,
	news_count       INTEGER NOT NULL,
	analysis         TEXT NOT NULL,
	recent_headlines JSONB NOT NULL DEFAULT '[]',
	model_used       TEXT NOT NULL DEFAULT '',
	analyzed_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS competitor_analysis_lookup_idx ON competitor_analysis(LOWER(competitor), analyzed_at DESC);
`

func Connect(url string) error {
	if url == "" {
		return ErrMissingDatabaseURL
	}

	var err error
	DB, err = sql.Open("postgres", url)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	return DB.Ping()
}

// Migrate creates the report and analysis tables when they are missing.
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("migrate: %w", sql.ErrConnDone)
	}

	if _, err := DB.Exec(schema); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}

	slog.Info("database schema up to date")
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
