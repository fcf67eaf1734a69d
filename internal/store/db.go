package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults and applies the
// schema.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{Client: db}, nil
}

// Migrate applies the schema. Statements are idempotent so startup can run
// this unconditionally.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS admins (
		id        BIGSERIAL PRIMARY KEY,
		name      TEXT NOT NULL,
		email     TEXT NOT NULL UNIQUE,
		password  TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS students (
		id        BIGSERIAL PRIMARY KEY,
		name      TEXT NOT NULL,
		email     TEXT NOT NULL UNIQUE,
		roll_no   TEXT NOT NULL UNIQUE,
		password  TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS lectures (
		id          BIGSERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date_time   TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendances (
		id         BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL REFERENCES students(id),
		lecture_id BIGINT NOT NULL REFERENCES lectures(id),
		present    BOOLEAN NOT NULL,
		UNIQUE (student_id, lecture_id)
	);

	CREATE INDEX IF NOT EXISTS idx_attendances_student ON attendances(student_id);
	CREATE INDEX IF NOT EXISTS idx_attendances_lecture ON attendances(lecture_id);
	CREATE INDEX IF NOT EXISTS idx_lectures_date_time  ON lectures(date_time);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
