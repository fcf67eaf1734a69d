// Package testutil opens throwaway SQLite databases for repository and
// service tests. The production queries stick to the subset of SQL that
// Postgres and SQLite share (ordered $n placeholders, ON CONFLICT,
// RETURNING, FILTER), so the tests run without a database server.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE admins (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		name      TEXT NOT NULL,
		email     TEXT NOT NULL UNIQUE,
		password  TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE students (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		name      TEXT NOT NULL,
		email     TEXT NOT NULL UNIQUE,
		roll_no   TEXT NOT NULL UNIQUE,
		password  TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE lectures (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date_time   TIMESTAMP NOT NULL
	);

	CREATE TABLE attendances (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL REFERENCES students(id),
		lecture_id INTEGER NOT NULL REFERENCES lectures(id),
		present    BOOLEAN NOT NULL,
		UNIQUE (student_id, lecture_id)
	);
`

// OpenInMemoryDB opens an in-memory SQLite database and applies the
// schema. Caller cleanup happens via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so the pool's connections all see the same database;
	// one connection keeps the in-memory database alive for the test.
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Ping(); err != nil {
		t.Fatalf("ping test db: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}
