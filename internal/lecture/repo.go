package lecture

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Lecture is a scheduled class session. Deleting a lecture removes its
// attendance records.
type Lecture struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DateTime    time.Time `json:"date_time"`
}

// Repo persists lectures.
type Repo struct {
	db *sql.DB
}

// NewRepo creates a repo.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Insert writes a new lecture and fills in the generated id.
func (r *Repo) Insert(ctx context.Context, l *Lecture) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO lectures (title, description, date_time)
		VALUES ($1, $2, $3)
		RETURNING id
	`, l.Title, l.Description, l.DateTime)
	return row.Scan(&l.ID)
}

// Update overwrites the lecture's fields.
func (r *Repo) Update(ctx context.Context, l Lecture) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE lectures SET title = $1, description = $2, date_time = $3 WHERE id = $4
	`, l.Title, l.Description, l.DateTime, l.ID)
	return err
}

// FindByID returns the lecture and whether it exists.
func (r *Repo) FindByID(ctx context.Context, id int64) (Lecture, bool, error) {
	var l Lecture
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, date_time FROM lectures WHERE id = $1
	`, id).Scan(&l.ID, &l.Title, &l.Description, &l.DateTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lecture{}, false, nil
		}
		return Lecture{}, false, err
	}
	return l, true, nil
}

// ListAll returns every lecture, most recent first.
func (r *Repo) ListAll(ctx context.Context) ([]Lecture, error) {
	return r.list(ctx, `
		SELECT id, title, description, date_time FROM lectures ORDER BY date_time DESC
	`)
}

// ListUpcoming returns lectures at or after now, soonest first.
func (r *Repo) ListUpcoming(ctx context.Context, now time.Time) ([]Lecture, error) {
	return r.list(ctx, `
		SELECT id, title, description, date_time FROM lectures
		WHERE date_time >= $1
		ORDER BY date_time ASC
	`, now)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Lecture, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Lecture
	for rows.Next() {
		var l Lecture
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.DateTime); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Delete removes the lecture and its attendance records in one transaction.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendances WHERE lecture_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lectures WHERE id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
