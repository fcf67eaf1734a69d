package attendance

import (
	"context"
	"database/sql"
)

// Record is the denormalized view of one attendance row: the saved flag
// plus the display fields of the student and lecture it annotates.
type Record struct {
	ID           int64  `json:"id"`
	StudentName  string `json:"student_name"`
	RollNo       string `json:"roll_no"`
	LectureTitle string `json:"lecture_title"`
	Present      bool   `json:"present"`
}

// Repository persists attendance rows. At most one row exists per
// (student, lecture) pair, enforced by a unique constraint.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the row for the pair or overwrites its present flag in
// place. The single statement rides on the unique constraint, so two
// concurrent marks for the same pair cannot produce two rows.
func (r *Repository) Upsert(ctx context.Context, studentID, lectureID int64, present bool) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO attendances (student_id, lecture_id, present)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, lecture_id) DO UPDATE SET present = excluded.present
		RETURNING id
	`, studentID, lectureID, present).Scan(&id)
	return id, err
}

// ListForLecture returns the denormalized rows for one lecture.
func (r *Repository) ListForLecture(ctx context.Context, lectureID int64) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, s.name, s.roll_no, l.title, a.present
		FROM attendances a
		JOIN students s ON s.id = a.student_id
		JOIN lectures l ON l.id = a.lecture_id
		WHERE a.lecture_id = $1
	`, lectureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StudentName, &rec.RollNo, &rec.LectureTitle, &rec.Present); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountForStudent returns the total and present row counts for a student
// from a single query, so the two numbers always describe one snapshot.
func (r *Repository) CountForStudent(ctx context.Context, studentID int64) (total, present int64, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE present)
		FROM attendances WHERE student_id = $1
	`, studentID).Scan(&total, &present)
	return total, present, err
}

// CountForLecture is the per-lecture counterpart of CountForStudent.
func (r *Repository) CountForLecture(ctx context.Context, lectureID int64) (total, present int64, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE present)
		FROM attendances WHERE lecture_id = $1
	`, lectureID).Scan(&total, &present)
	return total, present, err
}
