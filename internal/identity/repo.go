package identity

import (
	"context"
	"database/sql"
	"errors"
)

// StudentRepo persists students.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo creates a repo.
func NewStudentRepo(db *sql.DB) *StudentRepo {
	return &StudentRepo{db: db}
}

// Insert writes a new student and fills in the generated id.
func (r *StudentRepo) Insert(ctx context.Context, st *Student) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (name, email, roll_no, password, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, st.Name, st.Email, st.RollNo, st.Password, st.ImageURL)
	return row.Scan(&st.ID)
}

// Update overwrites all mutable fields, image included, in one statement.
func (r *StudentRepo) Update(ctx context.Context, st Student) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE students SET name = $1, email = $2, roll_no = $3, password = $4, image_url = $5
		WHERE id = $6
	`, st.Name, st.Email, st.RollNo, st.Password, st.ImageURL, st.ID)
	return err
}

func (r *StudentRepo) scanOne(row *sql.Row) (Student, bool, error) {
	var st Student
	if err := row.Scan(&st.ID, &st.Name, &st.Email, &st.RollNo, &st.Password, &st.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, false, nil
		}
		return Student{}, false, err
	}
	return st, true, nil
}

// FindByID returns the student and whether it exists.
func (r *StudentRepo) FindByID(ctx context.Context, id int64) (Student, bool, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, roll_no, password, image_url FROM students WHERE id = $1
	`, id))
}

// FindByEmail returns the student and whether it exists.
func (r *StudentRepo) FindByEmail(ctx context.Context, email string) (Student, bool, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, roll_no, password, image_url FROM students WHERE email = $1
	`, email))
}

// FindByRollNo returns the student and whether it exists.
func (r *StudentRepo) FindByRollNo(ctx context.Context, rollNo string) (Student, bool, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, roll_no, password, image_url FROM students WHERE roll_no = $1
	`, rollNo))
}

// ExistsByEmail reports whether any student uses the email.
func (r *StudentRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// ExistsByRollNo reports whether any student uses the roll number.
func (r *StudentRepo) ExistsByRollNo(ctx context.Context, rollNo string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE roll_no = $1)`, rollNo).Scan(&exists)
	return exists, err
}

// List returns all students ordered by id.
func (r *StudentRepo) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, roll_no, password, image_url FROM students ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.RollNo, &st.Password, &st.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Delete removes the student and its attendance records in one
// transaction. The attendance rows go first so the foreign keys never
// dangle mid-delete.
func (r *StudentRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendances WHERE student_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// AdminRepo persists admins.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo creates a repo.
func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// Insert writes a new admin and fills in the generated id.
func (r *AdminRepo) Insert(ctx context.Context, a *Admin) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO admins (name, email, password, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, a.Name, a.Email, a.Password, a.ImageURL)
	return row.Scan(&a.ID)
}

// Update overwrites all mutable fields, image included, in one statement.
func (r *AdminRepo) Update(ctx context.Context, a Admin) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admins SET name = $1, email = $2, password = $3, image_url = $4 WHERE id = $5
	`, a.Name, a.Email, a.Password, a.ImageURL, a.ID)
	return err
}

func (r *AdminRepo) scanOne(row *sql.Row) (Admin, bool, error) {
	var a Admin
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Password, &a.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Admin{}, false, nil
		}
		return Admin{}, false, err
	}
	return a, true, nil
}

// FindByID returns the admin and whether it exists.
func (r *AdminRepo) FindByID(ctx context.Context, id int64) (Admin, bool, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, image_url FROM admins WHERE id = $1
	`, id))
}

// FindByEmail returns the admin and whether it exists.
func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (Admin, bool, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, image_url FROM admins WHERE email = $1
	`, email))
}

// ExistsByEmail reports whether any admin uses the email.
func (r *AdminRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// List returns all admins ordered by id.
func (r *AdminRepo) List(ctx context.Context) ([]Admin, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, password, image_url FROM admins ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Admin
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Password, &a.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes the admin. Admins own no attendance rows, so there is
// nothing to cascade.
func (r *AdminRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	return err
}
