package identity

import (
	"context"
	"testing"

	"classattend/internal/apperr"
	"classattend/internal/testutil"
)

func newStudentService(t *testing.T, name, defaultImageURL string) *StudentService {
	t.Helper()
	db := testutil.OpenInMemoryDB(t, name)
	return NewStudentService(NewStudentRepo(db), defaultImageURL)
}

func TestStudentService_CreateConflicts(t *testing.T) {
	svc := newStudentService(t, "studentcreate", "")
	ctx := context.Background()

	if _, err := svc.Create(ctx, StudentParams{Name: "Alice", Email: "a@x.com", RollNo: "R1", Password: "pw"}, ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(ctx, StudentParams{Name: "Bob", Email: "a@x.com", RollNo: "R2", Password: "pw"}, "")
	if !apperr.IsConflict(err) {
		t.Fatalf("expected email conflict, got %v", err)
	}

	_, err = svc.Create(ctx, StudentParams{Name: "Bob", Email: "b@x.com", RollNo: "R1", Password: "pw"}, "")
	if !apperr.IsConflict(err) {
		t.Fatalf("expected roll number conflict, got %v", err)
	}
}

func TestStudentService_UpdateUniqueness(t *testing.T) {
	svc := newStudentService(t, "studentupdate", "")
	ctx := context.Background()

	alice, err := svc.Create(ctx, StudentParams{Name: "Alice", Email: "a@x.com", RollNo: "R1", Password: "pw"}, "")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := svc.Create(ctx, StudentParams{Name: "Bob", Email: "b@x.com", RollNo: "R2", Password: "pw"}, ""); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	// Saving a record with its own email and roll number is not a conflict.
	updated, err := svc.Update(ctx, alice.ID, StudentParams{Name: "Alice Q", Email: "a@x.com", RollNo: "R1", Password: "pw2"}, "")
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.Name != "Alice Q" || updated.Password != "pw2" {
		t.Fatalf("fields not updated: %+v", updated)
	}

	// Taking another record's email is.
	_, err = svc.Update(ctx, alice.ID, StudentParams{Name: "Alice", Email: "b@x.com", RollNo: "R1", Password: "pw"}, "")
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict on bob's email, got %v", err)
	}
	_, err = svc.Update(ctx, alice.ID, StudentParams{Name: "Alice", Email: "a@x.com", RollNo: "R2", Password: "pw"}, "")
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict on bob's roll number, got %v", err)
	}

	_, err = svc.Update(ctx, 9999, StudentParams{Name: "X", Email: "x@x.com", RollNo: "R9", Password: "pw"}, "")
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStudentService_ImagePolicy(t *testing.T) {
	const defaultURL = "https://cdn/default.png"
	svc := newStudentService(t, "studentimage", defaultURL)
	ctx := context.Background()

	// No image supplied: the configured default applies.
	st, err := svc.Create(ctx, StudentParams{Name: "Alice", Email: "a@x.com", RollNo: "R1", Password: "pw"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if st.ImageURL != defaultURL {
		t.Fatalf("expected default image, got %q", st.ImageURL)
	}

	// A supplied image wins over the default.
	st2, err := svc.Create(ctx, StudentParams{Name: "Bob", Email: "b@x.com", RollNo: "R2", Password: "pw"}, "https://cdn/real.png")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if st2.ImageURL != "https://cdn/real.png" {
		t.Fatalf("expected real image, got %q", st2.ImageURL)
	}

	// Updating without an image never overwrites an existing one.
	st2, err = svc.Update(ctx, st2.ID, StudentParams{Name: "Bob", Email: "b@x.com", RollNo: "R2", Password: "pw"}, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if st2.ImageURL != "https://cdn/real.png" {
		t.Fatalf("existing image overwritten: %q", st2.ImageURL)
	}

	// Updating with a new image replaces it.
	st2, err = svc.Update(ctx, st2.ID, StudentParams{Name: "Bob", Email: "b@x.com", RollNo: "R2", Password: "pw"}, "https://cdn/new.png")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if st2.ImageURL != "https://cdn/new.png" {
		t.Fatalf("expected replaced image, got %q", st2.ImageURL)
	}

	// No default configured: creates stay imageless.
	plain := newStudentService(t, "studentimagenodefault", "")
	st3, err := plain.Create(ctx, StudentParams{Name: "Cara", Email: "c@x.com", RollNo: "R3", Password: "pw"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if st3.ImageURL != "" {
		t.Fatalf("expected no image, got %q", st3.ImageURL)
	}
}

func TestStudentService_UpdateWritesFieldsAndImageTogether(t *testing.T) {
	svc := newStudentService(t, "studentatomic", "")
	ctx := context.Background()

	alice, err := svc.Create(ctx, StudentParams{Name: "Alice", Email: "a@x.com", RollNo: "R1", Password: "pw"}, "https://cdn/old.png")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, alice.ID, StudentParams{Name: "Alicia", Email: "a@x.com", RollNo: "R1", Password: "pw2"}, "https://cdn/new.png"); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.FindByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "Alicia" || got.Password != "pw2" {
		t.Fatalf("fields not persisted: %+v", got)
	}
	if got.ImageURL != "https://cdn/new.png" {
		t.Fatalf("image not persisted with the same update: %q", got.ImageURL)
	}
}

func TestStudentService_Lookups(t *testing.T) {
	svc := newStudentService(t, "studentlookups", "")
	ctx := context.Background()

	created, err := svc.Create(ctx, StudentParams{Name: "Alice", Email: "a@x.com", RollNo: "R1", Password: "pw"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if st, err := svc.FindByID(ctx, created.ID); err != nil || st.Email != "a@x.com" {
		t.Fatalf("find by id: %v %+v", err, st)
	}
	if st, err := svc.FindByEmail(ctx, "a@x.com"); err != nil || st.ID != created.ID {
		t.Fatalf("find by email: %v %+v", err, st)
	}
	if st, err := svc.FindByRollNo(ctx, "R1"); err != nil || st.ID != created.ID {
		t.Fatalf("find by roll number: %v %+v", err, st)
	}

	if _, err := svc.FindByID(ctx, 9999); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found by id, got %v", err)
	}
	if _, err := svc.FindByEmail(ctx, "missing@x.com"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found by email, got %v", err)
	}
	if _, err := svc.FindByRollNo(ctx, "R9"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found by roll number, got %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
}

func TestStudentService_DeleteCascadesAttendance(t *testing.T) {
	db := testutil.OpenInMemoryDB(t, "studentdelete")
	svc := NewStudentService(NewStudentRepo(db), "")
	ctx := context.Background()

	st, err := svc.Create(ctx, StudentParams{Name: "Alice", Email: "a@x.com", RollNo: "R1", Password: "pw"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO lectures (title, description, date_time) VALUES ('Algebra', '', '2026-01-10 09:00:00')`); err != nil {
		t.Fatalf("insert lecture: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO attendances (student_id, lecture_id, present) VALUES ($1, 1, 1)`, st.ID); err != nil {
		t.Fatalf("insert attendance: %v", err)
	}

	if err := svc.Delete(ctx, st.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM attendances WHERE student_id = $1`, st.ID).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("attendance rows survived the delete: %d", count)
	}

	if err := svc.Delete(ctx, st.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestAdminService_CRUDAndConflicts(t *testing.T) {
	db := testutil.OpenInMemoryDB(t, "admincrud")
	svc := NewAdminService(NewAdminRepo(db), "")
	ctx := context.Background()

	a, err := svc.Create(ctx, AdminParams{Name: "Root", Email: "root@x.com", Password: "pw"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Create(ctx, AdminParams{Name: "Other", Email: "root@x.com", Password: "pw"}, ""); !apperr.IsConflict(err) {
		t.Fatalf("expected email conflict, got %v", err)
	}

	// Self update keeps the email without conflicting.
	if _, err := svc.Update(ctx, a.ID, AdminParams{Name: "Root2", Email: "root@x.com", Password: "pw2"}, ""); err != nil {
		t.Fatalf("self update: %v", err)
	}

	got, err := svc.FindByEmail(ctx, "root@x.com")
	if err != nil || got.Name != "Root2" {
		t.Fatalf("find by email: %v %+v", err, got)
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.FindByID(ctx, a.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	db := testutil.OpenInMemoryDB(t, "authsvc")
	students := NewStudentService(NewStudentRepo(db), "")
	admins := NewAdminService(NewAdminRepo(db), "")
	auth := NewAuthService(admins, students)
	ctx := context.Background()

	admin, err := admins.Create(ctx, AdminParams{Name: "Root", Email: "root@x.com", Password: "secret"}, "")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := students.Create(ctx, StudentParams{Name: "Alice", Email: "a@x.com", RollNo: "R1", Password: "pw"}, ""); err != nil {
		t.Fatalf("create student: %v", err)
	}

	res, err := auth.Authenticate(ctx, "admin", "root@x.com", "secret")
	if err != nil || !res.Success || res.UserType != "admin" || res.ID != admin.ID {
		t.Fatalf("admin login: %v %+v", err, res)
	}

	res, err = auth.Authenticate(ctx, "admin", "root@x.com", "wrong")
	if err != nil || res.Success || res.Message != "Invalid password" {
		t.Fatalf("bad password: %v %+v", err, res)
	}

	res, err = auth.Authenticate(ctx, "student", "a@x.com", "pw")
	if err != nil || !res.Success || res.UserType != "student" {
		t.Fatalf("student login: %v %+v", err, res)
	}

	res, err = auth.Authenticate(ctx, "student", "missing@x.com", "pw")
	if err != nil || res.Success || res.Message != "Student not found" {
		t.Fatalf("missing student: %v %+v", err, res)
	}

	res, err = auth.Authenticate(ctx, "teacher", "a@x.com", "pw")
	if err != nil || res.Success || res.Message != "Invalid user type" {
		t.Fatalf("bad user type: %v %+v", err, res)
	}
}
