package identity

import (
	"context"

	"classattend/internal/apperr"
)

// StudentParams carries the writable student fields for create/update.
type StudentParams struct {
	Name     string
	Email    string
	RollNo   string
	Password string
}

// StudentService enforces uniqueness and the image-attachment policy for
// students.
type StudentService struct {
	repo *StudentRepo
	// defaultImageURL is attached when a record has no image and none is
	// supplied. Empty disables the fallback.
	defaultImageURL string
}

// NewStudentService creates a service backed by a repository.
func NewStudentService(repo *StudentRepo, defaultImageURL string) *StudentService {
	return &StudentService{repo: repo, defaultImageURL: defaultImageURL}
}

// Create registers a student. imageURL is the externally uploaded profile
// image; empty means none was supplied, in which case the configured
// default applies.
func (s *StudentService) Create(ctx context.Context, p StudentParams, imageURL string) (Student, error) {
	if exists, err := s.repo.ExistsByEmail(ctx, p.Email); err != nil {
		return Student{}, err
	} else if exists {
		return Student{}, apperr.Conflictf("student with email %s already exists", p.Email)
	}
	if exists, err := s.repo.ExistsByRollNo(ctx, p.RollNo); err != nil {
		return Student{}, err
	} else if exists {
		return Student{}, apperr.Conflictf("student with roll number %s already exists", p.RollNo)
	}

	if imageURL == "" {
		imageURL = s.defaultImageURL
	}
	st := Student{
		Name:     p.Name,
		Email:    p.Email,
		RollNo:   p.RollNo,
		Password: p.Password,
		ImageURL: imageURL,
	}
	if err := s.repo.Insert(ctx, &st); err != nil {
		return Student{}, err
	}
	return st, nil
}

// Update overwrites a student's fields. Uniqueness is re-checked only for
// fields that actually change, so saving a record with its own email or
// roll number is not a conflict. A non-empty imageURL replaces the stored
// image; otherwise the default fills in only when no image is stored yet.
// Fields and image land in one statement so a failure can't leave half an
// update behind.
func (s *StudentService) Update(ctx context.Context, id int64, p StudentParams, imageURL string) (Student, error) {
	st, err := s.FindByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	if st.Email != p.Email {
		if exists, err := s.repo.ExistsByEmail(ctx, p.Email); err != nil {
			return Student{}, err
		} else if exists {
			return Student{}, apperr.Conflictf("student with email %s already exists", p.Email)
		}
	}
	if st.RollNo != p.RollNo {
		if exists, err := s.repo.ExistsByRollNo(ctx, p.RollNo); err != nil {
			return Student{}, err
		} else if exists {
			return Student{}, apperr.Conflictf("student with roll number %s already exists", p.RollNo)
		}
	}

	st.Name = p.Name
	st.Email = p.Email
	st.RollNo = p.RollNo
	st.Password = p.Password
	switch {
	case imageURL != "":
		st.ImageURL = imageURL
	case st.ImageURL == "" && s.defaultImageURL != "":
		st.ImageURL = s.defaultImageURL
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return Student{}, err
	}
	return st, nil
}

// FindByID returns the student or a NotFound error.
func (s *StudentService) FindByID(ctx context.Context, id int64) (Student, error) {
	st, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if !found {
		return Student{}, apperr.NotFoundf("student not found with id: %d", id)
	}
	return st, nil
}

// FindByEmail returns the student or a NotFound error.
func (s *StudentService) FindByEmail(ctx context.Context, email string) (Student, error) {
	st, found, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Student{}, err
	}
	if !found {
		return Student{}, apperr.NotFoundf("student not found with email: %s", email)
	}
	return st, nil
}

// FindByRollNo returns the student or a NotFound error.
func (s *StudentService) FindByRollNo(ctx context.Context, rollNo string) (Student, error) {
	st, found, err := s.repo.FindByRollNo(ctx, rollNo)
	if err != nil {
		return Student{}, err
	}
	if !found {
		return Student{}, apperr.NotFoundf("student not found with roll number: %s", rollNo)
	}
	return st, nil
}

// List returns all students.
func (s *StudentService) List(ctx context.Context) ([]Student, error) {
	return s.repo.List(ctx)
}

// Delete removes the student and, in the same transaction, its attendance
// records.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AdminParams carries the writable admin fields for create/update.
type AdminParams struct {
	Name     string
	Email    string
	Password string
}

// AdminService enforces uniqueness and the image-attachment policy for
// admins.
type AdminService struct {
	repo            *AdminRepo
	defaultImageURL string
}

// NewAdminService creates a service backed by a repository.
func NewAdminService(repo *AdminRepo, defaultImageURL string) *AdminService {
	return &AdminService{repo: repo, defaultImageURL: defaultImageURL}
}

// Create registers an admin, applying the same image policy as students.
func (s *AdminService) Create(ctx context.Context, p AdminParams, imageURL string) (Admin, error) {
	if exists, err := s.repo.ExistsByEmail(ctx, p.Email); err != nil {
		return Admin{}, err
	} else if exists {
		return Admin{}, apperr.Conflictf("admin with email %s already exists", p.Email)
	}

	if imageURL == "" {
		imageURL = s.defaultImageURL
	}
	a := Admin{
		Name:     p.Name,
		Email:    p.Email,
		Password: p.Password,
		ImageURL: imageURL,
	}
	if err := s.repo.Insert(ctx, &a); err != nil {
		return Admin{}, err
	}
	return a, nil
}

// Update overwrites an admin's fields; the email is re-checked only when it
// changes.
func (s *AdminService) Update(ctx context.Context, id int64, p AdminParams, imageURL string) (Admin, error) {
	a, err := s.FindByID(ctx, id)
	if err != nil {
		return Admin{}, err
	}

	if a.Email != p.Email {
		if exists, err := s.repo.ExistsByEmail(ctx, p.Email); err != nil {
			return Admin{}, err
		} else if exists {
			return Admin{}, apperr.Conflictf("admin with email %s already exists", p.Email)
		}
	}

	a.Name = p.Name
	a.Email = p.Email
	a.Password = p.Password
	switch {
	case imageURL != "":
		a.ImageURL = imageURL
	case a.ImageURL == "" && s.defaultImageURL != "":
		a.ImageURL = s.defaultImageURL
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return Admin{}, err
	}
	return a, nil
}

// FindByID returns the admin or a NotFound error.
func (s *AdminService) FindByID(ctx context.Context, id int64) (Admin, error) {
	a, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Admin{}, err
	}
	if !found {
		return Admin{}, apperr.NotFoundf("admin not found with id: %d", id)
	}
	return a, nil
}

// FindByEmail returns the admin or a NotFound error.
func (s *AdminService) FindByEmail(ctx context.Context, email string) (Admin, error) {
	a, found, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Admin{}, err
	}
	if !found {
		return Admin{}, apperr.NotFoundf("admin not found with email: %s", email)
	}
	return a, nil
}

// List returns all admins.
func (s *AdminService) List(ctx context.Context) ([]Admin, error) {
	return s.repo.List(ctx)
}

// Delete removes the admin.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
