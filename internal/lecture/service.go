package lecture

import (
	"context"
	"time"

	"classattend/internal/apperr"
)

// Params carries the writable lecture fields for create/update.
type Params struct {
	Title       string
	Description string
	DateTime    time.Time
}

// Service manages the lecture catalog. Lecture fields carry no uniqueness
// constraints.
type Service struct {
	repo *Repo
}

// NewService creates a service backed by a repository.
func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// Create schedules a lecture.
func (s *Service) Create(ctx context.Context, p Params) (Lecture, error) {
	l := Lecture{Title: p.Title, Description: p.Description, DateTime: p.DateTime}
	if err := s.repo.Insert(ctx, &l); err != nil {
		return Lecture{}, err
	}
	return l, nil
}

// Update overwrites a lecture's fields.
func (s *Service) Update(ctx context.Context, id int64, p Params) (Lecture, error) {
	l, err := s.FindByID(ctx, id)
	if err != nil {
		return Lecture{}, err
	}
	l.Title = p.Title
	l.Description = p.Description
	l.DateTime = p.DateTime
	if err := s.repo.Update(ctx, l); err != nil {
		return Lecture{}, err
	}
	return l, nil
}

// FindByID returns the lecture or a NotFound error.
func (s *Service) FindByID(ctx context.Context, id int64) (Lecture, error) {
	l, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Lecture{}, err
	}
	if !found {
		return Lecture{}, apperr.NotFoundf("lecture not found with id: %d", id)
	}
	return l, nil
}

// ListAll returns every lecture, most recent first.
func (s *Service) ListAll(ctx context.Context) ([]Lecture, error) {
	return s.repo.ListAll(ctx)
}

// ListUpcoming returns lectures at or after now, soonest first.
func (s *Service) ListUpcoming(ctx context.Context, now time.Time) ([]Lecture, error) {
	return s.repo.ListUpcoming(ctx, now)
}

// Delete removes the lecture and, in the same transaction, its attendance
// records.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
