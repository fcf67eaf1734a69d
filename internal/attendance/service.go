package attendance

import (
	"context"

	"classattend/internal/identity"
	"classattend/internal/lecture"
)

// dateTimeLayout is the display format for lecture timestamps in stats
// responses.
const dateTimeLayout = "2006-01-02 15:04"

// StudentStats summarizes one student's ledger.
type StudentStats struct {
	TotalCount   int64   `json:"total_count"`
	PresentCount int64   `json:"present_count"`
	AbsentCount  int64   `json:"absent_count"`
	Percentage   float64 `json:"percentage"`
}

// LectureStats summarizes one lecture's ledger. TotalStudents counts the
// attendance rows that exist for the lecture, not every registered
// student.
type LectureStats struct {
	LectureID     int64    `json:"lecture_id"`
	Title         string   `json:"title"`
	DateTime      string   `json:"date_time"`
	TotalStudents int64    `json:"total_students"`
	PresentCount  int64    `json:"present_count"`
	AbsentCount   int64    `json:"absent_count"`
	Percentage    float64  `json:"percentage"`
	Details       []Record `json:"details"`
}

// Service coordinates the attendance ledger and its derived statistics.
type Service struct {
	repo     *Repository
	students *identity.StudentService
	lectures *lecture.Service
}

// NewService creates a service backed by a repository and the entity
// services it resolves ids through.
func NewService(repo *Repository, students *identity.StudentService, lectures *lecture.Service) *Service {
	return &Service{repo: repo, students: students, lectures: lectures}
}

// Mark records the present flag for the (student, lecture) pair. Repeated
// calls converge to one row holding the latest flag. Returns the
// denormalized view of the saved row.
func (s *Service) Mark(ctx context.Context, studentID, lectureID int64, present bool) (Record, error) {
	st, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return Record{}, err
	}
	lec, err := s.lectures.FindByID(ctx, lectureID)
	if err != nil {
		return Record{}, err
	}

	id, err := s.repo.Upsert(ctx, st.ID, lec.ID, present)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:           id,
		StudentName:  st.Name,
		RollNo:       st.RollNo,
		LectureTitle: lec.Title,
		Present:      present,
	}, nil
}

// ListForLecture returns the denormalized rows for the lecture.
func (s *Service) ListForLecture(ctx context.Context, lectureID int64) ([]Record, error) {
	if _, err := s.lectures.FindByID(ctx, lectureID); err != nil {
		return nil, err
	}
	return s.repo.ListForLecture(ctx, lectureID)
}

// StudentStats computes the student's attendance percentage. The counts
// come from one snapshot query; absent is derived from total minus
// present.
func (s *Service) StudentStats(ctx context.Context, studentID int64) (StudentStats, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return StudentStats{}, err
	}
	total, present, err := s.repo.CountForStudent(ctx, studentID)
	if err != nil {
		return StudentStats{}, err
	}
	return StudentStats{
		TotalCount:   total,
		PresentCount: present,
		AbsentCount:  total - present,
		Percentage:   percentage(present, total),
	}, nil
}

// LectureStats reduces the lecture's attendance rows into counts and a
// percentage, carrying the full detail list along.
func (s *Service) LectureStats(ctx context.Context, lectureID int64) (LectureStats, error) {
	lec, err := s.lectures.FindByID(ctx, lectureID)
	if err != nil {
		return LectureStats{}, err
	}
	details, err := s.repo.ListForLecture(ctx, lectureID)
	if err != nil {
		return LectureStats{}, err
	}

	var present int64
	for _, rec := range details {
		if rec.Present {
			present++
		}
	}
	total := int64(len(details))
	return LectureStats{
		LectureID:     lec.ID,
		Title:         lec.Title,
		DateTime:      lec.DateTime.Format(dateTimeLayout),
		TotalStudents: total,
		PresentCount:  present,
		AbsentCount:   total - present,
		Percentage:    percentage(present, total),
		Details:       details,
	}, nil
}

// percentage is zero-guarded: an empty ledger reads as 0.0, never a
// division error.
func percentage(present, total int64) float64 {
	if total <= 0 {
		return 0.0
	}
	return float64(present) / float64(total) * 100
}
