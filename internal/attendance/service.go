package attendance

import (
	"context"
	"fmt"

	"github.com/sojokerto/absensi-bot/internal/metrics"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage"
)

// Service persists roster submissions through the storage port, applying the
// same scope rule the pure engine defines: only entries for (date, class as
// of now) are replaced.
type Service struct {
	store storage.Store
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// SubmitDay validates and persists one roster submission. Students omitted
// from sub (or submitted with an empty status) end up with no entry for that
// date.
func (s *Service) SubmitDay(ctx context.Context, date, classID string, sub map[string]SubmittedStatus, teacherUserID string) ([]models.Attendance, error) {
	if classID == "" {
		return nil, ErrNoClassSelected
	}
	if !models.ValidDate(date) {
		return nil, ErrBadDate
	}

	students, err := s.store.ListStudentsByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	entries := Build(students, sub, date, teacherUserID)
	if err := s.store.ReplaceDayClass(ctx, date, classID, entries); err != nil {
		return nil, fmt.Errorf("replace day %s class %s: %w", date, classID, err)
	}
	metrics.Submissions.Inc()
	return entries, nil
}

// DayForClass loads the already recorded statuses for one date and class,
// used to prefill the roster form on resubmission.
func (s *Service) DayForClass(ctx context.Context, date, classID string) (map[string]SubmittedStatus, error) {
	students, err := s.store.ListStudentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	inClass := make(map[string]bool, len(students))
	for _, st := range students {
		inClass[st.ID] = true
	}

	all, err := s.store.ListAttendance(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]SubmittedStatus)
	for _, a := range all {
		if a.Date == date && inClass[a.StudentID] {
			out[a.StudentID] = SubmittedStatus{Status: a.Status, Note: a.Note}
		}
	}
	return out, nil
}
