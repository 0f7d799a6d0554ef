package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"workforce/internal/apperrors"
	"workforce/internal/models"
	"workforce/internal/repository"
)

// DeriveStatus classifies a date window against now with inclusive bounds:
// the start and end days both count as active. All inputs are compared at
// day precision.
func DeriveStatus(startDate, endDate, now time.Time) models.PeriodStatus {
	start := dateOf(startDate)
	end := dateOf(endDate)
	day := dateOf(now)

	if day.Before(start) {
		return models.PeriodStatusUpcoming
	}
	if day.After(end) {
		return models.PeriodStatusEnded
	}
	return models.PeriodStatusActive
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ScheduleService enforces the temporal and ownership rules around
// assignments and their work-hour entries.
type ScheduleService struct {
	hours repository.WorkHoursRepository
	now   func() time.Time
}

func NewScheduleService(hours repository.WorkHoursRepository) *ScheduleService {
	return &ScheduleService{hours: hours, now: time.Now}
}

// AuthorizeAssignmentAccess allows admins, and the worker who owns the
// assignment, through.
func (s *ScheduleService) AuthorizeAssignmentAccess(actorID string, role models.Role, assignment *models.Assignment) error {
	if role == models.RoleAdmin {
		return nil
	}
	if actorID == assignment.UserID {
		return nil
	}
	return apperrors.Forbidden("")
}

// ValidateHoursEntryDate requires date to fall inside the assignment window,
// both ends inclusive.
func (s *ScheduleService) ValidateHoursEntryDate(assignment *models.Assignment, date time.Time) error {
	day := dateOf(date)
	if day.Before(dateOf(assignment.FromDate)) || day.After(dateOf(assignment.ToDate)) {
		return apperrors.Validation("Date is outside the assignment window")
	}
	return nil
}

// ValidateAssignmentWindow requires the assignment window to sit inside the
// work period window.
func (s *ScheduleService) ValidateAssignmentWindow(period *models.WorkPeriod, fromDate, toDate time.Time) error {
	from := dateOf(fromDate)
	to := dateOf(toDate)
	if to.Before(from) {
		return apperrors.Validation("Assignment end date precedes start date")
	}
	if from.Before(dateOf(period.StartDate)) || to.After(dateOf(period.EndDate)) {
		return apperrors.Validation("Assignment dates fall outside the work period")
	}
	return nil
}

// UpsertHoursEntry creates or updates the hours entry for one assignment day.
// Locked entries reject the write for every role; the editable flag itself is
// never changed here.
func (s *ScheduleService) UpsertHoursEntry(
	ctx context.Context,
	actorID string,
	role models.Role,
	assignment *models.Assignment,
	date time.Time,
	hoursWorked float64,
	note string,
) (*models.WorkHoursEntry, error) {
	if err := s.AuthorizeAssignmentAccess(actorID, role, assignment); err != nil {
		return nil, err
	}
	if err := s.ValidateHoursEntryDate(assignment, date); err != nil {
		return nil, err
	}

	existing, err := s.hours.GetByAssignmentAndDate(ctx, assignment.ID, dateOf(date))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Upstream(err, "")
	}
	if existing != nil && !existing.Editable {
		return nil, apperrors.Locked("This entry has been locked and can no longer be changed")
	}

	entry := &models.WorkHoursEntry{
		ID:               uuid.NewString(),
		UserAssignmentID: assignment.ID,
		Date:             dateOf(date),
		HoursWorked:      hoursWorked,
		Note:             note,
	}
	if err := s.hours.Upsert(ctx, entry); err != nil {
		return nil, apperrors.Upstream(err, "")
	}
	return entry, nil
}

// LockHoursEntry freezes one entry. Admin only.
func (s *ScheduleService) LockHoursEntry(ctx context.Context, role models.Role, assignmentID string, date time.Time) error {
	if role != models.RoleAdmin {
		return apperrors.Forbidden("")
	}
	if err := s.hours.SetEditable(ctx, assignmentID, dateOf(date), false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("work hours entry")
		}
		return apperrors.Upstream(err, "")
	}
	return nil
}

// ListHoursEntries returns the entries for an assignment, optionally bounded.
func (s *ScheduleService) ListHoursEntries(
	ctx context.Context,
	actorID string,
	role models.Role,
	assignment *models.Assignment,
	from *time.Time,
	to *time.Time,
) ([]*models.WorkHoursEntry, error) {
	if err := s.AuthorizeAssignmentAccess(actorID, role, assignment); err != nil {
		return nil, err
	}
	entries, err := s.hours.ListByAssignment(ctx, assignment.ID, from, to)
	if err != nil {
		return nil, apperrors.Upstream(err, "")
	}
	return entries, nil
}
