package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workforce/internal/models"
)

type WorkHoursRepository interface {
	GetByAssignmentAndDate(ctx context.Context, assignmentID string, date time.Time) (*models.WorkHoursEntry, error)
	// Upsert inserts or updates the entry for (assignmentID, date) in one
	// statement. The editable flag is never touched here.
	Upsert(ctx context.Context, entry *models.WorkHoursEntry) error
	ListByAssignment(ctx context.Context, assignmentID string, from *time.Time, to *time.Time) ([]*models.WorkHoursEntry, error)
	SetEditable(ctx context.Context, assignmentID string, date time.Time, editable bool) error
}

type workHoursRepository struct {
	db *sql.DB
}

func NewWorkHoursRepository(db *sql.DB) WorkHoursRepository {
	return &workHoursRepository{db: db}
}

const workHoursColumns = `id, user_assignment_id, work_date, hours_worked, note, editable, created_at, updated_at`

func scanWorkHours(scan func(dest ...any) error) (*models.WorkHoursEntry, error) {
	var e models.WorkHoursEntry
	err := scan(
		&e.ID, &e.UserAssignmentID, &e.Date, &e.HoursWorked,
		&e.Note, &e.Editable, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *workHoursRepository) GetByAssignmentAndDate(ctx context.Context, assignmentID string, date time.Time) (*models.WorkHoursEntry, error) {
	query := `SELECT ` + workHoursColumns + ` FROM work_hours_entries WHERE user_assignment_id = $1 AND work_date = $2`

	row := r.db.QueryRowContext(ctx, query, assignmentID, date)
	entry, err := scanWorkHours(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return entry, nil
}

func (r *workHoursRepository) Upsert(ctx context.Context, entry *models.WorkHoursEntry) error {
	query := `
		INSERT INTO work_hours_entries (id, user_assignment_id, work_date, hours_worked, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_assignment_id, work_date) DO UPDATE SET
			hours_worked = EXCLUDED.hours_worked,
			note = EXCLUDED.note,
			updated_at = CURRENT_TIMESTAMP
		RETURNING ` + workHoursColumns + `
	`

	row := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.UserAssignmentID, entry.Date, entry.HoursWorked, entry.Note,
	)
	persisted, err := scanWorkHours(row.Scan)
	if err != nil {
		return err
	}
	*entry = *persisted
	return nil
}

func (r *workHoursRepository) ListByAssignment(ctx context.Context, assignmentID string, from *time.Time, to *time.Time) ([]*models.WorkHoursEntry, error) {
	query := `SELECT ` + workHoursColumns + ` FROM work_hours_entries WHERE user_assignment_id = $1`
	args := []any{assignmentID}
	argPos := 2

	if from != nil {
		query += ` AND work_date >= $2`
		args = append(args, *from)
		argPos++
	}
	if to != nil {
		if argPos == 3 {
			query += ` AND work_date <= $3`
		} else {
			query += ` AND work_date <= $2`
		}
		args = append(args, *to)
	}
	query += ` ORDER BY work_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.WorkHoursEntry
	for rows.Next() {
		entry, err := scanWorkHours(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *workHoursRepository) SetEditable(ctx context.Context, assignmentID string, date time.Time, editable bool) error {
	query := `
		UPDATE work_hours_entries
		SET editable = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_assignment_id = $2 AND work_date = $3
	`

	res, err := r.db.ExecContext(ctx, query, editable, assignmentID, date)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
