package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"workforce/internal/interfaces"
	"workforce/internal/models"
)

type workPeriodRepository struct {
	db *sql.DB
}

func NewWorkPeriodRepository(db *sql.DB) interfaces.WorkPeriodRepository {
	return &workPeriodRepository{db: db}
}

func (r *workPeriodRepository) Create(ctx context.Context, period *models.WorkPeriod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO work_periods (id, name, description, location, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, query,
		period.ID, period.Name, period.Description, period.Location,
		period.StartDate, period.EndDate,
	).Scan(&period.CreatedAt, &period.UpdatedAt)
	if err != nil {
		return err
	}

	if err := replaceRequirements(ctx, tx, period.ID, period.Requirements); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceRequirements(ctx context.Context, tx *sql.Tx, periodID string, reqs []models.StaffingRequirement) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM work_period_requirements WHERE work_period_id = $1`, periodID,
	); err != nil {
		return err
	}
	for _, req := range reqs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO work_period_requirements (work_period_id, profession, count) VALUES ($1, $2, $3)`,
			periodID, req.Profession, req.Count,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *workPeriodRepository) GetByID(ctx context.Context, id string) (*models.WorkPeriod, error) {
	query := `
		SELECT id, name, description, location, start_date, end_date, created_at, updated_at
		FROM work_periods
		WHERE id = $1
	`

	var p models.WorkPeriod
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Location,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	reqs, err := r.loadRequirements(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Requirements = reqs
	return &p, nil
}

func (r *workPeriodRepository) loadRequirements(ctx context.Context, periodID string) ([]models.StaffingRequirement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT profession, count FROM work_period_requirements WHERE work_period_id = $1 ORDER BY profession`,
		periodID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.StaffingRequirement
	for rows.Next() {
		var req models.StaffingRequirement
		if err := rows.Scan(&req.Profession, &req.Count); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *workPeriodRepository) List(ctx context.Context, filter interfaces.WorkPeriodFilter) ([]*models.WorkPeriod, error) {
	query := `
		SELECT id, name, description, location, start_date, end_date, created_at, updated_at
		FROM work_periods
		WHERE 1=1
	`

	var args []interface{}
	argPos := 1

	// start_date and end_date are DATE columns. Comparing them against a
	// full timestamp would drop a period out of active just after midnight
	// on its final day, so the clock is truncated to the day first.
	day := dayOf(filter.Now)

	switch filter.Status {
	case models.PeriodStatusActive:
		query += fmt.Sprintf(" AND start_date <= $%d AND end_date >= $%d", argPos, argPos)
		args = append(args, day)
		argPos++
	case models.PeriodStatusUpcoming:
		query += fmt.Sprintf(" AND start_date > $%d", argPos)
		args = append(args, day)
		argPos++
	case models.PeriodStatusEnded:
		query += fmt.Sprintf(" AND end_date < $%d", argPos)
		args = append(args, day)
		argPos++
	}

	query += " ORDER BY start_date DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*models.WorkPeriod
	for rows.Next() {
		var p models.WorkPeriod
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Location,
			&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		periods = append(periods, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range periods {
		reqs, err := r.loadRequirements(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Requirements = reqs
	}

	return periods, nil
}

func (r *workPeriodRepository) Update(ctx context.Context, id string, req *models.UpdateWorkPeriodRequest) (*models.WorkPeriod, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		UPDATE work_periods
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			location = COALESCE($3, location),
			start_date = COALESCE($4, start_date),
			end_date = COALESCE($5, end_date),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING id, name, description, location, start_date, end_date, created_at, updated_at
	`

	var p models.WorkPeriod
	err = tx.QueryRowContext(ctx, query,
		req.Name, req.Description, req.Location, req.StartDate, req.EndDate, id,
	).Scan(
		&p.ID, &p.Name, &p.Description, &p.Location,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	if req.Requirements != nil {
		if err := replaceRequirements(ctx, tx, id, *req.Requirements); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	reqs, err := r.loadRequirements(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Requirements = reqs
	return &p, nil
}

func (r *workPeriodRepository) Delete(ctx context.Context, id string) error {
	var assignments int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_assignments WHERE work_period_id = $1`, id,
	).Scan(&assignments)
	if err != nil {
		return err
	}
	if assignments > 0 {
		return &interfaces.DeletionBlockedError{
			Resource:   "work_period",
			References: map[string]int64{"user_assignments": assignments},
		}
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM work_periods WHERE id = $1`, id)
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
