package repository

import (
	"context"
	"database/sql"
	"errors"

	"workforce/internal/interfaces"
	"workforce/internal/models"
)

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) interfaces.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, user_id, work_period_id, from_date, to_date, profession, created_at, updated_at`

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO user_assignments (id, user_id, work_period_id, from_date, to_date, profession)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		assignment.ID, assignment.UserID, assignment.WorkPeriodID,
		assignment.FromDate, assignment.ToDate, assignment.Profession,
	).Scan(&assignment.CreatedAt, &assignment.UpdatedAt)
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM user_assignments WHERE id = $1`

	var a models.Assignment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.WorkPeriodID, &a.FromDate, &a.ToDate,
		&a.Profession, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) ListByUser(ctx context.Context, userID string) ([]*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM user_assignments WHERE user_id = $1 ORDER BY from_date DESC`
	return r.list(ctx, query, userID)
}

func (r *assignmentRepository) ListByWorkPeriod(ctx context.Context, workPeriodID string) ([]*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM user_assignments WHERE work_period_id = $1 ORDER BY from_date`
	return r.list(ctx, query, workPeriodID)
}

func (r *assignmentRepository) list(ctx context.Context, query string, arg any) ([]*models.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.WorkPeriodID, &a.FromDate, &a.ToDate,
			&a.Profession, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}

func (r *assignmentRepository) Update(ctx context.Context, id string, req *models.UpdateAssignmentRequest) (*models.Assignment, error) {
	query := `
		UPDATE user_assignments
		SET from_date = COALESCE($1, from_date),
			to_date = COALESCE($2, to_date),
			profession = COALESCE($3, profession),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING ` + assignmentColumns + `
	`

	var a models.Assignment
	err := r.db.QueryRowContext(ctx, query, req.FromDate, req.ToDate, req.Profession, id).Scan(
		&a.ID, &a.UserID, &a.WorkPeriodID, &a.FromDate, &a.ToDate,
		&a.Profession, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_assignments WHERE id = $1`, id)
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
