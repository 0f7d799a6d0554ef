package repository

import (
	"context"
	"database/sql"
	"time"

	"workforce/internal/models"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	// MarkUsed flips used=true only if the token is still unused. Returns
	// false when another consumer won the race or the token is already
	// burned.
	MarkUsed(ctx context.Context, token string, usedAt time.Time) (bool, error)
	// Delete is idempotent: deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (token, email, user_id, used, created_at)
		VALUES ($1, $2, $3, FALSE, $4)
		RETURNING created_at
	`

	return r.db.QueryRowContext(ctx, query,
		token.Token, token.Email, token.UserID, token.CreatedAt,
	).Scan(&token.CreatedAt)
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	query := `
		SELECT token, email, user_id, used, used_at, created_at
		FROM password_reset_tokens
		WHERE token = $1
	`

	var t models.PasswordResetToken
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&t.Token, &t.Email, &t.UserID, &t.Used, &usedAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		t.UsedAt = &usedAt.Time
	}
	return &t, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, token string, usedAt time.Time) (bool, error) {
	query := `
		UPDATE password_reset_tokens
		SET used = TRUE, used_at = $1
		WHERE token = $2 AND used = FALSE
	`

	res, err := r.db.ExecContext(ctx, query, usedAt, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *passwordResetRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE token = $1`, token)
	return err
}
