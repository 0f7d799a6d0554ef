package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"workforce/internal/models"
)

func TestPasswordResetMarkUsedClaimsUnusedToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	usedAt := time.Now().UTC()
	mock.ExpectExec(`UPDATE password_reset_tokens\s+SET used = TRUE, used_at = \$1\s+WHERE token = \$2 AND used = FALSE`).
		WithArgs(usedAt, "tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPasswordResetRepository(db)
	claimed, err := repo.MarkUsed(context.Background(), "tok-1", usedAt)
	if err != nil {
		t.Fatalf("MarkUsed: %v", err)
	}
	if !claimed {
		t.Fatalf("expected claim to succeed")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPasswordResetMarkUsedLosesToConcurrentClaim(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	usedAt := time.Now().UTC()
	mock.ExpectExec(`UPDATE password_reset_tokens\s+SET used = TRUE, used_at = \$1\s+WHERE token = \$2 AND used = FALSE`).
		WithArgs(usedAt, "tok-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPasswordResetRepository(db)
	claimed, err := repo.MarkUsed(context.Background(), "tok-1", usedAt)
	if err != nil {
		t.Fatalf("MarkUsed: %v", err)
	}
	if claimed {
		t.Fatalf("expected claim to fail when the row is already used")
	}
}

func TestPasswordResetDeleteIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM password_reset_tokens WHERE token = \$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPasswordResetRepository(db)
	if err := repo.Delete(context.Background(), "gone"); err != nil {
		t.Fatalf("expected deleting an absent token to succeed, got %v", err)
	}
}

func TestPasswordResetGetByToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Now().UTC().Add(-time.Minute)
	mock.ExpectQuery(`SELECT token, email, user_id, used, used_at, created_at\s+FROM password_reset_tokens\s+WHERE token = \$1`).
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"token", "email", "user_id", "used", "used_at", "created_at"}).
			AddRow("tok-1", "a@b.com", "u1", false, nil, created))

	repo := NewPasswordResetRepository(db)
	got, err := repo.GetByToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.Email != "a@b.com" || got.Used || got.UsedAt != nil {
		t.Fatalf("unexpected token row %+v", got)
	}

	mock.ExpectQuery(`SELECT token, email, user_id, used, used_at, created_at\s+FROM password_reset_tokens\s+WHERE token = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"token"}))

	if _, err := repo.GetByToken(context.Background(), "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows got %v", err)
	}
}

func TestPasswordResetCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO password_reset_tokens \(token, email, user_id, used, created_at\)`).
		WithArgs("tok-1", "a@b.com", "u1", created).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	repo := NewPasswordResetRepository(db)
	token := &models.PasswordResetToken{Token: "tok-1", Email: "a@b.com", UserID: "u1", CreatedAt: created}
	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("Create: %v", err)
	}
}
