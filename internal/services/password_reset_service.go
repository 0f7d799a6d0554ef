package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"workforce/internal/apperrors"
	"workforce/internal/models"
	"workforce/internal/repository"
)

// ResetTokenTTL is how long an issued reset token stays consumable.
const ResetTokenTTL = 30 * time.Minute

// PasswordResetService issues, validates and consumes single-use password
// reset tokens. Tokens move one way: valid, then used, then deleted.
type PasswordResetService struct {
	users  repository.UserRepository
	tokens repository.PasswordResetRepository
	mailer EmailSender

	from         string
	fallbackFrom string
	replyTo      string
	resetBaseURL string

	now func() time.Time
}

func NewPasswordResetService(
	users repository.UserRepository,
	tokens repository.PasswordResetRepository,
	mailer EmailSender,
	from string,
	fallbackFrom string,
	replyTo string,
	resetBaseURL string,
) *PasswordResetService {
	return &PasswordResetService{
		users:        users,
		tokens:       tokens,
		mailer:       mailer,
		from:         from,
		fallbackFrom: fallbackFrom,
		replyTo:      replyTo,
		resetBaseURL: resetBaseURL,
		now:          time.Now,
	}
}

// Issue creates a token for the account behind email and mails the reset
// link. The raw token is returned so development setups can surface it.
func (s *PasswordResetService) Issue(ctx context.Context, email string) (*models.PasswordResetToken, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperrors.NotFound("user")
		}
		return nil, "", apperrors.Upstream(err, "")
	}
	if !u.Active {
		return nil, "", apperrors.Forbidden("Account is deactivated")
	}

	token := &models.PasswordResetToken{
		Token:     uuid.NewString(),
		Email:     u.Email,
		UserID:    u.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, "", apperrors.Upstream(err, "")
	}

	link := strings.TrimRight(s.resetBaseURL, "/") + "/" + token.Token
	if err := s.sendResetEmail(ctx, u.Email, link); err != nil {
		return nil, "", apperrors.Upstream(err, "Failed to send reset email")
	}

	return token, link, nil
}

func (s *PasswordResetService) sendResetEmail(ctx context.Context, to string, link string) error {
	msg := EmailMessage{
		From:    s.from,
		To:      to,
		Subject: "Reset your password",
		Text: "Use the link below to reset your password:\n\n" + link +
			"\n\nThe link expires in 30 minutes. If you did not request a reset, ignore this email.",
		HTML: fmt.Sprintf(
			`<p>Use the link below to reset your password:</p><p><a href=%q>%s</a></p><p>The link expires in 30 minutes.</p>`,
			link, link,
		),
		ReplyTo: s.replyTo,
	}

	err := s.mailer.Send(ctx, msg)
	if err == nil {
		return nil
	}
	if IsSenderIdentityError(err) && s.fallbackFrom != "" {
		log.Warn().Err(err).Str("fallback_from", s.fallbackFrom).
			Msg("Sender identity rejected, retrying with fallback sender")
		msg.From = s.fallbackFrom
		return s.mailer.Send(ctx, msg)
	}
	return err
}

// ValidateForDisplay reports whether the reset form should render for a
// token. Read-only: an expired token is not burned here.
func (s *PasswordResetService) ValidateForDisplay(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	t, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.Upstream(err, "")
	}
	if t.Used {
		return false, nil
	}
	if s.now().UTC().Sub(t.CreatedAt) > ResetTokenTTL {
		return false, nil
	}
	return true, nil
}

// Consume performs the one-way transition out of valid: it claims the token
// with a conditional update, writes the new password for the email stored on
// the token record, then hard-deletes the token. A lost claim race reports
// AlreadyUsed rather than double-applying.
func (s *PasswordResetService) Consume(ctx context.Context, token string, newPassword string) error {
	if token == "" || newPassword == "" {
		return apperrors.Validation("Token and new password are required")
	}

	t, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("reset token")
		}
		return apperrors.Upstream(err, "")
	}
	if t.Used {
		return apperrors.AlreadyUsed("Reset token has already been used")
	}

	now := s.now().UTC()
	if now.Sub(t.CreatedAt) > ResetTokenTTL {
		// Burn it so retries of an expired token fail fast.
		if _, err := s.tokens.MarkUsed(ctx, token, now); err != nil {
			log.Error().Err(err).Msg("Failed to mark expired reset token used")
		}
		return apperrors.Expired("Reset token has expired")
	}

	claimed, err := s.tokens.MarkUsed(ctx, token, now)
	if err != nil {
		return apperrors.Upstream(err, "")
	}
	if !claimed {
		return apperrors.AlreadyUsed("Reset token has already been used")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Upstream(err, "")
	}

	// The stored email is the sole source of identity for the reset; a
	// client-supplied email is never consulted.
	if err := s.users.UpdatePasswordHashByEmail(ctx, t.Email, string(hash)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("user")
		}
		return apperrors.Upstream(err, "")
	}

	// Idempotent cleanup; a token deleted by a concurrent sweep is fine.
	if err := s.tokens.Delete(ctx, token); err != nil {
		log.Warn().Err(err).Msg("Failed to delete consumed reset token")
	}

	return nil
}
