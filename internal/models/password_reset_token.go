package models

import "time"

// PasswordResetToken is a single-use credential authorizing one password
// change for the account it was issued to. The token value is the lookup key.
type PasswordResetToken struct {
	Token     string
	Email     string
	UserID    string
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}
