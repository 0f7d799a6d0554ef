package services

import (
	"context"
	"errors"
	"fmt"
)

// EmailMessage is one transactional email. HTML and Text are alternative
// bodies; Text is required, HTML optional.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SenderIdentityError marks a send failure caused by the From identity
// (unverified sender, unverified domain, missing permission). Callers may
// retry once with a fallback sender; anything else is terminal.
type SenderIdentityError struct {
	Err error
}

func (e *SenderIdentityError) Error() string {
	return fmt.Sprintf("sender identity rejected: %v", e.Err)
}

func (e *SenderIdentityError) Unwrap() error {
	return e.Err
}

func IsSenderIdentityError(err error) bool {
	var sie *SenderIdentityError
	return errors.As(err, &sie)
}
