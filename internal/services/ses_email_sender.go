package services

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESSender sends mail through Amazon SES. The From address must be a
// verified SES identity.
type SESSender struct {
	Client *ses.Client
}

func NewSESSender(awsConfig aws.Config) *SESSender {
	return &SESSender{Client: ses.NewFromConfig(awsConfig)}
}

func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	body := &types.Body{
		Text: &types.Content{Data: aws.String(msg.Text)},
	}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML)}
	}

	input := &ses.SendEmailInput{
		Source: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body:    body,
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}

	_, err := s.Client.SendEmail(ctx, input)
	if err != nil && isSESIdentityFailure(err) {
		return &SenderIdentityError{Err: err}
	}
	return err
}

func isSESIdentityFailure(err error) bool {
	var rejected *types.MessageRejected
	if errors.As(err, &rejected) {
		return true
	}
	var domainNotVerified *types.MailFromDomainNotVerifiedException
	if errors.As(err, &domainNotVerified) {
		return true
	}
	var missingConfigSet *types.ConfigurationSetDoesNotExistException
	return errors.As(err, &missingConfigSet)
}
