package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailClient is the part of the SES client used here.
type EmailClient interface {
	SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer sends transactional email over SES.
type Mailer struct {
	Client       EmailClient
	FromAddress  string
	ResetBaseURL string
}

// SendPasswordReset emails a reset link containing the one-time token.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, token string) error {
	subject := "Password reset"
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Reset your password here: %s?token=%s\n\n"+
			"The link expires in one hour. If you did not request this, "+
			"you can ignore this email.",
		m.ResetBaseURL, token,
	)
	return m.send(ctx, to, subject, body)
}

// SendInvitation notifies a user that they have been invited to a group.
func (m *Mailer) SendInvitation(ctx context.Context, to, groupName string) error {
	subject := fmt.Sprintf("Invitation to join %s", groupName)
	body := fmt.Sprintf(
		"You have been invited to join the group %q.\n\n"+
			"Log in to accept or decline the invitation.",
		groupName,
	)
	return m.send(ctx, to, subject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.FromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := m.Client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
