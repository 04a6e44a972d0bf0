package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"agencydesk-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendInvitation(ctx context.Context, email, name, setupURL, orgName string) error {
	subject := fmt.Sprintf("You've been invited to %s", orgName)
	plainText := fmt.Sprintf("Hello %s,\n\nYou have been invited to join %s on AgencyDesk.\n\nSet up your account here:\n\n%s\n\nThe link expires in 7 days.", name, orgName, setupURL)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Welcome to %s</h2>
				<p>Hello %s,</p>
				<p>You have been invited to join <strong>%s</strong> on AgencyDesk.</p>
				<p><a href="%s">Set up your account</a> (the link expires in 7 days)</p>
			</body>
		</html>
	`, orgName, name, orgName, setupURL)

	return s.send(email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendAccountNotice(ctx context.Context, email, name, subject, message string) error {
	plainText := fmt.Sprintf("Hello %s,\n\n%s", name, message)
	htmlContent := fmt.Sprintf("<html><body><p>Hello %s,</p><p>%s</p></body></html>", name, message)
	return s.send(email, name, subject, plainText, htmlContent)
}

func (s *emailService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)
	response, err := client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "Send", nil, "to", to)
	return nil
}
