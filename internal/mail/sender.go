package mail

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/akushnir/contactbook-backend/pkg/config"
	"github.com/akushnir/contactbook-backend/pkg/logger"
)

const confirmationSubject = "Confirm your email address"

// Sender delivers transactional mail.
type Sender interface {
	SendConfirmation(ctx context.Context, email, name, host, token string) error
}

// Service sends mail through SendGrid and exposes a fire-and-forget
// dispatch wrapper for use inside request handlers.
type Service struct {
	client sendgridClient
	from   *sgmail.Email
	logg   *logger.Logger
}

type sendgridClient interface {
	Send(email *sgmail.SGMailV3) (*rest.Response, error)
}

// NewService constructs a SendGrid-backed mail service.
func NewService(cfg config.MailConfig, logg *logger.Logger) (*Service, error) {
	if cfg.SendgridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("mail from address is required")
	}
	return &Service{
		client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.From),
		logg:   logg,
	}, nil
}

// SendConfirmation renders the confirmation template and delivers it.
func (s *Service) SendConfirmation(ctx context.Context, email, name, host, token string) error {
	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, confirmationData{
		Name:  name,
		Host:  host,
		Token: token,
	}); err != nil {
		return fmt.Errorf("rendering confirmation mail: %w", err)
	}

	to := sgmail.NewEmail(name, email)
	message := sgmail.NewSingleEmail(s.from, confirmationSubject, to, "", body.String())

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sending confirmation mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected confirmation mail: status %d", resp.StatusCode)
	}
	return nil
}

// Dispatch runs send in the background. The HTTP response never waits for,
// or learns about, mail delivery; failures are logged and swallowed.
func Dispatch(logg *logger.Logger, sender Sender, email, name, host, token string) {
	go func() {
		ctx := context.Background()
		if err := sender.SendConfirmation(ctx, email, name, host, token); err != nil {
			logg.Error(ctx, "confirmation mail failed", err)
		}
	}()
}
