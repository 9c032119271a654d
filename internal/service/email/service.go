package email

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"

	"github.com/resend/resend-go/v3"

	"wiki-echo/internal/config"
	"wiki-echo/internal/domain"
	"wiki-echo/internal/service/presentation"
)

var ErrNoAddress = errors.New("user has no email address")

// Sender delivers a prepared message.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Service interface {
	SendNotification(ctx context.Context, user *domain.User, model presentation.Model) error
	SendDigest(ctx context.Context, user *domain.User, items []DigestItem) error
}

type service struct {
	sender    Sender
	config    *config.Config
	formatter *Formatter
}

func NewService(cfg *config.Config, formatter *Formatter) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	return NewServiceWithSender(client.Emails, cfg, formatter)
}

func NewServiceWithSender(sender Sender, cfg *config.Config, formatter *Formatter) Service {
	return &service{
		sender:    sender,
		config:    cfg,
		formatter: formatter,
	}
}

func (s *service) SendNotification(ctx context.Context, user *domain.User, model presentation.Model) error {
	if user.Email == "" {
		return ErrNoAddress
	}
	rendered, err := s.formatter.Format(ctx, model)
	if err != nil {
		return err
	}
	return s.send(ctx, user, rendered)
}

func (s *service) SendDigest(ctx context.Context, user *domain.User, items []DigestItem) error {
	if user.Email == "" {
		return ErrNoAddress
	}
	if len(items) == 0 {
		return nil
	}
	rendered, err := s.formatter.FormatDigest(ctx, user, items)
	if err != nil {
		return err
	}
	return s.send(ctx, user, rendered)
}

func (s *service) send(ctx context.Context, user *domain.User, rendered *Rendered) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.EmailSenderName, s.config.FromEmail),
		To:      []string{user.Email},
		Html:    rendered.Body,
		Subject: rendered.Subject,
	}

	if _, err := s.sender.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.InfoContext(ctx, "email sent", "user_id", user.ID, "subject", rendered.Subject)
	return nil
}
