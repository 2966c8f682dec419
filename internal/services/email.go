package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventsearch/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendEventNotice sends the "event matches your filter" email using the "event_notice" template.
func (s *emailService) SendEventNotice(ctx context.Context, data *domain.EventNoticeEmailData) error {
	if data == nil || data.Event == nil {
		return fmt.Errorf("event notice data is incomplete")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_notice", data)
	if err != nil {
		return fmt.Errorf("failed to render event_notice template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send event notice email: %w", err)
	}
	s.logger.InfoContext(ctx, "event notice sent",
		slog.String("to", data.Email),
		slog.Int64("event_id", data.Event.ID),
		slog.String("filter", data.FilterName),
	)
	return nil
}
