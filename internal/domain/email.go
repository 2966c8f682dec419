package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventNoticeEmailData holds data for the "event matches your filter" email.
type EventNoticeEmailData struct {
	Email      string
	FilterName string
	Query      string
	Event      *Event
	SiteName   string
	SiteDomain string
}

// EmailService sends application emails built from templates.
type EmailService interface {
	SendEventNotice(ctx context.Context, data *EventNoticeEmailData) error
}
