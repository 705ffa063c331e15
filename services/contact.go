package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ContactMessage is what a visitor submits through the contact form
type ContactMessage struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactService relays contact messages to the site owner by email, with an
// optional SMS alert
type ContactService struct {
	mailer   Mailer
	notifier Notifier
	to       []string
	logger   zerolog.Logger
}

// NewContactService returns nil when there is no mailer or no recipient, so
// callers can treat a nil service as "not configured". notifier may be nil.
func NewContactService(mailer Mailer, notifier Notifier, to []string) *ContactService {
	if mailer == nil || len(to) == 0 {
		return nil
	}
	return &ContactService{
		mailer:   mailer,
		notifier: notifier,
		to:       to,
		logger:   log.With().Str("service", "contact").Logger(),
	}
}

func (s *ContactService) Send(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = models.NormalizeEmail(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := models.Validate(msg); err != nil {
		return err
	}

	subject := msg.Subject
	if subject == "" {
		subject = "New message from your portfolio"
	}

	err := s.mailer.Send(ctx, Email{
		To:      s.to,
		ReplyTo: msg.Email,
		Subject: fmt.Sprintf("[Contact] %s", subject),
		HTML:    contactHTML(msg),
		Text:    contactText(msg),
	})
	if err != nil {
		return errs.NewInternalErrorWithCause("Failed to send message", err)
	}
	s.logger.Info().Str("from", msg.Email).Msg("contact message relayed")

	if s.notifier != nil {
		alert := fmt.Sprintf("New contact from %s <%s>: %s", msg.Name, msg.Email, msg.Message)
		if err := s.notifier.Notify(ctx, alert); err != nil {
			s.logger.Warn().Err(err).Msg("contact SMS alert failed")
		}
	}
	return nil
}

func contactText(msg ContactMessage) string {
	return fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s\n", msg.Name, msg.Email, msg.Subject, msg.Message)
}

func contactHTML(msg ContactMessage) string {
	body := strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>")
	return fmt.Sprintf(`
		<h2>New contact message</h2>
		<p><strong>From:</strong> %s &lt;%s&gt;</p>
		<p><strong>Subject:</strong> %s</p>
		<p>%s</p>
	`, html.EscapeString(msg.Name), html.EscapeString(msg.Email), html.EscapeString(msg.Subject), body)
}
