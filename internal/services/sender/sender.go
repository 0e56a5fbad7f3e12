// Package sender доставляет приветственные письма, полученные из очереди уведомлений.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/registro/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/lib/smtp"
	"github.com/magabrotheeeer/registro/internal/models"
)

// WelcomeSubject - тема приветственного письма.
const WelcomeSubject = "Welcome to Registro!"

// DefaultFrom используется, если у SMTP-транспорта нет пользователя.
const DefaultFrom = "no-reply@registro.local"

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
    <body>
        <h1>Welcome to Registro!</h1>
        <p>Hi {{if .FirstName}}{{.FirstName}}{{else}}there{{end}}, thank you for registering with us.</p>
        <p>Your account has been created successfully with email: <strong>{{.Email}}</strong></p>
        <p>Best regards,<br>The Registro Team</p>
    </body>
</html>
`))

// SenderService отправляет письма через SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendWelcome разбирает models.WelcomeMessage и отправляет приветственное письмо.
// Неразбираемое сообщение помечается rabbitmq.ErrDiscard.
func (s *SenderService) SendWelcome(ctx context.Context, body []byte) error {
	const op = "sender.SendWelcome"
	log := s.log.With(slog.String("op", op))

	var message models.WelcomeMessage
	if err := json.Unmarshal(body, &message); err != nil {
		log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrDiscard, err)
	}
	if message.Email == "" || strings.ContainsAny(message.Email, "\r\n") {
		log.Error("message has no valid recipient", slog.Int64("account_id", message.AccountID))
		return fmt.Errorf("%s: %w: bad recipient", op, rabbitmq.ErrDiscard)
	}

	html, err := RenderWelcome(message)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrDiscard, err)
	}
	if err := s.sendEmail(ctx, []string{message.Email}, WelcomeSubject, html); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RenderWelcome возвращает HTML приветственного письма.
func RenderWelcome(message models.WelcomeMessage) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, message); err != nil {
		return "", fmt.Errorf("sender.RenderWelcome: %w", err)
	}
	return buf.String(), nil
}

func (s *SenderService) from() string {
	if u := s.transport.GetSMTPUser(); u != "" {
		return u
	}
	return DefaultFrom
}

func (s *SenderService) sendEmail(ctx context.Context, to []string, subject, html string) error {
	from := s.from()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		html,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return errors.Join(err, wc.Close())
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
