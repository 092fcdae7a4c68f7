// Package services содержит логику процесса-отправителя писем:
// разбор сообщений очереди подтверждений и доставку письма со ссылкой
// подтверждения почты по SMTP.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/maksym-sk21/hw14WEB/internal/lib/sl"
	"github.com/maksym-sk21/hw14WEB/internal/lib/smtp"
	"github.com/maksym-sk21/hw14WEB/internal/models"
)

// SenderService отправляет письма подтверждения почты. Исходящие письма
// ограничены по частоте, чтобы не упираться в лимиты SMTP-провайдера.
type SenderService struct {
	transport smtp.TransportInterface
	baseURL   string
	limiter   *rate.Limiter
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
// baseURL — публичный адрес API, из которого собирается ссылка подтверждения.
func NewSenderService(transport smtp.TransportInterface, baseURL string, limiter *rate.Limiter, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		limiter:   limiter,
		log:       log,
	}
}

// SendConfirmationEmail обрабатывает одно сообщение очереди подтверждений:
// разбирает его и отправляет письмо со ссылкой подтверждения.
// Сигнатура совместима с обработчиком потребителя RabbitMQ.
func (s *SenderService) SendConfirmationEmail(body []byte) error {
	const op = "services.sender.SendConfirmationEmail"

	var message models.ConfirmationMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}

	if err := s.limiter.Wait(context.Background()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	confirmLink := fmt.Sprintf("%s/api/v1/auth/confirmed_email/%s", s.baseURL, message.Token)
	subject := "Подтверждение почты"
	bodyText := fmt.Sprintf("Здравствуйте!\n\nДля подтверждения почты перейдите по ссылке:\n%s\n\nЕсли вы не регистрировались, проигнорируйте это письмо.",
		confirmLink)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", s.transport.GetSMTPUser()),
		fmt.Sprintf("To: %s", message.Email),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			s.log.Debug("failed to close SMTP client", sl.Err(closeErr))
		}
	}()

	if err = client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set mail sender", sl.Err(err))
		return fmt.Errorf("%s: failed to set mail sender: %w", op, err)
	}
	if err = client.Rcpt(message.Email); err != nil {
		s.log.Error("failed to set recipient", sl.Err(err))
		return fmt.Errorf("%s: failed to set recipient %s: %w", op, message.Email, err)
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get write closer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write message", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close write closer", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("confirmation email sent", slog.String("to", message.Email))
	return nil
}
