// Package emailsender собирает процесс-отправитель писем подтверждения:
// потребитель очереди RabbitMQ плюс SMTP транспорт.
package emailsender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/maksym-sk21/hw14WEB/internal/config"
	"github.com/maksym-sk21/hw14WEB/internal/lib/smtp"
	"github.com/maksym-sk21/hw14WEB/internal/rabbitmq"
	senderservice "github.com/maksym-sk21/hw14WEB/internal/services/sender"
)

// Не более пяти писем в секунду, чтобы не упираться в лимиты провайдера.
const sendRate = 5

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	limiter := rate.NewLimiter(rate.Every(time.Second/sendRate), sendRate)
	senderService := senderservice.NewSenderService(transport, cfg.PublicBaseURL, limiter, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.ConfirmationQueue, a.senderService.SendConfirmationEmail)
	if err != nil {
		a.logger.Error("failed to start confirmation queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("email sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
