package rabbitmq

import (
	"context"
	"fmt"

	"github.com/streadway/amqp"

	librabbit "github.com/maksym-sk21/hw14WEB/internal/lib/rabbitmq"
	"github.com/maksym-sk21/hw14WEB/internal/models"
)

// ConfirmationNotifier публикует токены подтверждения почты в очередь,
// из которой их забирает процесс-отправитель писем.
type ConfirmationNotifier struct {
	ch *amqp.Channel
}

// NewConfirmationNotifier создает новый экземпляр ConfirmationNotifier.
func NewConfirmationNotifier(ch *amqp.Channel) *ConfirmationNotifier {
	return &ConfirmationNotifier{ch: ch}
}

// SendConfirmation публикует сообщение с токеном подтверждения для email.
func (n *ConfirmationNotifier) SendConfirmation(_ context.Context, email, token string) error {
	const op = "rabbitmq.SendConfirmation"

	msg := models.ConfirmationMessage{
		Email: email,
		Token: token,
	}
	if err := librabbit.PublishMessage(n.ch, Exchange, ConfirmationRoutingKey, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
