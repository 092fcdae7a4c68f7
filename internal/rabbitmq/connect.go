// Package rabbitmq содержит подключение к RabbitMQ и настройку топологии
// очереди писем подтверждения почты: API публикует токены подтверждения,
// отдельный процесс-отправитель доставляет их по SMTP.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const (
	// Exchange — обменник уведомлений приложения.
	Exchange = "notifications"
	// ConfirmationQueue — очередь писем подтверждения почты.
	ConfirmationQueue = "notifications.email_confirmation"
	// ConfirmationRoutingKey — ключ маршрутизации токенов подтверждения.
	ConfirmationRoutingKey = "email_confirmation"
)

// Connect устанавливает соединение с RabbitMQ, повторяя попытки
// с заданной задержкой.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал и объявляет обменник с очередью
// подтверждений. Объявления идемпотентны, поэтому и API, и отправитель
// вызывают SetupChannel независимо.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = ch.QueueDeclare(
		ConfirmationQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.QueueBind(ConfirmationQueue, ConfirmationRoutingKey, Exchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ch, nil
}
