package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"cafehub/internal/model"
)

// ResetMailPublisher moves reset email delivery off the request path by
// enqueueing the mail for the worker.
type ResetMailPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewResetMailPublisher(conn *amqp.Connection, queueName string) *ResetMailPublisher {
	return &ResetMailPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ResetMailPublisher) SendResetCode(ctx context.Context, mail model.ResetMail) error {
	payload, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("marshal reset mail failed: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish reset mail failed: %w", err)
	}
	return nil
}
