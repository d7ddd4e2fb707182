package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"cafehub/internal/model"
)

// Sender is the synchronous delivery the worker hands each queued mail to.
type Sender interface {
	SendResetCode(ctx context.Context, mail model.ResetMail) error
}

type ResetMailWorker struct {
	conn      *amqp.Connection
	sender    Sender
	queueName string
	log       *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewResetMailWorker(conn *amqp.Connection, sender Sender, queueName string, log *zap.Logger) *ResetMailWorker {
	return &ResetMailWorker{
		conn:      conn,
		sender:    sender,
		queueName: queueName,
		log:       log.Named("reset-mail-worker"),
	}
}

func (w *ResetMailWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	// one unacknowledged mail at a time
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn("delivery channel closed")
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	w.log.Info("started", zap.String("queue", w.queueName))
	return nil
}

// Acknowledger is the subset of amqp.Delivery the handler needs.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *ResetMailWorker) handle(ctx context.Context, d amqp.Delivery) {
	w.process(ctx, d.Body, &d)
}

func (w *ResetMailWorker) process(ctx context.Context, body []byte, ack Acknowledger) {
	var mail model.ResetMail
	if err := json.Unmarshal(body, &mail); err != nil {
		w.log.Error("decode reset mail failed", zap.Error(err))
		_ = ack.Nack(false, false)
		return
	}

	if err := w.sender.SendResetCode(ctx, mail); err != nil {
		w.log.Error("deliver reset mail failed", zap.String("to", mail.To), zap.Error(err))
		_ = ack.Nack(false, false)
		return
	}

	_ = ack.Ack(false)
}

func (w *ResetMailWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
