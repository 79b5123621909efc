// Package worker runs the background consumer of transaction events.
package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"dompet/internal/amqp"
	dlog "dompet/internal/log"
)

// Consumer delivers messages until ctx ends. *amqp.Client implements it.
type Consumer interface {
	Consume(ctx context.Context, handler amqp.Handler) error
}

// AlertWorker feeds transaction.created events to a handler, usually
// services.AlertProcessor.Handle.
type AlertWorker struct {
	consumer Consumer
	handle   amqp.Handler
	logger   *dlog.Logger

	processed atomic.Int64
	failed    atomic.Int64
}

func NewAlertWorker(consumer Consumer, handle amqp.Handler, logger *dlog.Logger) *AlertWorker {
	if logger == nil {
		logger = dlog.Default(dlog.ComponentWorker)
	}
	return &AlertWorker{
		consumer: consumer,
		handle:   handle,
		logger:   logger.WithComponent(dlog.ComponentWorker),
	}
}

// Run consumes until ctx is cancelled. Cancellation is not an error.
func (w *AlertWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Alert worker started", dlog.FieldOperation, dlog.OpStartup)
	err := w.consumer.Consume(ctx, w.handleMessage)
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		w.logger.Info("Alert worker stopped",
			"processed", w.processed.Load(),
			"failed", w.failed.Load())
		return nil
	}
	return err
}

func (w *AlertWorker) handleMessage(ctx context.Context, msg *amqp.TransactionCreated) error {
	start := time.Now()
	ctx = dlog.WithRequestID(ctx, msg.TransactionID)

	if err := w.handle(ctx, msg); err != nil {
		w.failed.Add(1)
		return err
	}
	w.processed.Add(1)
	w.logger.DebugContext(ctx, "Transaction event processed",
		dlog.FieldTxID, msg.TransactionID,
		dlog.FieldOperation, dlog.OpConsume,
		dlog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// Stats returns how many messages were handled and how many failed.
func (w *AlertWorker) Stats() (processed, failed int64) {
	return w.processed.Load(), w.failed.Load()
}
