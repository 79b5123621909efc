// Package services orchestrates storage, messaging and the budget
// calculations behind the HTTP API and the worker.
package services

import (
	"context"
	"fmt"

	"dompet/internal/amqp"
	"dompet/internal/core"
	dlog "dompet/internal/log"
	"dompet/internal/ports"
)

// Publisher announces stored transactions. *amqp.Client implements it.
type Publisher interface {
	PublishTransactionCreated(ctx context.Context, msg *amqp.TransactionCreated) error
}

// TransactionStore is what TransactionService needs from storage.
type TransactionStore interface {
	ports.TransactionWriter
	ports.TransactionLister
	ports.TransactionGetter
}

// TransactionService stores transactions and publishes creation events.
type TransactionService struct {
	store     TransactionStore
	publisher Publisher
	onCreate  []func(core.Transaction)
	logger    *dlog.Logger
}

// NewTransactionService wires a store and an optional publisher.
func NewTransactionService(store TransactionStore, publisher Publisher, logger *dlog.Logger) *TransactionService {
	if logger == nil {
		logger = dlog.Default(dlog.ComponentApp)
	}
	return &TransactionService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// OnCreate registers fn to run after every successful Create, before the
// event is published. Used for cache invalidation.
func (s *TransactionService) OnCreate(fn func(core.Transaction)) {
	s.onCreate = append(s.onCreate, fn)
}

// Create validates and stores tx, then publishes transaction.created. A
// failed publish is logged and does not fail the call: the transaction is
// already stored.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}
	tx.ID = id

	for _, fn := range s.onCreate {
		fn(tx)
	}

	s.logger.InfoContext(ctx, "Transaction created",
		dlog.NewFields().
			WithOperation(dlog.OpCreate).
			WithRequestID(dlog.RequestID(ctx)).
			WithTransaction(id, tx.Amount, tx.Category, tx.SubCategory, string(tx.Type)).
			ToSlice()...)

	if err := s.publish(ctx, id, tx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			dlog.FieldTxID, id,
			dlog.FieldError, err)
	}
	return id, nil
}

func (s *TransactionService) publish(ctx context.Context, id string, tx core.Transaction) error {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP client not available, skipping transaction event", dlog.FieldTxID, id)
		return nil
	}
	return s.publisher.PublishTransactionCreated(ctx, amqp.NewTransactionCreated(id, tx))
}

// List returns the transactions of a month.
func (s *TransactionService) List(ctx context.Context, year, month int) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, year, month)
}

// Get returns one transaction or core.ErrNotFound.
func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}
