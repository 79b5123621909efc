package worker

import (
	"context"
	"errors"
	"testing"

	"dompet/internal/amqp"
	dlog "dompet/internal/log"
)

type fakeConsumer struct {
	msgs []*amqp.TransactionCreated
	errs []error
	end  error
}

func (f *fakeConsumer) Consume(ctx context.Context, handler amqp.Handler) error {
	for _, m := range f.msgs {
		f.errs = append(f.errs, handler(ctx, m))
	}
	return f.end
}

func TestAlertWorker_Run(t *testing.T) {
	msgs := []*amqp.TransactionCreated{
		{Type: amqp.EventTransactionCreated, TransactionID: "ok-1", Month: 3},
		{Type: amqp.EventTransactionCreated, TransactionID: "bad", Month: 3},
		{Type: amqp.EventTransactionCreated, TransactionID: "ok-2", Month: 3},
	}
	boom := errors.New("sheets down")

	var seenIDs []string
	handler := func(ctx context.Context, m *amqp.TransactionCreated) error {
		seenIDs = append(seenIDs, dlog.RequestID(ctx))
		if m.TransactionID == "bad" {
			return boom
		}
		return nil
	}

	tests := []struct {
		name    string
		end     error
		cancel  bool
		wantErr bool
	}{
		{"consumer error is returned", errors.New("access refused"), false, true},
		{"cancellation is clean", context.Canceled, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenIDs = nil
			consumer := &fakeConsumer{msgs: msgs, end: tt.end}
			w := NewAlertWorker(consumer, handler, nil)

			ctx, cancel := context.WithCancel(context.Background())
			if tt.cancel {
				cancel()
			} else {
				defer cancel()
			}

			err := w.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			processed, failed := w.Stats()
			if processed != 2 || failed != 1 {
				t.Errorf("Stats() = %d, %d; want 2, 1", processed, failed)
			}
			if !errors.Is(consumer.errs[1], boom) {
				t.Errorf("handler error not propagated to consumer: %v", consumer.errs)
			}
			if len(seenIDs) != 3 || seenIDs[0] != "ok-1" {
				t.Errorf("handler contexts carried %v", seenIDs)
			}
		})
	}
}
