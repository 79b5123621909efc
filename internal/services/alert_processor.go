package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dompet/internal/amqp"
	"dompet/internal/core"
	dlog "dompet/internal/log"
	"dompet/internal/ports"
)

// AlertLevel grades how far a budget has progressed.
type AlertLevel string

const (
	AlertThreshold AlertLevel = "threshold"
	AlertOverspent AlertLevel = "overspent"
)

// Alert is raised for a budget whose progress crossed the threshold.
type Alert struct {
	Level      AlertLevel
	BudgetID   string
	BudgetName string
	Progress   float64
	Remaining  int64
}

// Exporter copies stored transactions elsewhere, e.g. a spreadsheet.
type Exporter interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) error
}

// AlertProcessorConfig holds configuration for the alert processor.
type AlertProcessorConfig struct {
	// Threshold is the progress percentage at which an alert is raised.
	Threshold float64
	// Now supplies the evaluation instant. Defaults to time.Now.
	Now func() time.Time
}

// AlertProcessor handles transaction.created events: it re-evaluates the
// budgets covering the new transaction and optionally exports it.
type AlertProcessor struct {
	txs      ports.TransactionGetter
	budgets  *BudgetService
	exporter Exporter
	config   AlertProcessorConfig
	logger   *dlog.Logger
}

func NewAlertProcessor(txs ports.TransactionGetter, budgets *BudgetService, exporter Exporter, config AlertProcessorConfig, logger *dlog.Logger) *AlertProcessor {
	if config.Threshold <= 0 {
		config.Threshold = 80
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if logger == nil {
		logger = dlog.Default(dlog.ComponentWorker)
	}
	return &AlertProcessor{
		txs:      txs,
		budgets:  budgets,
		exporter: exporter,
		config:   config,
		logger:   logger.WithComponent(dlog.ComponentWorker),
	}
}

// Handle processes one event. It matches amqp.Handler. Unknown
// transactions are skipped rather than retried.
func (p *AlertProcessor) Handle(ctx context.Context, msg *amqp.TransactionCreated) error {
	_, err := p.Process(ctx, msg)
	return err
}

// Process is Handle returning the alerts raised.
func (p *AlertProcessor) Process(ctx context.Context, msg *amqp.TransactionCreated) ([]Alert, error) {
	tx, err := p.txs.GetTransaction(ctx, msg.TransactionID)
	if errors.Is(err, core.ErrNotFound) {
		p.logger.WarnContext(ctx, "Transaction from event not found, skipping", dlog.FieldTxID, msg.TransactionID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction %s: %w", msg.TransactionID, err)
	}

	var alerts []Alert
	if tx.Type == core.Expense {
		// Reports cached before this transaction was stored are stale.
		p.budgets.Invalidate()
		details, err := p.budgets.Covering(ctx, tx.Category, tx.Date.Year(), int(tx.Date.Month()), p.config.Now())
		if err != nil {
			return nil, fmt.Errorf("evaluate budgets: %w", err)
		}
		alerts = p.evaluate(details)
		for _, a := range alerts {
			p.log(ctx, tx, a)
		}
	}

	if p.exporter != nil {
		if err := p.exporter.AppendTransaction(ctx, tx); err != nil {
			return alerts, fmt.Errorf("export transaction %s: %w", tx.ID, err)
		}
		p.logger.InfoContext(ctx, "Transaction exported", dlog.FieldTxID, tx.ID, dlog.FieldOperation, dlog.OpExport)
	}
	return alerts, nil
}

func (p *AlertProcessor) evaluate(details []core.BudgetDetail) []Alert {
	var alerts []Alert
	for _, d := range details {
		var level AlertLevel
		switch {
		case d.Progress >= 100:
			level = AlertOverspent
		case d.Progress >= p.config.Threshold:
			level = AlertThreshold
		default:
			continue
		}
		alerts = append(alerts, Alert{
			Level:      level,
			BudgetID:   d.Budget.ID,
			BudgetName: d.Budget.Name,
			Progress:   d.Progress,
			Remaining:  d.Remaining,
		})
	}
	return alerts
}

func (p *AlertProcessor) log(ctx context.Context, tx core.Transaction, a Alert) {
	level, msg := slog.LevelInfo, "Budget threshold reached"
	if a.Level == AlertOverspent {
		level, msg = slog.LevelWarn, "Budget overspent"
	}
	p.logger.Log(ctx, level, msg,
		dlog.FieldBudgetID, a.BudgetID,
		dlog.FieldBudgetName, a.BudgetName,
		dlog.FieldProgress, fmt.Sprintf("%.1f", a.Progress),
		"remaining", core.FormatRupiah(a.Remaining),
		dlog.FieldTxID, tx.ID,
		dlog.FieldCategory, tx.Category)
}
