package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"dompet/internal/budget"
	"dompet/internal/cache"
	"dompet/internal/core"
	dlog "dompet/internal/log"
	"dompet/internal/ports"
)

// MonthReport is every budget evaluated for one month.
type MonthReport struct {
	Year          int                 `json:"year"`
	Month         int                 `json:"month"`
	ReferenceDate time.Time           `json:"referenceDate"`
	Overview      core.BudgetOverview `json:"overview"`
	Details       []core.BudgetDetail `json:"details"`
	Summary       core.MonthSummary   `json:"summary"`
}

// BudgetStore is what BudgetService needs from storage.
type BudgetStore interface {
	ports.BudgetLister
	ports.BudgetWriter
	ports.TransactionLister
}

// BudgetService evaluates budgets per month and caches the result.
type BudgetService struct {
	store   BudgetStore
	reports cache.Cache[MonthReport]
	logger  *dlog.Logger
}

// NewBudgetService creates the service. reports may be nil to disable
// caching.
func NewBudgetService(store BudgetStore, reports cache.Cache[MonthReport], logger *dlog.Logger) *BudgetService {
	if logger == nil {
		logger = dlog.Default(dlog.ComponentBudget)
	}
	return &BudgetService{
		store:   store,
		reports: reports,
		logger:  logger.WithComponent(dlog.ComponentBudget),
	}
}

// MonthReport evaluates every budget for year/month as seen at now. Past
// months are evaluated at their last day and future months at their first.
func (s *BudgetService) MonthReport(ctx context.Context, year, month int, now time.Time) (MonthReport, error) {
	if month < 1 || month > 12 {
		return MonthReport{}, fmt.Errorf("invalid month %d", month)
	}
	ref := budget.ReferenceDate(year, month, now)
	key := reportKey(year, month, ref)

	if s.reports != nil {
		if r, ok := s.reports.Get(key); ok {
			return r, nil
		}
	}

	var (
		budgets []core.Budget
		txs     []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("load budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx, year, month)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return MonthReport{}, err
	}

	r := MonthReport{
		Year:          year,
		Month:         month,
		ReferenceDate: ref,
		Overview:      budget.Overview(budgets, txs),
		Details:       make([]core.BudgetDetail, 0, len(budgets)),
		Summary:       budget.Summarize(year, month, txs),
	}
	for _, b := range budgets {
		r.Details = append(r.Details, budget.ComputeDetail(b, txs, ref))
	}

	if s.reports != nil {
		s.reports.Set(key, r)
	}
	s.logger.DebugContext(ctx, "Month report computed",
		dlog.FieldYear, year,
		dlog.FieldMonth, month,
		"budgets", len(budgets),
		"transactions", len(txs))
	return r, nil
}

// Detail returns one budget's detail or core.ErrNotFound.
func (s *BudgetService) Detail(ctx context.Context, id string, year, month int, now time.Time) (core.BudgetDetail, error) {
	r, err := s.MonthReport(ctx, year, month, now)
	if err != nil {
		return core.BudgetDetail{}, err
	}
	for _, d := range r.Details {
		if d.Budget.ID == id {
			return d, nil
		}
	}
	return core.BudgetDetail{}, fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
}

// Covering returns the details of budgets that cover category.
func (s *BudgetService) Covering(ctx context.Context, category string, year, month int, now time.Time) ([]core.BudgetDetail, error) {
	r, err := s.MonthReport(ctx, year, month, now)
	if err != nil {
		return nil, err
	}
	var out []core.BudgetDetail
	for _, d := range r.Details {
		if d.Budget.Covers(category) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Save creates or replaces a budget and drops cached reports.
func (s *BudgetService) Save(ctx context.Context, b core.Budget) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	id, err := s.store.SaveBudget(ctx, b)
	if err != nil {
		return "", fmt.Errorf("save budget: %w", err)
	}
	s.Invalidate()
	s.logger.InfoContext(ctx, "Budget saved",
		dlog.FieldBudgetID, id,
		dlog.FieldBudgetName, b.Name,
		"target", core.FormatRupiah(b.TargetAmount))
	return id, nil
}

// Invalidate drops every cached report.
func (s *BudgetService) Invalidate() {
	if s.reports != nil {
		s.reports.Purge()
	}
}

func reportKey(year, month int, ref time.Time) string {
	return fmt.Sprintf("%04d-%02d@%s", year, month, ref.Format(time.DateOnly))
}
