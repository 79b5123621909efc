// Package budget evaluates spending targets against transactions.
//
// All functions are pure. Division by zero never produces NaN: a zero
// target yields zero progress and a zero spend rate yields an infinite
// days-to-zero estimate.
package budget

import (
	"math"
	"time"

	"dompet/internal/core"
)

// ComputeDetail evaluates b against txs as of now. Only expense
// transactions whose category is covered by b count as spend. The caller
// is responsible for passing transactions of the month being evaluated.
func ComputeDetail(b core.Budget, txs []core.Transaction, now time.Time) core.BudgetDetail {
	matched := Matching(b, txs)
	spent := sum(matched)

	d := core.BudgetDetail{
		Budget:       b,
		Transactions: matched,
		Spent:        spent,
		Remaining:    b.TargetAmount - spent,
		Progress:     percent(spent, b.TargetAmount),
	}

	dim := core.DaysInMonth(now)
	day := now.Day()
	d.DaysLeft = dim - day + 1
	d.DaysPassedPercentage = float64(day) / float64(dim) * 100

	dailyRate := float64(spent) / float64(day)
	if dailyRate > 0 {
		d.DaysToZero = math.Floor(float64(d.Remaining) / dailyRate)
	} else {
		d.DaysToZero = math.Inf(1)
	}

	if d.Remaining > 0 && d.DaysLeft > 0 {
		d.SafeDailyLimit = float64(d.Remaining) / float64(d.DaysLeft)
	}
	return d
}

// Overview totals every budget. Spend is summed per budget, so a
// transaction covered by two budgets is counted twice.
func Overview(budgets []core.Budget, txs []core.Transaction) core.BudgetOverview {
	var o core.BudgetOverview
	for _, b := range budgets {
		o.TotalTarget += b.TargetAmount
		o.TotalSpent += sum(Matching(b, txs))
	}
	o.TotalRemaining = o.TotalTarget - o.TotalSpent
	o.PercentUsed = percent(o.TotalSpent, o.TotalTarget)
	return o
}

// Matching returns the expense transactions covered by b, in input order.
func Matching(b core.Budget, txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if tx.Type == core.Expense && b.Covers(tx.Category) {
			out = append(out, tx)
		}
	}
	return out
}

// ReferenceDate picks the day budget math is evaluated at for year/month.
// The current month uses now, past months their last day and future
// months their first day.
func ReferenceDate(year, month int, now time.Time) time.Time {
	start, next := core.MonthRange(year, month)
	switch {
	case now.Before(start):
		return start
	case !now.Before(next):
		return next.AddDate(0, 0, -1)
	default:
		return now
	}
}

func sum(txs []core.Transaction) int64 {
	var total int64
	for _, tx := range txs {
		total += tx.Amount
	}
	return total
}

func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
