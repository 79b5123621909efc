package budget

import (
	"sort"

	"dompet/internal/core"
)

// Summarize builds the income/expense breakdown for year/month from txs.
// Transactions outside the month are ignored. Categories are ordered by
// descending amount, then by name.
func Summarize(year, month int, txs []core.Transaction) core.MonthSummary {
	start, next := core.MonthRange(year, month)
	s := core.MonthSummary{Year: year, Month: month}
	byCat := make(map[string]int64)

	for _, tx := range txs {
		if tx.Date.Before(start) || !tx.Date.Before(next) {
			continue
		}
		switch tx.Type {
		case core.Income:
			s.Income += tx.Amount
		case core.Expense:
			s.Expense += tx.Amount
			byCat[tx.Category] += tx.Amount
			if tx.IsNeed {
				s.Needs += tx.Amount
			} else {
				s.Wants += tx.Amount
			}
		}
	}
	s.Net = s.Income - s.Expense

	s.ByCategory = make([]core.CategoryAmount, 0, len(byCat))
	for name, amount := range byCat {
		s.ByCategory = append(s.ByCategory, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].Amount != s.ByCategory[j].Amount {
			return s.ByCategory[i].Amount > s.ByCategory[j].Amount
		}
		return s.ByCategory[i].Name < s.ByCategory[j].Name
	})
	return s
}
