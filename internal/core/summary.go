package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// MonthSummary is a compact income/expense breakdown for a year+month.
type MonthSummary struct {
	Year       int              `json:"year"`
	Month      int              `json:"month"` // 1-12
	Income     int64            `json:"income"`
	Expense    int64            `json:"expense"`
	Net        int64            `json:"net"`
	Needs      int64            `json:"needs"`
	Wants      int64            `json:"wants"`
	ByCategory []CategoryAmount `json:"byCategory"`
}

// BudgetDetail is a budget evaluated against a set of transactions at a
// reference date. Progress is not clamped and may exceed 100. DaysToZero
// is +Inf when nothing has been spent yet.
type BudgetDetail struct {
	Budget               Budget        `json:"budget"`
	Transactions         []Transaction `json:"transactions"`
	Spent                int64         `json:"spent"`
	Remaining            int64         `json:"remaining"`
	Progress             float64       `json:"progress"`
	DaysLeft             int           `json:"daysLeft"`
	DaysPassedPercentage float64       `json:"daysPassedPercentage"`
	DaysToZero           float64       `json:"-"`
	SafeDailyLimit       float64       `json:"safeDailyLimit"`
}

// BudgetOverview totals every budget. A transaction covered by several
// budgets contributes to TotalSpent once per budget.
type BudgetOverview struct {
	TotalTarget    int64   `json:"totalTarget"`
	TotalSpent     int64   `json:"totalSpent"`
	TotalRemaining int64   `json:"totalRemaining"`
	PercentUsed    float64 `json:"percentUsed"`
}
