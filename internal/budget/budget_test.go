package budget

import (
	"math"
	"reflect"
	"testing"
	"time"

	"dompet/internal/core"
)

func tx(amount int64, category string, typ core.TxType, day int) core.Transaction {
	return core.Transaction{
		Amount:      amount,
		Description: category,
		Category:    category,
		Type:        typ,
		Date:        time.Date(2025, 4, day, 12, 0, 0, 0, time.UTC),
		IsNeed:      true,
	}
}

func TestComputeDetail(t *testing.T) {
	now := time.Date(2025, 4, 10, 18, 0, 0, 0, time.UTC) // April has 30 days
	food := core.Budget{ID: "b1", Name: "Makan", TargetAmount: 1_000_000, Categories: []string{"Konsumsi & F&B", "Jajan"}}

	tests := []struct {
		name       string
		budget     core.Budget
		txs        []core.Transaction
		spent      int64
		remaining  int64
		progress   float64
		daysToZero float64
		safeDaily  float64
	}{
		{
			name:   "overspend is not clamped",
			budget: food,
			txs: []core.Transaction{
				tx(700_000, "Konsumsi & F&B", core.Expense, 2),
				tx(500_000, "Jajan", core.Expense, 8),
			},
			spent: 1_200_000, remaining: -200_000, progress: 120,
			daysToZero: math.Floor(-200_000 / 120_000.0), safeDaily: 0,
		},
		{
			name:   "ignores income and other categories",
			budget: food,
			txs: []core.Transaction{
				tx(250_000, "Konsumsi & F&B", core.Expense, 1),
				tx(5_000_000, "Konsumsi & F&B", core.Income, 1),
				tx(90_000, "Transportasi", core.Expense, 3),
			},
			spent: 250_000, remaining: 750_000, progress: 25,
			daysToZero: 30, safeDaily: 750_000.0 / 21,
		},
		{
			name:      "no spend yields infinite runway",
			budget:    food,
			txs:       nil,
			spent:     0,
			remaining: 1_000_000, progress: 0,
			daysToZero: math.Inf(1), safeDaily: 1_000_000.0 / 21,
		},
		{
			name:   "zero target",
			budget: core.Budget{Name: "Kosong", Categories: []string{"Jajan"}},
			txs:    []core.Transaction{tx(10_000, "Jajan", core.Expense, 4)},
			spent:  10_000, remaining: -10_000, progress: 0,
			daysToZero: -10, safeDaily: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ComputeDetail(tt.budget, tt.txs, now)
			if d.Spent != tt.spent {
				t.Errorf("spent: expected %d, got %d", tt.spent, d.Spent)
			}
			if d.Remaining != tt.remaining {
				t.Errorf("remaining: expected %d, got %d", tt.remaining, d.Remaining)
			}
			if d.Progress != tt.progress {
				t.Errorf("progress: expected %v, got %v", tt.progress, d.Progress)
			}
			if d.DaysLeft != 21 {
				t.Errorf("daysLeft: expected 21, got %d", d.DaysLeft)
			}
			if want := 10.0 / 30 * 100; d.DaysPassedPercentage != want {
				t.Errorf("daysPassedPercentage: expected %v, got %v", want, d.DaysPassedPercentage)
			}
			if d.DaysToZero != tt.daysToZero {
				t.Errorf("daysToZero: expected %v, got %v", tt.daysToZero, d.DaysToZero)
			}
			if math.Abs(d.SafeDailyLimit-tt.safeDaily) > 1e-9 {
				t.Errorf("safeDailyLimit: expected %v, got %v", tt.safeDaily, d.SafeDailyLimit)
			}
			if math.IsNaN(d.Progress) || math.IsNaN(d.DaysToZero) || math.IsNaN(d.SafeDailyLimit) {
				t.Errorf("NaN in detail: %+v", d)
			}
		})
	}
}

func TestComputeDetail_LastDayOfMonth(t *testing.T) {
	now := time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)
	b := core.Budget{Name: "Bensin", TargetAmount: 290_000, Categories: []string{"Transportasi"}}
	d := ComputeDetail(b, []core.Transaction{{Amount: 290_000, Category: "Transportasi", Type: core.Expense}}, now)
	if d.DaysLeft != 1 {
		t.Fatalf("expected 1 day left, got %d", d.DaysLeft)
	}
	if d.DaysPassedPercentage != 100 {
		t.Fatalf("expected 100%% of month passed, got %v", d.DaysPassedPercentage)
	}
	if d.DaysToZero != 0 || d.SafeDailyLimit != 0 {
		t.Fatalf("expected exhausted budget, got daysToZero=%v safe=%v", d.DaysToZero, d.SafeDailyLimit)
	}
}

func TestComputeDetail_Idempotent(t *testing.T) {
	now := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	b := core.Budget{Name: "Makan", TargetAmount: 500_000, Categories: []string{"Konsumsi & F&B"}}
	txs := []core.Transaction{tx(120_000, "Konsumsi & F&B", core.Expense, 3)}
	if a, c := ComputeDetail(b, txs, now), ComputeDetail(b, txs, now); !reflect.DeepEqual(a, c) {
		t.Fatalf("expected identical details:\n%+v\n%+v", a, c)
	}
}

func TestOverview(t *testing.T) {
	budgets := []core.Budget{
		{Name: "Makan", TargetAmount: 1_000_000, Categories: []string{"Konsumsi & F&B"}},
		{Name: "Harian", TargetAmount: 500_000, Categories: []string{"Konsumsi & F&B", "Transportasi"}},
	}
	txs := []core.Transaction{
		tx(300_000, "Konsumsi & F&B", core.Expense, 1),
		tx(100_000, "Transportasi", core.Expense, 2),
		tx(9_000_000, "Gaji", core.Income, 1),
	}
	o := Overview(budgets, txs)
	want := core.BudgetOverview{
		TotalTarget:    1_500_000,
		TotalSpent:     700_000, // the food spend is covered by both budgets
		TotalRemaining: 800_000,
		PercentUsed:    700_000.0 / 1_500_000 * 100,
	}
	if o != want {
		t.Fatalf("expected %+v, got %+v", want, o)
	}
}

func TestOverview_Empty(t *testing.T) {
	o := Overview(nil, []core.Transaction{tx(1, "x", core.Expense, 1)})
	if o != (core.BudgetOverview{}) {
		t.Fatalf("expected zero overview, got %+v", o)
	}
}

func TestReferenceDate(t *testing.T) {
	now := time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		year, month int
		want        time.Time
	}{
		{"current month", 2025, 4, now},
		{"past month", 2025, 2, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"future month", 2025, 6, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReferenceDate(tt.year, tt.month, now); !got.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
