package http

import (
	"math"
	"time"

	"dompet/internal/core"
	"dompet/internal/services"
)

type smartAddRequest struct {
	Text string `json:"text"`
}

type refineRequest struct {
	Draft       core.Draft `json:"draft"`
	Instruction string     `json:"instruction"`
}

type draftResponse struct {
	core.Draft
	AIEnabled bool `json:"aiEnabled"`
}

type transactionRequest struct {
	Amount      int64       `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	SubCategory string      `json:"subCategory"`
	WalletName  string      `json:"walletName"`
	Date        string      `json:"date"`
	Type        core.TxType `json:"type"`
	IsNeed      bool        `json:"isNeed"`
}

func (req transactionRequest) transaction(now time.Time) (core.Transaction, error) {
	date, err := parseDate(req.Date, now)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Amount:      req.Amount,
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		SubCategory: sanitizeInput(req.SubCategory),
		WalletName:  sanitizeInput(req.WalletName),
		Date:        date,
		Type:        req.Type,
		IsNeed:      req.IsNeed,
	}, nil
}

type createdResponse struct {
	ID          string            `json:"id"`
	Transaction *core.Transaction `json:"transaction,omitempty"`
}

type transactionsResponse struct {
	Year         int                `json:"year"`
	Month        int                `json:"month"`
	Transactions []core.Transaction `json:"transactions"`
}

type budgetRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	TargetAmount int64    `json:"targetAmount"`
	Categories   []string `json:"categories"`
}

func (req budgetRequest) budget() core.Budget {
	b := core.Budget{
		ID:           req.ID,
		Name:         sanitizeInput(req.Name),
		TargetAmount: req.TargetAmount,
	}
	for _, c := range req.Categories {
		if c = sanitizeInput(c); c != "" {
			b.Categories = append(b.Categories, c)
		}
	}
	return b
}

// budgetDetailResponse exposes DaysToZero as null when spending has not
// started, since JSON has no infinity.
type budgetDetailResponse struct {
	core.BudgetDetail
	DaysToZero *float64 `json:"daysToZero"`
}

func newBudgetDetailResponse(d core.BudgetDetail) budgetDetailResponse {
	out := budgetDetailResponse{BudgetDetail: d}
	if !math.IsInf(d.DaysToZero, 0) && !math.IsNaN(d.DaysToZero) {
		v := d.DaysToZero
		out.DaysToZero = &v
	}
	if out.Transactions == nil {
		out.Transactions = []core.Transaction{}
	}
	return out
}

type reportResponse struct {
	Year          int                    `json:"year"`
	Month         int                    `json:"month"`
	ReferenceDate string                 `json:"referenceDate"`
	Overview      core.BudgetOverview    `json:"overview"`
	Details       []budgetDetailResponse `json:"details"`
	Summary       core.MonthSummary      `json:"summary"`
}

func newReportResponse(r services.MonthReport) reportResponse {
	out := reportResponse{
		Year:          r.Year,
		Month:         r.Month,
		ReferenceDate: r.ReferenceDate.Format(time.DateOnly),
		Overview:      r.Overview,
		Details:       make([]budgetDetailResponse, 0, len(r.Details)),
		Summary:       r.Summary,
	}
	for _, d := range r.Details {
		out.Details = append(out.Details, newBudgetDetailResponse(d))
	}
	return out
}
