package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

const (
	SourceQuick Source = "quick"
	SourceAI    Source = "ai"
)

// Fallback category names assigned by the parser.
const (
	CategoryOther    = "Lain-lain"
	CategoryTransfer = "Transfer"
)

type (
	TxType     string
	Confidence string
	Source     string

	Category struct {
		Name          string   `json:"name"`
		Type          TxType   `json:"type"`
		SubCategories []string `json:"subCategories"`
	}

	// Taxonomy is the ordered list of categories known to the user.
	// Order matters: matching walks expense categories first, in order.
	Taxonomy struct {
		Expense []Category `json:"expense"`
		Income  []Category `json:"income"`
	}

	Wallet struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	Transaction struct {
		ID          string    `json:"id"`
		Amount      int64     `json:"amount"`
		Description string    `json:"description"`
		Category    string    `json:"category"`
		SubCategory string    `json:"subCategory"`
		WalletName  string    `json:"walletName"`
		Date        time.Time `json:"date"`
		Type        TxType    `json:"type"`
		IsNeed      bool      `json:"isNeed"`
	}

	Budget struct {
		ID           string   `json:"id"`
		Name         string   `json:"name"`
		TargetAmount int64    `json:"targetAmount"`
		Categories   []string `json:"categories"`
	}

	// Draft is a proposed transaction produced from free text. It is never
	// persisted as-is; callers confirm it into a Transaction.
	Draft struct {
		Amount      int64      `json:"amount"`
		Description string     `json:"description"`
		Category    string     `json:"category"`
		SubCategory string     `json:"subCategory"`
		WalletName  string     `json:"walletName,omitempty"`
		Date        time.Time  `json:"date"`
		Type        TxType     `json:"type"`
		IsNeed      bool       `json:"isNeed"`
		Confidence  Confidence `json:"confidence"`
		Source      Source     `json:"source"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrUnknownType      = errors.New("unknown transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidBudget    = errors.New("invalid budget")
	ErrNotFound         = errors.New("not found")
)

func (t TxType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrUnknownType
	}
}

func (tx Transaction) Validate() error {
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(tx.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidBudget)
	}
	if b.TargetAmount < 0 {
		return fmt.Errorf("%w: negative target", ErrInvalidBudget)
	}
	if len(b.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidBudget)
	}
	return nil
}

// Covers reports whether category is tracked by the budget. The comparison
// is exact, matching how transactions are stored.
func (b Budget) Covers(category string) bool {
	return slices.Contains(b.Categories, category)
}

// FindCategory looks a category up by name, case-insensitively, in the
// expense list first and then the income list.
func (t Taxonomy) FindCategory(name string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Category{}, false
	}
	for _, c := range t.All() {
		if strings.ToLower(strings.TrimSpace(c.Name)) == key {
			return c, true
		}
	}
	return Category{}, false
}

// All returns expense categories followed by income categories.
func (t Taxonomy) All() []Category {
	out := make([]Category, 0, len(t.Expense)+len(t.Income))
	out = append(out, t.Expense...)
	out = append(out, t.Income...)
	return out
}

// Transaction converts a confirmed draft into a storable transaction.
func (d Draft) Transaction() Transaction {
	return Transaction{
		Amount:      d.Amount,
		Description: d.Description,
		Category:    d.Category,
		SubCategory: d.SubCategory,
		WalletName:  d.WalletName,
		Date:        d.Date,
		Type:        d.Type,
		IsNeed:      d.IsNeed,
	}
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns the first instant of year/month and the first instant
// of the following month, both in UTC.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
