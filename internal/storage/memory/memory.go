// Package memory is an in-process store seeded from text files. It backs
// development setups and tests.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dompet/internal/core"
)

type Store struct {
	mu      sync.RWMutex
	tax     core.Taxonomy
	wallets []core.Wallet
	budgets []core.Budget
	items   []core.Transaction
}

func New(tax core.Taxonomy, wallets []core.Wallet, budgets []core.Budget) *Store {
	return &Store{tax: tax, wallets: wallets, budgets: budgets}
}

// NewFromFiles seeds the store from base. Each file holds one entry per
// line; blank lines and lines starting with # are skipped.
//
//	seed_expense_categories.txt  Name: Sub, Sub
//	seed_income_categories.txt   Name: Sub, Sub
//	seed_wallets.txt             Name
//	seed_budgets.txt             Name | Target | Category, Category
//
// Missing or empty files fall back to built-in defaults.
func NewFromFiles(base string) *Store {
	tax := core.Taxonomy{
		Expense: parseCategories(readLines(filepath.Join(base, "seed_expense_categories.txt")), core.Expense),
		Income:  parseCategories(readLines(filepath.Join(base, "seed_income_categories.txt")), core.Income),
	}
	if len(tax.Expense) == 0 && len(tax.Income) == 0 {
		tax = DefaultTaxonomy()
	}

	var wallets []core.Wallet
	for _, name := range readLines(filepath.Join(base, "seed_wallets.txt")) {
		wallets = append(wallets, core.Wallet{ID: uuid.NewString(), Name: name})
	}
	if len(wallets) == 0 {
		wallets = DefaultWallets()
	}

	budgets := parseBudgets(readLines(filepath.Join(base, "seed_budgets.txt")))
	if len(budgets) == 0 {
		budgets = DefaultBudgets()
	}
	return New(tax, wallets, budgets)
}

func (s *Store) Taxonomy(_ context.Context) (core.Taxonomy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Taxonomy{
		Expense: cloneCategories(s.tax.Expense),
		Income:  cloneCategories(s.tax.Income),
	}, nil
}

func (s *Store) ListWallets(_ context.Context) ([]core.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.wallets), nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Budget, len(s.budgets))
	for i, b := range s.budgets {
		b.Categories = slices.Clone(b.Categories)
		out[i] = b
	}
	return out, nil
}

// SaveBudget replaces the budget with the same ID or appends a new one.
func (s *Store) SaveBudget(_ context.Context, b core.Budget) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Categories = slices.Clone(b.Categories)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == b.ID {
			s.budgets[i] = b
			return b.ID, nil
		}
	}
	s.budgets = append(s.budgets, b)
	return b.ID, nil
}

// Append validates and stores tx, assigning a UUID when it has no ID.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return tx.ID, nil
}

// ListTransactions returns the month's transactions ordered by date.
func (s *Store) ListTransactions(_ context.Context, year int, month int) ([]core.Transaction, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	start, next := core.MonthRange(year, month)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, 0)
	for _, tx := range s.items {
		if !tx.Date.Before(start) && tx.Date.Before(next) {
			out = append(out, tx)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tx := range s.items {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
}

func parseCategories(lines []string, typ core.TxType) []core.Category {
	var out []core.Category
	seen := map[string]struct{}{}
	for _, line := range lines {
		name, subs, _ := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; dup || name == "" {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, core.Category{Name: name, Type: typ, SubCategories: splitList(subs)})
	}
	return out
}

func parseBudgets(lines []string) []core.Budget {
	var out []core.Budget
	for _, line := range lines {
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			continue
		}
		target, err := core.ParseAmount(parts[1], "")
		if err != nil {
			continue
		}
		b := core.Budget{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(parts[0]),
			TargetAmount: target,
			Categories:   splitList(parts[2]),
		}
		if b.Validate() != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

func splitList(s string) []string {
	return dedupe(strings.Split(s, ","))
}

func cloneCategories(in []core.Category) []core.Category {
	out := make([]core.Category, len(in))
	for i, c := range in {
		c.SubCategories = slices.Clone(c.SubCategories)
		out[i] = c
	}
	return out
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe trims, drops empties and keeps the first occurrence of each value.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
