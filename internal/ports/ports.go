// Package ports declares the storage-facing interfaces the services and
// HTTP layer depend on. Memory and SQLite stores implement all of them.
package ports

import (
	"context"

	"dompet/internal/core"
)

// Ports for outbound adapters.
type (
	TaxonomyReader interface {
		Taxonomy(ctx context.Context) (core.Taxonomy, error)
	}

	WalletLister interface {
		ListWallets(ctx context.Context) ([]core.Wallet, error)
	}

	BudgetLister interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
	}

	// BudgetWriter inserts or replaces a budget, returning its ID.
	BudgetWriter interface {
		SaveBudget(ctx context.Context, b core.Budget) (id string, err error)
	}

	TransactionWriter interface {
		// Append stores tx and returns its assigned ID.
		Append(ctx context.Context, tx core.Transaction) (id string, err error)
	}

	// TransactionLister returns the transactions dated within a month.
	TransactionLister interface {
		ListTransactions(ctx context.Context, year int, month int) ([]core.Transaction, error)
	}

	// TransactionGetter returns core.ErrNotFound for unknown IDs.
	TransactionGetter interface {
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	// Store is the full set of operations a backend provides.
	Store interface {
		TaxonomyReader
		WalletLister
		BudgetLister
		BudgetWriter
		TransactionWriter
		TransactionLister
		TransactionGetter
	}
)

// WalletNames extracts wallet names in list order.
func WalletNames(wallets []core.Wallet) []string {
	names := make([]string, 0, len(wallets))
	for _, w := range wallets {
		names = append(names, w.Name)
	}
	return names
}
