package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"dompet/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Taxonomy implements ports.TaxonomyReader
func (r *SQLiteRepository) Taxonomy(ctx context.Context) (core.Taxonomy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.type, COALESCE(s.name, '')
		FROM categories c
		LEFT JOIN sub_categories s ON s.category_id = c.id
		ORDER BY c.type, c.position, c.id, s.position, s.id`)
	if err != nil {
		return core.Taxonomy{}, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var (
		tax    core.Taxonomy
		lastID int64 = -1
		cur    *core.Category
	)
	flush := func() {
		if cur == nil {
			return
		}
		if cur.Type == core.Income {
			tax.Income = append(tax.Income, *cur)
		} else {
			tax.Expense = append(tax.Expense, *cur)
		}
	}
	for rows.Next() {
		var (
			id        int64
			name, typ string
			sub       string
		)
		if err := rows.Scan(&id, &name, &typ, &sub); err != nil {
			return core.Taxonomy{}, fmt.Errorf("scan category: %w", err)
		}
		if id != lastID {
			flush()
			cur = &core.Category{Name: name, Type: core.TxType(typ)}
			lastID = id
		}
		if sub != "" {
			cur.SubCategories = append(cur.SubCategories, sub)
		}
	}
	if err := rows.Err(); err != nil {
		return core.Taxonomy{}, fmt.Errorf("iterate categories: %w", err)
	}
	flush()
	return tax, nil
}

// ListWallets implements ports.WalletLister
func (r *SQLiteRepository) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM wallets ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []core.Wallet
	for rows.Next() {
		var w core.Wallet
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// ListBudgets implements ports.BudgetLister
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.target_amount, COALESCE(bc.category, '')
		FROM budgets b
		LEFT JOIN budget_categories bc ON bc.budget_id = b.id
		ORDER BY b.position, b.id, bc.position`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var (
			b        core.Budget
			category string
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.TargetAmount, &category); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if n := len(budgets); n == 0 || budgets[n-1].ID != b.ID {
			budgets = append(budgets, b)
		}
		if category != "" {
			last := &budgets[len(budgets)-1]
			last.Categories = append(last.Categories, category)
		}
	}
	return budgets, rows.Err()
}

// SaveBudget inserts or replaces a budget and its category list.
func (r *SQLiteRepository) SaveBudget(ctx context.Context, b core.Budget) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin budget tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO budgets (id, name, target_amount, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM budgets))
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, target_amount = excluded.target_amount`,
		b.ID, b.Name, b.TargetAmount); err != nil {
		return "", fmt.Errorf("upsert budget: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_categories WHERE budget_id = ?`, b.ID); err != nil {
		return "", fmt.Errorf("clear budget categories: %w", err)
	}
	for i, c := range b.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO budget_categories (budget_id, category, position) VALUES (?, ?, ?)`,
			b.ID, c, i+1); err != nil {
			return "", fmt.Errorf("insert budget category: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit budget: %w", err)
	}
	return b.ID, nil
}

// Append implements ports.TransactionWriter
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, amount, description, category, sub_category, wallet_name, occurred_at, type, is_need)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Amount, t.Description, t.Category, t.SubCategory, t.WalletName,
		t.Date.UnixNano(), string(t.Type), boolToInt(t.IsNeed))
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"description", t.Description,
		"amount", t.Amount,
		"category", t.Category,
		"type", t.Type)

	return t.ID, nil
}

// ListTransactions implements ports.TransactionLister
func (r *SQLiteRepository) ListTransactions(ctx context.Context, year int, month int) ([]core.Transaction, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	start, next := core.MonthRange(year, month)

	rows, err := r.db.QueryContext(ctx, selectTransactions+`
		WHERE occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at, created_at, id`,
		start.UnixNano(), next.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// GetTransaction implements ports.TransactionGetter
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransactions+` WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return t, err
}

const selectTransactions = `
	SELECT id, amount, description, category, sub_category, wallet_name, occurred_at, type, is_need
	FROM transactions`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		occurredAt int64
		typ        string
		isNeed     int64
	)
	if err := s.Scan(&t.ID, &t.Amount, &t.Description, &t.Category, &t.SubCategory,
		&t.WalletName, &occurredAt, &typ, &isNeed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scan transaction: %w", err)
	}
	t.Date = time.Unix(0, occurredAt).UTC()
	t.Type = core.TxType(typ)
	t.IsNeed = isNeed != 0
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
