// Package google exports transactions to a Google Sheets spreadsheet, one
// tab per year.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"dompet/internal/core"
	dlog "dompet/internal/log"
)

// Header names the columns Row fills. Yearly tabs are expected to start
// with it.
var Header = []any{"Tanggal", "Deskripsi", "Tipe", "Kategori", "Sub Kategori", "Dompet", "Jumlah", "Kebutuhan", "ID"}

// Config holds the spreadsheet target and service account credentials.
// CredentialsJSON takes precedence over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type appendFunc func(ctx context.Context, rng string, rows [][]any) error

// Exporter appends transactions as rows.
type Exporter struct {
	spreadsheetID string
	sheetBase     string
	appendRows    appendFunc
	logger        *dlog.Logger
}

// NewExporter authenticates with the service account and returns an
// exporter.
func NewExporter(ctx context.Context, cfg Config, logger *dlog.Logger) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	creds, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	id := cfg.SpreadsheetID
	appendRows := func(ctx context.Context, rng string, rows [][]any) error {
		_, err := svc.Spreadsheets.Values.Append(id, rng, &gsheet.ValueRange{Values: rows}).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return err
	}
	return newExporter(id, cfg.SheetName, appendRows, logger), nil
}

func newExporter(spreadsheetID, sheetBase string, fn appendFunc, logger *dlog.Logger) *Exporter {
	if logger == nil {
		logger = dlog.Default(dlog.ComponentSheets)
	}
	if strings.TrimSpace(sheetBase) == "" {
		sheetBase = "Transaksi"
	}
	return &Exporter{
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
		appendRows:    fn,
		logger:        logger.WithComponent(dlog.ComponentSheets),
	}
}

func loadCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

// AppendTransaction writes tx to the tab of its year.
func (e *Exporter) AppendTransaction(ctx context.Context, tx core.Transaction) error {
	sheet := yearPrefixedName(e.sheetBase, tx.Date.Year())
	rng := fmt.Sprintf("'%s'!A:I", sheet)

	if err := e.appendRows(ctx, rng, [][]any{Row(tx)}); err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	e.logger.DebugContext(ctx, "Row appended",
		dlog.FieldTxID, tx.ID,
		"sheet", sheet)
	return nil
}

// Row renders tx in Header column order. The amount is a plain number so
// the sheet can sum it; expenses are negative.
func Row(tx core.Transaction) []any {
	amount := decimal.NewFromInt(tx.Amount)
	if tx.Type == core.Expense {
		amount = amount.Neg()
	}
	need := "Keinginan"
	if tx.IsNeed {
		need = "Kebutuhan"
	}
	typ := "Pengeluaran"
	if tx.Type == core.Income {
		typ = "Pemasukan"
	}
	return []any{
		tx.Date.Format(time.DateOnly),
		tx.Description,
		typ,
		tx.Category,
		tx.SubCategory,
		tx.WalletName,
		amount.String(),
		need,
		tx.ID,
	}
}

// yearPrefixedName returns "2025 Transaksi" for base "Transaksi". A base
// that already starts with a year is kept.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if len(base) >= 5 && base[4] == ' ' {
		if y, err := strconv.Atoi(base[:4]); err == nil && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
