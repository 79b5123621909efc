package memory

import (
	"github.com/google/uuid"

	"dompet/internal/core"
)

// DefaultTaxonomy is used when no category seed files are present.
func DefaultTaxonomy() core.Taxonomy {
	return core.Taxonomy{
		Expense: []core.Category{
			{Name: "Konsumsi & F&B", Type: core.Expense, SubCategories: []string{"Makan", "Minuman", "Kopi", "Jajan", "Groceries"}},
			{Name: "Transportasi", Type: core.Expense, SubCategories: []string{"Bensin", "Ojek Online (Gojek/Grab)", "Parkir", "Tol", "Kereta"}},
			{Name: "Tagihan", Type: core.Expense, SubCategories: []string{"Listrik", "Internet", "Pulsa", "PDAM"}},
			{Name: "Belanja", Type: core.Expense, SubCategories: []string{"Pakaian", "Elektronik", "Rumah Tangga"}},
			{Name: "Kesehatan", Type: core.Expense, SubCategories: []string{"Obat", "Dokter", "Asuransi"}},
			{Name: "Hiburan", Type: core.Expense, SubCategories: []string{"Bioskop", "Streaming", "Konser"}},
			{Name: "Jalan-jalan", Type: core.Expense, SubCategories: []string{"Hotel", "Tiket Pesawat"}},
			{Name: "Hobi", Type: core.Expense},
			{Name: "Investasi", Type: core.Expense, SubCategories: []string{"Reksa Dana", "Saham", "Emas"}},
		},
		Income: []core.Category{
			{Name: "Gaji", Type: core.Income, SubCategories: []string{"Gaji Bulanan", "Bonus", "THR"}},
			{Name: "Freelance", Type: core.Income},
			{Name: "Hadiah", Type: core.Income},
		},
	}
}

// DefaultWallets is used when seed_wallets.txt is absent.
func DefaultWallets() []core.Wallet {
	names := []string{"Tunai", "BCA", "Bank BCA Syariah", "Mandiri", "GoPay", "OVO"}
	out := make([]core.Wallet, 0, len(names))
	for _, n := range names {
		out = append(out, core.Wallet{ID: uuid.NewString(), Name: n})
	}
	return out
}

// DefaultBudgets is used when seed_budgets.txt is absent.
func DefaultBudgets() []core.Budget {
	return []core.Budget{
		{ID: uuid.NewString(), Name: "Makan & Minum", TargetAmount: 3_000_000, Categories: []string{"Konsumsi & F&B"}},
		{ID: uuid.NewString(), Name: "Transportasi", TargetAmount: 1_000_000, Categories: []string{"Transportasi"}},
		{ID: uuid.NewString(), Name: "Gaya Hidup", TargetAmount: 1_500_000, Categories: []string{"Hiburan", "Hobi", "Belanja"}},
	}
}
