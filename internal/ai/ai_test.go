package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dompet/internal/core"
)

func testTaxonomy() core.Taxonomy {
	return core.Taxonomy{
		Expense: []core.Category{
			{Name: "Konsumsi & F&B", Type: core.Expense, SubCategories: []string{"Makan", "Kopi"}},
			{Name: "Hobi", Type: core.Expense},
		},
		Income: []core.Category{{Name: "Gaji", Type: core.Income}},
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"amount":1}`, `{"amount":1}`},
		{"fenced json", "```json\n{\"amount\":1}\n```", `{"amount":1}`},
		{"fenced plain", "```\n[{\"amount\":1}]\n```", `[{"amount":1}]`},
		{"prose around object", "Here you go: {\"amount\":1} hope it helps", `{"amount":1}`},
		{"single line fence", "```json```", ""},
		{"no json", "sorry", "sorry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeExtraction(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		category string
		wantErr  bool
	}{
		{"object", `{"amount":25000,"category":"Konsumsi & F&B","isNeed":false}`, "Konsumsi & F&B", false},
		{"array takes first", `[{"category":"Hobi"},{"category":"Gaji"}]`, "Hobi", false},
		{"empty array", `[]`, "", true},
		{"empty", "  ", "", true},
		{"garbage", `{"amount": "lots"}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeExtraction(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeExtraction() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.Category != tt.category {
				t.Errorf("Category = %q, want %q", got.Category, tt.category)
			}
		})
	}
}

func TestGemini_Extract(t *testing.T) {
	var prompt string
	g := newGemini(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "```json\n{\"amount\":25000,\"category\":\"Konsumsi & F&B\",\"subCategory\":\"Makan\",\"wallet\":\"GoPay\",\"date\":\"2025-03-14\",\"type\":\"expense\",\"isNeed\":true}\n```", nil
	}, "test-model", nil)
	g.now = func() time.Time { return time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC) }

	ext, err := g.Extract(context.Background(), "makan siang 25rb kemarin", testTaxonomy(), []string{"GoPay", "BCA"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ext.Amount != 25000 || ext.SubCategory != "Makan" || ext.IsNeed == nil || !*ext.IsNeed {
		t.Errorf("unexpected extraction %+v", ext)
	}
	for _, want := range []string{"Today is 2025-03-15", "- Konsumsi & F&B: Makan, Kopi", "- Hobi\n", "Income categories", "Wallets: GoPay, BCA", `"makan siang 25rb kemarin"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGemini_Refine(t *testing.T) {
	var prompt string
	g := newGemini(func(_ context.Context, p string) (string, error) {
		prompt = p
		return `{"amount":25000,"category":"Konsumsi & F&B","wallet":"OVO"}`, nil
	}, "test-model", nil)

	draft := core.Draft{Amount: 25000, Description: "kopi", Category: "Konsumsi & F&B", WalletName: "GoPay", Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), Type: core.Expense}
	ext, err := g.Refine(context.Background(), draft, "bayarnya pakai OVO", testTaxonomy(), []string{"GoPay", "OVO"})
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if ext.Wallet != "OVO" {
		t.Errorf("Wallet = %q", ext.Wallet)
	}
	if !strings.Contains(prompt, `"wallet":"GoPay"`) || !strings.Contains(prompt, "bayarnya pakai OVO") {
		t.Errorf("refine prompt missing context:\n%s", prompt)
	}

	if _, err := g.Refine(context.Background(), draft, "  ", testTaxonomy(), nil); err == nil {
		t.Error("expected error for blank instruction")
	}
}

func TestGemini_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")
	g := newGemini(func(context.Context, string) (string, error) { return "", boom }, "m", nil)
	if _, err := g.Extract(context.Background(), "x", testTaxonomy(), nil); !errors.Is(err, boom) {
		t.Errorf("expected wrapped model error, got %v", err)
	}

	g = newGemini(func(context.Context, string) (string, error) { return "", nil }, "m", nil)
	if _, err := g.Extract(context.Background(), "x", testTaxonomy(), nil); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}

	if _, err := NewGemini(context.Background(), "", "m", nil); err == nil {
		t.Error("expected error without api key")
	}
}
