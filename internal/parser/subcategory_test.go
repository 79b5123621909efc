package parser

import "testing"

func TestResolveSubCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		raw      string
		want     string
	}{
		{"exact case-insensitive", "Transportasi", "bensin", "Bensin"},
		{"candidate inside known", "Transportasi", "gojek", "Ojek Online (Gojek/Grab)"},
		{"known inside candidate", "Konsumsi & F&B", "makan siang", "Makan"},
		{"category lookup ignores case", "konsumsi & f&b", "KOPI", "Kopi"},
		{"sub of another category", "Konsumsi & F&B", "Bensin", ""},
		{"unknown category", "Pendidikan", "Buku", ""},
		{"category without subs", "Freelance", "project", ""},
		{"blank raw", "Transportasi", "   ", ""},
		{"blank category", "", "Bensin", ""},
		{"income category", "Gaji", "bonus tahunan", "Bonus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveSubCategory(tt.category, tt.raw, fixtureTaxonomy()); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolveSubCategory_Idempotent(t *testing.T) {
	first := ResolveSubCategory("Transportasi", "grab", fixtureTaxonomy())
	second := ResolveSubCategory("Transportasi", "grab", fixtureTaxonomy())
	if first != second || first != "Ojek Online (Gojek/Grab)" {
		t.Fatalf("expected stable result, got %q then %q", first, second)
	}
}

func TestMatchName(t *testing.T) {
	candidates := []string{"BCA", "GoPay", "Tunai", "Bank BCA Syariah"}
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"gopay", "GoPay", true},
		{"gopy", "GoPay", true},
		{"tunia", "Tunai", true},
		{"ovo", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := MatchName(tt.in, candidates, 2)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("%q: expected (%q,%v), got (%q,%v)", tt.in, tt.want, tt.ok, got, ok)
		}
	}
}
