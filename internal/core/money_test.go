package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		lit, suffix string
		out         int64
		ok          bool
	}{
		{"25", "rb", 25000, true},
		{"25", "ribu", 25000, true},
		{"50", "k", 50000, true},
		{"5", "jt", 5000000, true},
		{"1,5", "jt", 1500000, true},
		{"1.5", "juta", 1500000, true},
		{"50.000", "", 50000, true},
		{"1.500.000", "", 1500000, true},
		{"1500.000", "", 1500000, true},
		{"10.000.5", "", 10001, true},
		{"2.5", "", 3, true},
		{"12500", "", 12500, true},
		{"2,5", "", 3, true}, // half-up rounding
		{"", "", 0, false},
		{"abc", "", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.lit, tc.suffix)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q %q expected %d, got %d (err=%v)", tc.lit, tc.suffix, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.lit)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := map[int64]string{
		0:        "Rp 0",
		500:      "Rp 500",
		25000:    "Rp 25.000",
		1250000:  "Rp 1.250.000",
		-200000:  "-Rp 200.000",
		12345678: "Rp 12.345.678",
	}
	for in, want := range cases {
		if got := FormatRupiah(in); got != want {
			t.Fatalf("%d: expected %q, got %q", in, want, got)
		}
	}
}
