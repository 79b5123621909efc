// Package core provides money parsing and handling utilities.
//
// Amounts are whole rupiah held in int64. Literals typed by users use a dot
// as thousands separator ("50.000") and a comma or dot as decimal separator
// when followed by fewer than three digits ("1,5jt").
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Multiplier returns the scale factor for an amount suffix. Unknown or
// empty suffixes scale by one.
//
//	"rb", "ribu", "k" -> 1_000
//	"jt", "juta"      -> 1_000_000
func Multiplier(suffix string) int64 {
	switch strings.ToLower(strings.TrimSpace(suffix)) {
	case "rb", "ribu", "k":
		return 1_000
	case "jt", "juta":
		return 1_000_000
	default:
		return 1
	}
}

// ParseAmount converts a numeric literal and optional suffix into whole
// units, rounding half-up.
//
// Examples:
//
//	ParseAmount("50.000", "")  -> 50000
//	ParseAmount("25", "rb")    -> 25000
//	ParseAmount("1,5", "jt")   -> 1500000
//	ParseAmount("1.500.000","")-> 1500000
//	ParseAmount("1500.000", "")-> 1500000
func ParseAmount(literal, suffix string) (int64, error) {
	s := strings.TrimSpace(literal)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = stripThousands(s)
	// Remaining separators: keep the last one as the decimal point.
	s = strings.ReplaceAll(s, ",", ".")
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = strings.ReplaceAll(s[:i], ".", "") + s[i:]
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	d = d.Mul(decimal.NewFromInt(Multiplier(suffix))).Round(0)
	if !d.IsInteger() || d.GreaterThan(decimal.NewFromInt(1<<62)) {
		return 0, ErrInvalidAmount
	}
	return d.IntPart(), nil
}

// FormatRupiah renders an amount with dot thousands separators, e.g.
// "Rp 1.250.000". Negative amounts keep their sign.
func FormatRupiah(amount int64) string {
	s := decimal.NewFromInt(amount).Abs().String()
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	if amount < 0 {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}

// stripThousands removes every dot followed by exactly three digits, so
// "1500.000" and "10.000.5" keep their grouped digits.
func stripThousands(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && i+3 < len(s) && isDigit(s[i+1]) && isDigit(s[i+2]) && isDigit(s[i+3]) &&
			(i+4 == len(s) || !isDigit(s[i+4])) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
