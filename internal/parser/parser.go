// Package parser turns one line of free text into a draft transaction.
//
// Parsing is heuristic and total: every missing signal falls back to a
// default and nothing is ever reported as an error. The output is meant to
// be shown instantly and corrected by the user, or replaced by the result
// of the slower AI extractor when that succeeds.
package parser

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"dompet/internal/core"
)

var amountPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)*)(?:\s*(ribu|rb|juta|jt|k)\b)?`)

// Categories that are discretionary regardless of what was typed.
var wantCategories = []string{"Hiburan", "Jalan-jalan", "Liburan", "Hobi", "Investasi"}

// Words in the input that mark a purchase as a want.
var wantKeywords = []string{"kopi", "starbucks", "jalan", "nonton", "game", "jajan"}

var transferKeywords = []string{"transfer", "kirim", "tf"}

const yesterdayKeyword = "kemarin"

// Parse builds a draft from text using the given taxonomy and wallet names.
// now is the reference instant for relative dates.
func Parse(text string, tax core.Taxonomy, walletNames []string, now time.Time) core.Draft {
	lower := strings.ToLower(text)

	d := core.Draft{
		Description: text,
		Category:    core.CategoryOther,
		Type:        core.Expense,
		IsNeed:      true,
		Date:        now,
		Confidence:  core.ConfidenceLow,
		Source:      core.SourceQuick,
	}

	d.Amount = extractAmount(text)

	cat, sub, matched := matchCategory(lower, tax)
	if matched {
		d.Category = cat.Name
		d.SubCategory = sub
		d.Type = cat.Type
	}

	d.IsNeed = IsNeed(d.Category, lower)
	d.WalletName = MatchWallet(lower, walletNames)

	if strings.Contains(lower, yesterdayKeyword) {
		d.Date = now.AddDate(0, 0, -1)
	}

	if containsAny(lower, transferKeywords) {
		d.Category = core.CategoryTransfer
	}

	d.Confidence = ConfidenceFor(d.Amount, matched)
	return d
}

// CategoryMatched reports whether text names a category or sub-category
// of tax. The transfer override does not count as a match.
func CategoryMatched(text string, tax core.Taxonomy) bool {
	_, _, ok := matchCategory(strings.ToLower(text), tax)
	return ok
}

// ConfidenceFor grades a draft. High confidence is never assigned.
func ConfidenceFor(amount int64, categoryMatched bool) core.Confidence {
	if amount > 0 && categoryMatched {
		return core.ConfidenceMedium
	}
	return core.ConfidenceLow
}

// IsNeed reports whether a purchase in category, described by text, is a
// need rather than a want.
func IsNeed(category, text string) bool {
	if slices.Contains(wantCategories, category) {
		return false
	}
	return !containsAny(strings.ToLower(text), wantKeywords)
}

// MatchWallet returns the longest wallet name contained in text, or "".
func MatchWallet(text string, walletNames []string) string {
	lower := strings.ToLower(text)
	names := slices.Clone(walletNames)
	slices.SortStableFunc(names, func(a, b string) int {
		return len(b) - len(a)
	})
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n != "" && strings.Contains(lower, n) {
			return name
		}
	}
	return ""
}

func extractAmount(text string) int64 {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	amount, err := core.ParseAmount(m[1], m[2])
	if err != nil {
		return 0
	}
	return amount
}

// matchCategory scans expense categories, then income ones. Within a
// category the name is tried before its sub-categories. First hit wins.
func matchCategory(lower string, tax core.Taxonomy) (core.Category, string, bool) {
	lists := []struct {
		typ  core.TxType
		cats []core.Category
	}{{core.Expense, tax.Expense}, {core.Income, tax.Income}}
	for _, list := range lists {
		for _, c := range list.cats {
			c.Type = list.typ
			if name := strings.ToLower(strings.TrimSpace(c.Name)); name != "" && strings.Contains(lower, name) {
				return c, "", true
			}
			for _, sub := range c.SubCategories {
				if s := strings.ToLower(strings.TrimSpace(sub)); s != "" && strings.Contains(lower, s) {
					return c, sub, true
				}
			}
		}
	}
	return core.Category{}, "", false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
