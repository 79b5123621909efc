// Package smartadd turns free text into a reviewable draft, combining the
// instant heuristic parser with an optional AI extractor.
package smartadd

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dompet/internal/ai"
	"dompet/internal/core"
	"dompet/internal/parser"
)

// maxNameDistance bounds how far a model-suggested category or wallet may
// be from a real one and still be accepted.
const maxNameDistance = 2

// maxAmount matches the ceiling core.ParseAmount accepts.
const maxAmount = 1 << 62

// Normalize validates an AI extraction against the taxonomy and wallets.
// Anything the model got wrong falls back to the corresponding field of
// quick, so the result only ever names known categories and wallets.
func Normalize(ext ai.Extraction, quick core.Draft, tax core.Taxonomy, wallets []string) core.Draft {
	d := quick
	d.Source = core.SourceAI

	aiMatched := false
	if name, ok := parser.MatchName(ext.Category, categoryNames(tax), maxNameDistance); ok {
		if cat, found := tax.FindCategory(name); found {
			aiMatched = true
			if cat.Name != quick.Category {
				d.SubCategory = ""
			}
			d.Category = cat.Name
			d.Type = cat.Type
		}
	}

	if sub := parser.ResolveSubCategory(d.Category, ext.SubCategory, tax); sub != "" {
		d.SubCategory = sub
	}

	if w := matchWallet(ext.Wallet, wallets); w != "" {
		d.WalletName = w
	}

	if ext.Amount > 0 {
		amt := decimal.NewFromFloat(ext.Amount).Round(0)
		if amt.IsPositive() && !amt.GreaterThan(decimal.NewFromInt(maxAmount)) {
			d.Amount = amt.IntPart()
		}
	}

	if day, err := time.Parse(time.DateOnly, strings.TrimSpace(ext.Date)); err == nil {
		q := quick.Date
		d.Date = time.Date(day.Year(), day.Month(), day.Day(), q.Hour(), q.Minute(), q.Second(), q.Nanosecond(), q.Location())
	}

	if ext.IsNeed != nil {
		d.IsNeed = *ext.IsNeed
	} else if aiMatched {
		d.IsNeed = parser.IsNeed(d.Category, strings.ToLower(quick.Description))
	}

	matched := aiMatched || parser.CategoryMatched(quick.Description, tax)
	d.Confidence = parser.ConfidenceFor(d.Amount, matched)
	return d
}

// matchWallet resolves a model-suggested wallet name: exact first, then a
// wallet containing the name, then the longest wallet the name contains,
// then edit distance.
func matchWallet(name string, wallets []string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ""
	}
	for _, w := range wallets {
		if strings.ToLower(w) == key {
			return w
		}
	}
	for _, w := range wallets {
		if strings.Contains(strings.ToLower(w), key) {
			return w
		}
	}
	if w := parser.MatchWallet(key, wallets); w != "" {
		return w
	}
	if w, ok := parser.MatchName(name, wallets, maxNameDistance); ok {
		return w
	}
	return ""
}

func categoryNames(tax core.Taxonomy) []string {
	all := tax.All()
	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}
	return names
}
