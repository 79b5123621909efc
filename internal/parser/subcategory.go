package parser

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"dompet/internal/core"
)

// ResolveSubCategory maps a loosely typed sub-category onto one that
// belongs to category. An exact case-insensitive match wins, then a
// containment match in either direction. Unknown categories, categories
// without sub-categories and blank input all resolve to "".
func ResolveSubCategory(category, rawSub string, tax core.Taxonomy) string {
	cat, ok := tax.FindCategory(category)
	if !ok || len(cat.SubCategories) == 0 {
		return ""
	}
	raw := strings.ToLower(strings.TrimSpace(rawSub))
	if raw == "" {
		return ""
	}
	for _, sub := range cat.SubCategories {
		if strings.ToLower(strings.TrimSpace(sub)) == raw {
			return sub
		}
	}
	for _, sub := range cat.SubCategories {
		s := strings.ToLower(strings.TrimSpace(sub))
		if s == "" {
			continue
		}
		if strings.Contains(s, raw) || strings.Contains(raw, s) {
			return sub
		}
	}
	return ""
}

// MatchName picks the candidate closest to name. Exact case-insensitive
// matches win; otherwise the candidate with the smallest edit distance is
// returned when that distance is at most maxDistance.
func MatchName(name string, candidates []string, maxDistance int) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	best, bestDist := "", maxDistance+1
	for _, c := range candidates {
		ck := strings.ToLower(strings.TrimSpace(c))
		if ck == key {
			return c, true
		}
		if d := levenshtein.ComputeDistance(key, ck); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
