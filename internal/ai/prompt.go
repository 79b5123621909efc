package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dompet/internal/core"
)

const outputRules = "Return ONLY one raw JSON object with these fields:\n" +
	"- \"amount\": number in rupiah, no separators (\"25rb\" is 25000, \"1,5jt\" is 1500000)\n" +
	"- \"description\": short description in the user's words\n" +
	"- \"category\": exactly one category name from the list\n" +
	"- \"subCategory\": one sub-category of that category, or \"\"\n" +
	"- \"wallet\": one wallet name from the list, or \"\"\n" +
	"- \"date\": \"YYYY-MM-DD\"; \"kemarin\" means the day before today\n" +
	"- \"type\": \"expense\" or \"income\"\n" +
	"- \"isNeed\": true for necessities, false for wants\n" +
	"Do NOT wrap the response in code fences.\n"

func taxonomyPrompt(tax core.Taxonomy, wallets []string) string {
	var b strings.Builder
	writeGroup := func(title string, cats []core.Category) {
		if len(cats) == 0 {
			return
		}
		b.WriteString(title)
		b.WriteString(":\n")
		for _, c := range cats {
			b.WriteString("- ")
			b.WriteString(c.Name)
			if len(c.SubCategories) > 0 {
				b.WriteString(": ")
				b.WriteString(strings.Join(c.SubCategories, ", "))
			}
			b.WriteString("\n")
		}
	}
	writeGroup("Expense categories", tax.Expense)
	writeGroup("Income categories", tax.Income)
	if len(wallets) > 0 {
		b.WriteString("Wallets: ")
		b.WriteString(strings.Join(wallets, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

func extractPrompt(text string, tax core.Taxonomy, wallets []string, today time.Time) string {
	return "You read Indonesian personal finance notes and classify them.\n" +
		fmt.Sprintf("Today is %s.\n\n", today.Format(time.DateOnly)) +
		taxonomyPrompt(tax, wallets) + "\n" +
		outputRules + "\n" +
		"Note: " + quote(text) + "\n"
}

func refinePrompt(draft core.Draft, instruction string, tax core.Taxonomy, wallets []string, today time.Time) string {
	current, _ := json.Marshal(map[string]any{
		"amount":      draft.Amount,
		"description": draft.Description,
		"category":    draft.Category,
		"subCategory": draft.SubCategory,
		"wallet":      draft.WalletName,
		"date":        draft.Date.Format(time.DateOnly),
		"type":        draft.Type,
		"isNeed":      draft.IsNeed,
	})
	return "You correct a previously classified Indonesian finance note.\n" +
		fmt.Sprintf("Today is %s.\n\n", today.Format(time.DateOnly)) +
		taxonomyPrompt(tax, wallets) + "\n" +
		"Current transaction: " + string(current) + "\n" +
		"Correction: " + quote(instruction) + "\n" +
		"Apply the correction and keep every other field unchanged.\n\n" +
		outputRules
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
