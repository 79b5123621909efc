// Package ai asks a language model to read free-form transaction text.
// Its output is untrusted: callers validate it against the taxonomy.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"dompet/internal/core"
)

// Extraction is the raw model answer. Every field may be missing or wrong.
type Extraction struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory"`
	Wallet      string  `json:"wallet"`
	// Date is YYYY-MM-DD.
	Date   string `json:"date"`
	Type   string `json:"type"`
	IsNeed *bool  `json:"isNeed"`
}

// Extractor reads transactions from text.
type Extractor interface {
	Extract(ctx context.Context, text string, tax core.Taxonomy, wallets []string) (Extraction, error)
	// Refine applies a correction such as "itu pakai OVO" to an existing draft.
	Refine(ctx context.Context, draft core.Draft, instruction string, tax core.Taxonomy, wallets []string) (Extraction, error)
}

var ErrEmptyResponse = errors.New("empty response from model")

// decodeExtraction accepts a bare object, a fenced object, or a one-element
// array.
func decodeExtraction(raw string) (Extraction, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return Extraction{}, ErrEmptyResponse
	}

	var ext Extraction
	if strings.HasPrefix(clean, "[") {
		var list []Extraction
		if err := json.Unmarshal([]byte(clean), &list); err != nil {
			return Extraction{}, fmt.Errorf("unmarshal extraction list: %w", err)
		}
		if len(list) == 0 {
			return Extraction{}, ErrEmptyResponse
		}
		return list[0], nil
	}
	if err := json.Unmarshal([]byte(clean), &ext); err != nil {
		return Extraction{}, fmt.Errorf("unmarshal extraction: %w", err)
	}
	return ext, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return ""
		}
		s = strings.TrimSpace(s[idx+1:])
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = strings.TrimSpace(s[:idx])
	}

	// Keep only the outermost JSON value if the model added prose.
	open := strings.IndexAny(s, "{[")
	if open == -1 {
		return s
	}
	closer := byte('}')
	if s[open] == '[' {
		closer = ']'
	}
	if end := strings.LastIndexByte(s, closer); end > open {
		s = s[open : end+1]
	}
	return strings.TrimSpace(s)
}
