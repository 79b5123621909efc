package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"dompet/internal/core"
	dlog "dompet/internal/log"
)

// Gemini implements Extractor with the Gemini API.
type Gemini struct {
	generate func(ctx context.Context, prompt string) (string, error)
	model    string
	now      func() time.Time
	logger   *dlog.Logger
}

// NewGemini creates a client for the Gemini developer API.
func NewGemini(ctx context.Context, apiKey, model string, logger *dlog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	}
	gen := func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		return resp.Text(), nil
	}
	return newGemini(gen, model, logger), nil
}

func newGemini(gen func(context.Context, string) (string, error), model string, logger *dlog.Logger) *Gemini {
	if logger == nil {
		logger = dlog.Default(dlog.ComponentAI)
	}
	return &Gemini{
		generate: gen,
		model:    model,
		now:      time.Now,
		logger:   logger.WithComponent(dlog.ComponentAI),
	}
}

func (g *Gemini) Extract(ctx context.Context, text string, tax core.Taxonomy, wallets []string) (Extraction, error) {
	return g.run(ctx, dlog.OpParse, extractPrompt(text, tax, wallets, g.now()))
}

func (g *Gemini) Refine(ctx context.Context, draft core.Draft, instruction string, tax core.Taxonomy, wallets []string) (Extraction, error) {
	if strings.TrimSpace(instruction) == "" {
		return Extraction{}, fmt.Errorf("gemini: empty refine instruction")
	}
	return g.run(ctx, dlog.OpRefine, refinePrompt(draft, instruction, tax, wallets, g.now()))
}

func (g *Gemini) run(ctx context.Context, op, prompt string) (Extraction, error) {
	start := time.Now()
	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return Extraction{}, fmt.Errorf("gemini %s: %w", op, err)
	}
	ext, err := decodeExtraction(raw)
	if err != nil {
		return Extraction{}, fmt.Errorf("gemini %s: %w", op, err)
	}

	g.logger.DebugContext(ctx, "Model extraction finished",
		dlog.FieldOperation, op,
		"model", g.model,
		dlog.FieldCategory, ext.Category,
		dlog.FieldDuration, time.Since(start).Milliseconds())
	return ext, nil
}
