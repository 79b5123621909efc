package smartadd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dompet/internal/ai"
	"dompet/internal/cache"
	"dompet/internal/core"
	dlog "dompet/internal/log"
	"dompet/internal/parser"
	"dompet/internal/ports"
)

const referenceKey = "reference"

type reference struct {
	tax     core.Taxonomy
	wallets []string
}

// Service produces drafts. Parsing never fails: when the extractor is
// missing, slow or wrong the heuristic draft is returned instead.
type Service struct {
	taxonomy  ports.TaxonomyReader
	wallets   ports.WalletLister
	extractor ai.Extractor
	timeout   time.Duration
	refs      cache.Cache[reference]
	logger    *dlog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithExtractor enables AI extraction bounded by timeout per call.
func WithExtractor(e ai.Extractor, timeout time.Duration) Option {
	return func(s *Service) {
		s.extractor = e
		s.timeout = timeout
	}
}

// WithReferenceCache caches taxonomy and wallets for ttl.
func WithReferenceCache(ttl time.Duration) Option {
	return func(s *Service) {
		s.refs = cache.NewLRU[reference](1, ttl)
	}
}

func WithLogger(l *dlog.Logger) Option {
	return func(s *Service) { s.logger = l.WithComponent(dlog.ComponentSmartAdd) }
}

func NewService(tax ports.TaxonomyReader, wallets ports.WalletLister, opts ...Option) *Service {
	s := &Service{
		taxonomy: tax,
		wallets:  wallets,
		logger:   dlog.Default(dlog.ComponentSmartAdd),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AIEnabled reports whether an extractor is configured.
func (s *Service) AIEnabled() bool { return s.extractor != nil }

// Draft parses text. The error is non-nil only when reference data cannot
// be loaded.
func (s *Service) Draft(ctx context.Context, text string, now time.Time) (core.Draft, error) {
	ref, err := s.reference(ctx)
	if err != nil {
		return core.Draft{}, err
	}

	quick := parser.Parse(text, ref.tax, ref.wallets, now)
	if s.extractor == nil || strings.TrimSpace(text) == "" {
		return quick, nil
	}

	actx, cancel := s.aiContext(ctx)
	defer cancel()
	ext, err := s.extractor.Extract(actx, text, ref.tax, ref.wallets)
	if err != nil {
		s.logger.WarnContext(ctx, "AI extraction failed, using quick parse",
			dlog.FieldError, err,
			dlog.FieldOperation, dlog.OpParse)
		return quick, nil
	}

	d := Normalize(ext, quick, ref.tax, ref.wallets)
	s.logger.InfoContext(ctx, "Smart add draft ready",
		dlog.FieldSource, d.Source,
		dlog.FieldCategory, d.Category,
		dlog.FieldConfidence, d.Confidence)
	return d, nil
}

// Refine applies a free-text correction to draft. Amounts, wallets and
// categories named in the instruction are applied directly; the extractor,
// when configured, may then refine further.
func (s *Service) Refine(ctx context.Context, draft core.Draft, instruction string, now time.Time) (core.Draft, error) {
	ref, err := s.reference(ctx)
	if err != nil {
		return core.Draft{}, err
	}

	base := applyCorrection(draft, instruction, ref, now)
	if s.extractor == nil || strings.TrimSpace(instruction) == "" {
		return base, nil
	}

	actx, cancel := s.aiContext(ctx)
	defer cancel()
	ext, err := s.extractor.Refine(actx, draft, instruction, ref.tax, ref.wallets)
	if err != nil {
		s.logger.WarnContext(ctx, "AI refine failed, using direct correction",
			dlog.FieldError, err,
			dlog.FieldOperation, dlog.OpRefine)
		return base, nil
	}
	return Normalize(ext, base, ref.tax, ref.wallets), nil
}

// applyCorrection overlays what the quick parser can read from instruction
// onto draft. The description is kept.
func applyCorrection(draft core.Draft, instruction string, ref reference, now time.Time) core.Draft {
	d := draft
	if strings.TrimSpace(instruction) == "" {
		return d
	}
	hint := parser.Parse(instruction, ref.tax, ref.wallets, draft.Date)

	if hint.Amount > 0 {
		d.Amount = hint.Amount
	}
	if hint.WalletName != "" {
		d.WalletName = hint.WalletName
	}
	if hint.Category != core.CategoryOther {
		if hint.Category != d.Category {
			d.SubCategory = ""
		}
		d.Category = hint.Category
		if hint.Category != core.CategoryTransfer {
			d.Type = hint.Type
		}
		if hint.SubCategory != "" {
			d.SubCategory = hint.SubCategory
		}
		d.IsNeed = parser.IsNeed(d.Category, strings.ToLower(d.Description+" "+instruction))
	}
	if strings.Contains(strings.ToLower(instruction), "kemarin") {
		d.Date = now.AddDate(0, 0, -1)
	}

	_, known := ref.tax.FindCategory(d.Category)
	matched := known || parser.CategoryMatched(d.Description+" "+instruction, ref.tax)
	d.Confidence = parser.ConfidenceFor(d.Amount, matched)
	return d
}

func (s *Service) aiContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Service) reference(ctx context.Context) (reference, error) {
	if s.refs != nil {
		if ref, ok := s.refs.Get(referenceKey); ok {
			return ref, nil
		}
	}

	tax, err := s.taxonomy.Taxonomy(ctx)
	if err != nil {
		return reference{}, fmt.Errorf("load taxonomy: %w", err)
	}
	wallets, err := s.wallets.ListWallets(ctx)
	if err != nil {
		return reference{}, fmt.Errorf("load wallets: %w", err)
	}

	ref := reference{tax: tax, wallets: ports.WalletNames(wallets)}
	if s.refs != nil {
		s.refs.Set(referenceKey, ref)
	}
	return ref, nil
}
