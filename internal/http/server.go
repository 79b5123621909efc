// Package http exposes the Smart Add parser, transactions and budget
// reports as a JSON API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"dompet/internal/cache"
	"dompet/internal/core"
	dlog "dompet/internal/log"
	"dompet/internal/middleware/ratelimit"
	"dompet/internal/middleware/security"
	"dompet/internal/middleware/trace"
	"dompet/internal/ports"
	"dompet/internal/services"
	"dompet/internal/smartadd"
)

// Services groups what the handlers call into.
type Services struct {
	SmartAdd     *smartadd.Service
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Reference    interface {
		ports.TaxonomyReader
		ports.WalletLister
	}
	// Ready backs /readyz. Nil means always ready.
	Ready func(ctx context.Context) error
}

type Config struct {
	Addr           string
	ListCacheTTL   time.Duration
	ListCacheSize  int
	RateLimit      ratelimit.Config
	Headers        security.HeadersConfig
	TrustedProxies []string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// DefaultConfig returns a config listening on addr with the stock
// middleware settings.
func DefaultConfig(addr string) Config {
	return Config{
		Addr:          addr,
		ListCacheTTL:  5 * time.Minute,
		ListCacheSize: 100,
		RateLimit:     ratelimit.DefaultConfig(),
		Headers:       security.DefaultHeadersConfig(),
	}
}

type Server struct {
	http.Server
	svc     Services
	lists   *cache.LRU[[]core.Transaction]
	limiter *ratelimit.Limiter
	now     func() time.Time
	logger  *dlog.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. It registers a hook on svc.Transactions that invalidates the
// cached lists and budget reports after every create.
func NewServer(cfg Config, svc Services, logger *dlog.Logger) (*Server, error) {
	if logger == nil {
		logger = dlog.Default(dlog.ComponentHTTP)
	}
	logger = logger.WithComponent(dlog.ComponentHTTP)

	ips, err := security.NewClientIPResolver(cfg.TrustedProxies...)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	s := &Server{
		svc:     svc,
		lists:   cache.NewLRU[[]core.Transaction](cfg.ListCacheSize, cfg.ListCacheTTL),
		limiter: ratelimit.NewLimiter(cfg.RateLimit),
		now:     cfg.Now,
		logger:  logger,
	}
	if s.now == nil {
		s.now = time.Now
	}

	svc.Transactions.OnCreate(func(tx core.Transaction) {
		d := tx.Date.UTC()
		s.lists.Delete(monthKey(d.Year(), int(d.Month())))
		svc.Budgets.Invalidate()
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/taxonomy", s.handleTaxonomy)
	mux.HandleFunc("GET /api/wallets", s.handleWallets)
	mux.HandleFunc("POST /api/smart-add", s.handleSmartAdd)
	mux.HandleFunc("POST /api/smart-add/refine", s.handleRefine)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/budgets/report", s.handleBudgetReport)
	mux.HandleFunc("GET /api/budgets/{id}", s.handleBudgetDetail)
	mux.HandleFunc("POST /api/budgets", s.handleSaveBudget)

	var h http.Handler = mux
	h = s.limiter.Middleware(ips.ClientIP, ratelimit.WritesOnly)(h)
	h = security.Headers(cfg.Headers)(h)
	h = Recovery(logger)(h)
	h = trace.NewMiddleware(logger, ips.ClientIP).Handler(h)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// ListCache is exposed so a cache.Manager can sweep it.
func (s *Server) ListCache() cache.Sweeper { return s.lists }

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func monthKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}
