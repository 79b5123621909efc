// Package cache provides an in-process LRU cache with per-entry TTL used to
// avoid recomputing month reports and reloading reference data.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dlog "dompet/internal/log"
)

// Cache is the subset of LRU behaviour services depend on.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Purge()
	Len() int
}

// Sweeper is implemented by caches that can drop expired entries.
type Sweeper interface {
	Sweep() int
}

// Manager periodically sweeps registered caches until stopped.
type Manager struct {
	mu       sync.Mutex
	caches   []Sweeper
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	logger   *dlog.Logger
}

func NewManager(logger *dlog.Logger) *Manager {
	if logger == nil {
		logger = dlog.Default(dlog.ComponentCache)
	}
	return &Manager{
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger.WithComponent(dlog.ComponentCache),
	}
}

// Register adds a cache to the sweep list.
func (m *Manager) Register(c Sweeper) {
	m.mu.Lock()
	m.caches = append(m.caches, c)
	m.mu.Unlock()
}

// Start launches the sweeper. Call Stop to end it.
func (m *Manager) Start(interval time.Duration) {
	go m.run(interval)
}

func (m *Manager) run(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.SweepAll(); n > 0 {
				m.logger.Log(context.Background(), slog.LevelDebug, "Expired cache entries removed", "count", n)
			}
		case <-m.stop:
			return
		}
	}
}

// SweepAll sweeps every registered cache once and returns the number of
// entries removed.
func (m *Manager) SweepAll() int {
	m.mu.Lock()
	caches := append([]Sweeper(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.Sweep()
	}
	return total
}

// Stop ends the sweeper and waits for it. Safe to call more than once, and
// safe when Start was never called.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		select {
		case <-m.done:
		case <-time.After(time.Second):
		}
	})
}
