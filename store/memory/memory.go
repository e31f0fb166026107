// Package memory provides in-memory stores (for testing/dev).
package memory

import (
	"context"
	"sync"

	"github.com/warp/payroll-engine/company"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory config store and audit archive
// =============================================================================

type Store struct {
	mu      sync.RWMutex
	cfg     *payroll.Config
	archive []payroll.Entry
	seen    map[string]bool
	saves   int
}

func New() *Store {
	return &Store{seen: make(map[string]bool)}
}

// NewWithConfig creates a store that already holds cfg.
func NewWithConfig(cfg payroll.Config) *Store {
	s := New()
	s.cfg = &cfg
	return s
}

// LoadConfig returns the saved configuration or company.ErrConfigNotFound.
func (s *Store) LoadConfig(_ context.Context) (payroll.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg == nil {
		return payroll.Config{}, company.ErrConfigNotFound
	}
	return *s.cfg, nil
}

// SaveConfig replaces the saved configuration.
func (s *Store) SaveConfig(_ context.Context, cfg payroll.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = &cfg
	s.saves++
	return nil
}

// Saves reports how many times SaveConfig has been called.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Observe archives an audit entry. Append-only; an entry ID seen before
// is ignored. It satisfies payroll.Observer.
func (s *Store) Observe(e payroll.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[e.ID] {
		return
	}
	s.seen[e.ID] = true
	s.archive = append(s.archive, e)
}

// Archived returns the archived entries matching f, in arrival order.
func (s *Store) Archived(_ context.Context, f payroll.AuditFilter) ([]payroll.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]payroll.Entry, 0, len(s.archive))
	for _, e := range s.archive {
		if f.Matches(e) {
			result = append(result, e)
		}
	}
	return result, nil
}
