package company

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// ErrConfigNotFound is returned by a ConfigStore that holds no
// configuration yet. The manager falls back to payroll.DefaultConfig.
var ErrConfigNotFound = errors.New("payroll config not found")

// ConfigStore persists the payroll configuration.
type ConfigStore interface {
	LoadConfig(ctx context.Context) (payroll.Config, error)
	SaveConfig(ctx context.Context, cfg payroll.Config) error
}

// ConfigManager holds the active configuration snapshot. Readers get an
// immutable value; updates are validated, persisted, then swapped in.
type ConfigManager struct {
	mu    sync.RWMutex
	cfg   payroll.Config
	store ConfigStore
}

// NewConfigManager loads the stored configuration, or the defaults when
// the store is empty. A nil store keeps the configuration in memory only.
func NewConfigManager(ctx context.Context, store ConfigStore) (*ConfigManager, error) {
	m := &ConfigManager{cfg: payroll.DefaultConfig(), store: store}
	if store == nil {
		return m, nil
	}

	cfg, err := store.LoadConfig(ctx)
	switch {
	case errors.Is(err, ErrConfigNotFound):
		return m, nil
	case err != nil:
		return nil, fmt.Errorf("load payroll config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stored payroll config: %w", err)
	}
	m.cfg = cfg
	return m, nil
}

// Get returns the current configuration.
func (m *ConfigManager) Get() payroll.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Update applies u and persists the result. On any failure the previous
// configuration stays active.
func (m *ConfigManager) Update(ctx context.Context, u payroll.ConfigUpdate) (payroll.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.cfg.Apply(u)
	if err != nil {
		return m.cfg, err
	}
	if m.store != nil {
		if err := m.store.SaveConfig(ctx, next); err != nil {
			return m.cfg, fmt.Errorf("save payroll config: %w", err)
		}
	}
	m.cfg = next
	return next, nil
}
