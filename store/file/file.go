/*
Package file persists the payroll configuration as a JSON or YAML file.

FORMAT:
  JSON (default, indent 2):
    {
      "salaried_bonus_percentage": 0.1,
      "hourly_bonus_threshold": 160,
      "hourly_bonus_amount": 100
    }

  YAML is used when the path ends in .yaml or .yml, with the same keys.

  Keys missing from the file keep their default value. A missing file is
  company.ErrConfigNotFound. Values are written as plain numbers so the
  file stays hand-editable; they are converted to decimal on load.

WRITES:
  SaveConfig writes to a temporary file in the same directory and renames
  it over the target, so a crash never leaves a half-written config.
*/
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/payroll-engine/company"
	"github.com/warp/payroll-engine/payroll"
)

// DefaultPath is the config file used when none is given.
const DefaultPath = "payroll_config.json"

type format int

const (
	formatJSON format = iota
	formatYAML
)

// document is the on-disk shape. Pointer fields distinguish a missing key
// from an explicit zero.
type document struct {
	SalariedBonusPercentage *float64 `json:"salaried_bonus_percentage,omitempty" yaml:"salaried_bonus_percentage,omitempty"`
	HourlyBonusThreshold    *float64 `json:"hourly_bonus_threshold,omitempty" yaml:"hourly_bonus_threshold,omitempty"`
	HourlyBonusAmount       *float64 `json:"hourly_bonus_amount,omitempty" yaml:"hourly_bonus_amount,omitempty"`
}

// Store reads and writes one config file.
type Store struct {
	mu     sync.Mutex
	path   string
	format format
}

// New creates a store for path. An empty path uses DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path, format: formatJSON}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s.format = formatYAML
	}
	return s
}

// Path returns the file location.
func (s *Store) Path() string {
	return s.path
}

// LoadConfig reads the file and fills missing keys from the defaults.
func (s *Store) LoadConfig(_ context.Context) (payroll.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return payroll.Config{}, company.ErrConfigNotFound
		}
		return payroll.Config{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc document
	if err := s.unmarshal(data, &doc); err != nil {
		return payroll.Config{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	cfg, err := doc.toConfig()
	if err != nil {
		return payroll.Config{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return cfg, nil
}

// SaveConfig replaces the file contents with cfg.
func (s *Store) SaveConfig(_ context.Context, cfg payroll.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.marshal(fromConfig(cfg))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".payroll-config-*")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) marshal(doc document) ([]byte, error) {
	if s.format == formatYAML {
		return yaml.Marshal(doc)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (s *Store) unmarshal(data []byte, doc *document) error {
	if s.format == formatYAML {
		return yaml.Unmarshal(data, doc)
	}
	return json.Unmarshal(data, doc)
}

func fromConfig(cfg payroll.Config) document {
	pct := cfg.SalariedBonusPercentage.InexactFloat64()
	threshold := float64(cfg.HourlyBonusThreshold)
	amount := cfg.HourlyBonusAmount.InexactFloat64()
	return document{
		SalariedBonusPercentage: &pct,
		HourlyBonusThreshold:    &threshold,
		HourlyBonusAmount:       &amount,
	}
}

// toConfig fills missing keys from the defaults. The threshold may be
// written as 160 or 160.0 but must be a whole number.
func (d document) toConfig() (payroll.Config, error) {
	cfg := payroll.DefaultConfig()
	if d.SalariedBonusPercentage != nil {
		cfg.SalariedBonusPercentage = decimal.NewFromFloat(*d.SalariedBonusPercentage)
	}
	if d.HourlyBonusThreshold != nil {
		t := *d.HourlyBonusThreshold
		if t != math.Trunc(t) || t < math.MinInt32 || t > math.MaxInt32 {
			return payroll.Config{}, &payroll.ValidationError{
				Field:  "hourly_bonus_threshold",
				Reason: fmt.Sprintf("must be a whole number, got %v", t),
			}
		}
		cfg.HourlyBonusThreshold = int(t)
	}
	if d.HourlyBonusAmount != nil {
		cfg.HourlyBonusAmount = decimal.NewFromFloat(*d.HourlyBonusAmount)
	}
	return cfg, nil
}
