/*
Package sqlite provides a SQLite-backed payroll config store and audit archive.

PURPOSE:
  Persists the two things that outlive a process: the payroll configuration
  and the audit trail. Employee records are deliberately not stored.

INTERFACES IMPLEMENTED:
  company.ConfigStore:  LoadConfig / SaveConfig
  company.AuditArchive: Observe / Archived
  payroll.Observer:     Observe (wired into the company's audit log)

APPEND-ONLY ENFORCEMENT:
  The audit_entries table is only ever inserted into:
  - No UPDATE statements on audit_entries
  - No DELETE statements on audit_entries (Reset aside)
  - Duplicate entry IDs are rejected by the primary key

KEY TABLES:
  payroll_config: Single row (id = 1) holding the active configuration
  audit_entries:  Immutable copy of every audit log entry

INDEXES:
  - idx_audit_entries_employee: History lookups by employee (hot path)
  - idx_audit_entries_kind:     Filtering by entry kind

MONEY:
  Decimal values are stored as TEXT and parsed back with shopspring/decimal,
  so no precision is lost to REAL.

TIMESTAMPS:
  Stored as unix nanoseconds (INTEGER) so range filters compare numerically.

CONCURRENCY:
  Uses sync.RWMutex around the connection, like the in-memory store.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  c, err := company.New(ctx, store, company.WithArchive(store))

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - company/config.go: ConfigStore
  - store/memory: In-memory implementation for testing
  - store/file: JSON / YAML config file
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/company"
	"github.com/warp/payroll-engine/payroll"
)

// ErrDuplicateEntry is returned when an audit entry ID is archived twice.
var ErrDuplicateEntry = errors.New("audit entry already archived")

// Store implements company.ConfigStore and company.AuditArchive using SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *slog.Logger
}

type Option func(*Store)

// WithLogger sets the logger used to report archive failures from Observe.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Active payroll configuration (single row)
	CREATE TABLE IF NOT EXISTS payroll_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		salaried_bonus_percentage TEXT NOT NULL,
		hourly_bonus_threshold INTEGER NOT NULL,
		hourly_bonus_amount TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Audit archive (append-only)
	CREATE TABLE IF NOT EXISTS audit_entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		recorded_at INTEGER NOT NULL,
		kind TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		detail TEXT,
		archived_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_entries_employee
		ON audit_entries(employee_name, seq);
	CREATE INDEX IF NOT EXISTS idx_audit_entries_kind
		ON audit_entries(kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONFIG STORE (company.ConfigStore interface)
// =============================================================================

// LoadConfig returns the stored configuration or company.ErrConfigNotFound.
func (s *Store) LoadConfig(ctx context.Context) (payroll.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pct, amount string
	var cfg payroll.Config
	err := s.db.QueryRowContext(ctx,
		"SELECT salaried_bonus_percentage, hourly_bonus_threshold, hourly_bonus_amount FROM payroll_config WHERE id = 1",
	).Scan(&pct, &cfg.HourlyBonusThreshold, &amount)

	if errors.Is(err, sql.ErrNoRows) {
		return payroll.Config{}, company.ErrConfigNotFound
	}
	if err != nil {
		return payroll.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SalariedBonusPercentage, err = decimal.NewFromString(pct); err != nil {
		return payroll.Config{}, fmt.Errorf("corrupt salaried_bonus_percentage %q: %w", pct, err)
	}
	if cfg.HourlyBonusAmount, err = decimal.NewFromString(amount); err != nil {
		return payroll.Config{}, fmt.Errorf("corrupt hourly_bonus_amount %q: %w", amount, err)
	}
	return cfg, nil
}

// SaveConfig upserts the configuration row.
func (s *Store) SaveConfig(ctx context.Context, cfg payroll.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payroll_config (id, salaried_bonus_percentage, hourly_bonus_threshold, hourly_bonus_amount, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			salaried_bonus_percentage = excluded.salaried_bonus_percentage,
			hourly_bonus_threshold = excluded.hourly_bonus_threshold,
			hourly_bonus_amount = excluded.hourly_bonus_amount,
			updated_at = excluded.updated_at
	`,
		cfg.SalariedBonusPercentage.String(),
		cfg.HourlyBonusThreshold,
		cfg.HourlyBonusAmount.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// =============================================================================
// AUDIT ARCHIVE (company.AuditArchive interface)
// =============================================================================

// Observe archives e. Failures are logged, never propagated, because the
// audit log has already committed the entry.
func (s *Store) Observe(e payroll.Entry) {
	if err := s.Archive(context.Background(), e); err != nil {
		s.logger.Error("failed to archive audit entry",
			"entry_id", e.ID,
			"employee", e.EmployeeName,
			"error", err,
		)
	}
}

// Archive appends one entry. Archiving the same ID twice returns
// ErrDuplicateEntry.
func (s *Store) Archive(ctx context.Context, e payroll.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, recorded_at, kind, employee_name, amount, detail, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.Timestamp.UnixNano(),
		string(e.Kind),
		e.EmployeeName,
		e.Amount.String(),
		nullString(e.Detail),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to archive entry: %w", err)
	}
	return nil
}

// Archived returns archived entries matching f in archive order.
func (s *Store) Archived(ctx context.Context, f payroll.AuditFilter) ([]payroll.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if f.EmployeeName != "" {
		where = append(where, "employee_name = ?")
		args = append(args, f.EmployeeName)
	}
	if len(f.Kinds) > 0 {
		placeholders := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			placeholders[i] = "?"
			args = append(args, string(k))
		}
		where = append(where, "kind IN ("+strings.Join(placeholders, ", ")+")")
	}
	if f.From != nil {
		where = append(where, "recorded_at >= ?")
		args = append(args, f.From.UnixNano())
	}
	if f.To != nil {
		where = append(where, "recorded_at <= ?")
		args = append(args, f.To.UnixNano())
	}

	query := "SELECT id, recorded_at, kind, employee_name, amount, detail FROM audit_entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"

	return s.queryEntries(ctx, query, args...)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]payroll.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	entries := []payroll.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (payroll.Entry, error) {
	var (
		e          payroll.Entry
		recordedAt int64
		kind       string
		amount     string
		detail     sql.NullString
	)

	if err := rows.Scan(&e.ID, &recordedAt, &kind, &e.EmployeeName, &amount, &detail); err != nil {
		return e, fmt.Errorf("failed to scan audit entry: %w", err)
	}

	var err error
	if e.Kind, err = payroll.ParseKind(kind); err != nil {
		return e, fmt.Errorf("corrupt audit entry %s: %w", e.ID, err)
	}
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return e, fmt.Errorf("corrupt audit entry %s amount %q: %w", e.ID, amount, err)
	}
	e.Timestamp = time.Unix(0, recordedAt).UTC()
	e.Detail = detail.String
	return e, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears the archive and the stored configuration.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"audit_entries", "payroll_config"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
