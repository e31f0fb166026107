/*
audit.go - Append-only record of payroll and vacation actions

PURPOSE:
  Every completed payment, vacation grant, and vacation payout is recorded
  here. The log answers "what happened to this employee?" and is the only
  shared mutable state in the engine.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: Entries are never updated or deleted (Clear only backs a full reset)
  2. ORDERED: Queries return entries in insertion order
  3. SNAPSHOT READS: Queries return copies, never a live view
  4. SERIALIZED WRITES: Appends are mutually exclusive

OWNERSHIP:
  There is no package-level log. The Company owns one instance and passes
  it to commands, so tests can run isolated logs in parallel.

OBSERVERS:
  Observers are notified of each entry under the write lock, so they see
  entries in append order. They must be fast and must not call back into
  the log. Metrics and the SQLite archive are wired this way.

EXAMPLE:
  log := payroll.NewAuditLog()
  log.Record(payroll.KindPayment, "Alice", decimal.NewFromInt(3500), "Base: $3400.00, Bonus: $100.00")
  entries := log.Query("Alice")

SEE ALSO:
  - commands.go: The only producer of entries
  - store/sqlite: Archive observer
*/
package payroll

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTRY
// =============================================================================

type Kind string

const (
	KindPayment        Kind = "PAYMENT"
	KindVacationTaken  Kind = "VACATION_TAKEN"
	KindVacationPayout Kind = "VACATION_PAYOUT"
)

// ParseKind converts a string tag into a Kind.
func ParseKind(tag string) (Kind, error) {
	switch k := Kind(tag); k {
	case KindPayment, KindVacationTaken, KindVacationPayout:
		return k, nil
	}
	return "", &ValidationError{Field: "kind", Reason: "unknown audit kind " + tag}
}

// Entry is one immutable audit record.
type Entry struct {
	ID           string
	Timestamp    time.Time
	Kind         Kind
	EmployeeName string
	Amount       decimal.Decimal
	Detail       string
}

// AuditFilter narrows a query. Zero-valued fields match everything.
type AuditFilter struct {
	EmployeeName string
	Kinds        []Kind
	From         *time.Time
	To           *time.Time
}

// Matches reports whether e satisfies every set field of f.
func (f AuditFilter) Matches(e Entry) bool {
	if f.EmployeeName != "" && e.EmployeeName != f.EmployeeName {
		return false
	}
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if k == e.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Timestamp.After(*f.To) {
		return false
	}
	return true
}

// Observer is notified of every appended entry.
type Observer interface {
	Observe(e Entry)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Entry)

func (f ObserverFunc) Observe(e Entry) { f(e) }

// =============================================================================
// AUDIT LOG
// =============================================================================

type AuditLog struct {
	mu        sync.RWMutex
	entries   []Entry
	now       func() time.Time
	newID     func() string
	observers []Observer
}

type AuditOption func(*AuditLog)

// WithClock sets the timestamp source.
func WithClock(now func() time.Time) AuditOption {
	return func(l *AuditLog) { l.now = now }
}

// WithIDGenerator sets the entry ID source.
func WithIDGenerator(newID func() string) AuditOption {
	return func(l *AuditLog) { l.newID = newID }
}

// WithObserver registers an observer.
func WithObserver(o Observer) AuditOption {
	return func(l *AuditLog) { l.observers = append(l.observers, o) }
}

func NewAuditLog(opts ...AuditOption) *AuditLog {
	l := &AuditLog{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddObserver registers o for entries recorded from now on.
func (l *AuditLog) AddObserver(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
}

// Record appends one entry stamped with the capture time and returns it.
func (l *AuditLog) Record(kind Kind, employeeName string, amount decimal.Decimal, detail string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{
		ID:           l.newID(),
		Timestamp:    l.now(),
		Kind:         kind,
		EmployeeName: employeeName,
		Amount:       amount,
		Detail:       detail,
	}
	l.entries = append(l.entries, e)

	for _, o := range l.observers {
		o.Observe(e)
	}
	return e
}

// Query returns every entry for employeeName, or all entries when it is
// empty, in insertion order. The result is a copy.
func (l *AuditLog) Query(employeeName string) []Entry {
	return l.Filter(AuditFilter{EmployeeName: employeeName})
}

// Filter returns the entries matching f, in insertion order. The result is a copy.
func (l *AuditLog) Filter(f AuditFilter) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if f.Matches(e) {
			result = append(result, e)
		}
	}
	return result
}

func (l *AuditLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops every entry. Commands never call it.
func (l *AuditLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
