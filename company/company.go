/*
Package company orchestrates the payroll engine for one organization.

PURPOSE:
  Company owns the employee roster, the audit log, and the active payroll
  configuration. It resolves rules through payroll.Selector and executes
  payroll commands, so callers (HTTP handlers, the CLI, tests) never wire
  rules or logs by hand.

OWNERSHIP:
  - Roster:     insertion-ordered, names unique, guarded by a RWMutex
  - Audit log:  one instance per Company, injected with WithAuditLog
  - Config:     ConfigManager backed by a ConfigStore

LOCKING:
  Payments read the employee under the read lock. Vacation requests and
  project changes take the write lock so the policy check and the balance
  update cannot interleave with another request for the same employee.

OBSERVABILITY:
  Structured logging through log/slog (WithLogger) and Prometheus counters
  through metrics.Metrics (WithMetrics). Both are optional.

USAGE:
  c, err := company.New(ctx, filestore.New("payroll_config.json"),
      company.WithLogger(logger),
      company.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
  )
  alice, err := c.AddEmployee(ctx, map[string]any{
      "name": "Alice", "role": "staff", "type": "hourly",
      "hourly_rate": 20, "hours_worked": 170,
  })
  summary, err := c.PayEmployee(ctx, "Alice") // 3500

SEE ALSO:
  - config.go: ConfigStore and ConfigManager
  - payroll/commands.go: PayCommand and VacationCommand
  - api/handlers.go: HTTP surface
*/
package company

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/metrics"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// PaymentSummary describes one completed payment.
type PaymentSummary struct {
	Employee string
	Role     payroll.Role
	Type     payroll.CompensationType
	Amount   decimal.Decimal
}

// VacationSummary describes the vacation policy that applies to an employee.
type VacationSummary struct {
	Employee    string
	Policy      string
	Balance     int
	Entitlement payroll.Entitlement
}

// =============================================================================
// COMPANY
// =============================================================================

type Company struct {
	mu        sync.RWMutex
	employees []*payroll.Employee
	index     map[string]*payroll.Employee

	selector payroll.Selector
	factory  *factory.EmployeeFactory
	log      *payroll.AuditLog
	config   *ConfigManager

	logger  *slog.Logger
	metrics *metrics.Metrics
	archive AuditArchive
}

// AuditArchive keeps audit entries beyond the lifetime of the in-memory log.
type AuditArchive interface {
	payroll.Observer
	Archived(ctx context.Context, f payroll.AuditFilter) ([]payroll.Entry, error)
}

type Option func(*Company)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Company) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Company) {
		c.metrics = m
	}
}

// WithAuditLog uses log instead of a fresh audit log. Metrics and the
// archive are registered as observers of it.
func WithAuditLog(log *payroll.AuditLog) Option {
	return func(c *Company) {
		c.log = log
	}
}

// WithArchive copies every audit entry into archive and answers Audit
// from it. It is attached to the log given by WithAuditLog, if any.
func WithArchive(archive AuditArchive) Option {
	return func(c *Company) {
		c.archive = archive
	}
}

// New creates a Company whose configuration is loaded from store. A nil
// store keeps configuration in memory.
func New(ctx context.Context, store ConfigStore, opts ...Option) (*Company, error) {
	c := &Company{
		index:    make(map[string]*payroll.Employee),
		selector: payroll.NewSelector(),
		factory:  factory.NewEmployeeFactory(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = payroll.NewAuditLog()
	}
	if c.metrics != nil {
		c.log.AddObserver(c.metrics)
	}
	if c.archive != nil {
		c.log.AddObserver(c.archive)
	}

	cfg, err := NewConfigManager(ctx, store)
	if err != nil {
		return nil, err
	}
	c.config = cfg
	return c, nil
}

// =============================================================================
// ROSTER
// =============================================================================

// AddEmployee builds an employee from construction input and adds it to
// the roster.
func (c *Company) AddEmployee(ctx context.Context, data map[string]any) (payroll.Employee, error) {
	emp, err := c.factory.FromMap(data)
	if err != nil {
		return payroll.Employee{}, err
	}
	return c.Add(ctx, emp)
}

// Add adds an already built employee to the roster. The company keeps its
// own copy.
func (c *Company) Add(ctx context.Context, emp *payroll.Employee) (payroll.Employee, error) {
	if emp == nil {
		return payroll.Employee{}, &payroll.ValidationError{Field: "name", Reason: "is required"}
	}
	if err := emp.Validate(); err != nil {
		return payroll.Employee{}, err
	}
	if _, err := c.selector.SelectVacation(emp.Role, emp.Type); err != nil {
		return payroll.Employee{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[emp.Name]; exists {
		return payroll.Employee{}, fmt.Errorf("%w: %s", payroll.ErrDuplicateEmployee, emp.Name)
	}
	owned := emp.Clone()
	c.employees = append(c.employees, &owned)
	c.index[owned.Name] = &owned

	c.logger.InfoContext(ctx, "employee added",
		"employee", owned.Name,
		"role", owned.Role,
		"type", owned.Type,
	)
	return owned.Clone(), nil
}

// Employees returns a copy of the roster in insertion order.
func (c *Company) Employees() []payroll.Employee {
	return c.filter(func(*payroll.Employee) bool { return true })
}

// Employee returns a copy of the named employee.
func (c *Company) Employee(name string) (payroll.Employee, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	emp, err := c.lookup(name)
	if err != nil {
		return payroll.Employee{}, err
	}
	return emp.Clone(), nil
}

func (c *Company) FindByRole(role payroll.Role) []payroll.Employee {
	return c.filter(func(e *payroll.Employee) bool { return e.Role == role })
}

func (c *Company) FindByType(t payroll.CompensationType) []payroll.Employee {
	return c.filter(func(e *payroll.Employee) bool { return e.Type == t })
}

func (c *Company) filter(keep func(*payroll.Employee) bool) []payroll.Employee {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]payroll.Employee, 0, len(c.employees))
	for _, e := range c.employees {
		if keep(e) {
			result = append(result, e.Clone())
		}
	}
	return result
}

// lookup must be called with c.mu held.
func (c *Company) lookup(name string) (*payroll.Employee, error) {
	emp, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", payroll.ErrEmployeeNotFound, name)
	}
	return emp, nil
}

// Reset clears the roster and the audit log. Configuration is kept.
func (c *Company) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.employees = nil
	c.index = make(map[string]*payroll.Employee)
	c.log.Clear()
	c.logger.InfoContext(ctx, "company reset")
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PayEmployee computes and records one payment for the named employee.
func (c *Company) PayEmployee(ctx context.Context, name string) (PaymentSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	emp, err := c.lookup(name)
	if err != nil {
		return PaymentSummary{}, err
	}
	return c.pay(ctx, emp, c.config.Get())
}

// PayAll pays every employee in roster order with one configuration
// snapshot. It stops at the first failure and returns the payments
// completed before it.
func (c *Company) PayAll(ctx context.Context) ([]PaymentSummary, error) {
	start := time.Now()
	defer func() { c.metrics.ObservePayrollRun(time.Since(start)) }()

	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg := c.config.Get()
	summaries := make([]PaymentSummary, 0, len(c.employees))
	for _, emp := range c.employees {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}
		s, err := c.pay(ctx, emp, cfg)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, s)
	}

	c.logger.InfoContext(ctx, "payroll run completed", "payments", len(summaries))
	return summaries, nil
}

func (c *Company) pay(ctx context.Context, emp *payroll.Employee, cfg payroll.Config) (PaymentSummary, error) {
	rule, err := c.selector.SelectPayment(emp.Type)
	if err != nil {
		return PaymentSummary{}, err
	}

	cmd := &payroll.PayCommand{Employee: emp, Rule: rule, Config: cfg, Log: c.log}
	amount, err := cmd.Execute()
	if err != nil {
		c.logger.ErrorContext(ctx, "payment failed", "employee", emp.Name, "error", err)
		return PaymentSummary{}, fmt.Errorf("pay %s: %w", emp.Name, err)
	}

	c.metrics.RecordPayment(emp.Type, amount.InexactFloat64())
	c.logger.InfoContext(ctx, "employee paid",
		"employee", emp.Name,
		"type", emp.Type,
		"amount", amount.StringFixed(2),
	)
	return PaymentSummary{Employee: emp.Name, Role: emp.Role, Type: emp.Type, Amount: amount}, nil
}

// =============================================================================
// VACATION
// =============================================================================

// GrantVacation takes (payout=false) or pays out (payout=true) days of
// vacation for the named employee. A rejected request changes nothing.
func (c *Company) GrantVacation(ctx context.Context, name string, days int, payout bool) (payroll.Employee, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	emp, err := c.lookup(name)
	if err != nil {
		return payroll.Employee{}, err
	}
	policy, err := c.selector.SelectVacation(emp.Role, emp.Type)
	if err != nil {
		return payroll.Employee{}, err
	}

	cmd := &payroll.VacationCommand{Employee: emp, Policy: policy, Days: days, Payout: payout, Log: c.log}
	if err := cmd.Execute(); err != nil {
		if payroll.IsPolicyViolation(err) {
			c.metrics.RecordVacation(payout, days, false)
			c.logger.WarnContext(ctx, "vacation request rejected",
				"employee", emp.Name,
				"policy", policy.Name(),
				"days", days,
				"payout", payout,
			)
		}
		return payroll.Employee{}, err
	}

	c.metrics.RecordVacation(payout, days, true)
	c.logger.InfoContext(ctx, "vacation granted",
		"employee", emp.Name,
		"policy", policy.Name(),
		"days", days,
		"payout", payout,
		"balance", emp.VacationDays,
	)
	return emp.Clone(), nil
}

// VacationSummary reports the policy and entitlement for the named employee.
func (c *Company) VacationSummary(name string) (VacationSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	emp, err := c.lookup(name)
	if err != nil {
		return VacationSummary{}, err
	}
	policy, err := c.selector.SelectVacation(emp.Role, emp.Type)
	if err != nil {
		return VacationSummary{}, err
	}
	return VacationSummary{
		Employee:    emp.Name,
		Policy:      policy.Name(),
		Balance:     emp.VacationDays,
		Entitlement: policy.Entitlement(*emp),
	}, nil
}

// =============================================================================
// PROJECTS
// =============================================================================

// AddProject attaches a project to a freelancer.
func (c *Company) AddProject(ctx context.Context, name, project string, amount decimal.Decimal, delivered bool) (payroll.Employee, error) {
	if project == "" {
		return payroll.Employee{}, &payroll.ValidationError{Field: "project", Reason: "is required"}
	}
	if amount.IsNegative() {
		return payroll.Employee{}, &payroll.ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	emp, err := c.lookup(name)
	if err != nil {
		return payroll.Employee{}, err
	}
	if emp.Type != payroll.Freelance {
		return payroll.Employee{}, fmt.Errorf("%w: %s", payroll.ErrNotFreelancer, name)
	}

	emp.AddProject(payroll.Project{Name: project, Amount: amount, Delivered: delivered})
	c.logger.InfoContext(ctx, "project added",
		"employee", name,
		"project", project,
		"amount", amount.StringFixed(2),
		"delivered", delivered,
	)
	return emp.Clone(), nil
}

// DeliverProject marks a freelancer's project as delivered.
func (c *Company) DeliverProject(ctx context.Context, name, project string) (payroll.Employee, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	emp, err := c.lookup(name)
	if err != nil {
		return payroll.Employee{}, err
	}
	if emp.Type != payroll.Freelance {
		return payroll.Employee{}, fmt.Errorf("%w: %s", payroll.ErrNotFreelancer, name)
	}
	if err := emp.DeliverProject(project); err != nil {
		return payroll.Employee{}, err
	}

	c.logger.InfoContext(ctx, "project delivered", "employee", name, "project", project)
	return emp.Clone(), nil
}

// =============================================================================
// AUDIT AND CONFIG
// =============================================================================

// History returns the audit entries for the named employee. Unknown names
// return an empty history.
func (c *Company) History(name string) []payroll.Entry {
	return c.log.Query(name)
}

func (c *Company) AuditLog() *payroll.AuditLog {
	return c.log
}

// Audit returns the entries matching f. With an archive configured the
// archive answers, so entries survive Reset and restarts.
func (c *Company) Audit(ctx context.Context, f payroll.AuditFilter) ([]payroll.Entry, error) {
	if c.archive == nil {
		return c.log.Filter(f), nil
	}
	entries, err := c.archive.Archived(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query audit archive: %w", err)
	}
	return entries, nil
}

// Config returns the active payroll configuration.
func (c *Company) Config() payroll.Config {
	return c.config.Get()
}

// UpdateConfig validates, persists and activates a configuration change.
func (c *Company) UpdateConfig(ctx context.Context, u payroll.ConfigUpdate) (payroll.Config, error) {
	cfg, err := c.config.Update(ctx, u)
	if err != nil {
		c.logger.WarnContext(ctx, "config update rejected", "error", err)
		return cfg, err
	}

	c.metrics.IncrementConfigUpdates()
	c.logger.InfoContext(ctx, "config updated",
		"salaried_bonus_percentage", cfg.SalariedBonusPercentage.String(),
		"hourly_bonus_threshold", cfg.HourlyBonusThreshold,
		"hourly_bonus_amount", cfg.HourlyBonusAmount.String(),
	)
	return cfg, nil
}
