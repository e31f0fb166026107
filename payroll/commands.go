/*
commands.go - Pay and vacation commands

PURPOSE:
  Commands are the only place that both changes state and records what
  happened. Each follows the same shape:

    1. Ask the rule (payment rule or vacation policy)
    2. Validate; on failure return with nothing changed and nothing logged
    3. Compute or mutate
    4. Append exactly one audit entry

ALL-OR-NOTHING:
  Validation fully precedes mutation and logging. A VacationCommand that
  returns an error has not touched the balance and has not written to the
  log. A PayCommand whose rule fails has not written to the log.

BONUS RULES (PayCommand):
  Intern:    0
  Salaried:  base * SalariedBonusPercentage
  Hourly:    HourlyBonusAmount when hours worked > HourlyBonusThreshold
  Freelance: 0

VP BALANCE:
  A VP's balance is never decremented; their entitlement is unbounded.

SEE ALSO:
  - payment.go, vacation.go: The rules commands consult
  - audit.go: Where entries go
*/
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAY COMMAND
// =============================================================================

// PayCommand pays one employee.
type PayCommand struct {
	Employee *Employee
	Rule     PaymentRule
	Config   Config
	Log      *AuditLog
}

// Execute returns the total paid (base + bonus). The employee is not mutated.
func (c *PayCommand) Execute() (decimal.Decimal, error) {
	base, err := c.Rule.Compute(*c.Employee)
	if err != nil {
		return decimal.Zero, err
	}

	bonus := Bonus(*c.Employee, base, c.Config)
	total := base.Add(bonus)

	detail := fmt.Sprintf("Base: $%s", base.StringFixed(2))
	if bonus.IsPositive() {
		detail += fmt.Sprintf(", Bonus: $%s", bonus.StringFixed(2))
	}

	c.Log.Record(KindPayment, c.Employee.Name, total, detail)
	return total, nil
}

// Bonus computes the performance bonus on top of base pay.
func Bonus(e Employee, base decimal.Decimal, cfg Config) decimal.Decimal {
	if e.Role == RoleIntern {
		return decimal.Zero
	}

	switch e.Type {
	case Salaried:
		return base.Mul(cfg.SalariedBonusPercentage)
	case Hourly:
		if e.HoursWorked != nil && *e.HoursWorked > cfg.HourlyBonusThreshold {
			return cfg.HourlyBonusAmount
		}
	}
	return decimal.Zero
}

// =============================================================================
// VACATION COMMAND
// =============================================================================

// VacationCommand takes or pays out vacation days.
type VacationCommand struct {
	Employee *Employee
	Policy   VacationPolicy
	Days     int
	Payout   bool
	Log      *AuditLog
}

// Execute validates against the policy, then decrements the balance (except
// for VPs) and records one entry. Zero days is accepted by every policy that
// checks only the balance and logs a no-op entry.
func (c *VacationCommand) Execute() error {
	if c.Days < 0 {
		return &ValidationError{Field: "days", Reason: "must not be negative"}
	}

	allowed := c.Policy.CanTake(*c.Employee, c.Days)
	if c.Payout {
		allowed = c.Policy.CanPayout(*c.Employee, c.Days)
	}
	if !allowed {
		return &PolicyViolationError{
			Employee: c.Employee.Name,
			Policy:   c.Policy.Name(),
			Days:     c.Days,
			Payout:   c.Payout,
		}
	}

	if c.Employee.Role != RoleVicePresident {
		c.Employee.VacationDays -= c.Days
	}

	kind, detail := KindVacationTaken, fmt.Sprintf("Took %d vacation days", c.Days)
	if c.Payout {
		kind, detail = KindVacationPayout, fmt.Sprintf("Paid out %d vacation days", c.Days)
	}
	c.Log.Record(kind, c.Employee.Name, decimal.NewFromInt(int64(c.Days)), detail)
	return nil
}
