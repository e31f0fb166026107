/*
payment.go - Payment rules, one per compensation type

PURPOSE:
  A PaymentRule computes the base amount owed to an employee from the
  employee's current state. Rules are pure: no mutation, no logging.
  Bonuses are not a rule concern; PayCommand adds them.

RULES:
  SalariedPayment:  salary, verbatim
  HourlyPayment:    hourly_rate * hours_worked
  FreelancePayment: sum of delivered project amounts

MISSING FIELDS:
  A required field left unset is an InvalidStateError. A missing salary is
  never read as zero.

SEE ALSO:
  - selector.go: Maps CompensationType to a PaymentRule
  - commands.go: PayCommand applies bonus and records the payment
*/
package payroll

import "github.com/shopspring/decimal"

// PaymentRule computes the base payment for an employee.
type PaymentRule interface {
	// Name identifies the rule in logs and audit detail.
	Name() string

	// Compute returns the base amount. It never mutates the employee.
	Compute(e Employee) (decimal.Decimal, error)
}

// Compile-time checks
var (
	_ PaymentRule = SalariedPayment{}
	_ PaymentRule = HourlyPayment{}
	_ PaymentRule = FreelancePayment{}
)

// SalariedPayment pays the salary field.
type SalariedPayment struct{}

func (SalariedPayment) Name() string { return "salaried" }

func (SalariedPayment) Compute(e Employee) (decimal.Decimal, error) {
	if e.Salary == nil {
		return decimal.Zero, &InvalidStateError{Employee: e.Name, Type: Salaried, Field: "salary"}
	}
	return *e.Salary, nil
}

// HourlyPayment pays rate times hours worked.
type HourlyPayment struct{}

func (HourlyPayment) Name() string { return "hourly" }

func (HourlyPayment) Compute(e Employee) (decimal.Decimal, error) {
	if e.HourlyRate == nil {
		return decimal.Zero, &InvalidStateError{Employee: e.Name, Type: Hourly, Field: "hourly_rate"}
	}
	if e.HoursWorked == nil {
		return decimal.Zero, &InvalidStateError{Employee: e.Name, Type: Hourly, Field: "hours_worked"}
	}
	return e.HourlyRate.Mul(decimal.NewFromInt(int64(*e.HoursWorked))), nil
}

// FreelancePayment pays for delivered projects only.
type FreelancePayment struct{}

func (FreelancePayment) Name() string { return "freelance" }

func (FreelancePayment) Compute(e Employee) (decimal.Decimal, error) {
	return e.DeliveredTotal(), nil
}
