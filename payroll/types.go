/*
Package payroll provides the payroll and vacation rule engine.

PURPOSE:
  Given an employee's compensation type and organizational role, this
  package selects the payment formula and vacation policy that apply,
  validates preconditions, mutates state, and records an immutable audit
  entry for every completed action.

KEY CONCEPTS IN THIS FILE (types.go):
  - Role: organizational seniority (intern, manager, vice_president, staff)
  - CompensationType: how an employee is paid (salaried, hourly, freelancer)
  - Employee: passive data holder with type-specific fields
  - Project: a deliverable owned by one freelancer

DESIGN PRINCIPLES:
  1. Closed enums: every Role and CompensationType is listed in AllRoles /
     AllCompensationTypes so tests can prove the selector is total
  2. Precision: money uses decimal.Decimal, vacation uses whole days
  3. Rules never mutate: only commands (commands.go) change state and log
  4. Only the fields of the declared compensation type are populated

USAGE:
  salary := decimal.NewFromInt(5000)
  emp := &payroll.Employee{
      Name:         "Dana",
      Role:         payroll.RoleManager,
      Type:         payroll.Salaried,
      VacationDays: payroll.DefaultVacationDays,
      Salary:       &salary,
  }

SEE ALSO:
  - payment.go: Payment rules per compensation type
  - vacation.go: Vacation policies per role/type
  - selector.go: Rule selection
  - commands.go: Pay and vacation commands
*/
package payroll

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// DefaultVacationDays is the balance every new employee starts with.
const DefaultVacationDays = 25

// =============================================================================
// ROLE - Organizational seniority, drives vacation policy precedence
// =============================================================================

type Role string

const (
	RoleIntern        Role = "intern"
	RoleManager       Role = "manager"
	RoleVicePresident Role = "vice_president"
	RoleStaff         Role = "staff" // generic / default case
)

// AllRoles lists every declared role.
func AllRoles() []Role {
	return []Role{RoleIntern, RoleManager, RoleVicePresident, RoleStaff}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleIntern, RoleManager, RoleVicePresident, RoleStaff:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts a string tag into a Role.
func ParseRole(tag string) (Role, error) {
	r := Role(tag)
	if !r.IsValid() {
		return "", &ValidationError{Field: "role", Reason: "unknown role " + strconv.Quote(tag)}
	}
	return r, nil
}

// =============================================================================
// COMPENSATION TYPE - Drives the payment formula
// =============================================================================

type CompensationType string

const (
	Salaried  CompensationType = "salaried"
	Hourly    CompensationType = "hourly"
	Freelance CompensationType = "freelancer"
)

// AllCompensationTypes lists every declared compensation type.
func AllCompensationTypes() []CompensationType {
	return []CompensationType{Salaried, Hourly, Freelance}
}

func (c CompensationType) IsValid() bool {
	switch c {
	case Salaried, Hourly, Freelance:
		return true
	}
	return false
}

func (c CompensationType) String() string { return string(c) }

// ParseCompensationType converts a string tag into a CompensationType.
func ParseCompensationType(tag string) (CompensationType, error) {
	c := CompensationType(tag)
	if !c.IsValid() {
		return "", &ValidationError{Field: "type", Reason: "unknown compensation type " + strconv.Quote(tag)}
	}
	return c, nil
}

// =============================================================================
// PROJECT - Freelancer deliverable
// =============================================================================

type Project struct {
	Name      string
	Amount    decimal.Decimal
	Delivered bool
}

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is identified by Name. Salary is set iff Type is Salaried,
// HourlyRate and HoursWorked iff Type is Hourly, and Projects only matter
// for freelancers.
type Employee struct {
	Name         string
	Role         Role
	Type         CompensationType
	VacationDays int

	Salary      *decimal.Decimal
	HourlyRate  *decimal.Decimal
	HoursWorked *int
	Projects    []Project
}

// Validate rejects negative money, hours and balances. Missing
// type-specific fields are left to the payment rules (InvalidStateError).
func (e *Employee) Validate() error {
	if e.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if e.VacationDays < 0 {
		return &ValidationError{Field: "vacation_days", Reason: "must not be negative"}
	}
	if e.Salary != nil && e.Salary.IsNegative() {
		return &ValidationError{Field: "salary", Reason: "must not be negative"}
	}
	if e.HourlyRate != nil && e.HourlyRate.IsNegative() {
		return &ValidationError{Field: "hourly_rate", Reason: "must not be negative"}
	}
	if e.HoursWorked != nil && *e.HoursWorked < 0 {
		return &ValidationError{Field: "hours_worked", Reason: "must not be negative"}
	}
	for _, p := range e.Projects {
		if p.Amount.IsNegative() {
			return &ValidationError{Field: "projects.amount", Reason: "must not be negative"}
		}
	}
	return nil
}

// AddProject appends a project to the employee's list.
func (e *Employee) AddProject(p Project) {
	e.Projects = append(e.Projects, p)
}

// DeliverProject flags the named project as delivered. Once delivered a
// project's amount no longer changes.
func (e *Employee) DeliverProject(name string) error {
	for i := range e.Projects {
		if e.Projects[i].Name != name {
			continue
		}
		if e.Projects[i].Delivered {
			return ErrProjectDelivered
		}
		e.Projects[i].Delivered = true
		return nil
	}
	return ErrProjectNotFound
}

// DeliveredProjects returns a copy of the delivered projects, in order.
func (e *Employee) DeliveredProjects() []Project {
	var delivered []Project
	for _, p := range e.Projects {
		if p.Delivered {
			delivered = append(delivered, p)
		}
	}
	return delivered
}

// DeliveredTotal sums the amounts of delivered projects.
func (e *Employee) DeliveredTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range e.Projects {
		if p.Delivered {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// Clone returns a deep copy so callers can hand out read-only views.
func (e *Employee) Clone() Employee {
	c := *e
	if e.Salary != nil {
		v := *e.Salary
		c.Salary = &v
	}
	if e.HourlyRate != nil {
		v := *e.HourlyRate
		c.HourlyRate = &v
	}
	if e.HoursWorked != nil {
		v := *e.HoursWorked
		c.HoursWorked = &v
	}
	if e.Projects != nil {
		c.Projects = append([]Project(nil), e.Projects...)
	}
	return c
}
