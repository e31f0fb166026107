/*
vacation.go - Vacation policies per role and compensation type

PURPOSE:
  A VacationPolicy answers three questions about an employee: how many days
  are available, may they take N days off, and may they cash out N days.
  Policies only answer; VacationCommand mutates and logs.

AVAILABLE POLICIES:
  InternVacation:  no vacation, no payout
  ManagerVacation: balance-limited, payout up to 10 days per request
  VPVacation:      unlimited, at most 5 days per request (take or payout),
                   balance is never checked
  HourlyVacation:  balance-limited, payout up to 5 days per request
  BasicVacation:   balance-limited, payout up to 5 days per request

PRECEDENCE:
  Role-based policies (Intern, Manager, VP) win over the compensation-based
  one (Hourly). An hourly manager gets ManagerVacation. See selector.go.

ZERO DAYS:
  Every balance check passes for zero days, so a zero-day request is
  accepted (except by InternVacation) and produces a no-op audit entry.

SEE ALSO:
  - entitlement.go: Bounded / Unbounded entitlement
  - selector.go: Policy selection
  - commands.go: VacationCommand
*/
package payroll

const (
	// ManagerPayoutCap is the largest payout a manager may request at once.
	ManagerPayoutCap = 10

	// StandardPayoutCap is the largest payout for hourly and default employees.
	StandardPayoutCap = 5

	// VPRequestCap bounds every VP request, take or payout.
	VPRequestCap = 5
)

// VacationPolicy decides what vacation an employee is allowed.
type VacationPolicy interface {
	// Name identifies the policy in errors and logs.
	Name() string

	// Entitlement returns the days available.
	Entitlement(e Employee) Entitlement

	// CanTake reports whether the employee may take days off.
	CanTake(e Employee, days int) bool

	// CanPayout reports whether the employee may convert days to a credit.
	CanPayout(e Employee, days int) bool
}

// Compile-time checks
var (
	_ VacationPolicy = InternVacation{}
	_ VacationPolicy = ManagerVacation{}
	_ VacationPolicy = VPVacation{}
	_ VacationPolicy = HourlyVacation{}
	_ VacationPolicy = BasicVacation{}
)

// =============================================================================
// ROLE-BASED POLICIES
// =============================================================================

// InternVacation allows nothing.
type InternVacation struct{}

func (InternVacation) Name() string { return "intern" }
func (InternVacation) Entitlement(Employee) Entitlement { return Bounded(0) }
func (InternVacation) CanTake(Employee, int) bool { return false }
func (InternVacation) CanPayout(Employee, int) bool { return false }

// ManagerVacation draws on the balance with a larger payout cap.
type ManagerVacation struct{}

func (ManagerVacation) Name() string { return "manager" }

func (ManagerVacation) Entitlement(e Employee) Entitlement { return Bounded(e.VacationDays) }

func (ManagerVacation) CanTake(e Employee, days int) bool {
	return e.VacationDays >= days
}

func (ManagerVacation) CanPayout(e Employee, days int) bool {
	return e.VacationDays >= days && days <= ManagerPayoutCap
}

// VPVacation is unlimited but capped per request. The balance is decorative.
type VPVacation struct{}

func (VPVacation) Name() string { return "vice_president" }
func (VPVacation) Entitlement(Employee) Entitlement { return Unbounded() }
func (VPVacation) CanTake(_ Employee, days int) bool { return days <= VPRequestCap }
func (VPVacation) CanPayout(_ Employee, days int) bool { return days <= VPRequestCap }

// =============================================================================
// COMPENSATION-BASED AND DEFAULT POLICIES
// =============================================================================

// HourlyVacation applies to hourly employees without a senior role.
type HourlyVacation struct{}

func (HourlyVacation) Name() string { return "hourly" }

func (HourlyVacation) Entitlement(e Employee) Entitlement { return Bounded(e.VacationDays) }

func (HourlyVacation) CanTake(e Employee, days int) bool {
	return e.VacationDays >= days
}

func (HourlyVacation) CanPayout(e Employee, days int) bool {
	return e.VacationDays >= days && days <= StandardPayoutCap
}

// BasicVacation applies to everyone else.
type BasicVacation struct{}

func (BasicVacation) Name() string { return "basic" }

func (BasicVacation) Entitlement(e Employee) Entitlement { return Bounded(e.VacationDays) }

func (BasicVacation) CanTake(e Employee, days int) bool {
	return e.VacationDays >= days
}

func (BasicVacation) CanPayout(e Employee, days int) bool {
	return e.VacationDays >= days && days <= StandardPayoutCap
}
