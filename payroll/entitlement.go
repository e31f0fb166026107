package payroll

import "strconv"

// Entitlement is the number of vacation days an employee may draw against.
// It is either Bounded(n) or Unbounded; there is no infinite sentinel.
type Entitlement struct {
	unbounded bool
	days      int
}

// Bounded returns an entitlement of exactly n days.
func Bounded(n int) Entitlement { return Entitlement{days: n} }

// Unbounded returns an entitlement with no upper limit.
func Unbounded() Entitlement { return Entitlement{unbounded: true} }

func (e Entitlement) IsUnbounded() bool { return e.unbounded }

// Days returns the bounded day count. ok is false for Unbounded.
func (e Entitlement) Days() (days int, ok bool) {
	if e.unbounded {
		return 0, false
	}
	return e.days, true
}

// Covers reports whether n days fit within the entitlement.
func (e Entitlement) Covers(n int) bool {
	return e.unbounded || e.days >= n
}

func (e Entitlement) String() string {
	if e.unbounded {
		return "unlimited"
	}
	return strconv.Itoa(e.days)
}
