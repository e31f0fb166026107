package payroll

// Selector maps compensation types to payment rules and (role, type) pairs
// to vacation policies. It is stateless and safe for concurrent use.
//
// Both mappings are total switches over the closed enums. A value outside
// the declared set is a programming error and yields UnknownTypeError
// rather than a silent default.
type Selector struct{}

// NewSelector returns a rule selector.
func NewSelector() Selector { return Selector{} }

// SelectPayment returns the payment rule for a compensation type.
func (Selector) SelectPayment(t CompensationType) (PaymentRule, error) {
	switch t {
	case Salaried:
		return SalariedPayment{}, nil
	case Hourly:
		return HourlyPayment{}, nil
	case Freelance:
		return FreelancePayment{}, nil
	}
	return nil, &UnknownTypeError{Kind: "compensation type", Value: string(t)}
}

// SelectVacation returns the vacation policy for a role and compensation
// type. Role-based policies take precedence over compensation-based ones.
func (Selector) SelectVacation(r Role, t CompensationType) (VacationPolicy, error) {
	if !t.IsValid() {
		return nil, &UnknownTypeError{Kind: "compensation type", Value: string(t)}
	}

	switch r {
	case RoleIntern:
		return InternVacation{}, nil
	case RoleManager:
		return ManagerVacation{}, nil
	case RoleVicePresident:
		return VPVacation{}, nil
	case RoleStaff:
		if t == Hourly {
			return HourlyVacation{}, nil
		}
		return BasicVacation{}, nil
	}
	return nil, &UnknownTypeError{Kind: "role", Value: string(r)}
}
