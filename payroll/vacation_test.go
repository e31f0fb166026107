package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// VACATION POLICY TABLE
// =============================================================================

func TestVacationPolicies_Table(t *testing.T) {
	emp := withBalance(salaried("Pat", payroll.RoleStaff, "1000"), 8)

	cases := []struct {
		policy    payroll.VacationPolicy
		days      int
		canTake   bool
		canPayout bool
	}{
		// Intern: nothing, ever
		{payroll.InternVacation{}, 0, false, false},
		{payroll.InternVacation{}, 1, false, false},

		// Manager: balance-limited, payout cap 10
		{payroll.ManagerVacation{}, 8, true, true},
		{payroll.ManagerVacation{}, 9, false, false},

		// VP: per-request cap 5, balance ignored
		{payroll.VPVacation{}, 5, true, true},
		{payroll.VPVacation{}, 6, false, false},

		// Hourly: balance-limited, payout cap 5
		{payroll.HourlyVacation{}, 5, true, true},
		{payroll.HourlyVacation{}, 6, true, false},
		{payroll.HourlyVacation{}, 9, false, false},

		// Basic: balance-limited, payout cap 5
		{payroll.BasicVacation{}, 5, true, true},
		{payroll.BasicVacation{}, 6, true, false},
		{payroll.BasicVacation{}, 9, false, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.canTake, tc.policy.CanTake(*emp, tc.days),
			"%s CanTake(%d)", tc.policy.Name(), tc.days)
		assert.Equal(t, tc.canPayout, tc.policy.CanPayout(*emp, tc.days),
			"%s CanPayout(%d)", tc.policy.Name(), tc.days)
	}
}

func TestManagerVacation_PayoutCapIsTen(t *testing.T) {
	emp := withBalance(salaried("Bob", payroll.RoleManager, "1000"), 30)
	policy := payroll.ManagerVacation{}

	assert.True(t, policy.CanPayout(*emp, 10))
	assert.False(t, policy.CanPayout(*emp, 11))
	assert.True(t, policy.CanTake(*emp, 30), "taking time off has no per-request cap")
}

func TestVPVacation_IgnoresBalance(t *testing.T) {
	emp := withBalance(salaried("Carol", payroll.RoleVicePresident, "1000"), 0)
	policy := payroll.VPVacation{}

	assert.True(t, policy.CanTake(*emp, 5))
	assert.True(t, policy.CanPayout(*emp, 5))
}

func TestVacationPolicies_Entitlement(t *testing.T) {
	emp := withBalance(salaried("Pat", payroll.RoleStaff, "1000"), 12)

	assert.Equal(t, payroll.Bounded(0), payroll.InternVacation{}.Entitlement(*emp))
	assert.Equal(t, payroll.Bounded(12), payroll.ManagerVacation{}.Entitlement(*emp))
	assert.Equal(t, payroll.Bounded(12), payroll.HourlyVacation{}.Entitlement(*emp))
	assert.Equal(t, payroll.Bounded(12), payroll.BasicVacation{}.Entitlement(*emp))
	assert.True(t, payroll.VPVacation{}.Entitlement(*emp).IsUnbounded())
}

func TestEntitlement_BoundedAndUnbounded(t *testing.T) {
	b := payroll.Bounded(3)
	days, ok := b.Days()
	require.True(t, ok)
	assert.Equal(t, 3, days)
	assert.True(t, b.Covers(3))
	assert.False(t, b.Covers(4))
	assert.Equal(t, "3", b.String())

	u := payroll.Unbounded()
	_, ok = u.Days()
	assert.False(t, ok)
	assert.True(t, u.Covers(1_000_000))
	assert.Equal(t, "unlimited", u.String())
}

func TestVacationPolicies_ZeroDaysPassBalanceChecks(t *testing.T) {
	// Zero days passes every balance check, even with an empty balance.
	emp := withBalance(salaried("Pat", payroll.RoleStaff, "1000"), 0)

	for _, p := range []payroll.VacationPolicy{
		payroll.ManagerVacation{}, payroll.VPVacation{}, payroll.HourlyVacation{}, payroll.BasicVacation{},
	} {
		assert.True(t, p.CanTake(*emp, 0), p.Name())
		assert.True(t, p.CanPayout(*emp, 0), p.Name())
	}
}

// =============================================================================
// SELECTOR TESTS
// =============================================================================

func TestSelector_PaymentIsTotal(t *testing.T) {
	sel := payroll.NewSelector()

	want := map[payroll.CompensationType]string{
		payroll.Salaried:  "salaried",
		payroll.Hourly:    "hourly",
		payroll.Freelance: "freelance",
	}

	for _, ct := range payroll.AllCompensationTypes() {
		rule, err := sel.SelectPayment(ct)
		require.NoError(t, err, "no payment rule for %s", ct)
		assert.Equal(t, want[ct], rule.Name())
	}
}

func TestSelector_VacationIsTotal(t *testing.T) {
	sel := payroll.NewSelector()

	for _, r := range payroll.AllRoles() {
		for _, ct := range payroll.AllCompensationTypes() {
			policy, err := sel.SelectVacation(r, ct)
			require.NoError(t, err, "no vacation policy for %s/%s", r, ct)
			assert.NotNil(t, policy)
		}
	}
}

func TestSelector_RolePrecedesCompensationType(t *testing.T) {
	sel := payroll.NewSelector()

	cases := []struct {
		role payroll.Role
		ct   payroll.CompensationType
		want string
	}{
		{payroll.RoleIntern, payroll.Hourly, "intern"},
		{payroll.RoleManager, payroll.Hourly, "manager"},
		{payroll.RoleVicePresident, payroll.Hourly, "vice_president"},
		{payroll.RoleStaff, payroll.Hourly, "hourly"},
		{payroll.RoleStaff, payroll.Salaried, "basic"},
		{payroll.RoleStaff, payroll.Freelance, "basic"},
		{payroll.RoleManager, payroll.Freelance, "manager"},
	}

	for _, tc := range cases {
		policy, err := sel.SelectVacation(tc.role, tc.ct)
		require.NoError(t, err)
		assert.Equal(t, tc.want, policy.Name(), "%s/%s", tc.role, tc.ct)
	}
}

func TestSelector_HourlyManagerGetsManagerPayoutCap(t *testing.T) {
	// GIVEN: An hourly manager with 20 days
	emp := withBalance(hourly("Hank", payroll.RoleManager, "30", 100), 20)

	// WHEN: Selecting the policy
	policy, err := payroll.NewSelector().SelectVacation(emp.Role, emp.Type)
	require.NoError(t, err)

	// THEN: Payout cap is 10 (manager), not 5 (hourly)
	assert.True(t, policy.CanPayout(*emp, 10))
	assert.False(t, policy.CanPayout(*emp, 11))
}

func TestSelector_UnknownTypes(t *testing.T) {
	sel := payroll.NewSelector()

	_, err := sel.SelectPayment(payroll.CompensationType("barter"))
	assert.ErrorIs(t, err, payroll.ErrUnknownType)

	_, err = sel.SelectVacation(payroll.Role("ceo"), payroll.Salaried)
	assert.ErrorIs(t, err, payroll.ErrUnknownType)

	_, err = sel.SelectVacation(payroll.RoleIntern, payroll.CompensationType("barter"))
	var unknown *payroll.UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "compensation type", unknown.Kind)
	assert.Equal(t, "barter", unknown.Value)
}
