package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func pay(t *testing.T, log *payroll.AuditLog, emp *payroll.Employee, cfg payroll.Config) (string, error) {
	t.Helper()
	rule, err := payroll.NewSelector().SelectPayment(emp.Type)
	require.NoError(t, err)

	cmd := &payroll.PayCommand{Employee: emp, Rule: rule, Config: cfg, Log: log}
	total, err := cmd.Execute()
	return total.String(), err
}

func vacation(t *testing.T, log *payroll.AuditLog, emp *payroll.Employee, days int, payout bool) error {
	t.Helper()
	policy, err := payroll.NewSelector().SelectVacation(emp.Role, emp.Type)
	require.NoError(t, err)

	cmd := &payroll.VacationCommand{Employee: emp, Policy: policy, Days: days, Payout: payout, Log: log}
	return cmd.Execute()
}

// =============================================================================
// PAY COMMAND
// =============================================================================

func TestPayCommand_Alice_HourlyWithBonus(t *testing.T) {
	// GIVEN: Alice, hourly, rate 20, 170h; threshold 160, bonus 100
	log := payroll.NewAuditLog()
	alice := hourly("Alice", payroll.RoleStaff, "20", 170)

	// WHEN: Paying Alice
	total, err := pay(t, log, alice, payroll.DefaultConfig())

	// THEN: 20*170 + 100 = 3500, one payment entry
	require.NoError(t, err)
	assert.Equal(t, "3500", total)

	entries := log.Query("Alice")
	require.Len(t, entries, 1)
	assert.Equal(t, payroll.KindPayment, entries[0].Kind)
	assertDecimal(t, "3500", entries[0].Amount)
	assert.Equal(t, "Base: $3400.00, Bonus: $100.00", entries[0].Detail)
}

func TestPayCommand_SalariedBonusIsPercentage(t *testing.T) {
	log := payroll.NewAuditLog()
	emp := salaried("Sam", payroll.RoleStaff, "5000")

	total, err := pay(t, log, emp, payroll.DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "5500", total)
	assert.Equal(t, "Base: $5000.00, Bonus: $500.00", log.Query("Sam")[0].Detail)
}

func TestPayCommand_InternBonusAlwaysZero(t *testing.T) {
	generous := payroll.Config{
		SalariedBonusPercentage: dec("0.9"),
		HourlyBonusThreshold:    0,
		HourlyBonusAmount:       dec("10000"),
	}

	for _, emp := range []*payroll.Employee{
		salaried("Ivy", payroll.RoleIntern, "1000"),
		hourly("Ian", payroll.RoleIntern, "10", 500),
	} {
		base, err := payroll.NewSelector().SelectPayment(emp.Type)
		require.NoError(t, err)
		amount, err := base.Compute(*emp)
		require.NoError(t, err)

		assert.True(t, payroll.Bonus(*emp, amount, generous).IsZero(), emp.Name)
	}
}

func TestPayCommand_HourlyBonusBoundary(t *testing.T) {
	cfg := payroll.DefaultConfig()

	cases := []struct {
		hours int
		bonus string
	}{
		{159, "0"},
		{160, "0"}, // equal to threshold: no bonus
		{161, "100"},
	}

	for _, tc := range cases {
		emp := hourly("Hal", payroll.RoleStaff, "10", tc.hours)
		assertDecimal(t, tc.bonus, payroll.Bonus(*emp, dec("0"), cfg))
	}
}

func TestPayCommand_FreelancerNeverGetsBonus(t *testing.T) {
	log := payroll.NewAuditLog()
	emp := freelancer("Finn", payroll.RoleManager, project("site", "2000", true))

	total, err := pay(t, log, emp, payroll.DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, "2000", total)
	assert.Equal(t, "Base: $2000.00", log.Query("Finn")[0].Detail, "zero bonus is omitted from detail")
}

func TestPayCommand_DoesNotMutateEmployee(t *testing.T) {
	log := payroll.NewAuditLog()
	emp := hourly("Alice", payroll.RoleStaff, "20", 170)
	before := emp.Clone()

	_, err := pay(t, log, emp, payroll.DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, before, emp.Clone())
}

func TestPayCommand_MalformedEmployee_NoLogEntry(t *testing.T) {
	log := payroll.NewAuditLog()
	emp := &payroll.Employee{Name: "Ghost", Role: payroll.RoleStaff, Type: payroll.Salaried}

	_, err := pay(t, log, emp, payroll.DefaultConfig())

	assert.ErrorIs(t, err, payroll.ErrInvalidState)
	assert.Equal(t, 0, log.Len())
}

// =============================================================================
// VACATION COMMAND
// =============================================================================

func TestVacationCommand_Bob_ManagerPayoutThenViolation(t *testing.T) {
	// GIVEN: Bob, manager, balance 12
	log := payroll.NewAuditLog()
	bob := withBalance(salaried("Bob", payroll.RoleManager, "6000"), 12)

	// WHEN: Paying out 10 days
	require.NoError(t, vacation(t, log, bob, 10, true))

	// THEN: Balance 2, one payout entry of 10
	assert.Equal(t, 2, bob.VacationDays)
	entries := log.Query("Bob")
	require.Len(t, entries, 1)
	assert.Equal(t, payroll.KindVacationPayout, entries[0].Kind)
	assertDecimal(t, "10", entries[0].Amount)
	assert.Equal(t, "Paid out 10 vacation days", entries[0].Detail)

	// WHEN: Paying out 3 more
	err := vacation(t, log, bob, 3, true)

	// THEN: Policy violation, balance still 2, no new entry
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrPolicyViolation)
	assert.Equal(t, 2, bob.VacationDays)
	assert.Len(t, log.Query("Bob"), 1)

	var violation *payroll.PolicyViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "manager", violation.Policy)
	assert.True(t, violation.Payout)
	assert.Equal(t, 3, violation.Days)
}

func TestVacationCommand_Carol_VPCapAndUndecrementedBalance(t *testing.T) {
	// GIVEN: Carol, VP
	log := payroll.NewAuditLog()
	carol := salaried("Carol", payroll.RoleVicePresident, "9000")
	startBalance := carol.VacationDays

	// WHEN: Taking 6 days
	err := vacation(t, log, carol, 6, false)

	// THEN: Rejected
	assert.ErrorIs(t, err, payroll.ErrPolicyViolation)
	assert.Equal(t, 0, log.Len())

	// WHEN: Taking 5 days
	require.NoError(t, vacation(t, log, carol, 5, false))

	// THEN: Balance unchanged, one VACATION_TAKEN entry of 5
	assert.Equal(t, startBalance, carol.VacationDays)
	entries := log.Query("Carol")
	require.Len(t, entries, 1)
	assert.Equal(t, payroll.KindVacationTaken, entries[0].Kind)
	assertDecimal(t, "5", entries[0].Amount)
	assert.Equal(t, "Took 5 vacation days", entries[0].Detail)
}

func TestVacationCommand_VPBalanceNeverDecremented(t *testing.T) {
	log := payroll.NewAuditLog()
	vp := withBalance(hourly("Vic", payroll.RoleVicePresident, "100", 10), 3)

	for _, req := range []struct {
		days   int
		payout bool
	}{{5, false}, {5, true}, {7, false}, {0, true}, {4, false}} {
		_ = vacation(t, log, vp, req.days, req.payout)
		assert.Equal(t, 3, vp.VacationDays)
	}
}

func TestVacationCommand_AllOrNothing(t *testing.T) {
	cases := []struct {
		name   string
		emp    *payroll.Employee
		days   int
		payout bool
	}{
		{"intern take", salaried("Ivy", payroll.RoleIntern, "100"), 1, false},
		{"basic over balance", withBalance(salaried("Sam", payroll.RoleStaff, "100"), 2), 3, false},
		{"basic payout over cap", salaried("Sam", payroll.RoleStaff, "100"), 6, true},
		{"hourly payout over cap", hourly("Hal", payroll.RoleStaff, "10", 10), 6, true},
		{"manager payout over cap", salaried("Bob", payroll.RoleManager, "100"), 11, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log := payroll.NewAuditLog()
			before := tc.emp.VacationDays

			err := vacation(t, log, tc.emp, tc.days, tc.payout)

			assert.ErrorIs(t, err, payroll.ErrPolicyViolation)
			assert.Equal(t, before, tc.emp.VacationDays)
			assert.Equal(t, 0, log.Len())
		})
	}
}

func TestVacationCommand_SuccessDecrementsAndLogsOnce(t *testing.T) {
	log := payroll.NewAuditLog()
	emp := hourly("Hal", payroll.RoleStaff, "10", 10)

	require.NoError(t, vacation(t, log, emp, 4, false))

	assert.Equal(t, payroll.DefaultVacationDays-4, emp.VacationDays)
	assert.Equal(t, 1, log.Len())
}

func TestVacationCommand_ZeroDays_SucceedsAndLogsNoOp(t *testing.T) {
	// Zero-day requests pass the balance checks and are recorded. This is
	// kept on purpose; interns are still rejected.
	log := payroll.NewAuditLog()
	emp := withBalance(salaried("Sam", payroll.RoleStaff, "100"), 0)

	require.NoError(t, vacation(t, log, emp, 0, false))
	require.NoError(t, vacation(t, log, emp, 0, true))

	assert.Equal(t, 0, emp.VacationDays)
	entries := log.Query("Sam")
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Amount.IsZero())
	assert.Equal(t, "Took 0 vacation days", entries[0].Detail)

	intern := salaried("Ivy", payroll.RoleIntern, "100")
	assert.ErrorIs(t, vacation(t, log, intern, 0, false), payroll.ErrPolicyViolation)
}

func TestVacationCommand_NegativeDays_Rejected(t *testing.T) {
	log := payroll.NewAuditLog()
	emp := salaried("Sam", payroll.RoleStaff, "100")

	err := vacation(t, log, emp, -2, false)

	assert.ErrorIs(t, err, payroll.ErrValidation)
	assert.Equal(t, payroll.DefaultVacationDays, emp.VacationDays)
	assert.Equal(t, 0, log.Len())
}
