package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// PAYMENT RULE TESTS
// =============================================================================

func TestSalariedPayment_ReturnsSalaryVerbatim(t *testing.T) {
	for _, salary := range []string{"0", "1234.56", "5000", "99999.99"} {
		emp := salaried("Dana", payroll.RoleStaff, salary)

		base, err := payroll.SalariedPayment{}.Compute(*emp)

		require.NoError(t, err)
		assertDecimal(t, salary, base)
	}
}

func TestHourlyPayment_RateTimesHours(t *testing.T) {
	cases := []struct {
		rate  string
		hours int
		want  string
	}{
		{"20", 170, "3400"},
		{"15.50", 40, "620"},
		{"33.33", 3, "99.99"},
		{"20", 0, "0"},
	}

	for _, tc := range cases {
		emp := hourly("Eve", payroll.RoleStaff, tc.rate, tc.hours)

		base, err := payroll.HourlyPayment{}.Compute(*emp)

		require.NoError(t, err)
		assertDecimal(t, tc.want, base)
	}
}

func TestFreelancePayment_OnlyDeliveredProjectsCount(t *testing.T) {
	// GIVEN: Two delivered projects and one undelivered
	emp := freelancer("Finn", payroll.RoleStaff,
		project("site", "1200", true),
		project("logo", "300.25", true),
		project("app", "9000", false),
	)

	// WHEN: Computing base pay
	base, err := payroll.FreelancePayment{}.Compute(*emp)

	// THEN: Only delivered amounts are summed
	require.NoError(t, err)
	assertDecimal(t, "1500.25", base)
}

func TestFreelancePayment_UndeliveredProjectNeverChangesBase(t *testing.T) {
	emp := freelancer("Finn", payroll.RoleStaff, project("site", "1200", true))
	before, err := payroll.FreelancePayment{}.Compute(*emp)
	require.NoError(t, err)

	emp.AddProject(project("draft", "800", false))
	after, err := payroll.FreelancePayment{}.Compute(*emp)
	require.NoError(t, err)

	assert.True(t, before.Equal(after))
}

func TestFreelancePayment_NoProjects_IsZero(t *testing.T) {
	base, err := payroll.FreelancePayment{}.Compute(*freelancer("Finn", payroll.RoleStaff))

	require.NoError(t, err)
	assert.True(t, base.IsZero())
}

func TestPaymentRules_MissingField_InvalidState(t *testing.T) {
	cases := []struct {
		name  string
		rule  payroll.PaymentRule
		emp   payroll.Employee
		field string
	}{
		{
			name:  "salaried without salary",
			rule:  payroll.SalariedPayment{},
			emp:   payroll.Employee{Name: "S", Role: payroll.RoleStaff, Type: payroll.Salaried},
			field: "salary",
		},
		{
			name:  "hourly without rate",
			rule:  payroll.HourlyPayment{},
			emp:   payroll.Employee{Name: "H", Role: payroll.RoleStaff, Type: payroll.Hourly, HoursWorked: intPtr(10)},
			field: "hourly_rate",
		},
		{
			name:  "hourly without hours",
			rule:  payroll.HourlyPayment{},
			emp:   payroll.Employee{Name: "H", Role: payroll.RoleStaff, Type: payroll.Hourly, HourlyRate: decPtr("10")},
			field: "hours_worked",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.rule.Compute(tc.emp)

			require.Error(t, err)
			assert.ErrorIs(t, err, payroll.ErrInvalidState)
			assert.ErrorIs(t, err, payroll.ErrValidation)

			var stateErr *payroll.InvalidStateError
			require.ErrorAs(t, err, &stateErr)
			assert.Equal(t, tc.field, stateErr.Field)
		})
	}
}

// =============================================================================
// EMPLOYEE QUERIES
// =============================================================================

func TestEmployee_DeliverProject(t *testing.T) {
	emp := freelancer("Finn", payroll.RoleStaff, project("app", "500", false))

	require.NoError(t, emp.DeliverProject("app"))
	assertDecimal(t, "500", emp.DeliveredTotal())

	assert.ErrorIs(t, emp.DeliverProject("app"), payroll.ErrProjectDelivered)
	assert.ErrorIs(t, emp.DeliverProject("missing"), payroll.ErrProjectNotFound)
}

func TestEmployee_CloneDoesNotAlias(t *testing.T) {
	emp := freelancer("Finn", payroll.RoleStaff, project("app", "500", false))
	emp.Salary = decPtr("1")

	clone := emp.Clone()
	clone.Projects[0].Delivered = true
	*clone.Salary = dec("2")

	assert.False(t, emp.Projects[0].Delivered)
	assertDecimal(t, "1", *emp.Salary)
}

func TestEmployee_Validate(t *testing.T) {
	hours := -1
	tests := []struct {
		name  string
		emp   *payroll.Employee
		field string
	}{
		{"negative salary", salaried("S", payroll.RoleStaff, "-5"), "salary"},
		{"negative rate", hourly("H", payroll.RoleStaff, "-1", 10), "hourly_rate"},
		{"negative hours", &payroll.Employee{Name: "H", Role: payroll.RoleStaff, Type: payroll.Hourly, HourlyRate: decPtr("10"), HoursWorked: &hours}, "hours_worked"},
		{"negative balance", withBalance(salaried("B", payroll.RoleStaff, "100"), -1), "vacation_days"},
		{"negative project", freelancer("F", payroll.RoleStaff, project("app", "-1", true)), "projects.amount"},
		{"missing name", salaried("", payroll.RoleStaff, "100"), "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.emp.Validate()

			var vErr *payroll.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestEmployee_Validate_MissingTypeFieldsLeftToPaymentRules(t *testing.T) {
	emp := &payroll.Employee{Name: "Broken", Role: payroll.RoleStaff, Type: payroll.Salaried}

	assert.NoError(t, emp.Validate())
}

func TestParseRoleAndType(t *testing.T) {
	for _, r := range payroll.AllRoles() {
		got, err := payroll.ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	for _, c := range payroll.AllCompensationTypes() {
		got, err := payroll.ParseCompensationType(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := payroll.ParseRole("ceo")
	assert.ErrorIs(t, err, payroll.ErrValidation)

	_, err = payroll.ParseCompensationType("volunteer")
	assert.ErrorIs(t, err, payroll.ErrValidation)
}
