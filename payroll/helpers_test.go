package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(n int) *int { return &n }

func salaried(name string, role payroll.Role, salary string) *payroll.Employee {
	return &payroll.Employee{
		Name:         name,
		Role:         role,
		Type:         payroll.Salaried,
		VacationDays: payroll.DefaultVacationDays,
		Salary:       decPtr(salary),
	}
}

func hourly(name string, role payroll.Role, rate string, hours int) *payroll.Employee {
	return &payroll.Employee{
		Name:         name,
		Role:         role,
		Type:         payroll.Hourly,
		VacationDays: payroll.DefaultVacationDays,
		HourlyRate:   decPtr(rate),
		HoursWorked:  intPtr(hours),
	}
}

func freelancer(name string, role payroll.Role, projects ...payroll.Project) *payroll.Employee {
	return &payroll.Employee{
		Name:         name,
		Role:         role,
		Type:         payroll.Freelance,
		VacationDays: payroll.DefaultVacationDays,
		Projects:     projects,
	}
}

func project(name, amount string, delivered bool) payroll.Project {
	return payroll.Project{Name: name, Amount: dec(amount), Delivered: delivered}
}

func withBalance(e *payroll.Employee, days int) *payroll.Employee {
	e.VacationDays = days
	return e
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "expected %s, got %s", want, got.String())
}
