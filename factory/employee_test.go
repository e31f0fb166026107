package factory_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

func TestFromMap_Salaried(t *testing.T) {
	f := factory.NewEmployeeFactory()

	emp, err := f.FromMap(map[string]any{
		"name":   "Sam",
		"role":   "manager",
		"type":   "salaried",
		"salary": 5000.5,
		// hourly keys are ignored for a salaried employee
		"hourly_rate": 99,
	})

	require.NoError(t, err)
	assert.Equal(t, "Sam", emp.Name)
	assert.Equal(t, payroll.RoleManager, emp.Role)
	assert.Equal(t, payroll.Salaried, emp.Type)
	assert.Equal(t, payroll.DefaultVacationDays, emp.VacationDays)
	require.NotNil(t, emp.Salary)
	assert.True(t, decimal.RequireFromString("5000.5").Equal(*emp.Salary))
	assert.Nil(t, emp.HourlyRate)
	assert.Nil(t, emp.HoursWorked)
}

func TestFromMap_Hourly(t *testing.T) {
	f := factory.NewEmployeeFactory()

	emp, err := f.FromMap(map[string]any{
		"name":         "Alice",
		"role":         "staff",
		"type":         "hourly",
		"hourly_rate":  "20",
		"hours_worked": 170,
		"salary":       1,
	})

	require.NoError(t, err)
	assert.Equal(t, payroll.Hourly, emp.Type)
	assert.True(t, decimal.NewFromInt(20).Equal(*emp.HourlyRate))
	assert.Equal(t, 170, *emp.HoursWorked)
	assert.Nil(t, emp.Salary)
}

func TestFromMap_Freelancer(t *testing.T) {
	f := factory.NewEmployeeFactory()

	emp, err := f.FromMap(map[string]any{"name": "Finn", "role": "staff", "type": "freelancer"})

	require.NoError(t, err)
	assert.Equal(t, payroll.Freelance, emp.Type)
	assert.Empty(t, emp.Projects)
	assert.Nil(t, emp.Salary)
}

func TestFromMap_VacationDaysOverride(t *testing.T) {
	f := factory.NewEmployeeFactory()

	emp, err := f.FromMap(map[string]any{
		"name": "Bob", "role": "manager", "type": "salaried", "salary": 1, "vacation_days": 12,
	})

	require.NoError(t, err)
	assert.Equal(t, 12, emp.VacationDays)
}

func TestFromMap_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		data  map[string]any
		field string
	}{
		{"missing name", map[string]any{"role": "staff", "type": "freelancer"}, "name"},
		{"blank name", map[string]any{"name": "  ", "role": "staff", "type": "freelancer"}, "name"},
		{"missing role", map[string]any{"name": "X", "type": "freelancer"}, "role"},
		{"unknown role", map[string]any{"name": "X", "role": "ceo", "type": "freelancer"}, "role"},
		{"missing type", map[string]any{"name": "X", "role": "staff"}, "type"},
		{"unknown type", map[string]any{"name": "X", "role": "staff", "type": "volunteer"}, "type"},
		{"salaried without salary", map[string]any{"name": "X", "role": "staff", "type": "salaried"}, "salary"},
		{"negative salary", map[string]any{"name": "X", "role": "staff", "type": "salaried", "salary": -1}, "salary"},
		{"salary not a number", map[string]any{"name": "X", "role": "staff", "type": "salaried", "salary": "lots"}, "salary"},
		{"hourly without rate", map[string]any{"name": "X", "role": "staff", "type": "hourly", "hours_worked": 1}, "hourly_rate"},
		{"hourly without hours", map[string]any{"name": "X", "role": "staff", "type": "hourly", "hourly_rate": 1}, "hours_worked"},
		{"fractional hours", map[string]any{"name": "X", "role": "staff", "type": "hourly", "hourly_rate": 1, "hours_worked": 1.5}, "hours_worked"},
		{"role not a string", map[string]any{"name": "X", "role": 7, "type": "hourly"}, "role"},
		{"negative vacation", map[string]any{"name": "X", "role": "staff", "type": "freelancer", "vacation_days": -1}, "vacation_days"},
		{"hours beyond int range", map[string]any{"name": "X", "role": "staff", "type": "hourly", "hourly_rate": 1, "hours_worked": 1e19}, "hours_worked"},
		{"vacation beyond int range", map[string]any{"name": "X", "role": "staff", "type": "freelancer", "vacation_days": -1e19}, "vacation_days"},
	}

	f := factory.NewEmployeeFactory()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.FromMap(tc.data)

			require.Error(t, err)
			assert.ErrorIs(t, err, payroll.ErrValidation)

			var vErr *payroll.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestFromMap_HugeNumberReportedAsOutOfRange(t *testing.T) {
	_, err := factory.NewEmployeeFactory().FromMap(map[string]any{
		"name": "X", "role": "staff", "type": "hourly", "hourly_rate": 1, "hours_worked": 1e19,
	})

	var vErr *payroll.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "out of range")
}

func TestParseEmployee_JSONNumbers(t *testing.T) {
	f := factory.NewEmployeeFactory()

	emp, err := f.ParseEmployee(`{"name":"Alice","role":"staff","type":"hourly","hourly_rate":20.25,"hours_worked":170}`)

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("20.25").Equal(*emp.HourlyRate))
	assert.Equal(t, 170, *emp.HoursWorked)
}

func TestParseEmployee_Malformed(t *testing.T) {
	_, err := factory.NewEmployeeFactory().ParseEmployee(`{"name":`)

	assert.ErrorIs(t, err, payroll.ErrValidation)
}

func TestFromJSON_RoundTripsThroughToJSON(t *testing.T) {
	f := factory.NewEmployeeFactory()
	var ej factory.EmployeeJSON
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Finn", "role": "staff", "type": "freelancer", "vacation_days": 0,
		"projects": [{"name": "site", "amount": 1200, "delivered": true}]
	}`), &ej))

	emp, err := f.FromJSON(ej)
	require.NoError(t, err)
	assert.Equal(t, 0, emp.VacationDays, "explicit zero is kept")
	require.Len(t, emp.Projects, 1)
	assert.True(t, emp.Projects[0].Delivered)

	back := f.ToJSON(*emp)
	assert.Equal(t, "Finn", back.Name)
	assert.Equal(t, 0, *back.VacationDays)
	require.Len(t, back.Projects, 1)
	assert.True(t, decimal.NewFromInt(1200).Equal(back.Projects[0].Amount))
}
