/*
Package factory provides loose-input to Employee conversion.

PURPOSE:
  Converts construction input (a mapping decoded from JSON, a form, or a
  test table) into a well-formed payroll.Employee. This is the only place
  employees are built from untrusted input, so every required key is
  checked here and every failure is a payroll.ValidationError naming the
  offending field.

INPUT KEYS:
  {
    "name": "Alice",
    "role": "staff",             // intern | manager | vice_president | staff
    "type": "hourly",            // salaried | hourly | freelancer
    "salary": 5000,              // required iff type == salaried
    "hourly_rate": 20,           // required iff type == hourly
    "hours_worked": 170,         // required iff type == hourly
    "vacation_days": 25          // optional, defaults to 25
  }

  Keys belonging to another compensation type are ignored, so the
  resulting employee only carries the fields its type uses.

NUMBERS:
  Numeric values may arrive as float64 (encoding/json default), int,
  json.Number (decoder.UseNumber), decimal.Decimal, or numeric strings.
  Money is always converted to decimal.Decimal.

USAGE:
  f := factory.NewEmployeeFactory()
  emp, err := f.FromMap(map[string]any{
      "name": "Alice", "role": "staff", "type": "hourly",
      "hourly_rate": 20, "hours_worked": 170,
  })

SEE ALSO:
  - payroll/types.go: Employee definition
  - company/company.go: AddEmployee uses this factory
*/
package factory

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// EmployeeJSON is the JSON representation of an employee.
type EmployeeJSON struct {
	Name         string           `json:"name"`
	Role         string           `json:"role"`
	Type         string           `json:"type"`
	VacationDays *int             `json:"vacation_days,omitempty"`
	Salary       *decimal.Decimal `json:"salary,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate,omitempty"`
	HoursWorked  *int             `json:"hours_worked,omitempty"`
	Projects     []ProjectJSON    `json:"projects,omitempty"`
}

// ProjectJSON is the JSON representation of a freelancer project.
type ProjectJSON struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Delivered bool            `json:"delivered"`
}

// =============================================================================
// EMPLOYEE FACTORY
// =============================================================================

// EmployeeFactory builds employees from construction input.
type EmployeeFactory struct{}

// NewEmployeeFactory creates a new employee factory.
func NewEmployeeFactory() *EmployeeFactory {
	return &EmployeeFactory{}
}

// ParseEmployee parses a JSON document into an Employee.
func (f *EmployeeFactory) ParseEmployee(jsonStr string) (*payroll.Employee, error) {
	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, &payroll.ValidationError{Reason: fmt.Sprintf("failed to parse employee JSON: %v", err)}
	}
	return f.FromMap(data)
}

// FromMap builds an Employee from a key/value mapping.
func (f *EmployeeFactory) FromMap(data map[string]any) (*payroll.Employee, error) {
	name, err := requireString(data, "name")
	if err != nil {
		return nil, err
	}
	roleTag, err := requireString(data, "role")
	if err != nil {
		return nil, err
	}
	typeTag, err := requireString(data, "type")
	if err != nil {
		return nil, err
	}

	role, err := payroll.ParseRole(strings.ToLower(roleTag))
	if err != nil {
		return nil, err
	}
	compType, err := payroll.ParseCompensationType(strings.ToLower(typeTag))
	if err != nil {
		return nil, err
	}

	emp := &payroll.Employee{
		Name:         name,
		Role:         role,
		Type:         compType,
		VacationDays: payroll.DefaultVacationDays,
	}

	if _, ok := data["vacation_days"]; ok {
		days, err := requireInt(data, "vacation_days")
		if err != nil {
			return nil, err
		}
		if days < 0 {
			return nil, &payroll.ValidationError{Field: "vacation_days", Reason: "must not be negative"}
		}
		emp.VacationDays = days
	}

	switch compType {
	case payroll.Salaried:
		salary, err := requireMoney(data, "salary")
		if err != nil {
			return nil, err
		}
		emp.Salary = &salary

	case payroll.Hourly:
		rate, err := requireMoney(data, "hourly_rate")
		if err != nil {
			return nil, err
		}
		hours, err := requireInt(data, "hours_worked")
		if err != nil {
			return nil, err
		}
		if hours < 0 {
			return nil, &payroll.ValidationError{Field: "hours_worked", Reason: "must not be negative"}
		}
		emp.HourlyRate = &rate
		emp.HoursWorked = &hours

	case payroll.Freelance:
		// Projects are added after construction.
	}

	return emp, nil
}

// FromJSON converts EmployeeJSON to an Employee, applying the same checks
// as FromMap. Projects are carried over for freelancers only.
func (f *EmployeeFactory) FromJSON(ej EmployeeJSON) (*payroll.Employee, error) {
	data := map[string]any{
		"name": ej.Name,
		"role": ej.Role,
		"type": ej.Type,
	}
	if ej.VacationDays != nil {
		data["vacation_days"] = *ej.VacationDays
	}
	if ej.Salary != nil {
		data["salary"] = *ej.Salary
	}
	if ej.HourlyRate != nil {
		data["hourly_rate"] = *ej.HourlyRate
	}
	if ej.HoursWorked != nil {
		data["hours_worked"] = *ej.HoursWorked
	}

	emp, err := f.FromMap(data)
	if err != nil {
		return nil, err
	}

	if emp.Type == payroll.Freelance {
		for _, pj := range ej.Projects {
			if pj.Amount.IsNegative() {
				return nil, &payroll.ValidationError{Field: "projects.amount", Reason: "must not be negative"}
			}
			emp.AddProject(payroll.Project{Name: pj.Name, Amount: pj.Amount, Delivered: pj.Delivered})
		}
	}
	return emp, nil
}

// ToJSON converts an Employee to EmployeeJSON.
func (f *EmployeeFactory) ToJSON(e payroll.Employee) EmployeeJSON {
	days := e.VacationDays
	ej := EmployeeJSON{
		Name:         e.Name,
		Role:         string(e.Role),
		Type:         string(e.Type),
		VacationDays: &days,
		Salary:       e.Salary,
		HourlyRate:   e.HourlyRate,
		HoursWorked:  e.HoursWorked,
	}
	for _, p := range e.Projects {
		ej.Projects = append(ej.Projects, ProjectJSON{Name: p.Name, Amount: p.Amount, Delivered: p.Delivered})
	}
	return ej
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

func requireString(data map[string]any, key string) (string, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", &payroll.ValidationError{Field: key, Reason: "is required"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &payroll.ValidationError{Field: key, Reason: fmt.Sprintf("must be a string, got %T", v)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &payroll.ValidationError{Field: key, Reason: "must not be empty"}
	}
	return s, nil
}

func requireMoney(data map[string]any, key string) (decimal.Decimal, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return decimal.Zero, &payroll.ValidationError{Field: key, Reason: "is required"}
	}
	d, err := toDecimal(v)
	if err != nil {
		return decimal.Zero, &payroll.ValidationError{Field: key, Reason: err.Error()}
	}
	if d.IsNegative() {
		return decimal.Zero, &payroll.ValidationError{Field: key, Reason: "must not be negative"}
	}
	return d, nil
}

func requireInt(data map[string]any, key string) (int, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return 0, &payroll.ValidationError{Field: key, Reason: "is required"}
	}
	n, err := toInt(v)
	if err != nil {
		return 0, &payroll.ValidationError{Field: key, Reason: err.Error()}
	}
	return n, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, fmt.Errorf("must be a finite number")
		}
		return decimal.NewFromFloat(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case json.Number:
		return decimal.NewFromString(x.String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, fmt.Errorf("must be a number, got %q", x)
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("must be a number, got %T", v)
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		if x < math.MinInt || x > math.MaxInt {
			return 0, fmt.Errorf("out of range: %d", x)
		}
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("must be a whole number, got %v", x)
		}
		// -math.MinInt is exactly representable; math.MaxInt is not.
		if x < math.MinInt || x >= -math.MinInt {
			return 0, fmt.Errorf("out of range: %v", x)
		}
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("must be a whole number, got %s", x)
		}
		return toInt(n)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("must be a whole number, got %q", x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("must be a whole number, got %T", v)
}
