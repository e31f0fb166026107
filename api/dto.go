/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the payroll domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Responses carry money as JSON numbers (float64) for display. Requests
  accept numbers or numeric strings and are parsed into decimal.Decimal,
  so arithmetic never happens on floats.

TYPES:
  Employee:  EmployeeDTO, ProjectDTO, VacationSummaryDTO
             (create requests use factory.EmployeeJSON)
  Vacation:  VacationRequest
  Projects:  AddProjectRequest
  Payments:  PaymentDTO, PayrollRunResponse, ScheduleDTO
  Audit:     AuditEntryDTO
  Config:    ConfigDTO, UpdateConfigRequest
  Scenarios: ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done by the factory and the payroll commands, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/employee.go: EmployeeJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/company"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	Name         string              `json:"name"`
	Role         string              `json:"role"`
	Type         string              `json:"type"`
	VacationDays int                 `json:"vacation_days"`
	Salary       *float64            `json:"salary,omitempty"`
	HourlyRate   *float64            `json:"hourly_rate,omitempty"`
	HoursWorked  *int                `json:"hours_worked,omitempty"`
	Projects     []ProjectDTO        `json:"projects,omitempty"`
	Vacation     *VacationSummaryDTO `json:"vacation,omitempty"`
}

// ProjectDTO represents a freelancer project.
type ProjectDTO struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Delivered bool    `json:"delivered"`
}

// VacationSummaryDTO describes the vacation policy for an employee.
// Entitlement is null for an unlimited entitlement.
type VacationSummaryDTO struct {
	Policy      string `json:"policy"`
	Balance     int    `json:"balance"`
	Entitlement *int   `json:"entitlement"`
	Unlimited   bool   `json:"unlimited"`
}

// VacationRequest takes or pays out vacation days.
type VacationRequest struct {
	Days   *int `json:"days"`
	Payout bool `json:"payout"`
}

// AddProjectRequest attaches a project to a freelancer. An omitted
// delivered flag means the project is already delivered.
type AddProjectRequest struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Delivered *bool           `json:"delivered,omitempty"`
}

// IsDelivered reports the requested delivered flag, true when omitted.
func (r AddProjectRequest) IsDelivered() bool {
	return r.Delivered == nil || *r.Delivered
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PaymentDTO represents one completed payment.
type PaymentDTO struct {
	Employee string  `json:"employee"`
	Role     string  `json:"role"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
}

// PayrollRunResponse is the result of paying every employee. When the run
// stops early, Payments holds what was completed and Error says why.
type PayrollRunResponse struct {
	Payments []PaymentDTO `json:"payments"`
	Total    float64      `json:"total"`
	Error    string       `json:"error,omitempty"`
}

// ScheduleDTO describes the automatic payroll scheduler.
type ScheduleDTO struct {
	Enabled   bool                `json:"enabled"`
	Interval  string              `json:"interval,omitempty"`
	LastRunAt string              `json:"last_run_at,omitempty"`
	NextRunAt string              `json:"next_run_at,omitempty"`
	LastRun   *PayrollRunResponse `json:"last_run,omitempty"`
}

// =============================================================================
// AUDIT
// =============================================================================

// AuditEntryDTO represents one audit log entry.
type AuditEntryDTO struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Kind      string  `json:"kind"`
	Employee  string  `json:"employee"`
	Amount    float64 `json:"amount"`
	Detail    string  `json:"detail"`
}

// =============================================================================
// CONFIG
// =============================================================================

// ConfigDTO represents the payroll configuration.
type ConfigDTO struct {
	SalariedBonusPercentage float64 `json:"salaried_bonus_percentage"`
	HourlyBonusThreshold    int     `json:"hourly_bonus_threshold"`
	HourlyBonusAmount       float64 `json:"hourly_bonus_amount"`
}

// UpdateConfigRequest changes any subset of the configuration.
type UpdateConfigRequest struct {
	SalariedBonusPercentage *decimal.Decimal `json:"salaried_bonus_percentage"`
	HourlyBonusThreshold    *int             `json:"hourly_bonus_threshold"`
	HourlyBonusAmount       *decimal.Decimal `json:"hourly_bonus_amount"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		Name:         e.Name,
		Role:         string(e.Role),
		Type:         string(e.Type),
		VacationDays: e.VacationDays,
		Salary:       moneyPtr(e.Salary),
		HourlyRate:   moneyPtr(e.HourlyRate),
		HoursWorked:  e.HoursWorked,
	}
	for _, p := range e.Projects {
		dto.Projects = append(dto.Projects, ProjectDTO{
			Name:      p.Name,
			Amount:    p.Amount.InexactFloat64(),
			Delivered: p.Delivered,
		})
	}
	return dto
}

func toVacationSummaryDTO(s company.VacationSummary) *VacationSummaryDTO {
	dto := &VacationSummaryDTO{Policy: s.Policy, Balance: s.Balance}
	if days, ok := s.Entitlement.Days(); ok {
		dto.Entitlement = &days
	} else {
		dto.Unlimited = true
	}
	return dto
}

func toPaymentDTO(s company.PaymentSummary) PaymentDTO {
	return PaymentDTO{
		Employee: s.Employee,
		Role:     string(s.Role),
		Type:     string(s.Type),
		Amount:   s.Amount.InexactFloat64(),
	}
}

func toPayrollRunResponse(summaries []company.PaymentSummary, err error) PayrollRunResponse {
	resp := PayrollRunResponse{Payments: make([]PaymentDTO, 0, len(summaries))}
	total := decimal.Zero
	for _, s := range summaries {
		resp.Payments = append(resp.Payments, toPaymentDTO(s))
		total = total.Add(s.Amount)
	}
	resp.Total = total.InexactFloat64()
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func toAuditEntryDTO(e payroll.Entry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(time.RFC3339Nano),
		Kind:      string(e.Kind),
		Employee:  e.EmployeeName,
		Amount:    e.Amount.InexactFloat64(),
		Detail:    e.Detail,
	}
}

func toAuditEntryDTOs(entries []payroll.Entry) []AuditEntryDTO {
	dtos := make([]AuditEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toAuditEntryDTO(e)
	}
	return dtos
}

func toConfigDTO(c payroll.Config) ConfigDTO {
	return ConfigDTO{
		SalariedBonusPercentage: c.SalariedBonusPercentage.InexactFloat64(),
		HourlyBonusThreshold:    c.HourlyBonusThreshold,
		HourlyBonusAmount:       c.HourlyBonusAmount.InexactFloat64(),
	}
}

func moneyPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
