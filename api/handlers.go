/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to company.Company.

ENDPOINTS:
  Employees:
    GET    /api/employees?role=&type=       List / filter employees
    POST   /api/employees                   Create employee
    GET    /api/employees/{name}            Employee details + vacation summary
    GET    /api/employees/{name}/history    Audit history

  Vacation and projects:
    POST   /api/employees/{name}/vacation                   Take or pay out days
    POST   /api/employees/{name}/projects                   Add freelancer project
    POST   /api/employees/{name}/projects/{project}/deliver Mark delivered

  Payroll:
    POST   /api/employees/{name}/pay        Pay one employee
    POST   /api/payroll/run                 Pay everyone
    GET    /api/payroll/schedule            Automatic run status

  Audit and config:
    GET    /api/audit?employee=&kind=&from=&to=
    GET    /api/config
    PUT    /api/config

  Scenarios:
    GET    /api/scenarios                   List demo scenarios
    POST   /api/scenarios/load              Load a demo scenario
    POST   /api/scenarios/reset             Clear roster and audit log

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Company: roster, audit log, configuration
  - EmployeeFactory: JSON to Employee conversion
  - Scheduler: optional automatic payroll runs

REQUEST FLOW:
  1. Parse HTTP request
  2. Call company operation (validation happens there)
  3. Serialize response
  4. Map errors to status codes

ERROR HANDLING:
  Errors are returned as JSON {"error", "details"} with:
  - 400: Validation errors, invalid employee state, invalid input
  - 404: Employee or project not found
  - 409: Duplicate employee, project already delivered
  - 422: Vacation policy violation
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/payroll-engine/company"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Company         *company.Company
	EmployeeFactory *factory.EmployeeFactory
	Scheduler       *PayrollScheduler

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler for the given company.
func NewHandler(c *company.Company) *Handler {
	return &Handler{
		Company:         c,
		EmployeeFactory: factory.NewEmployeeFactory(),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees, optionally filtered by role and type.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees := h.Company.Employees()

	if tag := r.URL.Query().Get("role"); tag != "" {
		role, err := payroll.ParseRole(strings.ToLower(tag))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid role filter", err)
			return
		}
		employees = h.Company.FindByRole(role)
	}
	if tag := r.URL.Query().Get("type"); tag != "" {
		compType, err := payroll.ParseCompensationType(strings.ToLower(tag))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid type filter", err)
			return
		}
		filtered := employees[:0]
		for _, e := range employees {
			if e.Type == compType {
				filtered = append(filtered, e)
			}
		}
		employees = filtered
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee with its vacation summary.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	emp, err := h.Company.Employee(name)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	summary, err := h.Company.VacationSummary(name)
	if err != nil {
		writeDomainError(w, "Failed to get vacation summary", err)
		return
	}

	dto := toEmployeeDTO(emp)
	dto.Vacation = toVacationSummaryDTO(summary)
	writeJSON(w, http.StatusOK, dto)
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req factory.EmployeeJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.EmployeeFactory.FromJSON(req)
	if err != nil {
		writeDomainError(w, "Invalid employee", err)
		return
	}

	created, err := h.Company.Add(r.Context(), emp)
	if err != nil {
		writeDomainError(w, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(created))
}

// GetHistory returns the audit entries for one employee.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if _, err := h.Company.Employee(name); err != nil {
		writeDomainError(w, "Failed to get history", err)
		return
	}

	writeJSON(w, http.StatusOK, toAuditEntryDTOs(h.Company.History(name)))
}

// =============================================================================
// VACATION AND PROJECT HANDLERS
// =============================================================================

// RequestVacation takes or pays out vacation days.
func (h *Handler) RequestVacation(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req VacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Days == nil {
		writeError(w, http.StatusBadRequest, "days is required", nil)
		return
	}

	emp, err := h.Company.GrantVacation(r.Context(), name, *req.Days, req.Payout)
	if err != nil {
		writeDomainError(w, "Vacation request rejected", err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// AddProject attaches a project to a freelancer.
func (h *Handler) AddProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req AddProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.Company.AddProject(r.Context(), name, req.Name, req.Amount, req.IsDelivered())
	if err != nil {
		writeDomainError(w, "Failed to add project", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// DeliverProject marks a freelancer project as delivered.
func (h *Handler) DeliverProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	project := chi.URLParam(r, "project")

	emp, err := h.Company.DeliverProject(r.Context(), name, project)
	if err != nil {
		writeDomainError(w, "Failed to deliver project", err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// PayEmployee pays one employee.
func (h *Handler) PayEmployee(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	summary, err := h.Company.PayEmployee(r.Context(), name)
	if err != nil {
		writeDomainError(w, "Payment failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentDTO(summary))
}

// RunPayroll pays every employee in roster order.
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Company.PayAll(r.Context())
	resp := toPayrollRunResponse(summaries, err)
	if err != nil {
		writeJSON(w, statusFor(err), resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetSchedule reports the automatic payroll scheduler state.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeJSON(w, http.StatusOK, ScheduleDTO{Enabled: false})
		return
	}
	writeJSON(w, http.StatusOK, h.Scheduler.Status())
}

// =============================================================================
// AUDIT AND CONFIG HANDLERS
// =============================================================================

// QueryAudit returns audit entries filtered by employee, kind and time range.
func (h *Handler) QueryAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := payroll.AuditFilter{EmployeeName: q.Get("employee")}

	for _, tag := range q["kind"] {
		kind, err := payroll.ParseKind(strings.ToUpper(tag))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid kind filter", err)
			return
		}
		filter.Kinds = append(filter.Kinds, kind)
	}
	for param, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid "+param+" (use RFC3339)", err)
			return
		}
		*dst = &t
	}

	entries, err := h.Company.Audit(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query audit log", err)
		return
	}

	writeJSON(w, http.StatusOK, toAuditEntryDTOs(entries))
}

// GetConfig returns the active payroll configuration.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toConfigDTO(h.Company.Config()))
}

// UpdateConfig changes any subset of the payroll configuration.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	update := payroll.ConfigUpdate{
		SalariedBonusPercentage: req.SalariedBonusPercentage,
		HourlyBonusThreshold:    req.HourlyBonusThreshold,
		HourlyBonusAmount:       req.HourlyBonusAmount,
	}
	if update.IsEmpty() {
		writeError(w, http.StatusBadRequest, "No configuration fields given", nil)
		return
	}

	cfg, err := h.Company.UpdateConfig(r.Context(), update)
	if err != nil {
		writeDomainError(w, "Failed to update config", err)
		return
	}

	writeJSON(w, http.StatusOK, toConfigDTO(cfg))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError writes err with the status its classification maps to.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, payroll.ErrDuplicateEmployee), errors.Is(err, payroll.ErrProjectDelivered):
		return http.StatusConflict
	case payroll.IsNotFound(err):
		return http.StatusNotFound
	case payroll.IsPolicyViolation(err):
		return http.StatusUnprocessableEntity
	case payroll.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
