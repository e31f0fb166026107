/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built companies that populate the roster with realistic
	employees for demos. Each scenario exercises specific payment and
	vacation rules.

AVAILABLE SCENARIOS:

	mixed-company:  One of each role and compensation type (Alice, Bob, Carol...)
	hourly-team:    Hourly workers around the bonus threshold
	freelancers:    Freelancers with delivered and pending projects
	vacation-rules: One employee per vacation policy

HOW SCENARIOS WORK:
 1. Reset the company (roster and audit log; config is kept)
 2. Create employees from JSON via the factory
 3. Optionally add projects or vacation activity

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "mixed-company"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add the loader to 'scenarioLoaders'

NOTE:

	Scenarios reset the company. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler
  - factory/employee.go: Employee JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "mixed-company",
		Name:        "Mixed Company",
		Description: "Hourly, salaried and freelance staff across every role",
		Category:    "payroll",
	},
	{
		ID:          "hourly-team",
		Name:        "Hourly Team",
		Description: "Hourly workers just below, at and above the bonus threshold",
		Category:    "payroll",
	},
	{
		ID:          "freelancers",
		Name:        "Freelancers",
		Description: "Freelancers paid only for delivered projects",
		Category:    "payroll",
	},
	{
		ID:          "vacation-rules",
		Name:        "Vacation Rules",
		Description: "One employee per vacation policy, with some days already used",
		Category:    "vacation",
	},
}

var scenarioLoaders = map[string]func(h *Handler, ctx context.Context) error{
	"mixed-company":  (*Handler).loadMixedCompanyScenario,
	"hourly-team":    (*Handler).loadHourlyTeamScenario,
	"freelancers":    (*Handler).loadFreelancersScenario,
	"vacation-rules": (*Handler).loadVacationRulesScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.ApplyScenario(r.Context(), req.ScenarioID); err != nil {
		if errors.Is(err, ErrUnknownScenario) {
			writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "loaded",
		"scenario":  req.ScenarioID,
		"employees": len(h.Company.Employees()),
	})
}

// ErrUnknownScenario is returned by ApplyScenario for an unlisted ID.
var ErrUnknownScenario = errors.New("unknown scenario")

// ApplyScenario resets the company and loads the scenario with the given ID.
func (h *Handler) ApplyScenario(ctx context.Context, id string) error {
	load, ok := scenarioLoaders[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.Company.Reset(ctx)
	h.currentScenario = ""

	if err := load(h, ctx); err != nil {
		return err
	}
	h.currentScenario = id
	return nil
}

// ResetCompany clears the roster and the audit log.
func (h *Handler) ResetCompany(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Company.Reset(r.Context())
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadMixedCompanyScenario(ctx context.Context) error {
	employees := []string{
		`{"name": "Alice", "role": "staff", "type": "hourly", "hourly_rate": 20, "hours_worked": 170}`,
		`{"name": "Bob", "role": "manager", "type": "salaried", "salary": 6000, "vacation_days": 12}`,
		`{"name": "Carol", "role": "vice_president", "type": "salaried", "salary": 9000}`,
		`{"name": "Ivy", "role": "intern", "type": "salaried", "salary": 1500}`,
		`{"name": "Dan", "role": "staff", "type": "salaried", "salary": 4200}`,
		`{"name": "Finn", "role": "staff", "type": "freelancer"}`,
	}
	if err := h.createEmployeesFromJSON(ctx, employees); err != nil {
		return err
	}

	if _, err := h.Company.AddProject(ctx, "Finn", "Website redesign", decimal.NewFromInt(2400), true); err != nil {
		return err
	}
	_, err := h.Company.AddProject(ctx, "Finn", "Mobile app", decimal.NewFromInt(5000), false)
	return err
}

func (h *Handler) loadHourlyTeamScenario(ctx context.Context) error {
	return h.createEmployeesFromJSON(ctx, []string{
		`{"name": "Hana", "role": "staff", "type": "hourly", "hourly_rate": 18.5, "hours_worked": 159}`,
		`{"name": "Hugo", "role": "staff", "type": "hourly", "hourly_rate": 22, "hours_worked": 160}`,
		`{"name": "Hiro", "role": "staff", "type": "hourly", "hourly_rate": 25, "hours_worked": 161}`,
		`{"name": "Helen", "role": "manager", "type": "hourly", "hourly_rate": 40, "hours_worked": 175}`,
		`{"name": "Ian", "role": "intern", "type": "hourly", "hourly_rate": 12, "hours_worked": 200}`,
	})
}

func (h *Handler) loadFreelancersScenario(ctx context.Context) error {
	if err := h.createEmployeesFromJSON(ctx, []string{
		`{"name": "Finn", "role": "staff", "type": "freelancer"}`,
		`{"name": "Frida", "role": "manager", "type": "freelancer"}`,
	}); err != nil {
		return err
	}

	projects := []struct {
		employee  string
		name      string
		amount    int64
		delivered bool
	}{
		{"Finn", "Logo", 300, true},
		{"Finn", "Website", 2400, true},
		{"Finn", "Mobile app", 5000, false},
		{"Frida", "Audit report", 1800, false},
	}
	for _, p := range projects {
		if _, err := h.Company.AddProject(ctx, p.employee, p.name, decimal.NewFromInt(p.amount), p.delivered); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadVacationRulesScenario(ctx context.Context) error {
	if err := h.createEmployeesFromJSON(ctx, []string{
		`{"name": "Ivy", "role": "intern", "type": "salaried", "salary": 1500}`,
		`{"name": "Bob", "role": "manager", "type": "salaried", "salary": 6000, "vacation_days": 12}`,
		`{"name": "Carol", "role": "vice_president", "type": "salaried", "salary": 9000}`,
		`{"name": "Hugo", "role": "staff", "type": "hourly", "hourly_rate": 22, "hours_worked": 160}`,
		`{"name": "Dan", "role": "staff", "type": "salaried", "salary": 4200, "vacation_days": 3}`,
	}); err != nil {
		return err
	}

	// Some history so the audit view is not empty.
	if _, err := h.Company.GrantVacation(ctx, "Bob", 10, true); err != nil {
		return err
	}
	_, err := h.Company.GrantVacation(ctx, "Carol", 5, false)
	return err
}

func (h *Handler) createEmployeesFromJSON(ctx context.Context, docs []string) error {
	for _, doc := range docs {
		emp, err := h.EmployeeFactory.ParseEmployee(doc)
		if err != nil {
			return err
		}
		if _, err := h.Company.Add(ctx, emp); err != nil {
			return err
		}
	}
	return nil
}
