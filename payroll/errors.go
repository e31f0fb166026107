/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify failures with errors.Is against the sentinels below
  and extract detail with errors.As against the structured types.

ERROR CATEGORIES:
  1. Validation errors - Malformed construction input, missing required fields
  2. Policy violations - Vacation request rejected by the selected policy
  3. Unknown types     - Enum value outside the closed domain reached the selector
  4. Lookup errors     - Employee or project not found, duplicates

NO RETRIES:
  Nothing in this package retries. Every error is reported once to the
  immediate caller, and a failed command leaves no state change and no
  audit entry behind.

USAGE:
  err := company.GrantVacation(ctx, "Bob", 3, true)
  if errors.Is(err, payroll.ErrPolicyViolation) {
      // tell the user, let them retry with different parameters
  }

SEE ALSO:
  - commands.go: Produces PolicyViolationError
  - selector.go: Produces UnknownTypeError
  - payment.go: Produces InvalidStateError
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned for malformed input or a missing field
	// required by the employee's declared compensation type.
	ErrValidation = errors.New("validation error")

	// ErrInvalidState is returned by a payment rule when the employee lacks
	// a field its compensation type requires. It also matches ErrValidation.
	ErrInvalidState = errors.New("invalid employee state")

	// ErrPolicyViolation is returned when a vacation request fails the
	// selected policy's take or payout check.
	ErrPolicyViolation = errors.New("vacation policy violation")

	// ErrUnknownType is returned when an enum value outside the declared set
	// reaches the rule selector. This is a programming error.
	ErrUnknownType = errors.New("unknown type")

	// ErrEmployeeNotFound is returned when no employee has the given name.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDuplicateEmployee is returned when an employee name is already taken.
	ErrDuplicateEmployee = errors.New("duplicate employee name")

	// ErrNotFreelancer is returned when a project is added to a non-freelancer.
	ErrNotFreelancer = errors.New("only freelancers can have projects")

	// ErrProjectNotFound is returned when a named project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectDelivered is returned when delivering an already delivered project.
	ErrProjectDelivered = errors.New("project already delivered")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvalidStateError reports a required field that is unset for the
// employee's declared compensation type.
type InvalidStateError struct {
	Employee string
	Type     CompensationType
	Field    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid employee state: %s employee %q has no %s", e.Type, e.Employee, e.Field)
}

func (e *InvalidStateError) Unwrap() []error {
	return []error{ErrInvalidState, ErrValidation}
}

// PolicyViolationError provides details about a rejected vacation request.
type PolicyViolationError struct {
	Employee string
	Policy   string
	Days     int
	Payout   bool
}

func (e *PolicyViolationError) Error() string {
	action := "take"
	if e.Payout {
		action = "payout"
	}
	return fmt.Sprintf("cannot %s %d vacation days for %s (%s policy)", action, e.Days, e.Employee, e.Policy)
}

func (e *PolicyViolationError) Unwrap() error {
	return ErrPolicyViolation
}

// UnknownTypeError reports an enum value outside the closed domain.
type UnknownTypeError struct {
	Kind  string // "role" or "compensation type"
	Value string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}

func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// or a rejected request the caller may retry with different parameters.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrPolicyViolation) ||
		errors.Is(err, ErrNotFreelancer) ||
		errors.Is(err, ErrProjectDelivered)
}

// IsNotFound returns true if the error indicates a missing employee or project.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrProjectNotFound)
}

// IsPolicyViolation returns true if a vacation policy rejected the request.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrPolicyViolation)
}
