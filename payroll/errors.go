/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All domain errors in one place, grouped by the four recoverable classes:
  validation (malformed/out-of-range input, detected before any mutation),
  not-found (unknown employee or union member), state (undo/redo on an empty
  stack - see the history package), and domain-rule (operation inapplicable
  to the employee's variant).

  Each error carries a stable message used verbatim by both the interactive
  surface and the scripted acceptance harness.

USAGE:
  Callers classify with errors.Is or the helpers below:

    if payroll.IsNotFound(err) { ... 404 ... }
*/
package payroll

import (
	"errors"
	"fmt"

	"github.com/warp/payroll-engine/history"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// Validation errors.
	ErrEmptyID             = errors.New("employee id must be provided")
	ErrEmptyName           = errors.New("name must be provided")
	ErrEmptyAddress        = errors.New("address must be provided")
	ErrInvalidKind         = errors.New("invalid employee kind")
	ErrPayNotNumeric       = errors.New("base pay must be numeric")
	ErrPayNegative         = errors.New("base pay must not be negative")
	ErrRateNotNumeric      = errors.New("commission rate must be numeric")
	ErrRateRequired        = errors.New("commission rate must be provided")
	ErrRateNegative        = errors.New("commission rate must not be negative")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidStartDate    = errors.New("invalid start date")
	ErrInvalidEndDate      = errors.New("invalid end date")
	ErrStartAfterEnd       = errors.New("start date after end date")
	ErrHoursNotPositive    = errors.New("hours must be positive")
	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrEmptyMemberID       = errors.New("union member id must be provided")
	ErrDuesNotNumeric      = errors.New("union dues rate must be numeric")
	ErrDuesNegative        = errors.New("union dues rate must not be negative")
	ErrDuplicateMemberID   = errors.New("union member id already in use")
	ErrBankDetailsRequired = errors.New("bank, branch and account must be provided")
	ErrInvalidMethod       = errors.New("invalid payment method")

	// Not-found errors.
	ErrEmployeeNotFound = errors.New("employee does not exist")
	ErrMemberNotFound   = errors.New("union member does not exist")
	ErrNameNotFound     = errors.New("no employee with that name")

	// Domain-rule errors.
	ErrNotHourly       = errors.New("employee is not hourly")
	ErrNotCommissioned = errors.New("employee is not commissioned")
	ErrNotUnionMember  = errors.New("employee is not a union member")
	ErrNotBankPaid     = errors.New("employee is not paid by bank transfer")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// CalculationError marks a payroll-run computation failure; it aborts the
// whole run before anything is committed.
type CalculationError struct {
	EmployeeID string
	Err        error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("payroll calculation failed for employee %s: %v", e.EmployeeID, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsNotFound reports whether the error refers to a missing employee/member.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrNameNotFound)
}

// IsStateError reports an undo/redo request against an empty stack.
func IsStateError(err error) bool {
	return errors.Is(err, history.ErrNothingToUndo) ||
		errors.Is(err, history.ErrNothingToRedo)
}

// IsDomainRule reports an operation inapplicable to the employee's variant.
func IsDomainRule(err error) bool {
	return errors.Is(err, ErrNotHourly) ||
		errors.Is(err, ErrNotCommissioned) ||
		errors.Is(err, ErrNotUnionMember) ||
		errors.Is(err, ErrNotBankPaid)
}

// IsValidation reports malformed or out-of-range input. Everything
// recoverable that is neither not-found, state, nor domain-rule counts,
// including the schedule grammar rejections (schedule.ErrInvalidDescriptor,
// schedule.ErrAlreadyRegistered, schedule.ErrNotRegistered).
func IsValidation(err error) bool {
	return err != nil && !IsNotFound(err) && !IsStateError(err) && !IsDomainRule(err)
}
