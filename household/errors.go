/*
errors.go - Centralized error types for the household domain

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  The recurrence engine itself raises nothing - partial rules resolve to
  fallbacks - so everything here belongs to the CRUD surface around it.

USAGE:
  HTTP handlers map these to status codes:

    if household.IsNotFound(err) { http 404 }
    if household.IsClientError(err) { http 409/400 }
*/
package household

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrFamilyNotFound     = errors.New("family not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrChoreNotFound      = errors.New("chore not found")
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrInvitationClosed is returned when accepting or declining an
	// invitation that already left the pending state.
	ErrInvitationClosed = errors.New("invitation already resolved")

	// ErrInvitationExpired is returned when accepting past the deadline.
	ErrInvitationExpired = errors.New("invitation expired")

	// ErrDuplicateCompletion enforces one completion per chore+member+day.
	// Expected on double-taps and request retries.
	ErrDuplicateCompletion = errors.New("chore already completed for this day")

	// ErrChildLimitReached is returned when the family's plan caps child
	// members and the cap is hit.
	ErrChildLimitReached = errors.New("plan child limit reached")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ChildLimitError reports which plan limit blocked a new child member.
type ChildLimitError struct {
	Plan  PlanName
	Limit int
}

func (e *ChildLimitError) Error() string {
	return fmt.Sprintf("plan %q allows at most %d children", e.Plan, e.Limit)
}

func (e *ChildLimitError) Unwrap() error { return ErrChildLimitReached }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFamilyNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrChoreNotFound) ||
		errors.Is(err, ErrInvitationNotFound)
}

// IsClientError returns true if the error is the caller's doing rather
// than a storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateCompletion) ||
		errors.Is(err, ErrInvitationClosed) ||
		errors.Is(err, ErrInvitationExpired) ||
		errors.Is(err, ErrChildLimitReached)
}
