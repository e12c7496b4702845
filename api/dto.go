/*
dto.go - Request/response data structures

PURPOSE:
  Wire shapes for the REST API. Domain entities already carry JSON tags
  and serve as their own response bodies; this file holds the request
  payloads and the few composite responses (calendar window, leaderboard)
  that aggregate across entities.

DESIGN NOTE:
  Event and chore requests embed factory.RuleJSON so recurrence fields
  are validated by the same factory everywhere - there is exactly one
  place that decides what a storable rule looks like.

SEE ALSO:
  - handlers.go: Handler implementations
  - factory/rule.go: Rule validation
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/hearth/household-engine/calendar"
	"github.com/hearth/household-engine/chores"
	"github.com/hearth/household-engine/factory"
	"github.com/hearth/household-engine/household"
)

// =============================================================================
// REQUESTS
// =============================================================================

// CreateFamilyRequest creates a household plus its owning parent member.
type CreateFamilyRequest struct {
	Name      string `json:"name"`
	OwnerName string `json:"owner_name"`
	Timezone  string `json:"timezone,omitempty"`
}

// UpdatePlanRequest switches a family's plan by provider price ID. An
// empty or unknown price ID resolves to the free tier.
type UpdatePlanRequest struct {
	PriceID string `json:"price_id"`
}

type AddMemberRequest struct {
	DisplayName string         `json:"display_name"`
	Role        household.Role `json:"role"`
	Color       string         `json:"color,omitempty"`
	AvatarURL   string         `json:"avatar_url,omitempty"`
}

type CreateInvitationRequest struct {
	Email string         `json:"email"`
	Role  household.Role `json:"role"`
}

// AcceptInvitationRequest carries the joining member's profile.
type AcceptInvitationRequest struct {
	DisplayName string `json:"display_name"`
	Color       string `json:"color,omitempty"`
}

// EventRequest is the create/update payload for calendar events. The
// embedded RuleJSON supplies start/end and the recurrence fields.
type EventRequest struct {
	Title       string   `json:"title"`
	Location    string   `json:"location,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Color       string   `json:"color,omitempty"`
	CreatedBy   string   `json:"created_by,omitempty"`
	AttendeeIDs []string `json:"attendee_ids,omitempty"`

	factory.RuleJSON
}

// ChoreRequest is the create/update payload for chores.
type ChoreRequest struct {
	Title       string          `json:"title"`
	Notes       string          `json:"notes,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Points      decimal.Decimal `json:"points"`
	AssigneeIDs []string        `json:"assignee_ids,omitempty"`

	factory.RuleJSON
}

// CompleteChoreRequest marks a chore occurrence done.
type CompleteChoreRequest struct {
	MemberID string `json:"member_id"`

	// Day is any instant within the occurrence day being completed (unix ms).
	Day int64 `json:"day"`
}

// =============================================================================
// RESPONSES
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// InvitationCreatedResponse is the one place the opaque token crosses
// the wire; list endpoints never include it.
type InvitationCreatedResponse struct {
	household.Invitation
	Token string `json:"token"`
}

// CalendarResponse is the expanded window view: every event and chore
// occurrence whose start falls inside [range_start, range_end].
type CalendarResponse struct {
	RangeStart int64                    `json:"range_start"`
	RangeEnd   int64                    `json:"range_end"`
	Events     []calendar.EventInstance `json:"events"`
	Chores     []chores.ChoreInstance   `json:"chores"`
}

// BoardResponse is the day-grouped chore board for a window.
type BoardResponse struct {
	Days []chores.BoardDay `json:"days"`
}

// PointsResponse is the family leaderboard, highest total first.
type PointsResponse struct {
	Totals []chores.MemberTotal `json:"totals"`
}
